package learning

import (
	"github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// qMatrix serves rows of Q[i][j] = y[i]*y[j]*K(x[i], x[j]), keeping the most recently used rows in memory.
type qMatrix struct {
	x      [][]float64
	y      []float64
	kernel Kernel
	rows   *lru.Cache
	diag   []float64

	hits, misses int
}

func newQMatrix(x [][]float64, y []float64, kernel Kernel, size int) (*qMatrix, error) {
	if size <= 0 || size > len(x) {
		size = len(x)
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "creating kernel cache")
	}
	q := &qMatrix{
		x:      x,
		y:      y,
		kernel: kernel,
		rows:   c,
		diag:   make([]float64, len(x)),
	}
	for i, xi := range x {
		q.diag[i] = kernel.Eval(xi, xi)
	}
	return q, nil
}

// row returns row i of Q. The slice stays valid after it is evicted from the cache.
func (q *qMatrix) row(i int) []float64 {
	if v, ok := q.rows.Get(i); ok {
		q.hits++
		return v.([]float64)
	}
	q.misses++
	r := make([]float64, len(q.x))
	xi, yi := q.x[i], q.y[i]
	for j, xj := range q.x {
		r[j] = yi * q.y[j] * q.kernel.Eval(xi, xj)
	}
	q.rows.Add(i, r)
	return r
}
