// Package dataset loads labelled feature matrices and partitions them for experiments.
package dataset

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Dataset is a feature matrix with one integer label per row.
type Dataset struct {
	X *mat.Dense
	Y []int
}

// Source is some provider of a dataset, for example a file on disk or an in-memory fixture.
type Source interface {
	Load() (Dataset, error)
}

// New creates a dataset, checking that there is a label for every row.
func New(x *mat.Dense, y []int) (Dataset, error) {
	d := Dataset{X: x, Y: y}
	if x == nil {
		return Dataset{}, errors.New("dataset has no feature matrix")
	}
	if n := d.Len(); n != len(y) {
		return Dataset{}, errors.Errorf("dataset has %d rows but %d labels", n, len(y))
	}
	return d, nil
}

// Len is the number of samples.
func (d Dataset) Len() int {
	if d.X == nil {
		return 0
	}
	r, _ := d.X.Dims()
	return r
}

// Dim is the number of features of each sample.
func (d Dataset) Dim() int {
	if d.X == nil {
		return 0
	}
	_, c := d.X.Dims()
	return c
}

// Subset copies the rows at the given indices into a new dataset, in index order.
func (d Dataset) Subset(indices []int) Dataset {
	x := mat.NewDense(len(indices), d.Dim(), nil)
	y := make([]int, len(indices))
	for i, idx := range indices {
		x.SetRow(i, d.X.RawRowView(idx))
		y[i] = d.Y[idx]
	}
	return Dataset{X: x, Y: y}
}

// Copy returns a deep copy of the dataset.
func (d Dataset) Copy() Dataset {
	y := make([]int, len(d.Y))
	copy(y, d.Y)
	return Dataset{X: mat.DenseCopyOf(d.X), Y: y}
}

// MemorySource serves a dataset held in memory. Each call to Load returns a fresh copy.
type MemorySource struct {
	d Dataset
}

// NewMemorySource creates a source out of an existing dataset.
func NewMemorySource(d Dataset) MemorySource {
	return MemorySource{d: d}
}

func (m MemorySource) Load() (Dataset, error) {
	if m.d.X == nil {
		return Dataset{}, errors.New("memory source is empty")
	}
	return m.d.Copy(), nil
}
