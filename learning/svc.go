package learning

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"log"
	"math"
	"sort"
)

// tau replaces a non-positive curvature when selecting and updating a working set.
const tau = 1e-12

// SVC is a C-support vector classifier. It solves the dual problem
//   min 1/2 a'Qa - e'a, subject to 0 <= a[i] <= C and y'a = 0,
// where Q[i][j] = y[i]*y[j]*K(x[i], x[j]), with sequential minimal optimisation using
// second order working set selection.
type SVC struct {
	Kernel    Kernel
	C         float64
	Tol       float64 // stopping tolerance on the maximal violating pair
	CacheSize int     // kernel rows kept in memory, zero for all of them
	MaxIter   int     // zero picks max(10000000, 100*n)
	Verbose   bool

	// Classes holds the negative and positive label, in that order.
	Classes [2]int
	// SupportVectors are the training samples with a non-zero dual variable, SupportIndices their rows.
	SupportVectors [][]float64
	SupportIndices []int
	// DualCoef is a[i]*y[i] for each support vector.
	DualCoef []float64
	// Intercept is added to the kernel expansion to give the decision value.
	Intercept float64
	// NSupport counts the support vectors of each class, ordered as Classes.
	NSupport [2]int
	// Iterations is the number of SMO steps taken.
	Iterations int

	kernel Kernel
	w      []float64
}

// NewSVC creates a support vector classifier with libsvm's default tolerance.
func NewSVC(kernel Kernel, c float64) *SVC {
	return &SVC{
		Kernel: kernel,
		C:      c,
		Tol:    1e-3,
	}
}

// Fit trains the classifier. y must contain exactly two distinct labels; the larger one is treated as the
// positive class.
func (s *SVC) Fit(x mat.Matrix, y []int) error {
	switch {
	case s.Kernel == nil:
		return errors.New("svc has no kernel")
	case !(s.C > 0):
		return errors.Errorf("C must be positive, got %v", s.C)
	case !(s.Tol > 0):
		return errors.Errorf("tolerance must be positive, got %v", s.Tol)
	}
	xs, err := examples(x, y)
	if err != nil {
		return err
	}
	classes, err := binaryClasses(y)
	if err != nil {
		return err
	}

	n := len(xs)
	yy := make([]float64, n)
	for i, v := range y {
		if v == classes[1] {
			yy[i] = 1
		} else {
			yy[i] = -1
		}
	}

	s.kernel = ScaleGamma(s.Kernel, xs)
	q, err := newQMatrix(xs, yy, s.kernel, s.CacheSize)
	if err != nil {
		return err
	}

	maxIter := s.MaxIter
	if maxIter <= 0 {
		maxIter = 10000000
		if 100*n > maxIter {
			maxIter = 100 * n
		}
	}

	var (
		c     = s.C
		alpha = make([]float64, n)
		grad  = make([]float64, n)
		iter  int
	)
	for i := range grad {
		grad[i] = -1
	}

	for ; iter < maxIter; iter++ {
		i, j, ok := selectWorkingSet(q, yy, alpha, grad, c, s.Tol)
		if !ok {
			break
		}
		qi, qj := q.row(i), q.row(j)
		oldI, oldJ := alpha[i], alpha[j]

		if yy[i] != yy[j] {
			quad := q.diag[i] + q.diag[j] + 2*qi[j]
			if quad <= 0 {
				quad = tau
			}
			delta := (-grad[i] - grad[j]) / quad
			diff := alpha[i] - alpha[j]
			alpha[i] += delta
			alpha[j] += delta
			if diff > 0 {
				if alpha[j] < 0 {
					alpha[j] = 0
					alpha[i] = diff
				}
			} else if alpha[i] < 0 {
				alpha[i] = 0
				alpha[j] = -diff
			}
			if diff > 0 {
				if alpha[i] > c {
					alpha[i] = c
					alpha[j] = c - diff
				}
			} else if alpha[j] > c {
				alpha[j] = c
				alpha[i] = c + diff
			}
		} else {
			quad := q.diag[i] + q.diag[j] - 2*qi[j]
			if quad <= 0 {
				quad = tau
			}
			delta := (grad[i] - grad[j]) / quad
			sum := alpha[i] + alpha[j]
			alpha[i] -= delta
			alpha[j] += delta
			if sum > c {
				if alpha[i] > c {
					alpha[i] = c
					alpha[j] = sum - c
				}
			} else if alpha[j] < 0 {
				alpha[j] = 0
				alpha[i] = sum
			}
			if sum > c {
				if alpha[j] > c {
					alpha[j] = c
					alpha[i] = sum - c
				}
			} else if alpha[i] < 0 {
				alpha[i] = 0
				alpha[j] = sum
			}
		}

		dI, dJ := alpha[i]-oldI, alpha[j]-oldJ
		for t := range grad {
			grad[t] += qi[t]*dI + qj[t]*dJ
		}
	}
	if iter >= maxIter {
		log.Printf("svc: reached max number of iterations (%d)", maxIter)
	}
	if s.Verbose {
		log.Printf("svc: optimisation finished, #iter = %d, kernel cache hits %d misses %d", iter, q.hits, q.misses)
	}

	rho := calculateRho(yy, alpha, grad, c)

	s.Classes = classes
	s.Iterations = iter
	s.Intercept = -rho
	s.SupportVectors, s.SupportIndices, s.DualCoef = nil, nil, nil
	s.NSupport = [2]int{}
	for i, a := range alpha {
		if a <= 0 {
			continue
		}
		s.SupportIndices = append(s.SupportIndices, i)
		s.SupportVectors = append(s.SupportVectors, append([]float64(nil), xs[i]...))
		s.DualCoef = append(s.DualCoef, a*yy[i])
		if yy[i] > 0 {
			s.NSupport[1]++
		} else {
			s.NSupport[0]++
		}
	}

	s.w = nil
	if _, ok := s.kernel.(Linear); ok {
		s.w = make([]float64, len(xs[0]))
		for k, sv := range s.SupportVectors {
			floats.AddScaled(s.w, s.DualCoef[k], sv)
		}
	}
	if s.Verbose {
		log.Printf("svc: nSV = %d, rho = %f", len(s.SupportIndices), rho)
	}
	return nil
}

// selectWorkingSet picks the maximal violating index i and the j giving the largest decrease of the
// objective with i. It reports false when the pair violates the optimality conditions by less than tol.
func selectWorkingSet(q *qMatrix, y, alpha, grad []float64, c, tol float64) (int, int, bool) {
	gmax, gmax2 := math.Inf(-1), math.Inf(-1)
	i := -1
	for t := range alpha {
		if y[t] > 0 {
			if alpha[t] < c && -grad[t] >= gmax {
				gmax = -grad[t]
				i = t
			}
		} else if alpha[t] > 0 && grad[t] >= gmax {
			gmax = grad[t]
			i = t
		}
	}
	if i == -1 {
		return 0, 0, false
	}

	qi := q.row(i)
	j := -1
	objDiffMin := math.Inf(1)
	for t := range alpha {
		var gradDiff, quad float64
		if y[t] > 0 {
			if !(alpha[t] > 0) {
				continue
			}
			if grad[t] >= gmax2 {
				gmax2 = grad[t]
			}
			gradDiff = gmax + grad[t]
			quad = q.diag[i] + q.diag[t] - 2*y[i]*qi[t]
		} else {
			if !(alpha[t] < c) {
				continue
			}
			if -grad[t] >= gmax2 {
				gmax2 = -grad[t]
			}
			gradDiff = gmax - grad[t]
			quad = q.diag[i] + q.diag[t] + 2*y[i]*qi[t]
		}
		if gradDiff <= 0 {
			continue
		}
		if quad <= 0 {
			quad = tau
		}
		if objDiff := -(gradDiff * gradDiff) / quad; objDiff <= objDiffMin {
			j = t
			objDiffMin = objDiff
		}
	}
	if gmax+gmax2 < tol || j == -1 {
		return 0, 0, false
	}
	return i, j, true
}

// calculateRho averages y*grad over free variables, falling back to the middle of the feasible range.
func calculateRho(y, alpha, grad []float64, c float64) float64 {
	var (
		ub, lb  = math.Inf(1), math.Inf(-1)
		nFree   int
		sumFree float64
	)
	for i, a := range alpha {
		yg := y[i] * grad[i]
		switch {
		case a >= c:
			if y[i] < 0 {
				ub = math.Min(ub, yg)
			} else {
				lb = math.Max(lb, yg)
			}
		case a <= 0:
			if y[i] > 0 {
				ub = math.Min(ub, yg)
			} else {
				lb = math.Max(lb, yg)
			}
		default:
			nFree++
			sumFree += yg
		}
	}
	if nFree > 0 {
		return sumFree / float64(nFree)
	}
	return (ub + lb) / 2
}

func binaryClasses(y []int) ([2]int, error) {
	seen := make(map[int]struct{})
	for _, v := range y {
		seen[v] = struct{}{}
	}
	if len(seen) != 2 {
		return [2]int{}, errors.Errorf("svc needs exactly two classes, got %d", len(seen))
	}
	var classes []int
	for v := range seen {
		classes = append(classes, v)
	}
	sort.Ints(classes)
	return [2]int{classes[0], classes[1]}, nil
}

// Decision is the signed distance of each row of x from the separating surface. Positive values belong
// to the positive class.
func (s *SVC) Decision(x mat.Matrix) ([]float64, error) {
	if s.kernel == nil {
		return nil, errors.New("svc is not fitted")
	}
	xs := rows(x)
	d := make([]float64, len(xs))
	for i, xi := range xs {
		if len(s.SupportVectors) > 0 && len(xi) != len(s.SupportVectors[0]) {
			return nil, errors.Errorf("sample has %d features, model expects %d", len(xi), len(s.SupportVectors[0]))
		}
		if s.w != nil {
			d[i] = floats.Dot(s.w, xi) + s.Intercept
			continue
		}
		v := s.Intercept
		for k, sv := range s.SupportVectors {
			v += s.DualCoef[k] * s.kernel.Eval(sv, xi)
		}
		d[i] = v
	}
	return d, nil
}

// Predict labels each row of x with one of the two training classes.
func (s *SVC) Predict(x mat.Matrix) ([]int, error) {
	d, err := s.Decision(x)
	if err != nil {
		return nil, err
	}
	p := make([]int, len(d))
	for i, v := range d {
		if v > 0 {
			p[i] = s.Classes[1]
		} else {
			p[i] = s.Classes[0]
		}
	}
	return p, nil
}

// Coef is the primal weight vector of a linear kernel classifier.
func (s *SVC) Coef() ([]float64, error) {
	if s.w == nil {
		return nil, errors.New("coefficients are only available for a fitted linear kernel")
	}
	return append([]float64(nil), s.w...), nil
}
