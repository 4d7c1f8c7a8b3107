// Package preprocess handles preprocessing and transformation of labels and feature matrices.
package preprocess

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"math"
)

// ErrNonPositiveMax is returned when a matrix cannot be scaled by its maximum.
var ErrNonPositiveMax = errors.New("feature matrix maximum is not positive")

// LabelTransformation is applied to labels before splitting.
type LabelTransformation func(y []int) []int

// FeatureTransformation is applied to the feature matrix before splitting.
type FeatureTransformation func(x *mat.Dense) (*mat.Dense, error)

// Binarize turns multi-class labels into an odd/even task: even labels become -1 and odd labels +1.
func Binarize(y []int) []int {
	b := make([]int, len(y))
	for i, v := range y {
		// Go keeps the sign of the dividend, negative odd numbers must still map to 1.
		p := v % 2
		if p < 0 {
			p = -p
		}
		b[i] = 2*p - 1
	}
	return b
}

// Normalize divides every element of x by the largest element of x. The result lies in [0, 1] for
// non-negative input and its maximum is exactly 1.
func Normalize(x *mat.Dense) (*mat.Dense, error) {
	if x == nil || x.IsEmpty() {
		return nil, errors.New("cannot normalize an empty matrix")
	}
	max := mat.Max(x)
	if !(max > 0) || math.IsInf(max, 1) {
		return nil, errors.Wrapf(ErrNonPositiveMax, "maximum is %v", max)
	}
	var n mat.Dense
	n.Apply(func(_, _ int, v float64) float64 {
		return v / max
	}, x)
	return &n, nil
}

// AddBias appends a constant column of ones to x, giving a linear model an intercept term.
func AddBias(x *mat.Dense) *mat.Dense {
	r, c := x.Dims()
	b := mat.NewDense(r, c+1, nil)
	b.Slice(0, r, 0, c).(*mat.Dense).Copy(x)
	for i := 0; i < r; i++ {
		b.Set(i, c, 1)
	}
	return b
}

// Apply runs each transformation over x in order.
func Apply(x *mat.Dense, transformations ...FeatureTransformation) (*mat.Dense, error) {
	var err error
	for _, t := range transformations {
		x, err = t(x)
		if err != nil {
			return nil, err
		}
	}
	return x, nil
}

// Bias is AddBias as a FeatureTransformation.
func Bias(x *mat.Dense) (*mat.Dense, error) {
	return AddBias(x), nil
}
