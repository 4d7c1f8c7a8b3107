package learning

import (
	"github.com/hscells/svmbench/eval"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Classifier is an abstract representation of a binary classifier. Fit trains the classifier in
// place, after which Predict labels new samples with the same number of features.
type Classifier interface {
	// Fit must train the model on the rows of x labelled by y.
	Fit(x mat.Matrix, y []int) error
	// Predict must label every row of x.
	Predict(x mat.Matrix) ([]int, error)
}

// Score is the accuracy of a fitted classifier on the rows of x labelled by y.
func Score(c Classifier, x mat.Matrix, y []int) (float64, error) {
	p, err := c.Predict(x)
	if err != nil {
		return 0, err
	}
	if len(p) != len(y) {
		return 0, errors.Errorf("%d predictions for %d labels", len(p), len(y))
	}
	return eval.Accuracy.Score(y, p), nil
}

// rows views the rows of x as slices. Dense matrices are not copied.
func rows(x mat.Matrix) [][]float64 {
	r, c := x.Dims()
	v := make([][]float64, r)
	if d, ok := x.(mat.RawMatrixer); ok {
		raw := d.RawMatrix()
		for i := range v {
			v[i] = raw.Data[i*raw.Stride : i*raw.Stride+c]
		}
		return v
	}
	for i := range v {
		v[i] = mat.Row(nil, i, x)
	}
	return v
}

// examples checks that x and y describe the same number of samples and returns the rows of x.
func examples(x mat.Matrix, y []int) ([][]float64, error) {
	if x == nil {
		return nil, errors.New("no training samples")
	}
	r, c := x.Dims()
	if r == 0 || c == 0 {
		return nil, errors.New("no training samples")
	}
	if r != len(y) {
		return nil, errors.Errorf("%d samples but %d labels", r, len(y))
	}
	return rows(x), nil
}
