package learning

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// StructuredModel describes a structured prediction problem: how an input and a label are jointly
// mapped into feature space, and how the best scoring label is found.
type StructuredModel interface {
	// Size is the length of the joint feature vector for inputs with d features.
	Size(d int) int
	// JointFeature adds alpha*psi(x, y) to dst.
	JointFeature(dst, x []float64, y int, alpha float64)
	// Inference finds the highest scoring label of x under w.
	Inference(x, w []float64) int
	// LossAugmentedInference finds the label maximising the score under w plus the loss against y.
	LossAugmentedInference(x []float64, y int, w []float64) int
	// Loss between the true label y and a prediction.
	Loss(y, yHat int) float64
	// Validate checks the labels can be used with this model.
	Validate(y []int) error
}

// BinaryClf is the structured formulation of a linear binary classifier over labels in {-1, +1}.
// The joint feature is psi(x, y) = y*x/2 and the loss is the zero-one loss.
type BinaryClf struct{}

func (BinaryClf) Size(d int) int {
	return d
}

func (BinaryClf) JointFeature(dst, x []float64, y int, alpha float64) {
	floats.AddScaled(dst, alpha*float64(y)/2, x)
}

// Inference is the sign of w.x. A sample exactly on the boundary gets 0, which matches no label.
func (BinaryClf) Inference(x, w []float64) int {
	return sign(floats.Dot(x, w))
}

func (BinaryClf) LossAugmentedInference(x []float64, y int, w []float64) int {
	return sign(floats.Dot(x, w) - float64(y))
}

func (BinaryClf) Loss(y, yHat int) float64 {
	if y != yHat {
		return 1
	}
	return 0
}

func (BinaryClf) Validate(y []int) error {
	for i, v := range y {
		if v != -1 && v != 1 {
			return errors.Errorf("label %d is %d, binary labels must be -1 or +1", i, v)
		}
	}
	return nil
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
