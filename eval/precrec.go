package eval

import (
	"math"
	"strconv"
	"strings"
)

type accuracyEvaluator struct{}
type recallEvaluator struct{}
type precisionEvaluator struct{}

// FMeasure computes f-measure, with the beta parameter controlling the precision and recall trade-off.
type FMeasure struct {
	beta float64
}

var (
	// Accuracy is the fraction of predictions equal to the true label.
	Accuracy = accuracyEvaluator{}
	// Recall is the fraction of positive samples predicted positive.
	Recall = recallEvaluator{}
	// Precision is the fraction of positive predictions that are correct.
	Precision = precisionEvaluator{}

	// F1Measure is f-measure with beta=1.
	F1Measure = FMeasure{beta: 1}
	// F05Measure is f-measure with beta=0.5.
	F05Measure = FMeasure{beta: 0.5}
	// F3Measure is f-measure with beta=3.
	F3Measure = FMeasure{beta: 3}
)

type confusion struct {
	tp, tn, fp, fn float64
}

// count tallies the confusion matrix. Mismatched lengths give an empty matrix.
func count(truth, predicted []int) (c confusion) {
	if len(truth) != len(predicted) {
		return
	}
	for i, y := range truth {
		p := predicted[i]
		switch {
		case p == PositiveLabel && y == PositiveLabel:
			c.tp++
		case p == PositiveLabel:
			c.fp++
		case y == PositiveLabel:
			c.fn++
		default:
			c.tn++
		}
	}
	return
}

func (accuracyEvaluator) Name() string {
	return "Accuracy"
}

func (accuracyEvaluator) Score(truth, predicted []int) float64 {
	if len(truth) == 0 || len(truth) != len(predicted) {
		return 0
	}
	correct := 0.0
	for i, y := range truth {
		if predicted[i] == y {
			correct++
		}
	}
	return correct / float64(len(truth))
}

func (recallEvaluator) Name() string {
	return "Recall"
}

func (recallEvaluator) Score(truth, predicted []int) float64 {
	c := count(truth, predicted)
	if c.tp+c.fn == 0 {
		return 0
	}
	return c.tp / (c.tp + c.fn)
}

func (precisionEvaluator) Name() string {
	return "Precision"
}

func (precisionEvaluator) Score(truth, predicted []int) float64 {
	c := count(truth, predicted)
	if c.tp+c.fp == 0 {
		return 0
	}
	return c.tp / (c.tp + c.fp)
}

func (f FMeasure) Name() string {
	if f.beta == 1 {
		return "F1"
	}
	return "F" + formatBeta(f.beta)
}

func (f FMeasure) Score(truth, predicted []int) float64 {
	p := Precision.Score(truth, predicted)
	r := Recall.Score(truth, predicted)
	b2 := math.Pow(f.beta, 2)
	if p+r == 0 {
		return 0
	}
	return (1 + b2) * (p * r) / (b2*p + r)
}

// NewFMeasure creates an f-measure evaluator for an arbitrary beta.
func NewFMeasure(beta float64) FMeasure {
	return FMeasure{beta: beta}
}

// formatBeta writes beta without the decimal point, so 0.5 becomes 05.
func formatBeta(beta float64) string {
	return strings.Replace(strconv.FormatFloat(beta, 'f', -1, 64), ".", "", 1)
}
