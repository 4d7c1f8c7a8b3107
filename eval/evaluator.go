// Package eval scores the predictions of a classifier against the true labels.
package eval

// Evaluator is an interface for evaluating a list of predicted labels. Slices of different lengths
// score 0.
type Evaluator interface {
	Score(truth, predicted []int) float64
	Name() string
}

// PositiveLabel is the class precision, recall and f-measure are computed for.
const PositiveLabel = 1

// Evaluate scores predictions using the supplied evaluation measures, keyed by measure name.
func Evaluate(evaluators []Evaluator, truth, predicted []int) map[string]float64 {
	scores := make(map[string]float64, len(evaluators))
	for _, evaluator := range evaluators {
		scores[evaluator.Name()] = evaluator.Score(truth, predicted)
	}
	return scores
}
