// Package pipeline contains the values streamed out of a benchmark pipeline.
package pipeline

import (
	"time"
)

// ResultType is the type of result being returned through a pipeline channel.
type ResultType uint8

const (
	// Split reports the sizes of the train and test partitions.
	Split ResultType = iota
	// Persisted lists the array files written for a split.
	Persisted
	// Evaluation is the outcome of training and testing one method.
	Evaluation
	// Error indicates an error was raised.
	Error
	// Done indicates the pipeline has completed.
	Done
)

func (t ResultType) String() string {
	switch t {
	case Split:
		return "split"
	case Persisted:
		return "persisted"
	case Evaluation:
		return "evaluation"
	case Error:
		return "error"
	case Done:
		return "done"
	}
	return "unknown"
}

// Result is the output of a benchmark pipeline.
type Result struct {
	Type ResultType

	// Method names the classifier of an Evaluation.
	Method string
	// Accuracy on the test partition.
	Accuracy float64
	// Elapsed is the wall clock time spent fitting the method.
	Elapsed time.Duration
	// Evaluations holds every configured measure, keyed by name.
	Evaluations map[string]float64

	// Seed and the partition sizes describe a Split.
	Seed      uint64
	TrainSize int
	TestSize  int
	// Files lists the paths written by a Persisted step.
	Files []string

	Error error
}

// Seconds is the elapsed training time in seconds.
func (r Result) Seconds() float64 {
	return r.Elapsed.Seconds()
}
