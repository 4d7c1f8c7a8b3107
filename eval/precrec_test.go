package eval_test

import (
	"github.com/hscells/svmbench/eval"
	"math"
	"testing"
)

var (
	truth     = []int{1, 1, 1, -1, -1, -1, -1, 1}
	predicted = []int{1, -1, 1, -1, 1, -1, 0, 1}
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func TestAccuracy(t *testing.T) {
	if s := eval.Accuracy.Score(truth, predicted); !near(s, 5.0/8) {
		t.Fatalf("accuracy %v", s)
	}
	if s := eval.Accuracy.Score(nil, nil); s != 0 {
		t.Fatalf("accuracy of nothing %v", s)
	}
	if s := eval.Accuracy.Score(truth, truth); s != 1 {
		t.Fatalf("accuracy of truth %v", s)
	}
}

func TestPrecisionRecall(t *testing.T) {
	// tp=3, fp=1, fn=1
	if s := eval.Precision.Score(truth, predicted); !near(s, 0.75) {
		t.Fatalf("precision %v", s)
	}
	if s := eval.Recall.Score(truth, predicted); !near(s, 0.75) {
		t.Fatalf("recall %v", s)
	}
	if s := eval.F1Measure.Score(truth, predicted); !near(s, 0.75) {
		t.Fatalf("f1 %v", s)
	}
	none := []int{-1, -1, -1, -1, -1, -1, -1, -1}
	if s := eval.Precision.Score(truth, none); s != 0 {
		t.Fatalf("precision without positives %v", s)
	}
	if s := eval.F1Measure.Score(truth, none); s != 0 {
		t.Fatalf("f1 without positives %v", s)
	}
}

func TestEvaluate(t *testing.T) {
	scores := eval.Evaluate([]eval.Evaluator{eval.Accuracy, eval.Precision, eval.Recall, eval.F1Measure, eval.F05Measure}, truth, predicted)
	if len(scores) != 5 {
		t.Fatalf("got %d scores", len(scores))
	}
	for _, name := range []string{"Accuracy", "Precision", "Recall", "F1", "F05"} {
		if _, ok := scores[name]; !ok {
			t.Fatalf("missing %s", name)
		}
	}
	t.Log(scores)
}

func TestMismatchedLengths(t *testing.T) {
	short := predicted[:len(predicted)-3]
	for _, e := range []eval.Evaluator{eval.Accuracy, eval.Precision, eval.Recall, eval.F1Measure} {
		if s := e.Score(truth, short); s != 0 {
			t.Fatalf("%s of mismatched labels %v", e.Name(), s)
		}
		if s := e.Score(short, truth); s != 0 {
			t.Fatalf("%s of mismatched labels %v", e.Name(), s)
		}
	}
}
