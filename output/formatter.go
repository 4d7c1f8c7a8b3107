package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/google/uuid"
	"github.com/hscells/svmbench/pipeline"
	"time"
)

// ReportFormatter turns the results of a benchmark run into text.
type ReportFormatter func(results []pipeline.Result) (string, error)

// TextReportFormatter writes one line per evaluated method with its accuracy and training time.
func TextReportFormatter(results []pipeline.Result) (string, error) {
	var b bytes.Buffer
	for _, r := range results {
		if r.Type != pipeline.Evaluation {
			continue
		}
		fmt.Fprintf(&b, "Score with %s: %f (took %f seconds)\n", r.Method, r.Accuracy, r.Seconds())
	}
	return b.String(), nil
}

type methodReport struct {
	Method      string             `json:"method"`
	Accuracy    float64            `json:"accuracy"`
	Seconds     float64            `json:"seconds"`
	Evaluations map[string]float64 `json:"evaluations,omitempty"`
}

type runReport struct {
	Run       string         `json:"run"`
	Time      time.Time      `json:"time"`
	Seed      uint64         `json:"seed"`
	TrainSize int            `json:"train_size"`
	TestSize  int            `json:"test_size"`
	Files     []string       `json:"files,omitempty"`
	Methods   []methodReport `json:"methods"`
}

// JsonReportFormatter outputs the split and every evaluation of a run in a JSON format. Each report
// carries a fresh run identifier.
func JsonReportFormatter(results []pipeline.Result) (string, error) {
	report := runReport{
		Run:     uuid.New().String(),
		Time:    time.Now().UTC(),
		Methods: []methodReport{},
	}
	for _, r := range results {
		switch r.Type {
		case pipeline.Split:
			report.Seed = r.Seed
			report.TrainSize = r.TrainSize
			report.TestSize = r.TestSize
		case pipeline.Persisted:
			report.Files = append(report.Files, r.Files...)
		case pipeline.Evaluation:
			report.Methods = append(report.Methods, methodReport{
				Method:      r.Method,
				Accuracy:    r.Accuracy,
				Seconds:     r.Seconds(),
				Evaluations: r.Evaluations,
			})
		}
	}
	v, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return "", err
	}
	return string(v), nil
}
