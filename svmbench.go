// Package svmbench provides a reproducible benchmark of binary support vector machine solvers.
package svmbench

import (
	"github.com/hscells/svmbench/dataset"
	"github.com/hscells/svmbench/eval"
	"github.com/hscells/svmbench/learning"
	"github.com/hscells/svmbench/output"
	"github.com/hscells/svmbench/pipeline"
	"github.com/hscells/svmbench/preprocess"
	"github.com/pkg/errors"
	"log"
	"time"
)

// Method is a classifier under benchmark.
type Method struct {
	Name  string
	Model learning.Classifier
	// Bias appends a constant feature before fitting, for models without an intercept of their own.
	Bias bool
}

// SplitOptions configures how the dataset is partitioned.
type SplitOptions struct {
	TestSize float64
	Seed     uint64
}

// Pipeline contains all the information for executing a benchmark run.
type Pipeline struct {
	Source      dataset.Source
	Binarizer   preprocess.LabelTransformation
	Normaliser  preprocess.FeatureTransformation
	Split       SplitOptions
	Persisters  []output.ArrayPersister
	Methods     []Method
	Evaluations []eval.Evaluator
}

// Methods adds classifiers to the pipeline. They are trained in order.
func Methods(methods ...Method) func() interface{} {
	return func() interface{} {
		return methods
	}
}

// Evaluation adds evaluation measures to the pipeline. Accuracy is always reported.
func Evaluation(measures ...eval.Evaluator) func() interface{} {
	return func() interface{} {
		return measures
	}
}

// Persist writes the split arrays as .npy files into dir.
func Persist(dir string) func() interface{} {
	return func() interface{} {
		return output.ArrayPersister(output.NewNpyPersister(dir))
	}
}

// PersistSvmLight writes the split as libsvm text files into dir.
func PersistSvmLight(dir string) func() interface{} {
	return func() interface{} {
		return output.ArrayPersister(output.NewSvmLightPersister(dir))
	}
}

// Split configures the test fraction and seed of the train/test partition.
func Split(testSize float64, seed uint64) func() interface{} {
	return func() interface{} {
		return SplitOptions{TestSize: testSize, Seed: seed}
	}
}

// Labels replaces the label transformation.
func Labels(t preprocess.LabelTransformation) func() interface{} {
	return func() interface{} {
		return t
	}
}

// Features replaces the feature transformation.
func Features(t preprocess.FeatureTransformation) func() interface{} {
	return func() interface{} {
		return t
	}
}

// NewPipeline creates a new benchmark pipeline. The dataset source is required. By default labels are
// binarised by parity, features are scaled by their maximum, and a quarter of the data is held out with
// seed 0. Additional components are provided via the optional functional arguments.
func NewPipeline(source dataset.Source, components ...func() interface{}) Pipeline {
	p := Pipeline{
		Source:     source,
		Binarizer:  preprocess.Binarize,
		Normaliser: preprocess.Normalize,
		Split:      SplitOptions{TestSize: dataset.DefaultTestSize},
	}

	for _, component := range components {
		val := component()
		switch v := val.(type) {
		case []Method:
			p.Methods = v
		case []eval.Evaluator:
			p.Evaluations = v
		case output.ArrayPersister:
			p.Persisters = append(p.Persisters, v)
		case SplitOptions:
			p.Split = v
		case preprocess.LabelTransformation:
			p.Binarizer = v
		case preprocess.FeatureTransformation:
			p.Normaliser = v
		}
	}

	return p
}

// Execute runs the benchmark, sending a result on c for each completed stage. The channel is closed when
// the pipeline finishes; an Error result means it stopped early.
func (p Pipeline) Execute(c chan pipeline.Result) {
	defer close(c)

	fail := func(err error) {
		c <- pipeline.Result{
			Error: err,
			Type:  pipeline.Error,
		}
	}

	if p.Source == nil {
		fail(errors.New("pipeline has no dataset source"))
		return
	}

	log.Println("loading dataset...")
	d, err := p.Source.Load()
	if err != nil {
		fail(errors.Wrap(err, "loading dataset"))
		return
	}
	log.Printf("loaded %d samples with %d features", d.Len(), d.Dim())

	if p.Binarizer != nil {
		d.Y = p.Binarizer(d.Y)
	}
	if p.Normaliser != nil {
		d.X, err = p.Normaliser(d.X)
		if err != nil {
			fail(errors.Wrap(err, "normalising features"))
			return
		}
	}

	s, err := dataset.TrainTestSplit(d, p.Split.TestSize, p.Split.Seed)
	if err != nil {
		fail(errors.Wrap(err, "splitting dataset"))
		return
	}
	c <- pipeline.Result{
		Type:      pipeline.Split,
		Seed:      p.Split.Seed,
		TrainSize: s.Train.Len(),
		TestSize:  s.Test.Len(),
	}

	for _, persister := range p.Persisters {
		log.Println("persisting arrays...")
		files, err := persister.Persist(s)
		if err != nil {
			fail(errors.Wrap(err, "persisting arrays"))
			return
		}
		c <- pipeline.Result{
			Type:  pipeline.Persisted,
			Files: files,
		}
	}

	var biased *dataset.Split
	for _, m := range p.Methods {
		train, test := s.Train, s.Test
		if m.Bias {
			if biased == nil {
				biased = &dataset.Split{
					Train: dataset.Dataset{X: preprocess.AddBias(s.Train.X), Y: s.Train.Y},
					Test:  dataset.Dataset{X: preprocess.AddBias(s.Test.X), Y: s.Test.Y},
				}
			}
			train, test = biased.Train, biased.Test
		}

		log.Printf("training %s...", m.Name)
		start := time.Now()
		err := m.Model.Fit(train.X, train.Y)
		elapsed := time.Since(start)
		if err != nil {
			fail(errors.Wrapf(err, "fitting %s", m.Name))
			return
		}

		predicted, err := m.Model.Predict(test.X)
		if err != nil {
			fail(errors.Wrapf(err, "testing %s", m.Name))
			return
		}
		evaluations := eval.Evaluate(p.Evaluations, test.Y, predicted)
		c <- pipeline.Result{
			Type:        pipeline.Evaluation,
			Method:      m.Name,
			Accuracy:    eval.Accuracy.Score(test.Y, predicted),
			Elapsed:     elapsed,
			Evaluations: evaluations,
		}
	}

	c <- pipeline.Result{
		Type: pipeline.Done,
	}
}

// Run executes the pipeline and collects its results, returning the first error raised.
func (p Pipeline) Run() ([]pipeline.Result, error) {
	c := make(chan pipeline.Result)
	go p.Execute(c)

	var results []pipeline.Result
	var err error
	for result := range c {
		if result.Type == pipeline.Error && err == nil {
			err = result.Error
		}
		results = append(results, result)
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}
