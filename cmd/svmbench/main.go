// Command svmbench trains a subgradient structured SVM and a kernel SVM on the odd/even digits task and
// reports the accuracy and training time of each.
package main

import (
	"fmt"
	"github.com/alexflint/go-arg"
	goerrors "github.com/go-errors/errors"
	"github.com/hscells/svmbench"
	"github.com/hscells/svmbench/dataset"
	"github.com/hscells/svmbench/eval"
	"github.com/hscells/svmbench/output"
	"github.com/pkg/errors"
	"io/ioutil"
	"log"
)

var (
	name    = "svmbench"
	version = "19.Oct.2026"
)

type args struct {
	Data     string   `help:"Path to a local digits.csv.gz file, instead of the bundled copy" arg:"-d"`
	Download bool     `help:"Download the dataset into the cache instead of using the bundled copy"`
	Cache    string   `help:"Directory the downloaded dataset is cached in" arg:"-c"`
	Output   string   `help:"Directory to write the .npy split arrays to" arg:"-o"`
	Config   string   `help:"Properties file of hyper-parameters"`
	Seed     *uint64  `help:"Seed of the train/test split (default is 0)" arg:"-s"`
	TestSize *float64 `help:"Fraction of samples held out for testing (default is 0.25)" arg:"-t"`
	SvmLight string   `help:"Directory to also write the split to in libsvm text format"`
	Results  string   `help:"Path to write a JSON report to" arg:"-r"`
	Progress bool     `help:"Show progress bars"`
	Verbose  bool     `help:"Log solver progress" arg:"-v"`
}

func (args) Version() string {
	return version
}

func (args) Description() string {
	return fmt.Sprintf(`%s
Benchmark binary SVM solvers on handwritten digits.`, name)
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stack formats err with the stack trace of where it was raised. Errors that carry no trace are given
// the trace of the caller of fatal.
func stack(err error) string {
	if _, ok := err.(stackTracer); ok {
		return fmt.Sprintf("%+v", err)
	}
	return goerrors.Wrap(err, 2).ErrorStack()
}

func fatal(err error) {
	log.Fatalln(stack(err))
}

func main() {
	var a args
	arg.MustParse(&a)

	config := svmbench.DefaultConfig()
	if len(a.Config) > 0 {
		var err error
		config, err = svmbench.LoadConfig(a.Config)
		if err != nil {
			fatal(err)
		}
	}
	if a.Seed != nil {
		config.Seed = *a.Seed
	}
	if a.TestSize != nil {
		config.TestSize = *a.TestSize
	}
	config.Verbose = a.Verbose
	config.Progress = a.Progress

	methods, err := config.Methods()
	if err != nil {
		fatal(err)
	}

	options := []func(*dataset.DigitsSource){
		dataset.DigitsProgress(a.Progress),
		dataset.DigitsDownload(a.Download),
	}
	if len(a.Data) > 0 {
		options = append(options, dataset.DigitsPath(a.Data))
	}
	if len(a.Cache) > 0 {
		options = append(options, dataset.DigitsCacheDir(a.Cache))
	}

	components := []func() interface{}{
		svmbench.Split(config.TestSize, config.Seed),
		svmbench.Persist(a.Output),
		svmbench.Methods(methods...),
		svmbench.Evaluation(eval.Accuracy, eval.Precision, eval.Recall, eval.F1Measure),
	}
	if len(a.SvmLight) > 0 {
		components = append(components, svmbench.PersistSvmLight(a.SvmLight))
	}
	p := svmbench.NewPipeline(dataset.NewDigitsSource(options...), components...)

	results, err := p.Run()
	if err != nil {
		fatal(err)
	}

	report, err := output.TextReportFormatter(results)
	if err != nil {
		fatal(err)
	}
	fmt.Print(report)

	if len(a.Results) > 0 {
		s, err := output.JsonReportFormatter(results)
		if err != nil {
			fatal(err)
		}
		if err := ioutil.WriteFile(a.Results, []byte(s), 0644); err != nil {
			fatal(err)
		}
	}
}
