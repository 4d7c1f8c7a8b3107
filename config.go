package svmbench

import (
	"github.com/hscells/svmbench/dataset"
	"github.com/hscells/svmbench/learning"
	"github.com/magiconair/properties"
	"github.com/pkg/errors"
	"strconv"
)

// Names of the benchmarked methods as they appear in reports.
const (
	SSVMMethod = "subgradient ssvm"
	SVCMethod  = "linear kernel svc"
)

// SSVMConfig holds the hyper-parameters of the subgradient structured SVM.
type SSVMConfig struct {
	C             float64
	LearningRate  float64
	MaxIter       int
	BatchSize     int
	DecayExponent float64
	DecayT0       float64
	Momentum      float64
	Averaging     string
}

// SVCConfig holds the hyper-parameters of the kernel SVM.
type SVCConfig struct {
	Kernel    string
	C         float64
	Gamma     float64
	Degree    int
	Coef0     float64
	Tol       float64
	CacheSize int
	MaxIter   int
}

// Config is every tunable of a benchmark run.
type Config struct {
	Seed     uint64
	TestSize float64
	SSVM     SSVMConfig
	SVC      SVCConfig

	Verbose  bool
	Progress bool
}

// DefaultConfig is the standard odd/even digits benchmark.
func DefaultConfig() Config {
	return Config{
		Seed:     0,
		TestSize: dataset.DefaultTestSize,
		SSVM: SSVMConfig{
			C:             10,
			LearningRate:  0.1,
			MaxIter:       100,
			BatchSize:     10,
			DecayExponent: 1,
			DecayT0:       10,
			Averaging:     "none",
		},
		SVC: SVCConfig{
			Kernel: "linear",
			C:      10,
			Degree: 3,
			Tol:    1e-3,
		},
	}
}

// LoadConfig reads a properties file over the defaults.
func LoadConfig(path string) (Config, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return Config{}, errors.Wrap(err, "loading configuration")
	}
	return ConfigFromProperties(p)
}

// ConfigFromProperties overlays the keys present in p onto the defaults.
func ConfigFromProperties(p *properties.Properties) (Config, error) {
	c := DefaultConfig()
	r := reader{p: p}

	r.unsigned("split.seed", &c.Seed)
	r.float("split.test_size", &c.TestSize)

	r.float("ssvm.c", &c.SSVM.C)
	r.float("ssvm.learning_rate", &c.SSVM.LearningRate)
	r.integer("ssvm.max_iter", &c.SSVM.MaxIter)
	r.integer("ssvm.batch_size", &c.SSVM.BatchSize)
	r.float("ssvm.decay_exponent", &c.SSVM.DecayExponent)
	r.float("ssvm.decay_t0", &c.SSVM.DecayT0)
	r.float("ssvm.momentum", &c.SSVM.Momentum)
	r.text("ssvm.averaging", &c.SSVM.Averaging)

	r.text("svc.kernel", &c.SVC.Kernel)
	r.float("svc.c", &c.SVC.C)
	r.float("svc.gamma", &c.SVC.Gamma)
	r.integer("svc.degree", &c.SVC.Degree)
	r.float("svc.coef0", &c.SVC.Coef0)
	r.float("svc.tol", &c.SVC.Tol)
	r.integer("svc.cache_size", &c.SVC.CacheSize)
	r.integer("svc.max_iter", &c.SVC.MaxIter)

	if r.err != nil {
		return Config{}, r.err
	}
	return c, nil
}

// reader keeps the first parse error so every key can be read without checking each one.
type reader struct {
	p   *properties.Properties
	err error
}

func (r *reader) value(key string) (string, bool) {
	if r.err != nil {
		return "", false
	}
	return r.p.Get(key)
}

func (r *reader) text(key string, dst *string) {
	if v, ok := r.value(key); ok {
		*dst = v
	}
}

func (r *reader) float(key string, dst *float64) {
	if v, ok := r.value(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			r.err = errors.Wrapf(err, "reading %s", key)
			return
		}
		*dst = f
	}
}

func (r *reader) integer(key string, dst *int) {
	if v, ok := r.value(key); ok {
		i, err := strconv.Atoi(v)
		if err != nil {
			r.err = errors.Wrapf(err, "reading %s", key)
			return
		}
		*dst = i
	}
}

func (r *reader) unsigned(key string, dst *uint64) {
	if v, ok := r.value(key); ok {
		u, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			r.err = errors.Wrapf(err, "reading %s", key)
			return
		}
		*dst = u
	}
}

// Methods builds the structured SVM, trained with a bias column, and the kernel SVM.
func (c Config) Methods() ([]Method, error) {
	averaging, err := learning.ParseAveraging(c.SSVM.Averaging)
	if err != nil {
		return nil, err
	}
	ssvm := learning.NewSubgradientSSVM(learning.BinaryClf{})
	ssvm.C = c.SSVM.C
	ssvm.LearningRate = c.SSVM.LearningRate
	ssvm.MaxIter = c.SSVM.MaxIter
	ssvm.BatchSize = c.SSVM.BatchSize
	ssvm.DecayExponent = c.SSVM.DecayExponent
	ssvm.DecayT0 = c.SSVM.DecayT0
	ssvm.Momentum = c.SSVM.Momentum
	ssvm.Averaging = averaging
	ssvm.Verbose = c.Verbose
	ssvm.Progress = c.Progress

	kernel, err := learning.ParseKernel(c.SVC.Kernel, c.SVC.Gamma, c.SVC.Degree, c.SVC.Coef0)
	if err != nil {
		return nil, err
	}
	svc := learning.NewSVC(kernel, c.SVC.C)
	svc.Tol = c.SVC.Tol
	svc.CacheSize = c.SVC.CacheSize
	svc.MaxIter = c.SVC.MaxIter
	svc.Verbose = c.Verbose

	name := SVCMethod
	if _, ok := kernel.(learning.Linear); !ok {
		name = kernel.Name() + " kernel svc"
	}
	return []Method{
		{Name: SSVMMethod, Model: ssvm, Bias: true},
		{Name: name, Model: svc},
	}, nil
}
