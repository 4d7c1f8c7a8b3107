package learning

import (
	"fmt"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"math"
	"strings"
)

// Kernel is a similarity function between two samples.
type Kernel interface {
	Eval(a, b []float64) float64
	Name() string
}

// Linear is the dot product.
type Linear struct{}

// RBF is exp(-gamma*|a-b|^2).
type RBF struct {
	Gamma float64
}

// Poly is (gamma*a.b + coef0)^degree.
type Poly struct {
	Degree int
	Gamma  float64
	Coef0  float64
}

// Sigmoid is tanh(gamma*a.b + coef0).
type Sigmoid struct {
	Gamma float64
	Coef0 float64
}

func (Linear) Eval(a, b []float64) float64 {
	return floats.Dot(a, b)
}

func (Linear) Name() string {
	return "linear"
}

func (k RBF) Eval(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return math.Exp(-k.Gamma * d * d)
}

func (k RBF) Name() string {
	return "rbf"
}

func (k Poly) Eval(a, b []float64) float64 {
	return math.Pow(k.Gamma*floats.Dot(a, b)+k.Coef0, float64(k.Degree))
}

func (k Poly) Name() string {
	return fmt.Sprintf("poly(%d)", k.Degree)
}

func (k Sigmoid) Eval(a, b []float64) float64 {
	return math.Tanh(k.Gamma*floats.Dot(a, b) + k.Coef0)
}

func (k Sigmoid) Name() string {
	return "sigmoid"
}

// ParseKernel creates a kernel from its name. A gamma of zero or less is replaced when fitting by
// 1/(features*variance), see ScaleGamma.
func ParseKernel(name string, gamma float64, degree int, coef0 float64) (Kernel, error) {
	switch strings.ToLower(name) {
	case "linear":
		return Linear{}, nil
	case "rbf":
		return RBF{Gamma: gamma}, nil
	case "poly":
		if degree <= 0 {
			return nil, errors.Errorf("polynomial degree must be positive, got %d", degree)
		}
		return Poly{Degree: degree, Gamma: gamma, Coef0: coef0}, nil
	case "sigmoid":
		return Sigmoid{Gamma: gamma, Coef0: coef0}, nil
	}
	return nil, errors.Errorf("unknown kernel %q", name)
}

// ScaleGamma returns k with a non-positive gamma replaced by 1/(features*variance of x).
func ScaleGamma(k Kernel, x [][]float64) Kernel {
	gamma := func() float64 {
		var all []float64
		for _, xi := range x {
			all = append(all, xi...)
		}
		v := stat.Variance(all, nil)
		if len(x) == 0 || !(v > 0) {
			return 1
		}
		return 1 / (float64(len(x[0])) * v)
	}
	switch k := k.(type) {
	case RBF:
		if k.Gamma <= 0 {
			k.Gamma = gamma()
		}
		return k
	case Poly:
		if k.Gamma <= 0 {
			k.Gamma = gamma()
		}
		return k
	case Sigmoid:
		if k.Gamma <= 0 {
			k.Gamma = gamma()
		}
		return k
	}
	return k
}
