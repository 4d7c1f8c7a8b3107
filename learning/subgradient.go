package learning

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/cheggaaa/pb.v1"
	"log"
	"math"
	"os"
	"strings"
)

// slackTolerance is the smallest slack counted as a violated constraint.
const slackTolerance = 1e-5

// Averaging controls whether the returned weights are an average of the iterates.
type Averaging int

const (
	// NoAveraging returns the last iterate.
	NoAveraging Averaging = iota
	// LinearAveraging weights iterate t proportionally to t.
	LinearAveraging
	// SquaredAveraging weights iterate t proportionally to t^2.
	SquaredAveraging
)

// ParseAveraging reads an averaging scheme by name: none, linear or squared.
func ParseAveraging(s string) (Averaging, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return NoAveraging, nil
	case "linear":
		return LinearAveraging, nil
	case "squared":
		return SquaredAveraging, nil
	}
	return NoAveraging, errors.Errorf("unknown averaging %q", s)
}

func (a Averaging) String() string {
	switch a {
	case LinearAveraging:
		return "linear"
	case SquaredAveraging:
		return "squared"
	}
	return "none"
}

// SubgradientSSVM learns a structured SVM by (mini-batch) subgradient descent on
//   1/2 w'w + C sum_i max_y [loss(y_i, y) - w'(psi(x_i, y_i) - psi(x_i, y))].
// The hyper-parameters and their defaults follow pystruct's SubgradientSSVM, but the update does not:
// pystruct steps by LearningRate/(t+DecayT0)^DecayExponent * (dpsi - w/(C*N)), while this steps by
// LearningRate*DecayT0/(DecayT0+t)^DecayExponent * (C*N/|batch|*dpsi - w), a subgradient of the objective
// above that is unbiased for any batch size. The same settings therefore train to different weights.
type SubgradientSSVM struct {
	Model StructuredModel

	C            float64 // regularisation trade-off
	LearningRate float64 // initial step size
	MaxIter      int     // number of passes over the data
	BatchSize    int     // samples per update, -1 for the full dataset
	// The step size at update t is LearningRate*DecayT0/(DecayT0+t)^DecayExponent, or
	// LearningRate/(t+1)^DecayExponent when DecayT0 is zero.
	DecayExponent float64
	DecayT0       float64
	Momentum      float64
	Averaging     Averaging

	// BreakOnNoConstraints stops training after a pass with no violated constraints.
	BreakOnNoConstraints bool
	Shuffle              bool
	Seed                 uint64

	Verbose  bool
	Progress bool

	// W is the learnt weight vector.
	W []float64
	// ObjectiveCurve and SlackCurve hold the primal objective and number of violated constraints of each pass.
	ObjectiveCurve []float64
	SlackCurve     []int
}

// NewSubgradientSSVM creates a subgradient learner for a structured model.
func NewSubgradientSSVM(model StructuredModel) *SubgradientSSVM {
	return &SubgradientSSVM{
		Model:                model,
		C:                    1,
		LearningRate:         0.001,
		MaxIter:              100,
		BatchSize:            1,
		DecayExponent:        1,
		DecayT0:              10,
		BreakOnNoConstraints: true,
	}
}

func (s *SubgradientSSVM) validate() error {
	switch {
	case s.Model == nil:
		return errors.New("subgradient ssvm has no model")
	case !(s.C > 0):
		return errors.Errorf("C must be positive, got %v", s.C)
	case !(s.LearningRate > 0):
		return errors.Errorf("learning rate must be positive, got %v", s.LearningRate)
	case s.MaxIter <= 0:
		return errors.Errorf("max iterations must be positive, got %d", s.MaxIter)
	case s.BatchSize == 0 || s.BatchSize < -1:
		return errors.Errorf("batch size must be positive or -1, got %d", s.BatchSize)
	case s.DecayT0 < 0 || s.DecayExponent < 0:
		return errors.New("learning rate decay must not be negative")
	case s.Momentum < 0 || s.Momentum >= 1:
		return errors.Errorf("momentum must be in [0, 1), got %v", s.Momentum)
	}
	return nil
}

func (s *SubgradientSSVM) rate(t float64) float64 {
	if s.DecayT0 > 0 {
		return s.LearningRate * s.DecayT0 / math.Pow(s.DecayT0+t, s.DecayExponent)
	}
	return s.LearningRate / math.Pow(t+1, s.DecayExponent)
}

// Fit learns W from the rows of x and their labels.
func (s *SubgradientSSVM) Fit(x mat.Matrix, y []int) error {
	if err := s.validate(); err != nil {
		return err
	}
	xs, err := examples(x, y)
	if err != nil {
		return err
	}
	if err := s.Model.Validate(y); err != nil {
		return err
	}

	n := len(xs)
	size := s.Model.Size(len(xs[0]))
	batch := s.BatchSize
	if batch < 0 || batch > n {
		batch = n
	}

	var (
		w     = make([]float64, size)
		step  = make([]float64, size)
		dpsi  = make([]float64, size)
		delta = make([]float64, size)
		avg   []float64
		order = make([]int, n)
		rng   *rand.Rand
		t     float64
	)
	for i := range order {
		order[i] = i
	}
	if s.Averaging != NoAveraging {
		avg = make([]float64, size)
	}
	if s.Shuffle {
		rng = rand.New(rand.NewSource(s.Seed))
	}
	s.ObjectiveCurve = s.ObjectiveCurve[:0]
	s.SlackCurve = s.SlackCurve[:0]

	var bar *pb.ProgressBar
	if s.Progress {
		bar = pb.New(s.MaxIter)
		bar.Output = os.Stderr
		bar.Start()
		defer bar.Finish()
	}

	for epoch := 0; epoch < s.MaxIter; epoch++ {
		if rng != nil {
			rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
		}

		var (
			slack    float64
			positive int
		)
		for start := 0; start < n; start += batch {
			end := start + batch
			if end > n {
				end = n
			}
			zero(dpsi)
			for _, i := range order[start:end] {
				yHat := s.Model.LossAugmentedInference(xs[i], y[i], w)
				zero(delta)
				s.Model.JointFeature(delta, xs[i], y[i], 1)
				s.Model.JointFeature(delta, xs[i], yHat, -1)
				if v := s.Model.Loss(y[i], yHat) - floats.Dot(w, delta); v > 0 {
					slack += v
					if v > slackTolerance {
						positive++
					}
				}
				floats.Add(dpsi, delta)
			}

			// The batch subgradient is scaled up to the whole dataset.
			scale := s.C * float64(n) / float64(end-start)
			lr := s.rate(t)
			for k := range step {
				step[k] = (1-s.Momentum)*lr*(scale*dpsi[k]-w[k]) + s.Momentum*step[k]
			}
			floats.Add(w, step)

			if avg != nil {
				var rho float64
				switch s.Averaging {
				case LinearAveraging:
					rho = 2 / (t + 2)
				case SquaredAveraging:
					rho = 6 * (t + 1) / ((t + 2) * (2*t + 3))
				}
				floats.Scale(1-rho, avg)
				floats.AddScaled(avg, rho, w)
			}
			t++
		}

		objective := s.C*slack + 0.5*floats.Dot(w, w)
		if math.IsNaN(objective) || math.IsInf(objective, 0) {
			return errors.Errorf("subgradient ssvm diverged at pass %d", epoch)
		}
		s.ObjectiveCurve = append(s.ObjectiveCurve, objective)
		s.SlackCurve = append(s.SlackCurve, positive)
		if bar != nil {
			bar.Increment()
		}
		if s.Verbose {
			log.Printf("pass %d, positive slacks: %d, objective: %f", epoch, positive, objective)
		}
		if positive == 0 && s.BreakOnNoConstraints {
			if s.Verbose {
				log.Println("no additional constraints")
			}
			break
		}
	}

	if avg != nil {
		w = avg
	}
	s.W = w
	return nil
}

// Predict labels each row of x using the learnt weights.
func (s *SubgradientSSVM) Predict(x mat.Matrix) ([]int, error) {
	if s.W == nil {
		return nil, errors.New("subgradient ssvm is not fitted")
	}
	xs := rows(x)
	p := make([]int, len(xs))
	for i, xi := range xs {
		if s.Model.Size(len(xi)) != len(s.W) {
			return nil, errors.Errorf("sample has %d features, model expects %d", len(xi), len(s.W))
		}
		p[i] = s.Model.Inference(xi, s.W)
	}
	return p, nil
}

func zero(v []float64) {
	for i := range v {
		v[i] = 0
	}
}
