package dataset

import (
	"github.com/pkg/errors"
	"github.com/xtgo/set"
	"golang.org/x/exp/rand"
	"math"
	"sort"
)

// DefaultTestSize is the fraction of samples held out for testing when none is given.
const DefaultTestSize = 0.25

// Split is a partition of a dataset into a train and a test part.
type Split struct {
	Train        Dataset
	Test         Dataset
	TrainIndices []int
	TestIndices  []int
}

// TrainTestSplit shuffles the samples of d with a generator seeded by seed and holds out
// ceil(testSize*N) of them for testing. The same seed always produces the same split.
func TrainTestSplit(d Dataset, testSize float64, seed uint64) (Split, error) {
	n := d.Len()
	if n == 0 {
		return Split{}, errors.New("cannot split an empty dataset")
	}
	if len(d.Y) != n {
		return Split{}, errors.Errorf("dataset has %d rows but %d labels", n, len(d.Y))
	}
	if math.IsNaN(testSize) || testSize <= 0 || testSize >= 1 {
		return Split{}, errors.Errorf("test size must be in (0, 1), got %v", testSize)
	}

	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTrain <= 0 || nTest <= 0 {
		return Split{}, errors.Errorf("test size %v of %d samples leaves %d train and %d test samples", testSize, n, nTrain, nTest)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	s := Split{
		TestIndices:  append([]int(nil), perm[:nTest]...),
		TrainIndices: append([]int(nil), perm[nTest:]...),
	}
	if err := s.Validate(n); err != nil {
		return Split{}, err
	}
	s.Train = d.Subset(s.TrainIndices)
	s.Test = d.Subset(s.TestIndices)
	return s, nil
}

// Validate checks that the train and test indices are disjoint and together cover 0..n-1.
func (s Split) Validate(n int) error {
	train := sortedCopy(s.TrainIndices)
	test := sortedCopy(s.TestIndices)

	for _, idx := range [][]int{train, test} {
		if len(idx) == 0 {
			continue
		}
		if idx[0] < 0 || idx[len(idx)-1] >= n {
			return errors.Errorf("split index out of range [0, %d)", n)
		}
		if set.Uniq(sort.IntSlice(idx)) != len(idx) {
			return errors.New("split contains a repeated index")
		}
	}

	if k := set.Inter(pair(train, test)); k > 0 {
		return errors.Errorf("%d samples are in both the train and test split", k)
	}
	if k := set.Union(pair(train, test)); k != n {
		return errors.Errorf("split covers %d of %d samples", k, n)
	}
	return nil
}

func sortedCopy(a []int) []int {
	b := append([]int(nil), a...)
	sort.Ints(b)
	return b
}

// pair lays out two sorted sets back to back for the set package, returning the data and the pivot.
func pair(a, b []int) (sort.Interface, int) {
	data := make(sort.IntSlice, 0, len(a)+len(b))
	data = append(data, a...)
	data = append(data, b...)
	return data, len(a)
}
