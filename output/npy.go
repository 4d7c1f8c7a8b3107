// Package output writes the artefacts of a benchmark run: the split arrays and the report.
package output

import (
	"github.com/hscells/svmbench/dataset"
	"github.com/pkg/errors"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
	"os"
	"path/filepath"
)

// Names of the files written for a split.
const (
	TrainDataFile   = "train_data.npy"
	TrainTargetFile = "train_target.npy"
	TestDataFile    = "test_data.npy"
	TestTargetFile  = "test_target.npy"
)

// ArrayPersister stores the four arrays of a split somewhere and reports where.
type ArrayPersister interface {
	Persist(s dataset.Split) ([]string, error)
}

// NpyPersister writes a split as NumPy .npy files into Dir. Existing files are overwritten.
type NpyPersister struct {
	Dir string
}

// NewNpyPersister creates a persister for dir; an empty dir is the working directory.
func NewNpyPersister(dir string) NpyPersister {
	if len(dir) == 0 {
		dir = "."
	}
	return NpyPersister{Dir: dir}
}

// Persist writes the features as float64 matrices and the targets as int64 vectors.
func (p NpyPersister) Persist(s dataset.Split) ([]string, error) {
	if err := os.MkdirAll(p.Dir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating output directory")
	}
	arrays := []struct {
		name string
		val  interface{}
	}{
		{TrainDataFile, s.Train.X},
		{TrainTargetFile, targets(s.Train.Y)},
		{TestDataFile, s.Test.X},
		{TestTargetFile, targets(s.Test.Y)},
	}
	files := make([]string, len(arrays))
	for i, a := range arrays {
		files[i] = filepath.Join(p.Dir, a.name)
		if err := writeNpy(files[i], a.val); err != nil {
			return nil, err
		}
	}
	return files, nil
}

func writeNpy(path string, val interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	if err := npyio.Write(f, val); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}

func targets(y []int) []int64 {
	t := make([]int64, len(y))
	for i, v := range y {
		t[i] = int64(v)
	}
	return t
}

// ReadNpyMatrix reads a 2-D float64 array written by NpyPersister.
func ReadNpyMatrix(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var m mat.Dense
	if err := npyio.Read(f, &m); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return &m, nil
}

// ReadNpyTargets reads a 1-D int64 array written by NpyPersister.
func ReadNpyTargets(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var t []int64
	if err := npyio.Read(f, &t); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	y := make([]int, len(t))
	for i, v := range t {
		y[i] = int(v)
	}
	return y, nil
}
