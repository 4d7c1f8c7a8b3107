package output

import (
	"bufio"
	"fmt"
	"github.com/hscells/svmbench/dataset"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Names of the files written by SvmLightPersister.
const (
	TrainSvmLightFile = "train.svmlight"
	TestSvmLightFile  = "test.svmlight"
)

// SvmLightPersister writes a split in the sparse text format read by libsvm and svmlight. Every line is
//   [label] {index:value}
// with 1-based feature indices and zero features left out.
type SvmLightPersister struct {
	Dir string
}

// NewSvmLightPersister creates a persister for dir; an empty dir is the working directory.
func NewSvmLightPersister(dir string) SvmLightPersister {
	if len(dir) == 0 {
		dir = "."
	}
	return SvmLightPersister{Dir: dir}
}

func (p SvmLightPersister) Persist(s dataset.Split) ([]string, error) {
	if err := os.MkdirAll(p.Dir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating output directory")
	}
	files := []string{filepath.Join(p.Dir, TrainSvmLightFile), filepath.Join(p.Dir, TestSvmLightFile)}
	for i, d := range []dataset.Dataset{s.Train, s.Test} {
		f, err := os.Create(files[i])
		if err != nil {
			return nil, errors.Wrapf(err, "creating %s", files[i])
		}
		if err := WriteSvmLight(f, d); err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "writing %s", files[i])
		}
		if err := f.Close(); err != nil {
			return nil, errors.Wrapf(err, "closing %s", files[i])
		}
	}
	return files, nil
}

// WriteSvmLight writes each sample of d as one line.
func WriteSvmLight(w io.Writer, d dataset.Dataset) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < d.Len(); i++ {
		bw.WriteString(strconv.Itoa(d.Y[i]))
		for j := 0; j < d.Dim(); j++ {
			v := d.X.At(i, j)
			if v == 0 {
				continue
			}
			fmt.Fprintf(bw, " %d:%s", j+1, strconv.FormatFloat(v, 'g', -1, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadSvmLight parses samples written by WriteSvmLight. Comments after a # are ignored. The number of
// features is the largest index seen, unless dim is larger.
func ReadSvmLight(r io.Reader, dim int) (dataset.Dataset, error) {
	type sample map[int]float64
	var (
		samples []sample
		labels  []int
	)
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		// {line} # [comment]
		l := strings.TrimSpace(strings.SplitN(s.Text(), "#", 2)[0])
		if len(l) == 0 {
			continue
		}

		// [label] {features}
		b := strings.Fields(l)
		label, err := strconv.Atoi(b[0])
		if err != nil {
			return dataset.Dataset{}, errors.Wrapf(err, "line %d", line)
		}

		features := make(sample, len(b)-1)
		for _, v := range b[1:] {
			f := strings.Split(v, ":")
			if len(f) != 2 {
				return dataset.Dataset{}, errors.Errorf("line %d: malformed feature %q", line, v)
			}
			id, err := strconv.Atoi(f[0])
			if err != nil {
				return dataset.Dataset{}, errors.Wrapf(err, "line %d", line)
			}
			if id < 1 {
				return dataset.Dataset{}, errors.Errorf("line %d: feature index %d is not positive", line, id)
			}
			score, err := strconv.ParseFloat(f[1], 64)
			if err != nil {
				return dataset.Dataset{}, errors.Wrapf(err, "line %d", line)
			}
			features[id-1] = score
			if id > dim {
				dim = id
			}
		}
		samples = append(samples, features)
		labels = append(labels, label)
	}
	if err := s.Err(); err != nil {
		return dataset.Dataset{}, err
	}
	if len(samples) == 0 || dim == 0 {
		return dataset.Dataset{}, errors.New("no samples")
	}

	x := mat.NewDense(len(samples), dim, nil)
	for i, features := range samples {
		for j, v := range features {
			x.Set(i, j, v)
		}
	}
	return dataset.New(x, labels)
}
