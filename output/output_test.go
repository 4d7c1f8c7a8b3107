package output_test

import (
	"bytes"
	"encoding/json"
	"github.com/hscells/svmbench/dataset"
	"github.com/hscells/svmbench/output"
	"github.com/hscells/svmbench/pipeline"
	"gonum.org/v1/gonum/mat"
	"gotest.tools/assert"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func split(t *testing.T) dataset.Split {
	x := mat.NewDense(20, 3, nil)
	y := make([]int, 20)
	for i := 0; i < 20; i++ {
		for j := 0; j < 3; j++ {
			x.Set(i, j, float64(i)/20+float64(j))
		}
		y[i] = 2*(i%2) - 1
	}
	d, err := dataset.New(x, y)
	if err != nil {
		t.Fatal(err)
	}
	s, err := dataset.TrainTestSplit(d, 0.25, 0)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNpyPersister(t *testing.T) {
	dir, err := ioutil.TempDir("", "svmbench")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	s := split(t)
	files, err := output.NewNpyPersister(dir).Persist(s)
	if err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, files, []string{
		filepath.Join(dir, output.TrainDataFile),
		filepath.Join(dir, output.TrainTargetFile),
		filepath.Join(dir, output.TestDataFile),
		filepath.Join(dir, output.TestTargetFile),
	})

	for _, f := range files {
		b, err := ioutil.ReadFile(f)
		if err != nil {
			t.Fatal(err)
		}
		assert.Assert(t, bytes.HasPrefix(b, []byte("\x93NUMPY")), f)
	}

	x, err := output.ReadNpyMatrix(files[0])
	if err != nil {
		t.Fatal(err)
	}
	assert.Assert(t, mat.Equal(x, s.Train.X))
	y, err := output.ReadNpyTargets(files[3])
	if err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, y, s.Test.Y)
}

func TestNpyPersisterRewrite(t *testing.T) {
	dir, err := ioutil.TempDir("", "svmbench")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	p := output.NewNpyPersister(filepath.Join(dir, "arrays"))
	files, err := p.Persist(split(t))
	if err != nil {
		t.Fatal(err)
	}
	first := make([][]byte, len(files))
	for i, f := range files {
		if first[i], err = ioutil.ReadFile(f); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := p.Persist(split(t)); err != nil {
		t.Fatal(err)
	}
	for i, f := range files {
		b, err := ioutil.ReadFile(f)
		if err != nil {
			t.Fatal(err)
		}
		assert.Assert(t, bytes.Equal(first[i], b), f)
	}
}

func results() []pipeline.Result {
	return []pipeline.Result{
		{Type: pipeline.Split, Seed: 0, TrainSize: 1347, TestSize: 450},
		{Type: pipeline.Persisted, Files: []string{"train_data.npy"}},
		{Type: pipeline.Evaluation, Method: "subgradient ssvm", Accuracy: 0.9, Elapsed: 250 * time.Millisecond,
			Evaluations: map[string]float64{"Accuracy": 0.9}},
		{Type: pipeline.Evaluation, Method: "linear kernel svc", Accuracy: 0.875, Elapsed: 2 * time.Second},
		{Type: pipeline.Done},
	}
}

func TestTextReportFormatter(t *testing.T) {
	s, err := output.TextReportFormatter(results())
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, s, "Score with subgradient ssvm: 0.900000 (took 0.250000 seconds)\n"+
		"Score with linear kernel svc: 0.875000 (took 2.000000 seconds)\n")
	assert.Equal(t, len(strings.Split(strings.TrimSpace(s), "\n")), 2)
}

func TestJsonReportFormatter(t *testing.T) {
	s, err := output.JsonReportFormatter(results())
	if err != nil {
		t.Fatal(err)
	}
	var report struct {
		Run       string `json:"run"`
		TrainSize int    `json:"train_size"`
		TestSize  int    `json:"test_size"`
		Methods   []struct {
			Method   string  `json:"method"`
			Accuracy float64 `json:"accuracy"`
			Seconds  float64 `json:"seconds"`
		} `json:"methods"`
	}
	if err := json.Unmarshal([]byte(s), &report); err != nil {
		t.Fatal(err)
	}
	assert.Assert(t, len(report.Run) == 36)
	assert.Equal(t, report.TrainSize, 1347)
	assert.Equal(t, report.TestSize, 450)
	assert.Equal(t, len(report.Methods), 2)
	assert.Equal(t, report.Methods[1].Seconds, 2.0)
	t.Log(s)
}

func TestSvmLightPersister(t *testing.T) {
	dir, err := ioutil.TempDir("", "svmbench")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	s := split(t)
	// A zero feature is left out of the file.
	s.Train.X.Set(0, 0, 0)
	files, err := output.NewSvmLightPersister(dir).Persist(s)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(files), 2)

	f, err := os.Open(files[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	d, err := output.ReadSvmLight(f, 3)
	if err != nil {
		t.Fatal(err)
	}
	assert.Assert(t, mat.Equal(d.X, s.Train.X))
	assert.DeepEqual(t, d.Y, s.Train.Y)
}

func TestReadSvmLight(t *testing.T) {
	d, err := output.ReadSvmLight(strings.NewReader("1 1:0.5 3:2 # first\n\n-1 2:1\n"), 0)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, d.Len(), 2)
	assert.Equal(t, d.Dim(), 3)
	assert.Equal(t, d.X.At(0, 2), 2.0)
	assert.Equal(t, d.X.At(1, 1), 1.0)
	assert.DeepEqual(t, d.Y, []int{1, -1})

	for _, bad := range []string{"", "a 1:1\n", "1 0:1\n", "1 1=1\n", "1 x:1\n"} {
		if _, err := output.ReadSvmLight(strings.NewReader(bad), 0); err == nil {
			t.Fatalf("expected an error for %q", bad)
		}
	}
}
