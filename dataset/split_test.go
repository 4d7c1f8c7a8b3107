package dataset_test

import (
	"github.com/hscells/svmbench/dataset"
	"gonum.org/v1/gonum/mat"
	"gotest.tools/assert"
	"testing"
)

func sequential(n, d int) dataset.Dataset {
	x := mat.NewDense(n, d, nil)
	y := make([]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			x.Set(i, j, float64(i*d+j))
		}
		y[i] = i % 10
	}
	ds, err := dataset.New(x, y)
	if err != nil {
		panic(err)
	}
	return ds
}

func TestTrainTestSplitSizes(t *testing.T) {
	s, err := dataset.TrainTestSplit(sequential(1797, 64), dataset.DefaultTestSize, 0)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, s.Train.Len(), 1347)
	assert.Equal(t, s.Test.Len(), 450)
	assert.Equal(t, s.Train.Dim(), 64)
	assert.Equal(t, len(s.Train.Y), 1347)
	assert.Equal(t, len(s.Test.Y), 450)
}

func TestTrainTestSplitDeterministic(t *testing.T) {
	d := sequential(200, 3)
	a, err := dataset.TrainTestSplit(d, 0.25, 42)
	if err != nil {
		t.Fatal(err)
	}
	b, err := dataset.TrainTestSplit(d, 0.25, 42)
	if err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, a.TrainIndices, b.TrainIndices)
	assert.DeepEqual(t, a.TestIndices, b.TestIndices)
	assert.Assert(t, mat.Equal(a.Train.X, b.Train.X))

	c, err := dataset.TrainTestSplit(d, 0.25, 43)
	if err != nil {
		t.Fatal(err)
	}
	same := true
	for i := range a.TestIndices {
		if a.TestIndices[i] != c.TestIndices[i] {
			same = false
			break
		}
	}
	assert.Assert(t, !same, "different seeds gave the same split")
}

func TestTrainTestSplitPartition(t *testing.T) {
	n := 101
	d := sequential(n, 2)
	s, err := dataset.TrainTestSplit(d, 0.3, 7)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[int]int)
	for _, i := range s.TrainIndices {
		seen[i]++
	}
	for _, i := range s.TestIndices {
		seen[i]++
	}
	assert.Equal(t, len(seen), n)
	for i, c := range seen {
		assert.Equal(t, c, 1, "index %d", i)
	}

	// Rows follow their indices.
	for k, i := range s.TestIndices {
		assert.Equal(t, s.Test.X.At(k, 0), d.X.At(i, 0))
		assert.Equal(t, s.Test.Y[k], d.Y[i])
	}
	assert.NilError(t, s.Validate(n))
}

func TestSplitValidate(t *testing.T) {
	overlap := dataset.Split{TrainIndices: []int{0, 1, 2}, TestIndices: []int{2, 3}}
	assert.ErrorContains(t, overlap.Validate(4), "both")

	missing := dataset.Split{TrainIndices: []int{0, 1}, TestIndices: []int{3}}
	assert.ErrorContains(t, missing.Validate(4), "covers")

	outOfRange := dataset.Split{TrainIndices: []int{0, 1, 2}, TestIndices: []int{4}}
	assert.ErrorContains(t, outOfRange.Validate(4), "range")

	repeated := dataset.Split{TrainIndices: []int{0, 0, 1}, TestIndices: []int{2, 3}}
	assert.ErrorContains(t, repeated.Validate(4), "repeated")
}

func TestTrainTestSplitErrors(t *testing.T) {
	d := sequential(10, 2)
	for _, size := range []float64{0, 1, -0.5, 1.5} {
		if _, err := dataset.TrainTestSplit(d, size, 0); err == nil {
			t.Fatalf("expected error for test size %v", size)
		}
	}
	if _, err := dataset.TrainTestSplit(dataset.Dataset{}, 0.25, 0); err == nil {
		t.Fatal("expected error for empty dataset")
	}
	if _, err := dataset.TrainTestSplit(sequential(1, 2), 0.5, 0); err == nil {
		t.Fatal("expected error when a side of the split is empty")
	}
}
