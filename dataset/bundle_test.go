package dataset_test

import (
	"github.com/hscells/svmbench/dataset"
	"github.com/pkg/errors"
	"gotest.tools/assert"
	"testing"
)

func TestBundledDigits(t *testing.T) {
	if !dataset.Bundled() {
		t.Skip("data/digits.csv.gz is not bundled, run go generate ./dataset")
	}
	d, err := dataset.NewDigitsSource().Load()
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, d.Len(), 1797)
	assert.Equal(t, d.Dim(), 64)

	seen := make(map[int]int)
	for _, y := range d.Y {
		assert.Assert(t, y >= 0 && y <= 9, y)
		seen[y]++
	}
	assert.Equal(t, len(seen), 10)

	s, err := dataset.TrainTestSplit(d, dataset.DefaultTestSize, 0)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, s.Train.Len(), 1347)
	assert.Equal(t, s.Test.Len(), 450)
}

func TestDigitsSourceNotBundled(t *testing.T) {
	if dataset.Bundled() {
		t.Skip("digits dataset is bundled")
	}
	_, err := dataset.NewDigitsSource().Load()
	assert.Assert(t, errors.Cause(err) == dataset.ErrNotBundled, err)
}
