package dataset_test

import (
	"bytes"
	"compress/gzip"
	"github.com/hscells/svmbench/dataset"
	"gotest.tools/assert"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"testing"
)

func gzipped(t *testing.T, s string) []byte {
	var b bytes.Buffer
	w := gzip.NewWriter(&b)
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return b.Bytes()
}

const digitsFixture = `0.000000000000000000e+00,5.000000000000000000e+00,1.300000000000000000e+01,0.000000000000000000e+00
1.000000000000000000e+01,1.600000000000000000e+01,3.000000000000000000e+00,7.000000000000000000e+00
2,0,16,9
`

func TestReadDigits(t *testing.T) {
	d, err := dataset.ReadDigits(bytes.NewReader(gzipped(t, digitsFixture)))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, d.Len(), 3)
	assert.Equal(t, d.Dim(), 3)
	assert.DeepEqual(t, d.Y, []int{0, 7, 9})
	assert.Equal(t, d.X.At(0, 2), 13.0)
	assert.Equal(t, d.X.At(1, 1), 16.0)
	assert.Equal(t, d.X.At(2, 0), 2.0)
}

func TestReadDigitsErrors(t *testing.T) {
	for name, fixture := range map[string]string{
		"ragged":     "1,2,3\n1,2\n",
		"label":      "1,2,10\n",
		"fractional": "1,2,3.5\n",
		"negative":   "1,2,-1\n",
		"feature":    "1,x,3\n",
		"columns":    "1\n",
		"empty":      "",
	} {
		if _, err := dataset.ReadDigits(bytes.NewReader(gzipped(t, fixture))); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
	if _, err := dataset.ReadDigits(bytes.NewReader([]byte("not gzip"))); err == nil {
		t.Fatal("expected an error for uncompressed input")
	}
}

func TestDigitsSourcePath(t *testing.T) {
	dir, err := ioutil.TempDir("", "svmbench")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	p := path.Join(dir, "digits.csv.gz")
	if err := ioutil.WriteFile(p, gzipped(t, digitsFixture), 0644); err != nil {
		t.Fatal(err)
	}
	d, err := dataset.NewDigitsSource(dataset.DigitsPath(p)).Load()
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, d.Len(), 3)

	_, err = dataset.NewDigitsSource(dataset.DigitsPath(path.Join(dir, "missing.csv.gz"))).Load()
	assert.Assert(t, err != nil)
}

func TestDigitsSourceDownloadsOnce(t *testing.T) {
	body := gzipped(t, digitsFixture)
	hits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write(body)
	}))
	defer ts.Close()

	dir, err := ioutil.TempDir("", "svmbench")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	for i := 0; i < 2; i++ {
		s := dataset.NewDigitsSource(dataset.DigitsRemote(ts.URL), dataset.DigitsCacheDir(dir), dataset.DigitsClient(ts.Client()))
		d, err := s.Load()
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, d.Len(), 3)
	}
	assert.Equal(t, hits, 1)
}

func TestDigitsSourceDownloadError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	cache := dataset.NewMapCache()
	_, err := dataset.NewDigitsSource(dataset.DigitsRemote(ts.URL), dataset.DigitsCache(cache)).Load()
	assert.ErrorContains(t, err, "404")
	_, err = cache.Get("digitscsvgz")
	assert.Equal(t, err, dataset.ErrCacheMiss)
}

func TestMemorySourceCopies(t *testing.T) {
	d := sequential(4, 2)
	s := dataset.NewMemorySource(d)
	a, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	a.X.Set(0, 0, -1)
	a.Y[0] = -1
	assert.Equal(t, d.X.At(0, 0), 0.0)
	assert.Equal(t, d.Y[0], 0)
}

func TestDigitsSourceDownloadReadsCache(t *testing.T) {
	cache := dataset.NewMapCache()
	if err := cache.Set("digitscsvgz", gzipped(t, digitsFixture)); err != nil {
		t.Fatal(err)
	}
	// Unreachable remote, the cached copy is used.
	s := dataset.NewDigitsSource(dataset.DigitsDownload(true), dataset.DigitsCache(cache),
		dataset.DigitsClient(&http.Client{Transport: failingTransport{}}))
	d, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, d.Len(), 3)
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, os.ErrPermission
}
