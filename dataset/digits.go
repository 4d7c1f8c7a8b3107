package dataset

import (
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/cheggaaa/pb.v1"
	"io"
	"io/ioutil"
	"log"
	"math"
	"net/http"
	"os"
	"strconv"
)

// DigitsURL is where the 8x8 handwritten digits file is fetched from when downloading is enabled.
const DigitsURL = "https://raw.githubusercontent.com/scikit-learn/scikit-learn/main/sklearn/datasets/data/digits.csv.gz"

const (
	digitsKey     = "digitscsvgz"
	digitsClasses = 10
)

// DigitsSource loads the handwritten digits dataset. The file is a gzip compressed CSV file where every
// line holds the pixel intensities of one image followed by the digit it depicts.
type DigitsSource struct {
	path     string
	url      string
	cacheDir string
	cache    Cache
	client   *http.Client
	progress bool
	download bool
}

// DigitsPath reads the dataset from a local file instead of the cache.
func DigitsPath(path string) func(*DigitsSource) {
	return func(s *DigitsSource) {
		s.path = path
	}
}

// DigitsRemote downloads the dataset from url instead of using the bundled copy.
func DigitsRemote(url string) func(*DigitsSource) {
	return func(s *DigitsSource) {
		s.url = url
		s.download = true
	}
}

// DigitsDownload fetches the dataset from DigitsURL into the download cache instead of using the
// bundled copy. Later loads read the cached file.
func DigitsDownload(download bool) func(*DigitsSource) {
	return func(s *DigitsSource) {
		s.download = download
	}
}

// DigitsCacheDir changes the directory downloads are cached in.
func DigitsCacheDir(dir string) func(*DigitsSource) {
	return func(s *DigitsSource) {
		s.cacheDir = dir
	}
}

// DigitsCache sets the cache directly, taking precedence over DigitsCacheDir.
func DigitsCache(c Cache) func(*DigitsSource) {
	return func(s *DigitsSource) {
		s.cache = c
	}
}

// DigitsClient sets the http client used to download the dataset.
func DigitsClient(c *http.Client) func(*DigitsSource) {
	return func(s *DigitsSource) {
		s.client = c
	}
}

// DigitsProgress shows a progress bar while downloading.
func DigitsProgress(progress bool) func(*DigitsSource) {
	return func(s *DigitsSource) {
		s.progress = progress
	}
}

// NewDigitsSource creates a new digits dataset source.
func NewDigitsSource(options ...func(*DigitsSource)) *DigitsSource {
	s := &DigitsSource{
		url:    DigitsURL,
		client: http.DefaultClient,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Load reads the dataset from the configured path, or the bundled copy. When downloading is enabled it
// reads the cache instead, downloading the file first if necessary.
func (s *DigitsSource) Load() (Dataset, error) {
	if len(s.path) > 0 {
		f, err := os.Open(s.path)
		if err != nil {
			return Dataset{}, errors.Wrap(err, "opening digits dataset")
		}
		defer f.Close()
		return ReadDigits(f)
	}

	if !s.download {
		b, err := bundledDigits()
		if err != nil {
			return Dataset{}, err
		}
		return ReadDigits(bytes.NewReader(b))
	}

	cache := s.cache
	if cache == nil {
		dir := s.cacheDir
		if len(dir) == 0 {
			var err error
			dir, err = DefaultCacheDir()
			if err != nil {
				return Dataset{}, err
			}
		}
		cache = NewDiskvCache(dir)
	}

	b, err := cache.Get(digitsKey)
	if err == ErrCacheMiss {
		log.Printf("digits dataset not cached, downloading from %s", s.url)
		b, err = s.fetch()
		if err != nil {
			return Dataset{}, err
		}
		if err := cache.Set(digitsKey, b); err != nil {
			return Dataset{}, err
		}
	} else if err != nil {
		return Dataset{}, err
	}
	return ReadDigits(bytes.NewReader(b))
}

func (s *DigitsSource) fetch() ([]byte, error) {
	resp, err := s.client.Get(s.url)
	if err != nil {
		return nil, errors.Wrap(err, "downloading digits dataset")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("downloading digits dataset: %s", resp.Status)
	}

	var r io.Reader = resp.Body
	if s.progress && resp.ContentLength > 0 {
		bar := pb.New64(resp.ContentLength).SetUnits(pb.U_BYTES)
		bar.Output = os.Stderr
		bar.Start()
		defer bar.Finish()
		r = bar.NewProxyReader(r)
	}
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "downloading digits dataset")
	}
	return b, nil
}

// ReadDigits parses a gzip compressed digits CSV file. All lines must have the same number of columns,
// and the last column must be a whole number between 0 and 9.
func ReadDigits(r io.Reader) (Dataset, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return Dataset{}, errors.Wrap(err, "decompressing digits dataset")
	}
	defer gz.Close()

	cr := csv.NewReader(gz)
	cr.ReuseRecord = true

	var (
		data   []float64
		labels []int
		cols   int
	)
	for line := 1; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Dataset{}, errors.Wrap(err, "reading digits dataset")
		}
		if line == 1 {
			if len(record) < 2 {
				return Dataset{}, errors.Errorf("line 1: expected features and a label, got %d columns", len(record))
			}
			cols = len(record) - 1
		}
		for _, field := range record[:cols] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return Dataset{}, errors.Wrapf(err, "line %d", line)
			}
			data = append(data, v)
		}
		v, err := strconv.ParseFloat(record[cols], 64)
		if err != nil {
			return Dataset{}, errors.Wrapf(err, "line %d", line)
		}
		if v != math.Trunc(v) || v < 0 || v >= digitsClasses {
			return Dataset{}, errors.Errorf("line %d: %v is not a digit", line, record[cols])
		}
		labels = append(labels, int(v))
	}
	if len(labels) == 0 {
		return Dataset{}, errors.New("digits dataset is empty")
	}
	return New(mat.NewDense(len(labels), cols, data), labels)
}
