package dataset

import (
	"embed"
	"github.com/pkg/errors"
)

//go:generate curl -sSfL -o data/digits.csv.gz https://raw.githubusercontent.com/scikit-learn/scikit-learn/main/sklearn/datasets/data/digits.csv.gz

//go:embed data
var bundle embed.FS

const bundledDigitsFile = "data/digits.csv.gz"

// ErrNotBundled is returned when the digits file was not present at build time and no other location
// was configured.
var ErrNotBundled = errors.New("digits dataset is not bundled")

// Bundled reports whether the digits file is compiled into the binary.
func Bundled() bool {
	_, err := bundle.ReadFile(bundledDigitsFile)
	return err == nil
}

func bundledDigits() ([]byte, error) {
	b, err := bundle.ReadFile(bundledDigitsFile)
	if err != nil {
		return nil, errors.Wrap(ErrNotBundled, "use a local file or enable downloading")
	}
	return b, nil
}
