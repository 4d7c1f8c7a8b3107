package dataset

import (
	"github.com/peterbourgon/diskv"
	"github.com/pkg/errors"
	"os"
	"path"
)

// ErrCacheMiss is returned by a Cache that does not hold the requested key.
var ErrCacheMiss = errors.New("cache miss error")

// BlockTransform determines how diskv should partition folders.
func BlockTransform(blockSize int) func(string) []string {
	return func(s string) []string {
		var (
			sliceSize = len(s) / blockSize
			pathSlice = make([]string, sliceSize)
		)
		for i := 0; i < sliceSize; i++ {
			from, to := i*blockSize, (i*blockSize)+blockSize
			pathSlice[i] = s[from:to]
		}
		return pathSlice
	}
}

// Cache models a way to store downloaded dataset files between runs.
type Cache interface {
	Get(key string) ([]byte, error)
	Set(key string, b []byte) error
}

type mapCache struct {
	m map[string][]byte
}

func (m mapCache) Get(key string) ([]byte, error) {
	if b, ok := m.m[key]; ok {
		return b, nil
	}
	return nil, ErrCacheMiss
}

func (m mapCache) Set(key string, b []byte) error {
	m.m[key] = b
	return nil
}

// NewMapCache creates a cache out of a regular go map.
func NewMapCache() Cache {
	return mapCache{make(map[string][]byte)}
}

type diskvCache struct {
	*diskv.Diskv
}

func (d diskvCache) Get(key string) ([]byte, error) {
	if !d.Has(key) {
		return nil, ErrCacheMiss
	}
	b, err := d.Read(key)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s from cache", key)
	}
	return b, nil
}

func (d diskvCache) Set(key string, b []byte) error {
	return errors.Wrapf(d.Write(key, b), "writing %s to cache", key)
}

// NewDiskvCache creates a new on-disk cache rooted at dir.
func NewDiskvCache(dir string) Cache {
	return diskvCache{diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    BlockTransform(8),
		CacheSizeMax: 4096 * 1024,
	})}
}

// DefaultCacheDir is the directory datasets are cached in when none is configured.
func DefaultCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", errors.Wrap(err, "locating user cache directory")
	}
	return path.Join(cacheDir, "svmbench", "datasets"), nil
}
