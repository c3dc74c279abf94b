package state

import (
	"os"
	"path/filepath"
	"time"

	"litgen/misc"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
	}
}

// DefaultCachePath returns location of the generation cache database used
// when configuration does not specify one explicitly.
func (e *LocalEnv) DefaultCachePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, misc.GetAppName())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache.db"), nil
}
