package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// defaultDirName is the subdirectory used under the user cache dir when no
// explicit root is configured.
const defaultDirName = "amp-toolbox"

// FileStore persists one file per key under a root directory. Keys are
// hashed so arbitrary strings (URLs included) map to safe filenames.
type FileStore struct {
	dir string
	log *zap.Logger
}

// NewFileStore ensures dir exists and returns a store rooted there.
// An empty dir selects a per-user default location.
func NewFileStore(dir string, log *zap.Logger) (*FileStore, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, defaultDirName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FileStore{dir: dir, log: log}, nil
}

// Dir returns the root directory of the store.
func (s *FileStore) Dir() string {
	return s.dir
}

// Get returns the stored bytes for key. Any read failure is a miss.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Debug("cache read failed, treating as miss",
				zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

// Set stores value under key. Failures are logged and otherwise dropped.
func (s *FileStore) Set(ctx context.Context, key string, value []byte) {
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *FileStore) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:]))
}
