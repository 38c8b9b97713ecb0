// Package kvstore persists small documents as one file per key.
//
// Each key maps to <dir>/<key><ext>, encoded with the configured codec
// (JSON, TOML or YAML). Writes replace the file atomically; a missing file
// loads as "no document".
package kvstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/utils"
)

// FileStore is a directory of codec-encoded documents
type FileStore struct {
	dir    string
	codec  Codec
	logger *logging.Logger

	mu sync.Mutex
}

// NewFileStore creates the store directory if needed
func NewFileStore(dir string, codec Codec, logger *logging.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("store directory is required")
	}
	if codec == nil {
		return nil, errors.New("store codec is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}
	return &FileStore{
		dir:    dir,
		codec:  codec,
		logger: logger.Component("kvstore"),
	}, nil
}

// Dir returns the store directory
func (s *FileStore) Dir() string { return s.dir }

// Path returns the document file for key
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, key+s.codec.Ext())
}

// Load decodes the document for key into v. It reports false, and leaves v
// untouched, when no document exists.
func (s *FileStore) Load(key string, v interface{}) (bool, error) {
	if err := validKey(key); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(key)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return false, nil
	}

	if err := s.codec.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s as %s: %w", path, s.codec.Name(), err)
	}
	return true, nil
}

// Save encodes v and atomically replaces the document for key
func (s *FileStore) Save(key string, v interface{}) error {
	if err := validKey(key); err != nil {
		return err
	}

	data, err := s.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s as %s: %w", key, s.codec.Name(), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(key)
	if err := utils.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	s.logger.Debug("document saved", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// Delete removes the document for key; a missing document is not an error
func (s *FileStore) Delete(key string) error {
	if err := validKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func validKey(key string) error {
	if key == "" || key == "." || key == ".." || filepath.Base(key) != key {
		return fmt.Errorf("invalid store key %q", key)
	}
	return nil
}
