package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// FileStore persists one JSON file per entry in a directory: filename
// is base64url(utf8(key)) plus a configurable extension, and the file
// body is {"value", "createdAt", "expiresAt"?} with ISO-8601 timestamps
// (encoding/json already renders time.Time as RFC3339, which is
// ISO-8601).
//
// The store is not transactional: a crash mid-write can leave a
// corrupt file behind. Get self-heals a corrupt file by deleting it
// and reporting a miss.
type FileStore[V any] struct {
	dir       string
	ext       string
	logger    *zap.Logger
	ensureDir sync.Once
	dirErr    error
}

// FileStoreOption configures a FileStore at construction.
type FileStoreOption[V any] func(*FileStore[V])

// WithExtension overrides the default ".cache" filename extension.
func WithExtension[V any](ext string) FileStoreOption[V] {
	return func(s *FileStore[V]) { s.ext = ext }
}

// WithFileLogger installs a structured logger for I/O diagnostics.
// A nil logger (the default) falls back to a no-op logger.
func WithFileLogger[V any](logger *zap.Logger) FileStoreOption[V] {
	return func(s *FileStore[V]) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewFileStore constructs a FileStore rooted at dir. The directory is
// created lazily on first use, not at construction time.
func NewFileStore[V any](dir string, opts ...FileStoreOption[V]) *FileStore[V] {
	s := &FileStore[V]{
		dir:    dir,
		ext:    ".cache",
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type fileDoc[V any] struct {
	Value     V          `json:"value"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func (s *FileStore[V]) ensureDirOnce() error {
	s.ensureDir.Do(func() {
		s.dirErr = os.MkdirAll(s.dir, 0o700)
	})
	return s.dirErr
}

func (s *FileStore[V]) filename(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key)) + s.ext
}

func (s *FileStore[V]) path(key string) string {
	return filepath.Join(s.dir, s.filename(key))
}

func (s *FileStore[V]) Put(_ context.Context, key string, entry Entry[V]) error {
	if err := s.ensureDirOnce(); err != nil {
		return errors.Wrapf(ErrStoreIO, "create cache directory %s: %v", s.dir, err)
	}
	doc := fileDoc[V]{Value: entry.Value, CreatedAt: entry.CreatedAt, ExpiresAt: entry.ExpiresAt}
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrapf(ErrStoreIO, "marshal entry for key %q: %v", key, err)
	}
	if err := os.WriteFile(s.path(key), data, 0o600); err != nil {
		s.logger.Warn("cache file write failed", zap.String("key", key), zap.Error(err))
		return errors.Wrapf(ErrStoreIO, "write entry for key %q: %v", key, err)
	}
	return nil
}

func (s *FileStore[V]) Get(_ context.Context, key string) (Entry[V], bool, error) {
	var zero Entry[V]
	path := s.path(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return zero, false, nil
		}
		return zero, false, errors.Wrapf(ErrStoreIO, "read entry for key %q: %v", key, err)
	}

	var doc fileDoc[V]
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("corrupt cache file, deleting", zap.String("key", key), zap.Error(err))
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			s.logger.Warn("failed to remove corrupt cache file", zap.String("key", key), zap.Error(rmErr))
		}
		return zero, false, nil
	}

	return Entry[V]{Value: doc.Value, CreatedAt: doc.CreatedAt, ExpiresAt: doc.ExpiresAt}, true, nil
}

func (s *FileStore[V]) Remove(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(ErrStoreIO, "remove entry for key %q: %v", key, err)
	}
	return nil
}

func (s *FileStore[V]) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(ErrStoreIO, "list cache directory %s: %v", s.dir, err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if filepath.Ext(name) != s.ext {
			continue
		}
		encoded := name[:len(name)-len(s.ext)]
		raw, err := base64.RawURLEncoding.DecodeString(encoded)
		if err != nil {
			s.logger.Warn("skipping cache file with unreadable name", zap.String("file", name))
			continue
		}
		keys = append(keys, string(raw))
	}
	return keys, nil
}

func (s *FileStore[V]) ContainsKey(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(ErrStoreIO, "stat entry for key %q: %v", key, err)
}

func (s *FileStore[V]) Clear(ctx context.Context) error {
	keys, err := s.Keys(ctx)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.Remove(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileStore[V]) Len(ctx context.Context) (int64, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(keys)), nil
}

func (s *FileStore[V]) Close(context.Context) error {
	return nil
}
