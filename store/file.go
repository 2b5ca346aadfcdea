package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/internal/options"
)

// fileExt is the extension of dataset files.
const fileExt = ".cmd"

// FileStore keeps one file per key in a directory.
type FileStore struct {
	dir    string
	logger *zap.Logger
	encode []EncodeOption
}

var _ Store = (*FileStore)(nil)

// NewFileStore opens (creating if needed) a store rooted at dir.
//
// Parameters:
//   - dir: Directory holding the dataset files
//   - opts: WithLogger, WithEncodeOptions
//
// Returns:
//   - *FileStore: The store
//   - error: If the directory cannot be created or an option is invalid
func NewFileStore(dir string, opts ...FileStoreOption) (*FileStore, error) {
	cfg := fileStoreConfig{logger: zap.NewNop()}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}
	if dir == "" {
		return nil, fmt.Errorf("store directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	return &FileStore{dir: dir, logger: cfg.logger, encode: cfg.encode}, nil
}

// Dir returns the root directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file that holds key.
func (s *FileStore) Path(key Key) string {
	return filepath.Join(s.dir, strconv.FormatUint(key.ID(), 16)+fileExt)
}

// Load reads and decodes the dataset saved under key.
func (s *FileStore) Load(ctx context.Context, key Key) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := key.Validate(); err != nil {
		return nil, err
	}

	path := s.Path(key)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", errs.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	ds, err := Decode(data)
	if err != nil {
		s.logger.Warn("corrupt dataset", zap.Stringer("key", key), zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}

	s.logger.Debug("loaded dataset",
		zap.Stringer("key", key),
		zap.Stringer("kind", ds.Kind),
		zap.Int("bytes", len(data)),
	)

	return ds, nil
}

// Save encodes ds and atomically replaces the file for key.
func (s *FileStore) Save(ctx context.Context, key Key, ds *Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := key.Validate(); err != nil {
		return err
	}

	data, stats, err := encode(ds, s.encode...)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	path := s.Path(key)
	tmp, err := os.CreateTemp(s.dir, ".tmp-*"+fileExt)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec
		return fmt.Errorf("save %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}

	s.logger.Debug("saved dataset",
		zap.Stringer("key", key),
		zap.Stringer("kind", ds.Kind),
		zap.Int("bytes", len(data)),
		zap.Stringer("compression", stats.Algorithm),
		zap.Float64("ratio", stats.CompressionRatio()),
	)

	return nil
}

// Delete removes the file for key.
func (s *FileStore) Delete(ctx context.Context, key Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(s.Path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	return nil
}
