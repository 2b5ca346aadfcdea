package store

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/climode/format"
	"github.com/arloliu/climode/internal/options"
)

// EncodeConfig holds the dataset encoding settings.
type EncodeConfig struct {
	Compression format.CompressionType
	BigEndian   bool
}

func defaultEncodeConfig() EncodeConfig {
	return EncodeConfig{Compression: format.CompressionZstd}
}

// EncodeOption is a functional option for EncodeConfig.
type EncodeOption = options.Option[*EncodeConfig]

// WithCompression selects the value payload codec.
func WithCompression(ct format.CompressionType) EncodeOption {
	return options.New(func(cfg *EncodeConfig) error {
		switch ct {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			cfg.Compression = ct
			return nil
		default:
			return fmt.Errorf("invalid value compression: %v", ct)
		}
	})
}

// WithBigEndian writes multi-byte values in big-endian order.
func WithBigEndian() EncodeOption {
	return options.NoError(func(cfg *EncodeConfig) {
		cfg.BigEndian = true
	})
}

type fileStoreConfig struct {
	logger *zap.Logger
	encode []EncodeOption
}

// FileStoreOption configures a FileStore.
type FileStoreOption = options.Option[*fileStoreConfig]

// WithLogger sets the logger; the default discards everything.
func WithLogger(logger *zap.Logger) FileStoreOption {
	return options.NoError(func(cfg *fileStoreConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	})
}

// WithEncodeOptions sets the options used for every Save.
func WithEncodeOptions(opts ...EncodeOption) FileStoreOption {
	return options.NoError(func(cfg *fileStoreConfig) {
		cfg.encode = append(cfg.encode, opts...)
	})
}
