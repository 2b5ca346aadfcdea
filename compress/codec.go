package compress

import (
	"fmt"
	"time"

	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/format"
)

// Compressor compresses a payload.
type Compressor interface {
	// Compress returns the compressed form of data. data is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines Compressor and Decompressor.
type Codec interface {
	Compressor
	Decompressor
}

// SizedDecompressor is implemented by codecs that can decompress into a
// buffer of a known final size.
type SizedDecompressor interface {
	DecompressSized(data []byte, size int) ([]byte, error)
}

// CompressionStats describes one compression run.
type CompressionStats struct {
	// Algorithm is the compression type used.
	Algorithm format.CompressionType
	// OriginalSize is the payload size before compression.
	OriginalSize int64
	// CompressedSize is the payload size after compression.
	CompressedSize int64
	// CompressionTimeNs is the time spent compressing, in nanoseconds.
	CompressionTimeNs int64
}

// CompressionRatio returns CompressedSize/OriginalSize (0 for an empty payload).
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the percentage of space saved.
func (s CompressionStats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - s.CompressionRatio()) * 100.0
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the shared codec for compressionType. Codecs are stateless
// and safe for concurrent use.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// CompressWithStats compresses data with the codec for compressionType and
// reports the sizes and elapsed time.
func CompressWithStats(compressionType format.CompressionType, data []byte) ([]byte, CompressionStats, error) {
	codec, err := GetCodec(compressionType)
	if err != nil {
		return nil, CompressionStats{}, err
	}

	start := time.Now()
	out, err := codec.Compress(data)
	if err != nil {
		return nil, CompressionStats{}, err
	}

	return out, CompressionStats{
		Algorithm:         compressionType,
		OriginalSize:      int64(len(data)),
		CompressedSize:    int64(len(out)),
		CompressionTimeNs: time.Since(start).Nanoseconds(),
	}, nil
}

// DecompressSized decompresses data that is known to expand to exactly size
// bytes.
//
// Returns:
//   - []byte: The decompressed payload
//   - error: ErrTruncatedPayload if the output size differs from size
func DecompressSized(codec Codec, data []byte, size int) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}

	var (
		out []byte
		err error
	)
	if sd, ok := codec.(SizedDecompressor); ok {
		out, err = sd.DecompressSized(data, size)
	} else {
		out, err = codec.Decompress(data)
	}
	if err != nil {
		return nil, err
	}
	if len(out) != size {
		return nil, fmt.Errorf("%w: decompressed %d bytes, want %d", errs.ErrTruncatedPayload, len(out), size)
	}

	return out, nil
}
