// Package compress provides the payload codecs of the climode dataset format.
//
// The value payload of a stored field (raw float64 columns) is compressed with
// one of:
//   - None: no compression
//   - Zstd: best ratio, the default for long-term storage
//   - S2: balanced speed and ratio
//   - LZ4: fastest decompression
//
// Every codec implements Codec:
//
//	type Codec interface {
//	    Compress(data []byte) ([]byte, error)
//	    Decompress(data []byte) ([]byte, error)
//	}
//
// The reader always knows the decompressed size of a payload (T*Lat*Lon*8
// bytes), so DecompressSized lets codecs that support it allocate the output
// once instead of guessing.
//
// # Zstd Backends
//
// Zstd is provided by the pure-Go github.com/klauspost/compress/zstd by
// default. Building with cgo enabled and the gozstd tag switches to the
// libzstd binding github.com/valyala/gozstd:
//
//	go build -tags gozstd ./...
//
// Both produce standard zstd frames and read each other's output.
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(payload)
//	...
//	payload, err = compress.DecompressSized(codec, packed, len(payload))
package compress
