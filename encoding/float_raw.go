package encoding

import (
	"fmt"
	"iter"
	"math"

	"github.com/arloliu/climode/endian"
	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/internal/pool"
)

// FloatSize is the encoded width of one float64.
const FloatSize = 8

// FloatRawEncoder encodes float64 values as raw IEEE 754 bits.
type FloatRawEncoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

var _ ColumnarEncoder[float64] = (*FloatRawEncoder)(nil)

// NewFloatRawEncoder creates an encoder writing in the byte order of engine.
func NewFloatRawEncoder(engine endian.EndianEngine) *FloatRawEncoder {
	return &FloatRawEncoder{
		engine: engine,
		buf:    pool.GetDatasetBuffer(),
	}
}

// Write encodes a single value.
//
// Panics if Finish() has been called.
func (e *FloatRawEncoder) Write(val float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	e.buf.Grow(FloatSize)
	e.buf.B = e.engine.AppendUint64(e.buf.B, math.Float64bits(val))
}

// WriteSlice encodes values with a single buffer growth.
//
// Panics if Finish() has been called.
func (e *FloatRawEncoder) WriteSlice(values []float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}
	if len(values) == 0 {
		return
	}

	e.count += len(values)
	e.buf.Grow(len(values) * FloatSize)
	for _, v := range values {
		e.buf.B = e.engine.AppendUint64(e.buf.B, math.Float64bits(v))
	}
}

// Bytes returns the encoded values.
func (e *FloatRawEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded values.
func (e *FloatRawEncoder) Len() int {
	return e.count
}

// Size returns the encoded size in bytes.
func (e *FloatRawEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Finish returns the buffer to the pool.
func (e *FloatRawEncoder) Finish() {
	if e.buf != nil {
		pool.PutDatasetBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// FloatRawDecoder decodes data produced by FloatRawEncoder. It is stateless.
type FloatRawDecoder struct {
	engine endian.EndianEngine
}

var _ ColumnarDecoder[float64] = FloatRawDecoder{}

// NewFloatRawDecoder creates a decoder for the byte order of engine.
func NewFloatRawDecoder(engine endian.EndianEngine) FloatRawDecoder {
	return FloatRawDecoder{engine: engine}
}

// All yields the first count values of data.
func (d FloatRawDecoder) All(data []byte, count int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		if count <= 0 || len(data) < count*FloatSize {
			return
		}

		for i := range count {
			start := i * FloatSize
			if !yield(math.Float64frombits(d.engine.Uint64(data[start : start+FloatSize]))) {
				return
			}
		}
	}
}

// At returns the value at index.
func (d FloatRawDecoder) At(data []byte, index int, count int) (float64, bool) {
	if index < 0 || index >= count {
		return 0, false
	}

	start := index * FloatSize
	if start+FloatSize > len(data) {
		return 0, false
	}

	return math.Float64frombits(d.engine.Uint64(data[start : start+FloatSize])), true
}

// DecodeInto fills dst with the first len(dst) values of data.
//
// Returns:
//   - error: ErrTruncatedPayload if data holds fewer than len(dst) values
func (d FloatRawDecoder) DecodeInto(dst []float64, data []byte) error {
	need := len(dst) * FloatSize
	if len(data) < need {
		return fmt.Errorf("%w: %d bytes for %d values", errs.ErrTruncatedPayload, len(data), len(dst))
	}

	for i := range dst {
		start := i * FloatSize
		dst[i] = math.Float64frombits(d.engine.Uint64(data[start : start+FloatSize]))
	}

	return nil
}
