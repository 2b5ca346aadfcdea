package encoding

import "iter"

// ColumnarEncoder accumulates a column of fixed-width values.
type ColumnarEncoder[T comparable] interface {
	// Bytes returns the encoded byte slice.
	// The returned slice is valid until the next call to Write, WriteSlice, or Finish.
	// The caller should not modify the returned slice.
	Bytes() []byte

	// Len returns the number of encoded values.
	Len() int

	// Size returns the size in bytes of the encoded values.
	Size() int

	// Finish returns the buffer to the pool. The encoder is unusable afterwards.
	//
	//	enc := NewFloatRawEncoder(engine)
	//	defer enc.Finish()
	Finish()

	// Write encodes a single value.
	Write(data T)

	// WriteSlice encodes a slice of values.
	WriteSlice(values []T)
}

// ColumnarDecoder reads values produced by a ColumnarEncoder.
type ColumnarDecoder[T comparable] interface {
	// All returns an iterator over the first count values of data.
	// It yields nothing if data is shorter than count values.
	All(data []byte, count int) iter.Seq[T]

	// At returns the value at index, or false if index is outside [0, count)
	// or beyond the data.
	At(data []byte, index int, count int) (T, bool)
}
