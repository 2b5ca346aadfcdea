package encoding

import (
	"fmt"

	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/internal/pool"
)

// MaxTextLength is the maximum length of an attribute or series name.
// It matches the uint8 length prefix.
const MaxTextLength = 255

// VarStringEncoder encodes strings with a uint8 length prefix.
//
// Each string is encoded as:
//   - 1 byte: length (0-255)
//   - N bytes: string data (UTF-8)
type VarStringEncoder struct {
	buf   *pool.ByteBuffer
	count int
}

// NewVarStringEncoder creates a new variable-length string encoder.
func NewVarStringEncoder() *VarStringEncoder {
	return &VarStringEncoder{buf: pool.GetDatasetBuffer()}
}

// Write encodes a single string.
//
// Returns:
//   - error: ErrTextTooLong if text exceeds MaxTextLength bytes
func (e *VarStringEncoder) Write(text string) error {
	if len(text) > MaxTextLength {
		return fmt.Errorf("%w: %d bytes, maximum %d", errs.ErrTextTooLong, len(text), MaxTextLength)
	}

	e.count++
	e.buf.Grow(1 + len(text))
	e.buf.B = append(e.buf.B, uint8(len(text))) //nolint:gosec
	e.buf.B = append(e.buf.B, text...)

	return nil
}

// WriteSlice encodes texts, validating all of them before writing any.
func (e *VarStringEncoder) WriteSlice(texts []string) error {
	totalSize := 0
	for _, text := range texts {
		if len(text) > MaxTextLength {
			return fmt.Errorf("%w: %d bytes, maximum %d", errs.ErrTextTooLong, len(text), MaxTextLength)
		}
		totalSize += 1 + len(text)
	}

	e.buf.Grow(totalSize)
	for _, text := range texts {
		e.buf.B = append(e.buf.B, uint8(len(text))) //nolint:gosec
		e.buf.B = append(e.buf.B, text...)
		e.count++
	}

	return nil
}

// Bytes returns the encoded data. Do not modify the returned slice.
func (e *VarStringEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of strings encoded.
func (e *VarStringEncoder) Len() int {
	return e.count
}

// Size returns the total size of encoded data in bytes.
func (e *VarStringEncoder) Size() int {
	return e.buf.Len()
}

// Reset returns the buffer to the pool. The encoder must not be used again.
func (e *VarStringEncoder) Reset() {
	if e.buf != nil {
		pool.PutDatasetBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// ReadVarString decodes one length-prefixed string from the start of data.
//
// Returns:
//   - string: The decoded string
//   - int: Number of bytes consumed
//   - error: ErrTruncatedPayload if data ends inside the string
func ReadVarString(data []byte) (string, int, error) {
	if len(data) == 0 {
		return "", 0, fmt.Errorf("%w: missing string length", errs.ErrTruncatedPayload)
	}

	n := int(data[0])
	if len(data) < 1+n {
		return "", 0, fmt.Errorf("%w: string of %d bytes, %d available", errs.ErrTruncatedPayload, n, len(data)-1)
	}

	return string(data[1 : 1+n]), 1 + n, nil
}
