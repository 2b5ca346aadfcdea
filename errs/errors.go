// Package errs defines the sentinel errors shared by all climode packages.
//
// Errors are returned either directly or wrapped with additional context via
// fmt.Errorf("%w: ...", errs.ErrX, ...). Callers match them with errors.Is.
package errs

import "errors"

// Analysis errors.
var (
	// ErrShapeMismatch indicates inconsistent dimensions between inputs, or a
	// validity index that does not fit the target grid.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInsufficientData indicates too few valid samples or columns for the
	// requested computation, or non-finite values where finite ones are required.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrEmptyOverlap indicates that a field slice and a pattern share no valid cell.
	ErrEmptyOverlap = errors.New("empty overlap between field and pattern")

	// ErrZeroPattern indicates that a pattern has zero norm over the common valid cells.
	ErrZeroPattern = errors.New("pattern has zero norm over valid cells")

	// ErrLengthMismatch indicates that a regressor series does not match the
	// field's time extent.
	ErrLengthMismatch = errors.New("length mismatch")
)

// Dataset format errors.
var (
	ErrInvalidHeaderSize  = errors.New("invalid header size")
	ErrInvalidHeaderFlags = errors.New("invalid header flags")
	ErrInvalidMagicNumber = errors.New("invalid magic number")
	ErrInvalidKind        = errors.New("invalid dataset kind")
	ErrTruncatedPayload   = errors.New("truncated payload")
	ErrChecksumMismatch   = errors.New("checksum mismatch")
	ErrTextTooLong        = errors.New("text exceeds maximum length")
)

// Store errors.
var (
	ErrNotFound   = errors.New("dataset not found")
	ErrInvalidKey = errors.New("invalid dataset key")
	ErrNilDataset = errors.New("nil dataset")
	// ErrHashCollision indicates that two different keys share a 64-bit ID.
	ErrHashCollision = errors.New("key hash collision")
)
