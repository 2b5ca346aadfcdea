package section

import (
	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/format"
)

// Header is the fixed-size section at the start of a dataset.
type Header struct {
	// Flag is a packed field for options, magic number, kind and compression.
	Flag Flag // byte offset 0-3
	// T, Lat and Lon are the field extents; all zero when no field is stored.
	T   uint32 // byte offset 4-7
	Lat uint32 // byte offset 8-11
	Lon uint32 // byte offset 12-15
	// SeriesCount is the number of named series.
	SeriesCount uint32 // byte offset 16-19
	// CoordOffset is the byte offset of the coordinate section. It records
	// the offset after the attribute section.
	CoordOffset uint32 // byte offset 20-23
	// SeriesOffset is the byte offset of the series section.
	SeriesOffset uint32 // byte offset 24-27
	// ValueOffset is the byte offset of the compressed field value payload.
	// The payload ends ChecksumSize bytes before the end of the dataset.
	ValueOffset uint32 // byte offset 28-31
}

// NewHeader creates a header of the given kind. Extents and offsets are set by
// the encoder.
func NewHeader(kind format.Kind) *Header {
	return &Header{Flag: NewFlag(kind)}
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing header (must be exactly 32 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not 32 bytes, or flag validation errors
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// Options is always little-endian; it carries the endianness bit itself.
	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.Kind = data[2]
	h.Flag.Compression = data[3]

	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.Flag.GetEndianEngine()
	h.T = engine.Uint32(data[4:8])
	h.Lat = engine.Uint32(data[8:12])
	h.Lon = engine.Uint32(data[12:16])
	h.SeriesCount = engine.Uint32(data[16:20])
	h.CoordOffset = engine.Uint32(data[20:24])
	h.SeriesOffset = engine.Uint32(data[24:28])
	h.ValueOffset = engine.Uint32(data[28:32])

	return h.validateLayout()
}

func (h *Header) validateLayout() error {
	if h.CoordOffset < AttrsOffset || h.SeriesOffset < h.CoordOffset || h.ValueOffset < h.SeriesOffset {
		return errs.ErrInvalidHeaderFlags
	}
	if h.Flag.HasField() != (h.T > 0) || (h.T > 0) != (h.Lat > 0 && h.Lon > 0) {
		return errs.ErrInvalidHeaderFlags
	}
	if h.SeriesCount > MaxSeries {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}

// Bytes serializes the header into a byte slice.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)

	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[2] = h.Flag.Kind
	b[3] = h.Flag.Compression

	engine := h.Flag.GetEndianEngine()
	engine.PutUint32(b[4:8], h.T)
	engine.PutUint32(b[8:12], h.Lat)
	engine.PutUint32(b[12:16], h.Lon)
	engine.PutUint32(b[16:20], h.SeriesCount)
	engine.PutUint32(b[20:24], h.CoordOffset)
	engine.PutUint32(b[24:28], h.SeriesOffset)
	engine.PutUint32(b[28:32], h.ValueOffset)

	return b
}

// Cells returns Lat*Lon.
func (h *Header) Cells() int {
	return int(h.Lat) * int(h.Lon)
}

// ValueCount returns T*Lat*Lon.
func (h *Header) ValueCount() int {
	return int(h.T) * h.Cells()
}

// ParseHeader parses a Header from the start of a byte slice.
//
// Parameters:
//   - data: Byte slice containing header (must be at least 32 bytes)
//
// Returns:
//   - Header: Parsed header struct
//   - error: ErrInvalidHeaderSize, ErrInvalidMagicNumber, ErrInvalidKind or ErrInvalidHeaderFlags
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.ErrInvalidHeaderSize
	}

	h := Header{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
