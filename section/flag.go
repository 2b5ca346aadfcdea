package section

import (
	"github.com/arloliu/climode/endian"
	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/format"
)

// Flag is the packed leading 4 bytes of a dataset header.
type Flag struct {
	// Options is a packed field for various options.
	// Bit 0 is set when the dataset carries a gridded field.
	// Bit 1 is endianness flag, 0 means little-endian, 1 means big-endian.
	// Bit 2-3 are reserved for future use, must be set to 0.
	// Bit 4-15 are the magic number, 0xC410 for dataset format v1.
	Options uint16

	// Kind is the dataset kind (format.Kind).
	Kind uint8
	// Compression holds the value payload compression in bits 0-3.
	Compression uint8
}

var validCompressions = map[uint8]struct{}{
	ValueCompressionNone: {},
	ValueCompressionZstd: {},
	ValueCompressionS2:   {},
	ValueCompressionLZ4:  {},
}

// NewFlag creates a little-endian flag for the given kind, without compression.
func NewFlag(kind format.Kind) Flag {
	flag := Flag{
		Options:     MagicDatasetV1Opt,
		Kind:        uint8(kind),
		Compression: ValueCompressionNone,
	}
	flag.WithLittleEndian()

	return flag
}

// HasField returns whether a gridded field is stored.
func (f Flag) HasField() bool {
	return (f.Options & FieldMask) != 0
}

// SetHasField marks whether a gridded field is stored.
func (f *Flag) SetHasField(present bool) {
	if present {
		f.Options |= FieldMask
	} else {
		f.Options &^= FieldMask
	}
}

// IsLittleEndian returns whether the data is little-endian.
func (f Flag) IsLittleEndian() bool {
	return (f.Options & EndiannessMask) == 0
}

// IsBigEndian returns whether the data is big-endian.
func (f Flag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// WithLittleEndian sets little-endian byte order.
func (f *Flag) WithLittleEndian() {
	f.Options &= ^uint16(EndiannessMask)
}

// WithBigEndian sets big-endian byte order.
func (f *Flag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// GetMagicNumber returns the magic number from the Options field.
func (f Flag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// DatasetKind returns the dataset kind.
func (f Flag) DatasetKind() format.Kind {
	return format.Kind(f.Kind)
}

// ValueCompression returns the value compression type from bits 0-3.
func (f Flag) ValueCompression() format.CompressionType {
	return format.CompressionType(f.Compression & 0x0F)
}

// SetValueCompression sets the value compression type in bits 0-3.
func (f *Flag) SetValueCompression(compression format.CompressionType) {
	f.Compression &^= 0x0F
	f.Compression |= uint8(compression) & 0x0F
}

// IsValidMagicNumber checks if the magic number is valid.
func (f Flag) IsValidMagicNumber() bool {
	return f.GetMagicNumber() == MagicDatasetV1Opt
}

// Validate checks if the flag contains valid values.
func (f Flag) Validate() error {
	if !f.IsValidMagicNumber() {
		return errs.ErrInvalidMagicNumber
	}
	if f.Options&ReservedBitsMask != 0 {
		return errs.ErrInvalidHeaderFlags
	}
	if !f.DatasetKind().IsValid() {
		return errs.ErrInvalidKind
	}
	if _, ok := validCompressions[f.Compression]; !ok {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}

// GetEndianEngine returns the appropriate endian engine based on the flag.
func (f Flag) GetEndianEngine() endian.EndianEngine {
	if f.IsLittleEndian() {
		return endian.GetLittleEndianEngine()
	}

	return endian.GetBigEndianEngine()
}
