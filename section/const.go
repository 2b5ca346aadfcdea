package section

import (
	"math"

	"github.com/arloliu/climode/format"
)

const (
	// Bit masks
	FieldMask        = 0x0001 // Mask for gridded-field presence bit (bit 0)
	EndiannessMask   = 0x0002 // Mask for endianness bit (bit 1)
	ReservedBitsMask = 0x000C // Mask for reserved bits (bits 2-3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicDatasetV1Opt is the version 1 magic number of the dataset format.
	MagicDatasetV1Opt = 0xC410

	// Value payload compression (bits 0-3 of the compression byte)
	ValueCompressionNone = uint8(format.CompressionNone)
	ValueCompressionZstd = uint8(format.CompressionZstd)
	ValueCompressionS2   = uint8(format.CompressionS2)
	ValueCompressionLZ4  = uint8(format.CompressionLZ4)
)

// offsets and section sizes in the dataset file
const (
	HeaderSize    = 32             // fixed header size in bytes
	AttrsOffset   = HeaderSize     // byte offset where the attribute section starts
	ChecksumSize  = 8              // trailing xxHash64 of every preceding byte
	MaxOffset     = math.MaxUint32 // maximum section offset
	MaxSeries     = math.MaxUint16 // maximum number of named series in one dataset
	MaxDimExtent  = math.MaxInt32  // maximum extent of a single dimension
	MinDatasetLen = HeaderSize + ChecksumSize
)
