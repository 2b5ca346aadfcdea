package format

type (
	CompressionType uint8
	Kind            uint8
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

const (
	KindField      Kind = 0x1 // KindField is a (time, lat, lon) field.
	KindModes      Kind = 0x2 // KindModes is a set of EOF patterns with explained variance.
	KindSeries     Kind = 0x3 // KindSeries holds only named 1-D series (index, PCs).
	KindRegression Kind = 0x4 // KindRegression holds intercept/slope/correlation levels.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression maps a case-insensitive name ("none", "zstd", "s2", "lz4")
// to its CompressionType. The second result is false for unknown names.
func ParseCompression(name string) (CompressionType, bool) {
	switch name {
	case "none", "None", "NONE", "":
		return CompressionNone, true
	case "zstd", "Zstd", "ZSTD":
		return CompressionZstd, true
	case "s2", "S2":
		return CompressionS2, true
	case "lz4", "LZ4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}

func (k Kind) String() string {
	switch k {
	case KindField:
		return "Field"
	case KindModes:
		return "Modes"
	case KindSeries:
		return "Series"
	case KindRegression:
		return "Regression"
	default:
		return "Unknown"
	}
}

// IsValid reports whether k is a known dataset kind.
func (k Kind) IsValid() bool {
	return k >= KindField && k <= KindRegression
}
