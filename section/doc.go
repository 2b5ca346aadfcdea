// Package section defines the fixed binary structures of the climode dataset
// format: the 32-byte header and its packed flag.
//
// # Dataset Structure
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Header (32 bytes, fixed)                                │
//	│  - Flag (4 bytes): magic, options, kind, compression    │
//	│  - T, Lat, Lon (12 bytes)                               │
//	│  - SeriesCount (4 bytes)                                │
//	│  - Offsets (12 bytes): coords, series, values           │
//	├─────────────────────────────────────────────────────────┤
//	│ Attributes (variable)                                   │
//	│  - Length-prefixed name, units, long name               │
//	├─────────────────────────────────────────────────────────┤
//	│ Coordinates (variable)                                  │
//	│  - Time, lat, lon: uint32 count + raw float64 values    │
//	├─────────────────────────────────────────────────────────┤
//	│ Series (variable, optional)                             │
//	│  - Name, attributes, time and values per series         │
//	├─────────────────────────────────────────────────────────┤
//	│ Value Payload (variable, optional)                      │
//	│  - Raw float64 field values, compressed                 │
//	├─────────────────────────────────────────────────────────┤
//	│ Checksum (8 bytes)                                      │
//	│  - xxHash64 of every preceding byte                     │
//	└─────────────────────────────────────────────────────────┘
//
// # Header Format
//
//	Bytes  | Field        | Type   | Description
//	-------|--------------|--------|----------------------------------------
//	0-1    | Options      | uint16 | Field bit, endianness bit, magic number
//	2      | Kind         | uint8  | format.Kind
//	3      | Compression  | uint8  | Value payload codec (bits 0-3)
//	4-15   | T, Lat, Lon  | uint32 | Field extents, zero without a field
//	16-19  | SeriesCount  | uint32 | Number of named series
//	20-31  | Offsets      | uint32 | Coordinate, series and value sections
//
// The Options field is always stored little-endian so that a reader can find
// the endianness bit before decoding anything else. Every other multi-byte
// value uses the byte order selected by that bit.
package section
