// Package encoding provides the column encoders and decoders used by the
// dataset codec in package store.
//
// Float64 columns (field values, coordinates, series) are stored as raw
// IEEE 754 bit patterns in the byte order of an endian.EndianEngine, so NaN
// missing markers survive a round trip bit for bit. Attribute strings are
// stored with a one-byte length prefix.
//
// Encoders draw their buffers from internal/pool and must be released with
// Finish (or Reset for VarStringEncoder) once their bytes have been copied.
package encoding
