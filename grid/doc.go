// Package grid defines the in-memory data model shared by the analysis packages.
//
// A Field is a 3-D array indexed by (time, lat, lon) stored row-major in a flat
// []float64, a Slab is one 2-D (lat, lon) level such as an EOF pattern, and a
// Series is a 1-D array over time such as a projection index. Missing values
// are marked with NaN (see Missing and IsMissing); ±Inf is not a missing marker.
//
// Values in this package are plain data. Analysis functions treat them as
// immutable inputs and always return newly allocated outputs, so a Field may
// be shared by concurrent readers.
package grid
