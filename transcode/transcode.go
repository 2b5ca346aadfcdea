// Package transcode maps 3-D (time, lat, lon) fields to 2-D (time, cell)
// matrices and back.
//
// Flatten keeps only the grid cells that hold a valid value at every time
// step and records their flattened (lat*NLon + lon) positions in a
// ValidityIndex. Unflatten scatters matrix columns back to those positions
// and fills every other cell with the missing-value marker, so
//
//	m, _ := transcode.Flatten(f)
//	g, _ := m.Unflatten()
//
// reproduces f exactly at every valid position.
//
// The same ValidityIndex must be used for both directions. Recomputing it
// from a different field may select different cells.
package transcode

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/grid"
)

// ValidityIndex holds the strictly increasing flattened positions of the
// cells kept by Flatten.
type ValidityIndex []int

// Validate checks that the index is strictly increasing and that every
// position lies in [0, cells).
func (ix ValidityIndex) Validate(cells int) error {
	if len(ix) > cells {
		return fmt.Errorf("%w: %d index entries for %d cells", errs.ErrShapeMismatch, len(ix), cells)
	}

	prev := -1
	for j, p := range ix {
		if p < 0 || p >= cells {
			return fmt.Errorf("%w: index entry %d is %d, outside [0, %d)", errs.ErrShapeMismatch, j, p, cells)
		}
		if p <= prev {
			return fmt.Errorf("%w: index entry %d (%d) is not increasing", errs.ErrShapeMismatch, j, p)
		}
		prev = p
	}

	return nil
}

// Mask returns a cells-long boolean mask that is true at indexed positions.
// Positions outside [0, cells) are ignored.
func (ix ValidityIndex) Mask(cells int) []bool {
	mask := make([]bool, cells)
	for _, p := range ix {
		if p >= 0 && p < cells {
			mask[p] = true
		}
	}

	return mask
}

// Contains reports whether position p is in the index.
func (ix ValidityIndex) Contains(p int) bool {
	lo, hi := 0, len(ix)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if ix[mid] < p {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	return lo < len(ix) && ix[lo] == p
}

// Matrix is a flattened field: one row per time step, one column per valid cell.
//
// Column j holds the time series of the cell at flattened position Index[j].
// Data is nil when no cell is valid.
type Matrix struct {
	Data   *mat.Dense
	Index  ValidityIndex
	NLat   int
	NLon   int
	Coords grid.Coords
	Attrs  grid.Attrs

	rows int // time steps when Data is nil
}

// Rows returns the number of time steps.
func (m *Matrix) Rows() int {
	if m.Data == nil {
		return m.rows
	}
	r, _ := m.Data.Dims()

	return r
}

// Cols returns the number of valid cells.
func (m *Matrix) Cols() int {
	return len(m.Index)
}

// Unflatten reverses Flatten using the matrix's own ValidityIndex and extents.
func (m *Matrix) Unflatten() (*grid.Field, error) {
	var src mat.Matrix
	if m.Data != nil {
		src = m.Data
	} else {
		src = emptyColumns(m.rows)
	}

	f, err := Unflatten(src, m.Rows(), m.NLat, m.NLon, m.Index)
	if err != nil {
		return nil, err
	}
	if m.Coords.Time != nil && len(m.Coords.Time) == f.Shape.T {
		f.Coords.Time = append([]float64(nil), m.Coords.Time...)
	}
	f.Coords.Lat = copyCoords(m.Coords.Lat, m.NLat)
	f.Coords.Lon = copyCoords(m.Coords.Lon, m.NLon)
	f.Attrs = m.Attrs

	return f, nil
}

// Flatten reshapes f into a (time x valid-cell) matrix.
//
// A cell is valid iff it never holds a missing value. Valid cells are kept
// in increasing flattened order. A field without any valid cell yields a
// matrix with zero columns and a nil Data.
//
// Parameters:
//   - f: Source field, not modified
//
// Returns:
//   - *Matrix: The flattened data with its ValidityIndex
//   - error: ErrShapeMismatch if f is inconsistent
func Flatten(f *grid.Field) (*Matrix, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	cells := f.Shape.Cells()
	valid := make([]bool, cells)
	for c := range valid {
		valid[c] = true
	}
	for t := range f.Shape.T {
		step := f.Step(t)
		for c, v := range step {
			if valid[c] && grid.IsMissing(v) {
				valid[c] = false
			}
		}
	}

	index := make(ValidityIndex, 0, cells)
	for c, ok := range valid {
		if ok {
			index = append(index, c)
		}
	}

	m := &Matrix{
		Index: index,
		NLat:  f.Shape.Lat,
		NLon:  f.Shape.Lon,
		Coords: grid.Coords{
			Time: copyCoords(f.Coords.Time, f.Shape.T),
			Lat:  copyCoords(f.Coords.Lat, f.Shape.Lat),
			Lon:  copyCoords(f.Coords.Lon, f.Shape.Lon),
		},
		Attrs: f.Attrs,
		rows:  f.Shape.T,
	}
	if len(index) == 0 {
		return m, nil
	}

	data := make([]float64, f.Shape.T*len(index))
	for t := range f.Shape.T {
		step := f.Step(t)
		row := data[t*len(index) : (t+1)*len(index)]
		for j, c := range index {
			row[j] = step[c]
		}
	}
	m.Data = mat.NewDense(f.Shape.T, len(index), data)

	return m, nil
}

// Unflatten scatters the columns of m back onto a k x nlat x nlon grid.
//
// Column j is written to flattened position index[j] of every level; every
// other position is missing. The returned field has no coordinates.
//
// Parameters:
//   - m: Matrix shaped (k, len(index))
//   - k: Expected number of rows (time steps or modes)
//   - nlat, nlon: Grid extents
//   - index: ValidityIndex that produced the columns of m
//
// Returns:
//   - *grid.Field: New field shaped (k, nlat, nlon)
//   - error: ErrShapeMismatch on any dimension or index inconsistency
func Unflatten(m mat.Matrix, k, nlat, nlon int, index ValidityIndex) (*grid.Field, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil matrix", errs.ErrShapeMismatch)
	}

	shape := grid.Shape{T: k, Lat: nlat, Lon: nlon}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if err := index.Validate(shape.Cells()); err != nil {
		return nil, err
	}

	r, c := dims(m)
	if r != k {
		return nil, fmt.Errorf("%w: matrix has %d rows, want %d", errs.ErrShapeMismatch, r, k)
	}
	if c != len(index) {
		return nil, fmt.Errorf("%w: matrix has %d columns for %d index entries", errs.ErrShapeMismatch, c, len(index))
	}

	f, err := grid.NewMissingField(shape)
	if err != nil {
		return nil, err
	}
	for t := range k {
		base := t * shape.Cells()
		for j, p := range index {
			f.Data[base+p] = m.At(t, j)
		}
	}

	return f, nil
}

// dims tolerates the zero-column placeholder, which mat.Dense cannot represent.
func dims(m mat.Matrix) (int, int) {
	if e, ok := m.(emptyColumns); ok {
		return int(e), 0
	}

	return m.Dims()
}

// emptyColumns is an r x 0 matrix.
type emptyColumns int

func (e emptyColumns) Dims() (int, int)    { return int(e), 0 }
func (e emptyColumns) At(i, j int) float64 { panic(mat.ErrIndexOutOfRange) }
func (e emptyColumns) T() mat.Matrix       { return mat.Transpose{Matrix: e} }

func copyCoords(c []float64, n int) []float64 {
	if len(c) != n {
		return nil
	}

	return append([]float64(nil), c...)
}
