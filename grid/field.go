package grid

import (
	"fmt"
	"math"

	"github.com/arloliu/climode/errs"
)

// DefaultUnits is the units string given to dimensionless results.
const DefaultUnits = "1"

// Missing returns the missing-value marker.
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether v is the missing-value marker.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// CountValid returns the number of non-missing values in vals.
func CountValid(vals []float64) int {
	n := 0
	for _, v := range vals {
		if !IsMissing(v) {
			n++
		}
	}

	return n
}

// Shape holds the extents of a (time, lat, lon) array.
type Shape struct {
	T   int
	Lat int
	Lon int
}

// Cells returns the number of spatial grid cells (Lat*Lon).
func (s Shape) Cells() int {
	return s.Lat * s.Lon
}

// Len returns the total number of elements (T*Lat*Lon).
func (s Shape) Len() int {
	return s.T * s.Lat * s.Lon
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d, %d)", s.T, s.Lat, s.Lon)
}

// Validate checks that every extent is positive.
func (s Shape) Validate() error {
	if s.T <= 0 || s.Lat <= 0 || s.Lon <= 0 {
		return fmt.Errorf("%w: non-positive extent in shape %s", errs.ErrShapeMismatch, s)
	}

	return nil
}

// Coords holds optional coordinate values for each axis.
// A nil slice means the axis has no coordinates.
type Coords struct {
	Time []float64
	Lat  []float64
	Lon  []float64
}

// Attrs carries descriptive metadata propagated from the source data.
type Attrs struct {
	Name     string
	Units    string
	LongName string
}

// UnitsOr returns the units, or fallback when none are set.
func (a Attrs) UnitsOr(fallback string) string {
	if a.Units == "" {
		return fallback
	}

	return a.Units
}

// Field is a 3-D array indexed by (time, lat, lon).
//
// Data is row-major: the element (t, i, j) lives at t*Lat*Lon + i*Lon + j.
type Field struct {
	Shape  Shape
	Data   []float64
	Coords Coords
	Attrs  Attrs
}

// NewField wraps data as a Field of the given shape.
//
// The data slice is not copied; callers hand over ownership.
//
// Returns:
//   - *Field: The field
//   - error: ErrShapeMismatch if the shape is invalid or len(data) != shape.Len()
func NewField(shape Shape, data []float64) (*Field, error) {
	f := &Field{Shape: shape, Data: data}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	return f, nil
}

// NewMissingField allocates a field of the given shape filled with missing values.
func NewMissingField(shape Shape) (*Field, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	data := make([]float64, shape.Len())
	fillMissing(data)

	return &Field{Shape: shape, Data: data}, nil
}

// Validate checks the data length and any coordinate lengths against the shape.
func (f *Field) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil field", errs.ErrShapeMismatch)
	}
	if err := f.Shape.Validate(); err != nil {
		return err
	}
	if len(f.Data) != f.Shape.Len() {
		return fmt.Errorf("%w: %d values for shape %s", errs.ErrShapeMismatch, len(f.Data), f.Shape)
	}

	return checkCoords(f.Coords, f.Shape)
}

func checkCoords(c Coords, s Shape) error {
	if c.Time != nil && len(c.Time) != s.T {
		return fmt.Errorf("%w: %d time coordinates for extent %d", errs.ErrShapeMismatch, len(c.Time), s.T)
	}
	if c.Lat != nil && len(c.Lat) != s.Lat {
		return fmt.Errorf("%w: %d lat coordinates for extent %d", errs.ErrShapeMismatch, len(c.Lat), s.Lat)
	}
	if c.Lon != nil && len(c.Lon) != s.Lon {
		return fmt.Errorf("%w: %d lon coordinates for extent %d", errs.ErrShapeMismatch, len(c.Lon), s.Lon)
	}

	return nil
}

// Offset returns the index into Data of element (t, lat, lon).
func (f *Field) Offset(t, lat, lon int) int {
	return (t*f.Shape.Lat+lat)*f.Shape.Lon + lon
}

// At returns element (t, lat, lon).
func (f *Field) At(t, lat, lon int) float64 {
	return f.Data[f.Offset(t, lat, lon)]
}

// Step returns the (lat, lon) values of time step t without copying.
// The returned slice must not be modified.
func (f *Field) Step(t int) []float64 {
	cells := f.Shape.Cells()
	return f.Data[t*cells : (t+1)*cells]
}

// Slice returns a copy of time step t as a Slab carrying the field's lat/lon
// coordinates and attributes.
func (f *Field) Slice(t int) Slab {
	return Slab{
		NLat:  f.Shape.Lat,
		NLon:  f.Shape.Lon,
		Data:  append([]float64(nil), f.Step(t)...),
		Lat:   cloneFloats(f.Coords.Lat),
		Lon:   cloneFloats(f.Coords.Lon),
		Attrs: f.Attrs,
	}
}

// Cell returns a copy of the time series at flattened cell index c (lat*Lon + lon).
func (f *Field) Cell(c int) []float64 {
	cells := f.Shape.Cells()
	out := make([]float64, f.Shape.T)
	for t := range out {
		out[t] = f.Data[t*cells+c]
	}

	return out
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	return &Field{
		Shape: f.Shape,
		Data:  append([]float64(nil), f.Data...),
		Coords: Coords{
			Time: cloneFloats(f.Coords.Time),
			Lat:  cloneFloats(f.Coords.Lat),
			Lon:  cloneFloats(f.Coords.Lon),
		},
		Attrs: f.Attrs,
	}
}

// Levels returns one Slab copy per time step (or mode level).
func (f *Field) Levels() []Slab {
	out := make([]Slab, f.Shape.T)
	for t := range out {
		out[t] = f.Slice(t)
	}

	return out
}

// FieldFromSlabs stacks equally shaped slabs along the leading axis.
// Lat/lon coordinates and attributes are taken from the first slab.
func FieldFromSlabs(slabs []Slab) (*Field, error) {
	if len(slabs) == 0 {
		return nil, fmt.Errorf("%w: no slabs to stack", errs.ErrShapeMismatch)
	}

	first := slabs[0]
	shape := Shape{T: len(slabs), Lat: first.NLat, Lon: first.NLon}
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	data := make([]float64, 0, shape.Len())
	for i, s := range slabs {
		if s.NLat != first.NLat || s.NLon != first.NLon || len(s.Data) != s.Cells() {
			return nil, fmt.Errorf("%w: slab %d is %dx%d, want %dx%d",
				errs.ErrShapeMismatch, i, s.NLat, s.NLon, first.NLat, first.NLon)
		}
		data = append(data, s.Data...)
	}

	return &Field{
		Shape:  shape,
		Data:   data,
		Coords: Coords{Lat: cloneFloats(first.Lat), Lon: cloneFloats(first.Lon)},
		Attrs:  first.Attrs,
	}, nil
}

func fillMissing(data []float64) {
	nan := math.NaN()
	for i := range data {
		data[i] = nan
	}
}

func cloneFloats(s []float64) []float64 {
	if s == nil {
		return nil
	}

	return append([]float64(nil), s...)
}
