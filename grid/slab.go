package grid

import (
	"fmt"

	"github.com/arloliu/climode/errs"
)

// Slab is a 2-D (lat, lon) array, e.g. one time step of a Field or an EOF pattern.
type Slab struct {
	NLat  int
	NLon  int
	Data  []float64
	Lat   []float64
	Lon   []float64
	Attrs Attrs
}

// NewSlab wraps data as an nlat x nlon slab without copying.
func NewSlab(nlat, nlon int, data []float64) (Slab, error) {
	s := Slab{NLat: nlat, NLon: nlon, Data: data}
	if err := s.Validate(); err != nil {
		return Slab{}, err
	}

	return s, nil
}

// NewMissingSlab allocates an nlat x nlon slab filled with missing values.
func NewMissingSlab(nlat, nlon int) Slab {
	data := make([]float64, nlat*nlon)
	fillMissing(data)

	return Slab{NLat: nlat, NLon: nlon, Data: data}
}

// Validate checks extents and data/coordinate lengths.
func (s Slab) Validate() error {
	if s.NLat <= 0 || s.NLon <= 0 {
		return fmt.Errorf("%w: non-positive slab extent %dx%d", errs.ErrShapeMismatch, s.NLat, s.NLon)
	}
	if len(s.Data) != s.Cells() {
		return fmt.Errorf("%w: %d values for %dx%d slab", errs.ErrShapeMismatch, len(s.Data), s.NLat, s.NLon)
	}

	return checkCoords(Coords{Lat: s.Lat, Lon: s.Lon}, Shape{T: 1, Lat: s.NLat, Lon: s.NLon})
}

// Cells returns NLat*NLon.
func (s Slab) Cells() int {
	return s.NLat * s.NLon
}

// At returns element (lat, lon).
func (s Slab) At(lat, lon int) float64 {
	return s.Data[lat*s.NLon+lon]
}

// SameExtent reports whether s and o have identical lat/lon extents.
func (s Slab) SameExtent(o Slab) bool {
	return s.NLat == o.NLat && s.NLon == o.NLon
}

// Clone returns a deep copy of the slab.
func (s Slab) Clone() Slab {
	return Slab{
		NLat:  s.NLat,
		NLon:  s.NLon,
		Data:  append([]float64(nil), s.Data...),
		Lat:   cloneFloats(s.Lat),
		Lon:   cloneFloats(s.Lon),
		Attrs: s.Attrs,
	}
}

// Scaled returns a copy of the slab with every valid value multiplied by k.
func (s Slab) Scaled(k float64) Slab {
	out := s.Clone()
	for i, v := range out.Data {
		if !IsMissing(v) {
			out.Data[i] = v * k
		}
	}

	return out
}
