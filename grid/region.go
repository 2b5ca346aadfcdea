package grid

import (
	"fmt"

	"github.com/arloliu/climode/errs"
)

// Region is a longitude/latitude bounding box with inclusive bounds.
//
// When LonW > LonE the box wraps across the longitude origin
// (e.g. LonW=300, LonE=20).
type Region struct {
	LonW float64
	LonE float64
	LatS float64
	LatN float64
}

// NorthPacific is the domain used for the Pacific Decadal Oscillation analysis.
var NorthPacific = Region{LonW: 110, LonE: 260, LatS: 20, LatN: 70}

func (r Region) String() string {
	return fmt.Sprintf("lon[%g,%g] lat[%g,%g]", r.LonW, r.LonE, r.LatS, r.LatN)
}

// IsZero reports whether r is the zero Region, meaning "no selection".
func (r Region) IsZero() bool {
	return r == Region{}
}

func (r Region) containsLon(lon float64) bool {
	if r.LonW <= r.LonE {
		return lon >= r.LonW && lon <= r.LonE
	}

	return lon >= r.LonW || lon <= r.LonE
}

func (r Region) containsLat(lat float64) bool {
	return lat >= r.LatS && lat <= r.LatN
}

// selectAxes returns the lat and lon positions inside the region, in order.
func (r Region) selectAxes(lat, lon []float64) ([]int, []int, error) {
	if lat == nil || lon == nil {
		return nil, nil, fmt.Errorf("%w: region selection needs lat/lon coordinates", errs.ErrShapeMismatch)
	}

	var latIdx, lonIdx []int
	for i, v := range lat {
		if r.containsLat(v) {
			latIdx = append(latIdx, i)
		}
	}
	for j, v := range lon {
		if r.containsLon(v) {
			lonIdx = append(lonIdx, j)
		}
	}
	if len(latIdx) == 0 || len(lonIdx) == 0 {
		return nil, nil, fmt.Errorf("%w: region %s selects no grid cell", errs.ErrInsufficientData, r)
	}

	return latIdx, lonIdx, nil
}

// Subset returns a new field restricted to the cells inside r.
// A zero Region returns a clone of the field.
//
// Returns:
//   - *Field: The sub-domain field with restricted lat/lon coordinates
//   - error: ErrShapeMismatch without lat/lon coordinates,
//     ErrInsufficientData if the region selects nothing
func (f *Field) Subset(r Region) (*Field, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if r.IsZero() {
		return f.Clone(), nil
	}

	latIdx, lonIdx, err := r.selectAxes(f.Coords.Lat, f.Coords.Lon)
	if err != nil {
		return nil, err
	}

	shape := Shape{T: f.Shape.T, Lat: len(latIdx), Lon: len(lonIdx)}
	data := make([]float64, 0, shape.Len())
	for t := range f.Shape.T {
		for _, i := range latIdx {
			for _, j := range lonIdx {
				data = append(data, f.At(t, i, j))
			}
		}
	}

	return &Field{
		Shape: shape,
		Data:  data,
		Coords: Coords{
			Time: cloneFloats(f.Coords.Time),
			Lat:  pick(f.Coords.Lat, latIdx),
			Lon:  pick(f.Coords.Lon, lonIdx),
		},
		Attrs: f.Attrs,
	}, nil
}

// Subset returns a new slab restricted to the cells inside r.
// A zero Region returns a clone of the slab.
func (s Slab) Subset(r Region) (Slab, error) {
	if err := s.Validate(); err != nil {
		return Slab{}, err
	}
	if r.IsZero() {
		return s.Clone(), nil
	}

	latIdx, lonIdx, err := r.selectAxes(s.Lat, s.Lon)
	if err != nil {
		return Slab{}, err
	}

	data := make([]float64, 0, len(latIdx)*len(lonIdx))
	for _, i := range latIdx {
		for _, j := range lonIdx {
			data = append(data, s.At(i, j))
		}
	}

	return Slab{
		NLat:  len(latIdx),
		NLon:  len(lonIdx),
		Data:  data,
		Lat:   pick(s.Lat, latIdx),
		Lon:   pick(s.Lon, lonIdx),
		Attrs: s.Attrs,
	}, nil
}

func pick(vals []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for k, i := range idx {
		out[k] = vals[i]
	}

	return out
}
