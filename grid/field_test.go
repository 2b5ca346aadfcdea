package grid

import (
	"math"
	"testing"

	"github.com/arloliu/climode/errs"
	"github.com/stretchr/testify/require"
)

func sequentialField(t *testing.T, shape Shape) *Field {
	t.Helper()

	data := make([]float64, shape.Len())
	for i := range data {
		data[i] = float64(i)
	}
	f, err := NewField(shape, data)
	require.NoError(t, err)

	return f
}

func TestNewField(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		f := sequentialField(t, Shape{T: 2, Lat: 3, Lon: 4})
		require.Equal(t, 12, f.Shape.Cells())
		require.Equal(t, 24, f.Shape.Len())
		require.InDelta(t, 17.0, f.At(1, 1, 1), 0)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := NewField(Shape{T: 2, Lat: 2, Lon: 2}, make([]float64, 7))
		require.ErrorIs(t, err, errs.ErrShapeMismatch)
	})

	t.Run("non-positive extent", func(t *testing.T) {
		_, err := NewField(Shape{T: 0, Lat: 2, Lon: 2}, nil)
		require.ErrorIs(t, err, errs.ErrShapeMismatch)
	})

	t.Run("coordinate length mismatch", func(t *testing.T) {
		f := sequentialField(t, Shape{T: 2, Lat: 2, Lon: 2})
		f.Coords.Lat = []float64{1, 2, 3}
		require.ErrorIs(t, f.Validate(), errs.ErrShapeMismatch)
	})
}

func TestFieldAccessorsCopy(t *testing.T) {
	f := sequentialField(t, Shape{T: 3, Lat: 2, Lon: 2})

	s := f.Slice(1)
	require.Equal(t, []float64{4, 5, 6, 7}, s.Data)
	s.Data[0] = -1
	require.InDelta(t, 4.0, f.At(1, 0, 0), 0, "Slice must copy")

	cell := f.Cell(3)
	require.Equal(t, []float64{3, 7, 11}, cell)

	c := f.Clone()
	c.Data[0] = 99
	require.InDelta(t, 0.0, f.Data[0], 0)
}

func TestMissing(t *testing.T) {
	require.True(t, IsMissing(Missing()))
	require.False(t, IsMissing(math.Inf(1)))
	require.Equal(t, 2, CountValid([]float64{1, Missing(), 3, Missing()}))

	f, err := NewMissingField(Shape{T: 1, Lat: 2, Lon: 2})
	require.NoError(t, err)
	require.Equal(t, 0, CountValid(f.Data))
}

func TestFieldFromSlabs(t *testing.T) {
	a := Slab{NLat: 1, NLon: 2, Data: []float64{1, 2}, Lat: []float64{10}, Lon: []float64{0, 5}}
	b := Slab{NLat: 1, NLon: 2, Data: []float64{3, 4}}

	f, err := FieldFromSlabs([]Slab{a, b})
	require.NoError(t, err)
	require.Equal(t, Shape{T: 2, Lat: 1, Lon: 2}, f.Shape)
	require.Equal(t, []float64{1, 2, 3, 4}, f.Data)
	require.Equal(t, []float64{10}, f.Coords.Lat)

	_, err = FieldFromSlabs([]Slab{a, {NLat: 2, NLon: 1, Data: []float64{1, 2}}})
	require.ErrorIs(t, err, errs.ErrShapeMismatch)

	_, err = FieldFromSlabs(nil)
	require.ErrorIs(t, err, errs.ErrShapeMismatch)
}

func TestSeries(t *testing.T) {
	_, err := NewSeries([]float64{1, 2}, []float64{1})
	require.ErrorIs(t, err, errs.ErrShapeMismatch)

	s, err := NewSeries(nil, []float64{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())
	require.Equal(t, "K", Attrs{Units: "K"}.UnitsOr(DefaultUnits))
	require.Equal(t, DefaultUnits, Attrs{}.UnitsOr(DefaultUnits))
}
