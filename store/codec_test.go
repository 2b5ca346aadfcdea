package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/format"
	"github.com/arloliu/climode/grid"
	"github.com/arloliu/climode/section"
)

func sampleField(t *testing.T) *grid.Field {
	t.Helper()

	shape := grid.Shape{T: 3, Lat: 2, Lon: 4}
	data := make([]float64, shape.Len())
	for i := range data {
		data[i] = 280 + math.Sin(float64(i))
	}
	data[5] = grid.Missing()
	data[13] = grid.Missing()

	f, err := grid.NewField(shape, data)
	require.NoError(t, err)
	f.Coords = grid.Coords{
		Time: []float64{1950.5, 1951.5, 1952.5},
		Lat:  []float64{22.5, 27.5},
		Lon:  []float64{150, 155, 160, 165},
	}
	f.Attrs = grid.Attrs{Name: "tos", Units: "K", LongName: "sea surface temperature"}

	return f
}

func requireSameField(t *testing.T, want, got *grid.Field) {
	t.Helper()

	require.Equal(t, want.Shape, got.Shape)
	require.Equal(t, want.Coords, got.Coords)
	require.Equal(t, want.Attrs, got.Attrs)
	for i, v := range want.Data {
		require.Equal(t, math.Float64bits(v), math.Float64bits(got.Data[i]), "value %d", i)
	}
}

func TestEncodeDecodeField(t *testing.T) {
	f := sampleField(t)

	for _, ct := range []format.CompressionType{format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		for _, big := range []bool{false, true} {
			opts := []EncodeOption{WithCompression(ct)}
			if big {
				opts = append(opts, WithBigEndian())
			}

			data, err := Encode(FieldDataset(f), opts...)
			require.NoError(t, err, "%s big=%v", ct, big)

			ds, err := Decode(data)
			require.NoError(t, err, "%s big=%v", ct, big)
			require.Equal(t, format.KindField, ds.Kind)
			require.Empty(t, ds.Series)
			requireSameField(t, f, ds.Field)
		}
	}
}

func TestEncodeDecodeSeries(t *testing.T) {
	ds := SeriesDataset(map[string]grid.Series{
		"pc1":   {Time: []float64{1, 2, 3}, Values: []float64{0.5, grid.Missing(), -0.5}, Attrs: grid.Attrs{Units: "K"}},
		"gmean": {Values: []float64{14.1, 14.3}, Attrs: grid.Attrs{LongName: "global mean"}},
	})

	data, err := Encode(ds)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Nil(t, got.Field)
	require.Equal(t, []string{"gmean", "pc1"}, got.SeriesNames())

	pc1 := got.Series["pc1"]
	require.Equal(t, []float64{1, 2, 3}, pc1.Time)
	require.True(t, grid.IsMissing(pc1.Values[1]))
	require.Equal(t, grid.Attrs{Name: "pc1", Units: "K"}, pc1.Attrs)

	gm := got.Series["gmean"]
	require.Nil(t, gm.Time)
	require.Equal(t, []float64{14.1, 14.3}, gm.Values)
	require.Equal(t, "global mean", gm.Attrs.LongName)
}

func TestDecodeCorruption(t *testing.T) {
	data, err := Encode(FieldDataset(sampleField(t)))
	require.NoError(t, err)

	t.Run("flipped payload byte", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[len(bad)-section.ChecksumSize-1] ^= 0xFF

		_, err := Decode(bad)
		require.ErrorIs(t, err, errs.ErrChecksumMismatch)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := Decode(data[:len(data)-3])
		require.Error(t, err)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := Decode(data[:section.HeaderSize])
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("bad magic", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[1] = 0x00

		_, err := Decode(bad)
		require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)
	})
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode(nil)
	require.ErrorIs(t, err, errs.ErrNilDataset)

	_, err = Encode(&Dataset{Kind: format.Kind(0)})
	require.ErrorIs(t, err, errs.ErrInvalidKind)

	_, err = Encode(&Dataset{Kind: format.KindField, Field: &grid.Field{Shape: grid.Shape{T: 1, Lat: 1, Lon: 1}}})
	require.ErrorIs(t, err, errs.ErrShapeMismatch)

	_, err = Encode(SeriesDataset(map[string]grid.Series{"x": {Time: []float64{1}, Values: []float64{1, 2}}}))
	require.ErrorIs(t, err, errs.ErrShapeMismatch)

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	_, err = Encode(SeriesDataset(map[string]grid.Series{string(long): {Values: []float64{1}}}))
	require.ErrorIs(t, err, errs.ErrTextTooLong)

	_, err = Encode(SeriesDataset(nil), WithCompression(format.CompressionType(9)))
	require.Error(t, err)
}
