package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/format"
)

func validHeader() *Header {
	h := NewHeader(format.KindModes)
	h.Flag.SetHasField(true)
	h.Flag.SetValueCompression(format.CompressionZstd)
	h.T, h.Lat, h.Lon = 10, 20, 30
	h.SeriesCount = 2
	h.CoordOffset = 64
	h.SeriesOffset = 512
	h.ValueOffset = 1024

	return h
}

func TestNewHeader(t *testing.T) {
	h := NewHeader(format.KindField)

	require.True(t, h.Flag.IsValidMagicNumber())
	require.True(t, h.Flag.IsLittleEndian())
	require.False(t, h.Flag.HasField())
	require.Equal(t, format.KindField, h.Flag.DatasetKind())
	require.Equal(t, format.CompressionNone, h.Flag.ValueCompression())
}

func TestHeader_RoundTrip(t *testing.T) {
	for _, big := range []bool{false, true} {
		original := validHeader()
		if big {
			original.Flag.WithBigEndian()
		}

		data := original.Bytes()
		require.Len(t, data, HeaderSize)

		parsed, err := ParseHeader(data)
		require.NoError(t, err)
		require.Equal(t, *original, parsed)
		require.Equal(t, 600, parsed.Cells())
		require.Equal(t, 6000, parsed.ValueCount())
		require.Equal(t, big, parsed.Flag.IsBigEndian())
	}
}

func TestHeader_ParseErrors(t *testing.T) {
	t.Run("Invalid size", func(t *testing.T) {
		h := &Header{}
		require.ErrorIs(t, h.Parse([]byte{1, 2, 3}), errs.ErrInvalidHeaderSize)

		_, err := ParseHeader(make([]byte, HeaderSize-1))
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("Invalid magic number", func(t *testing.T) {
		data := validHeader().Bytes()
		data[0], data[1] = 0x10, 0xEA

		_, err := ParseHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)
	})

	t.Run("Invalid kind", func(t *testing.T) {
		data := validHeader().Bytes()
		data[2] = 0xFF

		_, err := ParseHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidKind)
	})

	t.Run("Invalid compression", func(t *testing.T) {
		data := validHeader().Bytes()
		data[3] = 0x09

		_, err := ParseHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidHeaderFlags)
	})

	t.Run("Reserved bits", func(t *testing.T) {
		data := validHeader().Bytes()
		data[0] |= 0x04

		_, err := ParseHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidHeaderFlags)
	})

	t.Run("Offsets out of order", func(t *testing.T) {
		h := validHeader()
		h.SeriesOffset = 16

		_, err := ParseHeader(h.Bytes())
		require.ErrorIs(t, err, errs.ErrInvalidHeaderFlags)
	})

	t.Run("Field bit without extents", func(t *testing.T) {
		h := validHeader()
		h.T = 0

		_, err := ParseHeader(h.Bytes())
		require.ErrorIs(t, err, errs.ErrInvalidHeaderFlags)
	})
}

func TestFlag(t *testing.T) {
	f := NewFlag(format.KindSeries)
	require.NoError(t, f.Validate())

	f.SetHasField(true)
	require.True(t, f.HasField())
	f.SetHasField(false)
	require.False(t, f.HasField())

	f.WithBigEndian()
	require.True(t, f.IsBigEndian())
	require.Equal(t, uint16(MagicDatasetV1Opt), f.GetMagicNumber())
	f.WithLittleEndian()
	require.True(t, f.IsLittleEndian())

	for _, c := range []format.CompressionType{format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		f.SetValueCompression(c)
		require.Equal(t, c, f.ValueCompression())
		require.NoError(t, f.Validate())
	}

	f.WithBigEndian()
	require.Equal(t, uint16(0x0102), f.GetEndianEngine().Uint16([]byte{0x01, 0x02}))
}
