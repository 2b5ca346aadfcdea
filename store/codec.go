package store

import (
	"fmt"

	"github.com/arloliu/climode/compress"
	"github.com/arloliu/climode/encoding"
	"github.com/arloliu/climode/endian"
	"github.com/arloliu/climode/errs"
	"github.com/arloliu/climode/grid"
	"github.com/arloliu/climode/internal/hash"
	"github.com/arloliu/climode/internal/options"
	"github.com/arloliu/climode/internal/pool"
	"github.com/arloliu/climode/section"
)

// Encode serializes ds.
//
// Parameters:
//   - ds: Dataset to encode; its field, if any, must be valid
//   - opts: Encoding options (WithCompression, WithBigEndian)
//
// Returns:
//   - []byte: The encoded dataset, owned by the caller
//   - error: ErrNilDataset, ErrInvalidKind, ErrShapeMismatch or ErrTextTooLong
func Encode(ds *Dataset, opts ...EncodeOption) ([]byte, error) {
	data, _, err := encode(ds, opts...)
	return data, err
}

func encode(ds *Dataset, opts ...EncodeOption) ([]byte, compress.CompressionStats, error) {
	var stats compress.CompressionStats

	cfg := defaultEncodeConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, stats, err
	}
	if ds == nil {
		return nil, stats, errs.ErrNilDataset
	}
	if !ds.Kind.IsValid() {
		return nil, stats, fmt.Errorf("%w: %v", errs.ErrInvalidKind, ds.Kind)
	}
	if len(ds.Series) > section.MaxSeries {
		return nil, stats, fmt.Errorf("%w: %d series, maximum %d", errs.ErrShapeMismatch, len(ds.Series), section.MaxSeries)
	}

	header := section.NewHeader(ds.Kind)
	if cfg.BigEndian {
		header.Flag.WithBigEndian()
	}
	header.Flag.SetValueCompression(cfg.Compression)
	engine := header.Flag.GetEndianEngine()

	var attrs grid.Attrs
	var coords grid.Coords
	if ds.Field != nil {
		if err := ds.Field.Validate(); err != nil {
			return nil, stats, err
		}
		s := ds.Field.Shape
		if s.T > section.MaxDimExtent || s.Lat > section.MaxDimExtent || s.Lon > section.MaxDimExtent {
			return nil, stats, fmt.Errorf("%w: shape %s exceeds format limits", errs.ErrShapeMismatch, s)
		}
		header.Flag.SetHasField(true)
		header.T, header.Lat, header.Lon = uint32(s.T), uint32(s.Lat), uint32(s.Lon) //nolint:gosec
		attrs = ds.Field.Attrs
		coords = ds.Field.Coords
	}
	header.SeriesCount = uint32(len(ds.Series)) //nolint:gosec

	buf := pool.GetDatasetBuffer()
	defer pool.PutDatasetBuffer(buf)
	buf.MustWrite(make([]byte, section.HeaderSize))

	if err := writeAttrs(buf, attrs); err != nil {
		return nil, stats, err
	}

	header.CoordOffset = uint32(buf.Len()) //nolint:gosec
	for _, axis := range [][]float64{coords.Time, coords.Lat, coords.Lon} {
		writeColumn(buf, engine, axis)
	}

	header.SeriesOffset = uint32(buf.Len()) //nolint:gosec
	for _, name := range ds.SeriesNames() {
		if err := writeSeries(buf, engine, name, ds.Series[name]); err != nil {
			return nil, stats, err
		}
	}

	header.ValueOffset = uint32(buf.Len()) //nolint:gosec
	if ds.Field != nil {
		enc := encoding.NewFloatRawEncoder(engine)
		enc.WriteSlice(ds.Field.Data)
		packed, st, err := compress.CompressWithStats(cfg.Compression, enc.Bytes())
		if err != nil {
			enc.Finish()
			return nil, stats, fmt.Errorf("compress values: %w", err)
		}
		buf.MustWrite(packed)
		enc.Finish()
		stats = st
	}

	if uint64(buf.Len()) > section.MaxOffset-section.ChecksumSize {
		return nil, stats, fmt.Errorf("%w: encoded dataset exceeds %d bytes", errs.ErrShapeMismatch, section.MaxOffset)
	}

	copy(buf.B[:section.HeaderSize], header.Bytes())
	buf.B = engine.AppendUint64(buf.B, hash.Checksum(buf.B))

	out := make([]byte, buf.Len())
	copy(out, buf.B)

	return out, stats, nil
}

func writeAttrs(buf *pool.ByteBuffer, a grid.Attrs) error {
	enc := encoding.NewVarStringEncoder()
	defer enc.Reset()

	if err := enc.WriteSlice([]string{a.Name, a.Units, a.LongName}); err != nil {
		return err
	}
	buf.MustWrite(enc.Bytes())

	return nil
}

// writeColumn writes a uint32 count followed by the values. A nil column has
// count 0, an empty non-nil column is stored as nil.
func writeColumn(buf *pool.ByteBuffer, engine endian.EndianEngine, values []float64) {
	buf.B = engine.AppendUint32(buf.B, uint32(len(values))) //nolint:gosec
	if len(values) == 0 {
		return
	}

	enc := encoding.NewFloatRawEncoder(engine)
	defer enc.Finish()
	enc.WriteSlice(values)
	buf.MustWrite(enc.Bytes())
}

func writeSeries(buf *pool.ByteBuffer, engine endian.EndianEngine, name string, s grid.Series) error {
	if s.Time != nil && len(s.Time) != s.Len() {
		return fmt.Errorf("%w: series %q has %d time coordinates for %d values",
			errs.ErrShapeMismatch, name, len(s.Time), s.Len())
	}
	if err := writeAttrs(buf, grid.Attrs{Name: name, Units: s.Attrs.Units, LongName: s.Attrs.LongName}); err != nil {
		return fmt.Errorf("series %q: %w", name, err)
	}
	writeColumn(buf, engine, s.Time)
	writeColumn(buf, engine, s.Values)

	return nil
}

// Decode parses a dataset produced by Encode.
//
// Returns:
//   - *Dataset: The decoded dataset; it shares no memory with data
//   - error: ErrInvalidHeaderSize, ErrChecksumMismatch, header flag errors or
//     ErrTruncatedPayload
func Decode(data []byte) (*Dataset, error) {
	if len(data) < section.MinDatasetLen {
		return nil, errs.ErrInvalidHeaderSize
	}

	header, err := section.ParseHeader(data)
	if err != nil {
		return nil, err
	}
	engine := header.Flag.GetEndianEngine()

	body := data[:len(data)-section.ChecksumSize]
	if engine.Uint64(data[len(body):]) != hash.Checksum(body) {
		return nil, errs.ErrChecksumMismatch
	}
	if int(header.ValueOffset) > len(body) {
		return nil, fmt.Errorf("%w: value offset %d beyond %d bytes", errs.ErrTruncatedPayload, header.ValueOffset, len(body))
	}

	r := reader{engine: engine, dec: encoding.NewFloatRawDecoder(engine)}

	attrs, err := r.attrs(body[section.AttrsOffset:header.CoordOffset])
	if err != nil {
		return nil, fmt.Errorf("attributes: %w", err)
	}

	r.data = body[header.CoordOffset:header.SeriesOffset]
	var coords grid.Coords
	for _, axis := range []*[]float64{&coords.Time, &coords.Lat, &coords.Lon} {
		if *axis, err = r.column(); err != nil {
			return nil, fmt.Errorf("coordinates: %w", err)
		}
	}

	ds := &Dataset{Kind: header.Flag.DatasetKind()}

	r.data = body[header.SeriesOffset:header.ValueOffset]
	if header.SeriesCount > 0 {
		ds.Series = make(map[string]grid.Series, header.SeriesCount)
	}
	for range header.SeriesCount {
		name, s, err := r.series()
		if err != nil {
			return nil, fmt.Errorf("series: %w", err)
		}
		ds.Series[name] = s
	}

	if !header.Flag.HasField() {
		return ds, nil
	}

	codec, err := compress.GetCodec(header.Flag.ValueCompression())
	if err != nil {
		return nil, err
	}
	raw, err := compress.DecompressSized(codec, body[header.ValueOffset:], header.ValueCount()*encoding.FloatSize)
	if err != nil {
		return nil, fmt.Errorf("values: %w", err)
	}

	values := make([]float64, header.ValueCount())
	if err := r.dec.DecodeInto(values, raw); err != nil {
		return nil, fmt.Errorf("values: %w", err)
	}

	f, err := grid.NewField(grid.Shape{T: int(header.T), Lat: int(header.Lat), Lon: int(header.Lon)}, values)
	if err != nil {
		return nil, err
	}
	f.Coords = coords
	f.Attrs = attrs
	if err := f.Validate(); err != nil {
		return nil, err
	}
	ds.Field = f

	return ds, nil
}

// reader walks a section of a dataset.
type reader struct {
	data   []byte
	engine endian.EndianEngine
	dec    encoding.FloatRawDecoder
}

func (r *reader) attrs(data []byte) (grid.Attrs, error) {
	r.data = data
	var parts [3]string
	for i := range parts {
		s, err := r.text()
		if err != nil {
			return grid.Attrs{}, err
		}
		parts[i] = s
	}

	return grid.Attrs{Name: parts[0], Units: parts[1], LongName: parts[2]}, nil
}

func (r *reader) text() (string, error) {
	s, n, err := encoding.ReadVarString(r.data)
	if err != nil {
		return "", err
	}
	r.data = r.data[n:]

	return s, nil
}

func (r *reader) column() ([]float64, error) {
	if len(r.data) < 4 {
		return nil, fmt.Errorf("%w: missing column length", errs.ErrTruncatedPayload)
	}
	n := int(r.engine.Uint32(r.data))
	r.data = r.data[4:]
	if n == 0 {
		return nil, nil
	}
	if n > len(r.data)/encoding.FloatSize {
		return nil, fmt.Errorf("%w: column of %d values, %d bytes left", errs.ErrTruncatedPayload, n, len(r.data))
	}

	values := make([]float64, n)
	if err := r.dec.DecodeInto(values, r.data); err != nil {
		return nil, err
	}
	r.data = r.data[n*encoding.FloatSize:]

	return values, nil
}

func (r *reader) series() (string, grid.Series, error) {
	var parts [3]string
	for i := range parts {
		s, err := r.text()
		if err != nil {
			return "", grid.Series{}, err
		}
		parts[i] = s
	}

	time, err := r.column()
	if err != nil {
		return "", grid.Series{}, err
	}
	values, err := r.column()
	if err != nil {
		return "", grid.Series{}, err
	}
	if values == nil {
		values = []float64{}
	}
	if time != nil && len(time) != len(values) {
		return "", grid.Series{}, fmt.Errorf("%w: series %q has %d time coordinates for %d values",
			errs.ErrShapeMismatch, parts[0], len(time), len(values))
	}

	return parts[0], grid.Series{
		Time:   time,
		Values: values,
		Attrs:  grid.Attrs{Name: parts[0], Units: parts[1], LongName: parts[2]},
	}, nil
}
