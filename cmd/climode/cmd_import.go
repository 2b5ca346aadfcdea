package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/climode/grid"
	"github.com/arloliu/climode/store"
)

var (
	importStage    string
	importUnits    string
	importLongName string
)

var importCmd = &cobra.Command{
	Use:   "import [file.csv]",
	Short: "Import a field from a long-format CSV file",
	Long: `Reads a CSV file with the header "time,lat,lon,value" and stores it as a
field. Grid points absent from the file, empty values and NaN are stored as
missing values. Rows may come in any order.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importStage, "stage", "monthly", "stage to store the field under")
	importCmd.Flags().StringVar(&importUnits, "units", "", "units of the values")
	importCmd.Flags().StringVar(&importLongName, "long-name", "", "description of the variable")
}

func runImport(cmd *cobra.Command, args []string) error {
	key, err := stageKey(importStage)
	if err != nil {
		return err
	}

	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close() //nolint:errcheck

	f, err := readFieldCSV(file)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	f.Attrs = grid.Attrs{Name: key.Variable, Units: importUnits, LongName: importLongName}

	s, err := openStore()
	if err != nil {
		return err
	}
	if err := s.Save(cmd.Context(), key, store.FieldDataset(f)); err != nil {
		return err
	}

	logger.Info("imported field",
		zap.Stringer("key", key),
		zap.Stringer("shape", f.Shape),
		zap.Int("valid", grid.CountValid(f.Data)),
	)

	return nil
}

type csvPoint struct {
	time, lat, lon, value float64
}

// readFieldCSV builds a field from time,lat,lon,value records. The axes are
// the sorted distinct coordinates found in the file.
func readFieldCSV(r io.Reader) (*grid.Field, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, want := range []string{"time", "lat", "lon", "value"} {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return nil, fmt.Errorf("column %d is %q, want %q", i+1, header[i], want)
		}
	}

	var points []csvPoint
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		var p csvPoint
		for i, dst := range []*float64{&p.time, &p.lat, &p.lon} {
			if *dst, err = strconv.ParseFloat(strings.TrimSpace(rec[i]), 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", len(points)+2, err)
			}
		}
		p.value = grid.Missing()
		if v := strings.TrimSpace(rec[3]); v != "" {
			if p.value, err = strconv.ParseFloat(v, 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", len(points)+2, err)
			}
		}
		points = append(points, p)
	}
	if len(points) == 0 {
		return nil, errors.New("no data rows")
	}

	axes := [3][]float64{}
	for _, p := range points {
		axes[0] = append(axes[0], p.time)
		axes[1] = append(axes[1], p.lat)
		axes[2] = append(axes[2], p.lon)
	}
	for i := range axes {
		slices.Sort(axes[i])
		axes[i] = slices.Compact(axes[i])
	}

	f, err := grid.NewMissingField(grid.Shape{T: len(axes[0]), Lat: len(axes[1]), Lon: len(axes[2])})
	if err != nil {
		return nil, err
	}
	f.Coords = grid.Coords{Time: axes[0], Lat: axes[1], Lon: axes[2]}

	for _, p := range points {
		t, _ := slices.BinarySearch(axes[0], p.time)
		lat, _ := slices.BinarySearch(axes[1], p.lat)
		lon, _ := slices.BinarySearch(axes[2], p.lon)
		f.Data[f.Offset(t, lat, lon)] = p.value
	}

	return f, nil
}
