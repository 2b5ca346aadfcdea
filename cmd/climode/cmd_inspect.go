package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/spf13/cobra"

	"github.com/arloliu/climode/format"
	"github.com/arloliu/climode/grid"
)

var (
	inspectStage string
	correlate    []string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print a summary of a stored dataset",
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectStage, "stage", "annual", "stage to inspect")
	inspectCmd.Flags().StringSliceVar(&correlate, "correlate", nil, "two series names whose correlation to print")
}

func runInspect(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	key, err := stageKey(inspectStage)
	if err != nil {
		return err
	}
	ds, err := s.Load(cmd.Context(), key)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s: %s dataset\n", key, ds.Kind)

	if f := ds.Field; f != nil {
		fmt.Fprintf(w, "field %s %s [%s] %s\n", f.Attrs.Name, f.Shape, f.Attrs.UnitsOr(grid.DefaultUnits), f.Attrs.LongName)
		printAxis(w, "time", f.Coords.Time)
		printAxis(w, "lat", f.Coords.Lat)
		printAxis(w, "lon", f.Coords.Lon)
		printSummary(w, "values", f.Data)
	}

	if ds.Kind == format.KindModes {
		modes, err := ds.ModeSet()
		if err != nil {
			return err
		}
		var total float64
		for k, m := range modes.Modes {
			total += m.Fraction
			fmt.Fprintf(w, "mode %2d  %6.2f%%  cumulative %6.2f%%\n", k+1, 100*m.Fraction, 100*total)
		}
	}

	for _, name := range ds.SeriesNames() {
		printSummary(w, "series "+name, ds.Series[name].Values)
	}

	if len(correlate) > 0 {
		return printCorrelation(w, ds.Series, correlate)
	}

	return nil
}

func printAxis(w io.Writer, name string, c []float64) {
	if len(c) == 0 {
		fmt.Fprintf(w, "  %-4s none\n", name)
		return
	}
	fmt.Fprintf(w, "  %-4s %d values, %g .. %g\n", name, len(c), c[0], c[len(c)-1])
}

// printSummary prints distribution statistics of the valid values.
func printSummary(w io.Writer, label string, values []float64) {
	data := validData(values)
	missing := len(values) - len(data)
	if len(data) == 0 {
		fmt.Fprintf(w, "%s: %d values, all missing\n", label, len(values))
		return
	}

	minV, _ := data.Min()
	maxV, _ := data.Max()
	mean, _ := data.Mean()
	median, _ := data.Median()
	sd, _ := data.StandardDeviationSample()
	p5, _ := data.Percentile(5)
	p95, _ := data.Percentile(95)

	fmt.Fprintf(w, "%s: %d valid, %d missing\n", label, len(data), missing)
	fmt.Fprintf(w, "  min %.4g  p5 %.4g  median %.4g  p95 %.4g  max %.4g\n", minV, p5, median, p95, maxV)
	fmt.Fprintf(w, "  mean %.4g  sd %.4g\n", mean, sd)
}

func printCorrelation(w io.Writer, series map[string]grid.Series, names []string) error {
	if len(names) != 2 {
		return fmt.Errorf("--correlate takes two series names, got %d", len(names))
	}

	var cols [2]grid.Series
	for i, name := range names {
		s, ok := series[name]
		if !ok {
			return fmt.Errorf("no series %q", name)
		}
		cols[i] = s
	}
	if cols[0].Len() != cols[1].Len() {
		return fmt.Errorf("series %s and %s differ in length: %d vs %d", names[0], names[1], cols[0].Len(), cols[1].Len())
	}

	var x, y stats.Float64Data
	for i, v := range cols[0].Values {
		if grid.IsMissing(v) || grid.IsMissing(cols[1].Values[i]) {
			continue
		}
		x = append(x, v)
		y = append(y, cols[1].Values[i])
	}

	r, err := stats.Correlation(x, y)
	if err != nil {
		return fmt.Errorf("correlate %s: %w", strings.Join(names, ","), err)
	}
	fmt.Fprintf(w, "correlation(%s, %s) = %.4f over %d pairs\n", names[0], names[1], r, len(x))

	return nil
}

func validData(values []float64) stats.Float64Data {
	data := make(stats.Float64Data, 0, len(values))
	for _, v := range values {
		if !grid.IsMissing(v) {
			data = append(data, v)
		}
	}

	return data
}
