package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/climode/grid"
	"github.com/arloliu/climode/prep"
	"github.com/arloliu/climode/store"
)

var (
	annualFrom, annualTo   string
	anomalyFrom, anomalyTo string
	fldmeanFrom, fldmeanTo string
	climFrom, climTo       float64
	latWeights             bool
)

var annualCmd = &cobra.Command{
	Use:   "annual",
	Short: "Average consecutive time steps into annual means",
	RunE: func(cmd *cobra.Command, args []string) error {
		return transformField(cmd.Context(), annualFrom, annualTo, func(f *grid.Field) (*grid.Field, error) {
			return prep.AnnualMean(f, cfg.Analysis.StepsPerYear)
		})
	},
}

var anomalyCmd = &cobra.Command{
	Use:   "anomaly",
	Short: "Subtract the climatology of a reference period",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to := cfg.Analysis.Climatology.From, cfg.Analysis.Climatology.To
		if cmd.Flags().Changed("clim-from") {
			from = climFrom
		}
		if cmd.Flags().Changed("clim-to") {
			to = climTo
		}

		return transformField(cmd.Context(), anomalyFrom, anomalyTo, func(f *grid.Field) (*grid.Field, error) {
			clim, err := prep.Climatology(f, from, to)
			if err != nil {
				return nil, fmt.Errorf("climatology %g-%g: %w", from, to, err)
			}

			return prep.Anomaly(f, clim)
		})
	},
}

var fldmeanCmd = &cobra.Command{
	Use:   "fldmean",
	Short: "Compute the spatial mean series of a field",
	RunE:  runFieldMean,
}

func init() {
	annualCmd.Flags().StringVar(&annualFrom, "from", "monthly", "input stage")
	annualCmd.Flags().StringVar(&annualTo, "to", "annual", "output stage")

	anomalyCmd.Flags().StringVar(&anomalyFrom, "from", "annual", "input stage")
	anomalyCmd.Flags().StringVar(&anomalyTo, "to", "anom", "output stage")
	anomalyCmd.Flags().Float64Var(&climFrom, "clim-from", 0, "first time coordinate of the reference period (default from config)")
	anomalyCmd.Flags().Float64Var(&climTo, "clim-to", 0, "last time coordinate of the reference period (default from config)")

	fldmeanCmd.Flags().StringVar(&fldmeanFrom, "from", "annual", "input stage")
	fldmeanCmd.Flags().StringVar(&fldmeanTo, "to", "fldmean", "output stage")
	fldmeanCmd.Flags().BoolVar(&latWeights, "lat-weights", false, "weight cells by the cosine of latitude")
}

// loadField loads the field stored for stage.
func loadField(ctx context.Context, s store.Store, stage string) (store.Key, *grid.Field, error) {
	key, err := stageKey(stage)
	if err != nil {
		return store.Key{}, nil, err
	}

	ds, err := s.Load(ctx, key)
	if err != nil {
		return key, nil, err
	}
	if ds.Field == nil {
		return key, nil, fmt.Errorf("%s holds no field (%s dataset)", key, ds.Kind)
	}

	return key, ds.Field, nil
}

// transformField loads stage from, applies fn and saves the result as stage to.
func transformField(ctx context.Context, from, to string, fn func(*grid.Field) (*grid.Field, error)) error {
	s, err := openStore()
	if err != nil {
		return err
	}

	src, f, err := loadField(ctx, s, from)
	if err != nil {
		return err
	}

	out, err := fn(f)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	dst, err := stageKey(to)
	if err != nil {
		return err
	}
	if err := s.Save(ctx, dst, store.FieldDataset(out)); err != nil {
		return err
	}

	logger.Info("field written",
		zap.Stringer("from", src),
		zap.Stringer("to", dst),
		zap.Stringer("shape", out.Shape),
	)

	return nil
}

func runFieldMean(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		return err
	}

	src, f, err := loadField(ctx, s, fldmeanFrom)
	if err != nil {
		return err
	}

	var opts []prep.FieldMeanOption
	if latWeights || cfg.Analysis.LatWeights {
		opts = append(opts, prep.WithLatWeights())
	}
	mean, err := prep.FieldMean(f, opts...)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	dst, err := stageKey(fldmeanTo)
	if err != nil {
		return err
	}
	ds := store.SeriesDataset(map[string]grid.Series{fldmeanTo: mean})
	if err := s.Save(ctx, dst, ds); err != nil {
		return err
	}

	logger.Info("field mean written", zap.Stringer("from", src), zap.Stringer("to", dst), zap.Int("steps", mean.Len()))

	return nil
}
