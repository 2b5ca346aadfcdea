package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/climode"
	"github.com/arloliu/climode/grid"
	"github.com/arloliu/climode/store"
)

var (
	pcaFrom, pcaTo, pcaPCs string
	pcaModes               int

	projectFrom, projectTo string
	modesKey               store.Key

	detrendFrom, detrendTo      string
	indexStage, indexSeriesName string
)

var pcaCmd = &cobra.Command{
	Use:   "pca",
	Short: "Compute the leading EOFs and principal components of a field",
	Long: `Restricts the field to the configured region, decomposes it and stores
the modes with their explained variance. The principal component series
(pc1, pc2, ...) are stored under a separate stage.`,
	RunE: runPCA,
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project a field onto stored modes",
	Long: `Projects every time step of a field onto modes computed earlier, possibly
for another model, scenario or run (see --modes-model, --modes-scenario and
--modes-run). Both sides are restricted to the configured region.`,
	RunE: runProject,
}

var detrendCmd = &cobra.Command{
	Use:   "detrend",
	Short: "Regress every grid cell on an index series",
	Long: `Fits value = intercept + slope*index per grid cell and stores the residual
field. Intercept, slope and correlation are stored under the output stage
with a "_coef" suffix.`,
	RunE: runDetrend,
}

func init() {
	pcaCmd.Flags().StringVar(&pcaFrom, "from", "anom", "input stage")
	pcaCmd.Flags().StringVar(&pcaTo, "to", "eof", "output stage of the modes")
	pcaCmd.Flags().StringVar(&pcaPCs, "pcs", "pcs", "output stage of the principal components")
	pcaCmd.Flags().IntVarP(&pcaModes, "modes", "n", 0, "number of modes (default from config)")

	projectCmd.Flags().StringVar(&projectFrom, "from", "anom", "input stage")
	projectCmd.Flags().StringVar(&projectTo, "to", "proj", "output stage")
	projectCmd.Flags().StringVar(&modesKey.Model, "modes-model", "", "model of the modes (default --model)")
	projectCmd.Flags().StringVar(&modesKey.Scenario, "modes-scenario", "", "scenario of the modes (default --scenario)")
	projectCmd.Flags().StringVar(&modesKey.Run, "modes-run", "", "run of the modes (default --run)")
	projectCmd.Flags().StringVar(&modesKey.Stage, "modes-stage", "eof", "stage of the modes")

	detrendCmd.Flags().StringVar(&detrendFrom, "from", "anom", "input stage")
	detrendCmd.Flags().StringVar(&detrendTo, "to", "resid", "output stage of the residual")
	detrendCmd.Flags().StringVar(&indexStage, "index-stage", "fldmean", "stage holding the index series")
	detrendCmd.Flags().StringVar(&indexSeriesName, "index-series", "", "series name within the index stage (default the only series)")
}

func pipelineOptions() []climode.Option {
	opts := []climode.Option{climode.WithWorkers(cfg.Analysis.Workers)}
	if keyFlags.Variable != "" {
		opts = append(opts, climode.WithName(keyFlags.Variable))
	}

	return opts
}

func seriesDataset(pcs []grid.Series) *store.Dataset {
	series := make(map[string]grid.Series, len(pcs))
	for _, s := range pcs {
		series[s.Attrs.Name] = s
	}

	return store.SeriesDataset(series)
}

func runPCA(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		return err
	}

	src, f, err := loadField(ctx, s, pcaFrom)
	if err != nil {
		return err
	}

	n := cfg.Analysis.Modes
	if pcaModes > 0 {
		n = pcaModes
	}
	res, err := climode.AnalyzeEOF(f, cfg.Region(), n, pipelineOptions()...)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	ds, err := store.ModesDataset(res.Modes)
	if err != nil {
		return err
	}
	if err := saveStage(ctx, s, pcaTo, ds); err != nil {
		return err
	}
	if err := saveStage(ctx, s, pcaPCs, seriesDataset(res.PCs)); err != nil {
		return err
	}

	for k, m := range res.Modes.Modes {
		logger.Info("mode",
			zap.Int("mode", k+1),
			zap.Float64("fraction", m.Fraction),
			zap.Float64("variance", m.Variance),
		)
	}
	logger.Info("decomposition written",
		zap.Stringer("from", src),
		zap.Stringer("region", cfg.Region()),
		zap.Int("cells", len(res.Modes.Index)),
		zap.Int("modes", res.Modes.Len()),
	)

	return nil
}

func runProject(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		return err
	}

	src, f, err := loadField(ctx, s, projectFrom)
	if err != nil {
		return err
	}

	mk := keyFlags.With(modesKey.Stage)
	if modesKey.Model != "" {
		mk.Model = modesKey.Model
	}
	if modesKey.Scenario != "" {
		mk.Scenario = modesKey.Scenario
	}
	if modesKey.Run != "" {
		mk.Run = modesKey.Run
	}

	mds, err := s.Load(ctx, mk)
	if err != nil {
		return err
	}
	modes, err := mds.ModeSet()
	if err != nil {
		return fmt.Errorf("%s: %w", mk, err)
	}

	pcs, err := climode.ProjectOnto(f, modes, cfg.Region(), pipelineOptions()...)
	if err != nil {
		return fmt.Errorf("%s onto %s: %w", src, mk, err)
	}
	if err := saveStage(ctx, s, projectTo, seriesDataset(pcs)); err != nil {
		return err
	}

	logger.Info("projection written", zap.Stringer("from", src), zap.Stringer("modes", mk), zap.Int("series", len(pcs)))

	return nil
}

func runDetrend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		return err
	}

	src, f, err := loadField(ctx, s, detrendFrom)
	if err != nil {
		return err
	}

	index, err := loadSeries(ctx, s, indexStage, indexSeriesName)
	if err != nil {
		return err
	}

	res, err := climode.RemoveTrend(f, index, pipelineOptions()...)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	coef, err := store.RegressionDataset(res)
	if err != nil {
		return err
	}
	if err := saveStage(ctx, s, detrendTo+"_coef", coef); err != nil {
		return err
	}
	if err := saveStage(ctx, s, detrendTo, store.FieldDataset(res.Residual)); err != nil {
		return err
	}

	logger.Info("regression written", zap.Stringer("from", src), zap.Stringer("result", res))

	return nil
}

// loadSeries returns the named series of stage. An empty name selects the
// only series the dataset holds.
func loadSeries(ctx context.Context, s store.Store, stage, name string) (grid.Series, error) {
	key, err := stageKey(stage)
	if err != nil {
		return grid.Series{}, err
	}

	ds, err := s.Load(ctx, key)
	if err != nil {
		return grid.Series{}, err
	}

	if name == "" {
		if len(ds.Series) != 1 {
			return grid.Series{}, fmt.Errorf("%s holds %d series, select one with --index-series", key, len(ds.Series))
		}
		name = ds.SeriesNames()[0]
	}

	series, ok := ds.Series[name]
	if !ok {
		return grid.Series{}, fmt.Errorf("%s has no series %q (have %v)", key, name, ds.SeriesNames())
	}

	return series, nil
}

func saveStage(ctx context.Context, s store.Store, stage string, ds *store.Dataset) error {
	key, err := stageKey(stage)
	if err != nil {
		return err
	}

	return s.Save(ctx, key, ds)
}
