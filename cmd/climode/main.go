// Command climode runs the EOF analysis steps on fields kept in a dataset
// store: import, annual means, anomalies, field means, decomposition,
// projection and detrending.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arloliu/climode/internal/config"
	"github.com/arloliu/climode/store"
)

var (
	// Global flags
	verbose    bool
	configPath string
	keyFlags   store.Key

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "climode",
	Short: "Extract dominant modes of variability from gridded climate fields",
	Long: `climode computes empirical orthogonal functions (EOFs) of gridded
climate model output and the indices derived from them.

Datasets are addressed by model, scenario, run, variable and a processing
stage, for example:

  climode import tos.csv --model CESM2 --scenario historical --run r1i1p1f1 --var tos
  climode annual  --model CESM2 --scenario historical --run r1i1p1f1 --var tos
  climode anomaly --model CESM2 --scenario historical --run r1i1p1f1 --var tos
  climode pca     --model CESM2 --scenario historical --run r1i1p1f1 --var tos`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger.Debug("configuration loaded",
			zap.String("path", configPath),
			zap.String("store", cfg.Store.Dir),
			zap.Int("modes", cfg.Analysis.Modes),
		)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&configPath, "config", "climode.yaml", "configuration file")
	pf.StringVar(&keyFlags.Model, "model", "", "model name")
	pf.StringVar(&keyFlags.Scenario, "scenario", "", "experiment or scenario")
	pf.StringVar(&keyFlags.Run, "run", "", "ensemble member")
	pf.StringVar(&keyFlags.Variable, "var", "", "variable name")

	rootCmd.AddCommand(
		importCmd,
		annualCmd,
		anomalyCmd,
		fldmeanCmd,
		pcaCmd,
		projectCmd,
		detrendCmd,
		inspectCmd,
	)
}

// openStore opens the file store configured in cfg.
func openStore() (*store.FileStore, error) {
	opts := []store.EncodeOption{store.WithCompression(cfg.Compression())}
	if cfg.Store.BigEndian {
		opts = append(opts, store.WithBigEndian())
	}

	return store.NewFileStore(cfg.Store.Dir,
		store.WithLogger(logger.Named("store")),
		store.WithEncodeOptions(opts...),
	)
}

// stageKey returns the key of the given stage for the dataset named by the
// global flags.
func stageKey(stage string) (store.Key, error) {
	key := keyFlags.With(stage)
	if err := key.Validate(); err != nil {
		return store.Key{}, fmt.Errorf("%w (set --var and the stage flags)", err)
	}

	return key, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
