// Command simulate materializes a drift-simulation dataset: it partitions a
// scored dataset into periods, plans a linearly decaying target accuracy, and
// corrupts the labels accordingly, writing the dataset CSV and its companion
// metadata file for the monitor job.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/kestrel-labs/driftwatch/internal/config"
	"github.com/kestrel-labs/driftwatch/internal/corrupt"
	"github.com/kestrel-labs/driftwatch/internal/dataset"
)

// #region main

func main() {
	configPath := flag.String("config", envOr("DRIFTWATCH_CONFIG", ""), "pipeline config YAML (defaults apply if empty)")
	inPath := flag.String("in", "", "scored dataset CSV to corrupt")
	gen := flag.Int("gen", 0, "synthesize N scored samples instead of reading -in")
	outPath := flag.String("out", "scored_dataset.csv", "output dataset CSV")
	metaPath := flag.String("meta", "dataset_metadata.json", "output metadata JSON")
	logPath := flag.String("log", "", "also write the execution log to this file")
	flag.Parse()

	if (*inPath == "" && *gen <= 0) || (*inPath != "" && *gen > 0) {
		fmt.Fprintln(os.Stderr, "usage: simulate --in scored.csv [flags]")
		fmt.Fprintln(os.Stderr, "       simulate --gen N [flags]")
		os.Exit(2)
	}

	logger, closeLog, err := setupLogger(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log setup: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(logger, *configPath, *inPath, *gen, *outPath, *metaPath); err != nil {
		logger.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run

func run(logger *slog.Logger, configPath, inPath string, gen int, outPath, metaPath string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}

	var ds *dataset.Dataset
	if inPath != "" {
		var err error
		if ds, err = dataset.LoadCSV(inPath, cfg.SeparatorRune()); err != nil {
			return err
		}
		logger.Info("loaded scored dataset", "path", inPath, "samples", len(ds.Samples))
	} else {
		ds = dataset.Synthesize(gen, cfg.NumClasses, cfg.Seed)
		logger.Info("synthesized scored dataset", "samples", gen, "classes", cfg.NumClasses, "seed", cfg.Seed)
	}
	if err := ds.ValidateClasses(cfg.NumClasses); err != nil {
		return err
	}

	periods, err := dataset.Partition(len(ds.Samples), cfg.BatchSize)
	if err != nil {
		return err
	}
	dropped := len(ds.Samples) - len(periods)*cfg.BatchSize
	logger.Info("partitioned dataset",
		"periods", len(periods), "batch_size", cfg.BatchSize, "dropped_remainder", dropped)

	ccfg := corrupt.FromConfig(cfg)
	corrupt.Plan(periods, ccfg)
	if err := corrupt.Apply(ds.Samples, periods, ccfg); err != nil {
		return err
	}
	logger.Info("corrupted labels",
		"base_accuracy", cfg.BaseAccuracy,
		"degradation_rate", cfg.DegradationRate,
		"floor", cfg.AccuracyFloor,
		"seed", cfg.Seed,
	)
	for _, p := range periods {
		logger.Debug("period plan", "index", p.Index, "start", p.Start, "end", p.End, "target_accuracy", p.TargetAccuracy)
	}

	if err := ds.WriteCSV(outPath, cfg.SeparatorRune()); err != nil {
		return err
	}
	meta := dataset.Metadata{
		BatchSize:       cfg.BatchSize,
		NumPeriods:      len(periods),
		CoveredSamples:  len(periods) * cfg.BatchSize,
		NumClasses:      cfg.NumClasses,
		Seed:            cfg.Seed,
		BaseAccuracy:    cfg.BaseAccuracy,
		DegradationRate: cfg.DegradationRate,
		AccuracyFloor:   cfg.AccuracyFloor,
		Periods:         periods,
	}
	if err := dataset.WriteMetadata(metaPath, meta); err != nil {
		return err
	}

	logger.Info("simulation artifacts written", "dataset", outPath, "metadata", metaPath)
	return nil
}

// #endregion run

// #region helpers

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// setupLogger builds a text slog logger on stdout, teeing to a file when
// logPath is set.
func setupLogger(logPath string) (*slog.Logger, func(), error) {
	var w io.Writer = os.Stdout
	closeLog := func() {}
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return nil, nil, fmt.Errorf("create log file %s: %w", logPath, err)
		}
		w = io.MultiWriter(os.Stdout, f)
		closeLog = func() { f.Close() }
	}
	return slog.New(slog.NewTextHandler(w, nil)), closeLog, nil
}

// #endregion helpers
