// Command monitor runs the degradation check over a materialized dataset:
// period by period, compare realized accuracy against the thresholds, halt on
// degradation, and record the run. Both terminal states exit 0; degradation
// is surfaced in the results file status field, the run row, and the log, not
// via the exit code.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/kestrel-labs/driftwatch/internal/config"
	"github.com/kestrel-labs/driftwatch/internal/dataset"
	"github.com/kestrel-labs/driftwatch/internal/monitor"
	"github.com/kestrel-labs/driftwatch/internal/report"
	"github.com/kestrel-labs/driftwatch/internal/runlog"
	"github.com/kestrel-labs/driftwatch/internal/store"
)

// #region main

func main() {
	configPath := flag.String("config", envOr("DRIFTWATCH_CONFIG", ""), "pipeline config YAML (defaults apply if empty)")
	dataPath := flag.String("data", "", "materialized dataset CSV")
	metaPath := flag.String("meta", "", "dataset metadata JSON")
	outPath := flag.String("out", "monitoring_results.json", "results JSON output")
	dbPath := flag.String("db", envOr("DRIFTWATCH_DB", ""), "SQLite run history (empty = no persistence)")
	startFlag := flag.Int("start", 0, "first period to evaluate (overrides config)")
	endFlag := flag.Int("end", -1, "last period to evaluate, -1 = last (overrides config)")
	logPath := flag.String("log", "", "also write the execution log to this file")
	flag.Parse()

	if *dataPath == "" || *metaPath == "" {
		fmt.Fprintln(os.Stderr, "usage: monitor --data scored.csv --meta metadata.json [flags]")
		os.Exit(2)
	}

	logger, closeLog, err := setupLogger(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log setup: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	// Range flags override the config only when given explicitly.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	rng := rangeOverride{
		start: *startFlag, hasStart: set["start"],
		end: *endFlag, hasEnd: set["end"],
	}

	run, err := runPipeline(logger, *configPath, *dataPath, *metaPath, *outPath, *dbPath, rng)
	if err != nil {
		logger.Error("monitoring failed", "error", err)
		os.Exit(1)
	}

	// Terminal state reached: the run succeeded whether or not it degraded.
	logger.Info("monitoring finished",
		"run_id", run.RunID,
		"status", run.Status,
		"trigger_period", run.TriggerPeriod,
		"periods_evaluated", len(run.Periods),
	)
}

// #endregion main

// #region pipeline

// rangeOverride carries explicit -start/-end flag values.
type rangeOverride struct {
	start, end       int
	hasStart, hasEnd bool
}

func runPipeline(logger *slog.Logger, configPath, dataPath, metaPath, outPath, dbPath string, rng rangeOverride) (monitor.Run, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return monitor.Run{}, err
		}
	}
	if rng.hasStart {
		cfg.StartPeriod = rng.start
	}
	if rng.hasEnd {
		cfg.EndPeriod = rng.end
	}
	if err := cfg.Validate(); err != nil {
		return monitor.Run{}, err
	}

	ds, err := dataset.LoadCSV(dataPath, cfg.SeparatorRune())
	if err != nil {
		return monitor.Run{}, err
	}
	meta, err := dataset.LoadMetadata(metaPath)
	if err != nil {
		return monitor.Run{}, err
	}
	if meta.CoveredSamples > len(ds.Samples) {
		return monitor.Run{}, fmt.Errorf("%w: metadata covers %d samples but dataset has %d",
			dataset.ErrDataIntegrity, meta.CoveredSamples, len(ds.Samples))
	}
	if err := ds.ValidateClasses(meta.NumClasses); err != nil {
		return monitor.Run{}, err
	}

	start := cfg.StartPeriod
	end := cfg.EndPeriod
	if end == -1 {
		end = meta.NumPeriods - 1
	}

	runID := uuid.New().String()
	logger.Info("monitoring run starting",
		"run_id", runID,
		"dataset", dataPath,
		"periods", meta.NumPeriods,
		"range_start", start,
		"range_end", end,
		"accuracy_threshold", cfg.AccuracyThreshold,
		"degradation_threshold", cfg.DegradationThreshold,
	)

	reporters := report.Multi{report.NewLogReporter(logger)}
	var st *store.Store
	if dbPath != "" {
		if st, err = store.NewStore(dbPath); err != nil {
			return monitor.Run{}, err
		}
		defer st.Close()

		cfgJSON, _ := json.Marshal(cfg)
		if err := st.CreateRun(store.RunRecord{
			RunID:       runID,
			DatasetPath: dataPath,
			StartPeriod: start,
			EndPeriod:   end,
			ConfigJSON:  string(cfgJSON),
		}); err != nil {
			return monitor.Run{}, err
		}
		if err := runlog.LogEvent(st.DB(), runlog.Entry{
			RunID:       runID,
			PeriodIndex: -1,
			Event:       runlog.EventRunStarted,
			Detail:      fmt.Sprintf("range=[%d,%d] dataset=%s", start, end, dataPath),
		}); err != nil {
			return monitor.Run{}, err
		}
		reporters = append(reporters, report.NewStoreReporter(st))
	}

	ev := monitor.NewEvaluator(monitor.Thresholds{
		Accuracy:    cfg.AccuracyThreshold,
		Degradation: cfg.DegradationThreshold,
	}, reporters)

	run, err := ev.Run(runID, ds.Samples, meta.Periods, meta.NumClasses, start, end)
	if err != nil {
		return monitor.Run{}, err
	}

	if st != nil {
		if err := st.FinishRun(runID, run.Status, run.TriggerPeriod); err != nil {
			return monitor.Run{}, err
		}
		if err := runlog.LogEvent(st.DB(), runlog.Entry{
			RunID:       runID,
			PeriodIndex: -1,
			Event:       runlog.EventRunFinished,
			Detail:      fmt.Sprintf("status=%s trigger_period=%d", run.Status, run.TriggerPeriod),
		}); err != nil {
			return monitor.Run{}, err
		}
	}

	if err := writeResults(outPath, run); err != nil {
		return monitor.Run{}, err
	}
	logger.Info("results written", "path", outPath)
	return run, nil
}

func writeResults(path string, run monitor.Run) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write results %s: %w", path, err)
	}
	return nil
}

// #endregion pipeline

// #region helpers

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

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
