// Package store persists monitoring runs and their period metrics in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kestrel-labs/driftwatch/internal/monitor"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS monitoring_runs (
	run_id          TEXT PRIMARY KEY,
	dataset_path    TEXT,
	start_period    INTEGER NOT NULL,
	end_period      INTEGER NOT NULL,
	status          TEXT NOT NULL,
	trigger_period  INTEGER NOT NULL DEFAULT -1,
	config_json     TEXT,
	created_at      TEXT NOT NULL,
	finished_at     TEXT
);

CREATE TABLE IF NOT EXISTS period_metrics (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id          TEXT NOT NULL,
	period_index    INTEGER NOT NULL,
	target_accuracy REAL NOT NULL,
	accuracy        REAL NOT NULL,
	precision       REAL NOT NULL,
	recall          REAL NOT NULL,
	f1              REAL NOT NULL,
	passed          INTEGER NOT NULL,
	degraded        INTEGER NOT NULL,
	created_at      TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES monitoring_runs(run_id)
);

CREATE TABLE IF NOT EXISTS run_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	period_index  INTEGER,
	event         TEXT NOT NULL,
	detail        TEXT,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES monitoring_runs(run_id)
);
`

// #endregion schema

// #region store-struct
// Store manages monitoring run history in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. runlog).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion db-accessor

// #region run-record

// RunRecord is one row of monitoring_runs.
type RunRecord struct {
	RunID         string
	DatasetPath   string
	StartPeriod   int
	EndPeriod     int
	Status        monitor.State
	TriggerPeriod int
	ConfigJSON    string
	CreatedAt     time.Time
	FinishedAt    time.Time // zero while the run is open
}

// #endregion run-record

// #region create-run
// CreateRun inserts a new run row with status running.
func (s *Store) CreateRun(rec RunRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO monitoring_runs (run_id, dataset_path, start_period, end_period, status, trigger_period, config_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, nullIfEmpty(rec.DatasetPath), rec.StartPeriod, rec.EndPeriod,
		string(monitor.StateRunning), -1, nullIfEmpty(rec.ConfigJSON),
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// #endregion create-run

// #region append-metrics
// AppendPeriodMetrics records one evaluated period for a run.
func (s *Store) AppendPeriodMetrics(runID string, pm monitor.PeriodMetrics) error {
	_, err := s.db.Exec(
		`INSERT INTO period_metrics (run_id, period_index, target_accuracy, accuracy, precision, recall, f1, passed, degraded, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, pm.PeriodIndex, pm.TargetAccuracy, pm.Accuracy, pm.Precision, pm.Recall, pm.F1,
		boolToInt(pm.Passed), boolToInt(pm.Degraded), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert period metrics: %w", err)
	}
	return nil
}

// #endregion append-metrics

// #region finish-run
// FinishRun stamps the terminal status on a run. triggerPeriod is -1 unless
// the run degraded.
func (s *Store) FinishRun(runID string, status monitor.State, triggerPeriod int) error {
	res, err := s.db.Exec(
		`UPDATE monitoring_runs SET status = ?, trigger_period = ?, finished_at = ? WHERE run_id = ?`,
		string(status), triggerPeriod, time.Now().UTC().Format(time.RFC3339Nano), runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

// #endregion finish-run

// #region get-run
// GetRun retrieves a run row by ID.
func (s *Store) GetRun(runID string) (RunRecord, error) {
	row := s.db.QueryRow(
		`SELECT run_id, dataset_path, start_period, end_period, status, trigger_period, config_json, created_at, finished_at
		 FROM monitoring_runs WHERE run_id = ?`, runID,
	)
	rec, err := scanRun(row)
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", runID, err)
	}
	return rec, nil
}

// #endregion get-run

// #region list-runs
// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, dataset_path, start_period, end_period, status, trigger_period, config_json, created_at, finished_at
		 FROM monitoring_runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion list-runs

// #region list-metrics
// ListPeriodMetrics returns a run's period metrics in period order.
func (s *Store) ListPeriodMetrics(runID string) ([]monitor.PeriodMetrics, error) {
	rows, err := s.db.Query(
		`SELECT period_index, target_accuracy, accuracy, precision, recall, f1, passed, degraded
		 FROM period_metrics WHERE run_id = ? ORDER BY period_index ASC`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list period metrics: %w", err)
	}
	defer rows.Close()

	var out []monitor.PeriodMetrics
	for rows.Next() {
		var pm monitor.PeriodMetrics
		var passed, degraded int
		if err := rows.Scan(&pm.PeriodIndex, &pm.TargetAccuracy, &pm.Accuracy, &pm.Precision, &pm.Recall, &pm.F1, &passed, &degraded); err != nil {
			return nil, fmt.Errorf("scan period metrics: %w", err)
		}
		pm.Passed = passed != 0
		pm.Degraded = degraded != 0
		out = append(out, pm)
	}
	return out, rows.Err()
}

// #endregion list-metrics

// #region helpers

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var rec RunRecord
	var datasetPath, configJSON, finishedAt sql.NullString
	var status string
	var createdStr string

	err := row.Scan(&rec.RunID, &datasetPath, &rec.StartPeriod, &rec.EndPeriod,
		&status, &rec.TriggerPeriod, &configJSON, &createdStr, &finishedAt)
	if err != nil {
		return RunRecord{}, err
	}
	rec.Status = monitor.State(status)
	if datasetPath.Valid {
		rec.DatasetPath = datasetPath.String
	}
	if configJSON.Valid {
		rec.ConfigJSON = configJSON.String
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	if finishedAt.Valid {
		rec.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedAt.String)
	}
	return rec, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
