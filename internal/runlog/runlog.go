// Package runlog appends human-auditable events to the run_log table.
package runlog

import (
	"database/sql"
	"fmt"
	"time"
)

// #region events

// Event names written to run_log.
const (
	EventRunStarted      = "run_started"
	EventPeriodEvaluated = "period_evaluated"
	EventDegradation     = "degradation_detected"
	EventRunFinished     = "run_finished"
)

// #endregion events

// #region entry

// Entry is a single row in the run_log table. PeriodIndex is -1 for
// run-level events.
type Entry struct {
	RunID       string
	PeriodIndex int
	Event       string
	Detail      string
	CreatedAt   time.Time
}

// #endregion entry

// #region log-event

// LogEvent writes an entry to the run_log table.
func LogEvent(db *sql.DB, entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	var periodPtr interface{}
	if entry.PeriodIndex >= 0 {
		periodPtr = entry.PeriodIndex
	}

	_, err := db.Exec(
		`INSERT INTO run_log (run_id, period_index, event, detail, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.RunID,
		periodPtr,
		entry.Event,
		nullIfEmpty(entry.Detail),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log event: %w", err)
	}
	return nil
}

// #endregion log-event

// #region list

// ListEvents returns a run's log entries in insertion order.
func ListEvents(db *sql.DB, runID string) ([]Entry, error) {
	rows, err := db.Query(
		`SELECT run_id, period_index, event, detail, created_at
		 FROM run_log WHERE run_id = ? ORDER BY id ASC`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var period sql.NullInt64
		var detail sql.NullString
		var createdStr string
		if err := rows.Scan(&e.RunID, &period, &e.Event, &detail, &createdStr); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.PeriodIndex = -1
		if period.Valid {
			e.PeriodIndex = int(period.Int64)
		}
		if detail.Valid {
			e.Detail = detail.String
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion list

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
