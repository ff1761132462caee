// Command inspect reads monitoring run history out of the SQLite store, as a
// table or as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/kestrel-labs/driftwatch/internal/monitor"
	"github.com/kestrel-labs/driftwatch/internal/runlog"
	"github.com/kestrel-labs/driftwatch/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the monitoring run database")
	last := flag.Int("last", 20, "show N most recent runs")
	runID := flag.String("run", "", "show single run detail")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/driftwatch.db [--last N] [--run id] [--json]")
		os.Exit(2)
	}

	st, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if *runID != "" {
		err = runDetailMode(st, *runID, *jsonOut)
	} else {
		err = runListMode(st, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	RunID         string `json:"run_id"`
	Status        string `json:"status"`
	TriggerPeriod int    `json:"trigger_period"`
	StartPeriod   int    `json:"start_period"`
	EndPeriod     int    `json:"end_period"`
	Dataset       string `json:"dataset,omitempty"`
	CreatedAt     string `json:"created_at"`
}

func runListMode(st *store.Store, last int, jsonOut bool) error {
	runs, err := st.ListRuns(last)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, "no runs found")
		return nil
	}

	rows := make([]listRow, len(runs))
	for i, r := range runs {
		rows[i] = listRow{
			RunID:         r.RunID,
			Status:        string(r.Status),
			TriggerPeriod: r.TriggerPeriod,
			StartPeriod:   r.StartPeriod,
			EndPeriod:     r.EndPeriod,
			Dataset:       r.DatasetPath,
			CreatedAt:     r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-36s  %-10s  %7s  %-11s  %s\n", "Run", "Status", "Trigger", "Range", "Time")
	fmt.Printf("%-36s+-%-10s+-%7s+-%-11s+-%s\n",
		"------------------------------------", "----------", "-------", "-----------", "--------------------")
	for _, row := range rows {
		trigger := "-"
		if row.TriggerPeriod >= 0 {
			trigger = fmt.Sprintf("%d", row.TriggerPeriod)
		}
		fmt.Printf("%-36s  %-10s  %7s  %-11s  %s\n",
			row.RunID, row.Status, trigger,
			fmt.Sprintf("[%d,%d]", row.StartPeriod, row.EndPeriod),
			row.CreatedAt)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type detailOut struct {
	Run     listRow                 `json:"run"`
	Periods []monitor.PeriodMetrics `json:"periods"`
	Events  []eventRow              `json:"events"`
}

type eventRow struct {
	PeriodIndex int    `json:"period_index"`
	Event       string `json:"event"`
	Detail      string `json:"detail,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func runDetailMode(st *store.Store, runID string, jsonOut bool) error {
	rec, err := st.GetRun(runID)
	if err != nil {
		return err
	}
	periods, err := st.ListPeriodMetrics(runID)
	if err != nil {
		return err
	}
	events, err := runlog.ListEvents(st.DB(), runID)
	if err != nil {
		return err
	}

	out := detailOut{
		Run: listRow{
			RunID:         rec.RunID,
			Status:        string(rec.Status),
			TriggerPeriod: rec.TriggerPeriod,
			StartPeriod:   rec.StartPeriod,
			EndPeriod:     rec.EndPeriod,
			Dataset:       rec.DatasetPath,
			CreatedAt:     rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
		},
		Periods: periods,
	}
	for _, e := range events {
		out.Events = append(out.Events, eventRow{
			PeriodIndex: e.PeriodIndex,
			Event:       e.Event,
			Detail:      e.Detail,
			CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}

	if jsonOut {
		return printJSON(out)
	}

	fmt.Printf("Run:     %s\n", rec.RunID)
	fmt.Printf("Status:  %s", rec.Status)
	if rec.TriggerPeriod >= 0 {
		fmt.Printf(" (triggered at period %d)", rec.TriggerPeriod)
	}
	fmt.Println()
	fmt.Printf("Range:   [%d,%d]\n", rec.StartPeriod, rec.EndPeriod)
	if rec.DatasetPath != "" {
		fmt.Printf("Dataset: %s\n", rec.DatasetPath)
	}
	fmt.Println()

	fmt.Printf("%6s  %8s  %8s  %9s  %8s  %8s  %-6s  %s\n",
		"Period", "Target", "Accuracy", "Precision", "Recall", "F1", "Passed", "Degraded")
	for _, pm := range periods {
		fmt.Printf("%6d  %8.4f  %8.4f  %9.4f  %8.4f  %8.4f  %-6v  %v\n",
			pm.PeriodIndex, pm.TargetAccuracy, pm.Accuracy, pm.Precision, pm.Recall, pm.F1,
			pm.Passed, pm.Degraded)
	}

	if len(out.Events) > 0 {
		fmt.Println()
		for _, e := range out.Events {
			period := "-"
			if e.PeriodIndex >= 0 {
				period = fmt.Sprintf("%d", e.PeriodIndex)
			}
			fmt.Printf("%s  period=%s  %s  %s\n", e.CreatedAt, period, e.Event, e.Detail)
		}
	}
	return nil
}

// #endregion detail-mode

// #region helpers

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// #endregion helpers
