// Command replay runs a monitoring scenario from a JSON fixture and verifies
// the expected outcome. Exit 0 when every check passes, 1 on mismatch, 2 on
// usage or load errors.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kestrel-labs/driftwatch/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	f, err := replay.LoadFixture(*fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		os.Exit(2)
	}
	if f.Description != "" {
		fmt.Printf("Fixture: %s\n", f.Description)
	}

	run, err := replay.Run(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		os.Exit(2)
	}

	fmt.Printf("Status:  %s\n", run.Status)
	if run.TriggerPeriod >= 0 {
		fmt.Printf("Trigger: period %d\n", run.TriggerPeriod)
	}
	for _, pm := range run.Periods {
		fmt.Printf("  period %d: accuracy=%.4f target=%.4f f1=%.4f\n",
			pm.PeriodIndex, pm.Accuracy, pm.TargetAccuracy, pm.F1)
	}

	mismatches := replay.Verify(f, run)
	if len(mismatches) > 0 {
		fmt.Println("\nFAIL")
		for _, m := range mismatches {
			fmt.Printf("  %s\n", m)
		}
		os.Exit(1)
	}
	fmt.Println("\nPASS")
}

// #endregion main
