// Package report prints the verdicts of a scenario run.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/labstack/gommon/color"

	"github.com/stolasapp/logincheck/internal/scenario"
)

// Write prints one line per scenario and a summary. On failure the line is
// followed by the error, which carries the expected and actual values.
func Write(w io.Writer, run scenario.Run, colorize bool) error {
	clr := color.New()
	if colorize {
		clr.Enable()
	} else {
		clr.Disable()
	}

	if _, err := fmt.Fprintf(w, "run %s\n", run.ID); err != nil {
		return err
	}
	for _, res := range run.Results {
		verdict := clr.Green("PASS")
		if !res.Passed() {
			verdict = clr.Red("FAIL")
		}
		if _, err := fmt.Fprintf(w, "%s  %-24s %s\n",
			verdict, res.Scenario.Name, clr.Grey(res.Duration.Round(time.Millisecond))); err != nil {
			return err
		}
		if res.Passed() {
			continue
		}
		if _, err := fmt.Fprintf(w, "      %s\n", clr.Yellow(res.Err)); err != nil {
			return err
		}
	}

	failed := run.Failed()
	summary := fmt.Sprintf("%d passed, %d failed", len(run.Results)-failed, failed)
	if failed > 0 {
		summary = clr.Red(summary)
	} else {
		summary = clr.Green(summary)
	}
	_, err := fmt.Fprintln(w, summary)
	return err
}
