// Package output renders the end-of-run report, threshold results, and the
// live progress line.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/lsymds/smashit/internal/metrics"
	"github.com/lsymds/smashit/internal/threshold"
)

// DisableColor turns off ANSI colors for all subsequent output.
func DisableColor() {
	color.NoColor = true
}

// PrintReport outputs a human-readable summary report.
func PrintReport(w io.Writer, s metrics.Summary) {
	header := color.New(color.Bold)
	success := color.New(color.FgGreen)
	failure := color.New(color.FgRed)

	header.Fprintln(w, "\n--- Load Test Results ---")
	fmt.Fprintf(w, "Total Requests:    %d\n", s.Total)
	success.Fprintf(w, "Successful:        %d\n", s.Successful)
	if s.Failed > 0 {
		failure.Fprintf(w, "Failed:            %d\n", s.Failed)
	} else {
		fmt.Fprintf(w, "Failed:            %d\n", s.Failed)
	}
	fmt.Fprintf(w, "Duration:          %s\n", s.Duration)
	fmt.Fprintf(w, "Requests/sec:      %.2f\n", s.RequestsPerSec)

	header.Fprintln(w, "\nLatency:")
	if s.Latency == nil {
		fmt.Fprintln(w, "  No successful requests; no latency figures to report.")
	} else {
		fmt.Fprintf(w, "  Min:             %s\n", s.Latency.Min)
		fmt.Fprintf(w, "  Avg:             %s\n", s.Latency.Avg)
		fmt.Fprintf(w, "  Max:             %s\n", s.Latency.Max)
		fmt.Fprintf(w, "  P50:             %s\n", s.Latency.P50)
		fmt.Fprintf(w, "  P75:             %s\n", s.Latency.P75)
		fmt.Fprintf(w, "  P90:             %s\n", s.Latency.P90)
		fmt.Fprintf(w, "  P99:             %s\n", s.Latency.P99)
	}

	if len(s.StatusHistogram) > 0 {
		header.Fprintln(w, "\nStatus Codes:")
		for _, row := range s.StatusHistogram {
			line := fmt.Sprintf("  %d: %d\n", row.Code, row.Count)
			switch {
			case row.Code >= 500:
				failure.Fprint(w, line)
			case row.Code >= 400:
				color.New(color.FgYellow).Fprint(w, line)
			default:
				fmt.Fprint(w, line)
			}
		}
	}
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, s metrics.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// PrintThresholds outputs threshold evaluation results.
func PrintThresholds(w io.Writer, results []threshold.Result) {
	if len(results) == 0 {
		return
	}

	color.New(color.Bold).Fprintln(w, "\nThresholds:")
	pass := color.New(color.FgGreen)
	fail := color.New(color.FgRed)
	for _, r := range results {
		if r.Pass {
			pass.Fprintf(w, "  %s\n", r.Message)
		} else {
			fail.Fprintf(w, "  %s\n", r.Message)
		}
	}
}
