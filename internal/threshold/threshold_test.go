package threshold

import (
	"strings"
	"testing"

	"github.com/lsymds/smashit/internal/metrics"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Threshold
		wantError bool
	}{
		{
			name:  "p99 latency",
			input: "latency:p99 < 500",
			want: Threshold{
				Metric:    "latency",
				Aggregate: "p99",
				Operator:  "<",
				Value:     500,
				Raw:       "latency:p99 < 500",
			},
		},
		{
			name:  "p75 latency",
			input: "latency:p75 <= 250",
			want: Threshold{
				Metric:    "latency",
				Aggregate: "p75",
				Operator:  "<=",
				Value:     250,
				Raw:       "latency:p75 <= 250",
			},
		},
		{
			name:  "failure rate",
			input: "failed:rate < 0.01",
			want: Threshold{
				Metric:    "failed",
				Aggregate: "rate",
				Operator:  "<",
				Value:     0.01,
				Raw:       "failed:rate < 0.01",
			},
		},
		{
			name:  "requests per second",
			input: "requests:rate > 100",
			want: Threshold{
				Metric:    "requests",
				Aggregate: "rate",
				Operator:  ">",
				Value:     100,
				Raw:       "requests:rate > 100",
			},
		},
		{name: "empty", input: "", wantError: true},
		{name: "no operator", input: "latency:p99 500", wantError: true},
		{name: "unknown metric", input: "memory:max < 100", wantError: true},
		{name: "unknown aggregate", input: "latency:p95 < 100", wantError: true},
		{name: "bad operator", input: "latency:p99 !! 100", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantError {
				if err == nil {
					t.Fatalf("Parse(%q): expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseMultiple(t *testing.T) {
	thresholds, err := ParseMultiple([]string{
		"latency:p99 < 500",
		"failed:rate < 0.05",
	})
	if err != nil {
		t.Fatalf("ParseMultiple: %v", err)
	}
	if len(thresholds) != 2 {
		t.Errorf("thresholds = %d, want 2", len(thresholds))
	}

	_, err = ParseMultiple([]string{"latency:p99 < 500", "bogus"})
	if err == nil {
		t.Error("expected error when any threshold is invalid")
	}
	if err != nil && !strings.Contains(err.Error(), "threshold[1]") {
		t.Errorf("error %q does not name the failing index", err)
	}
}

func testSummary() metrics.Summary {
	return metrics.Summary{
		Total:      100,
		Successful: 95,
		Failed:     5,
		Latency: &metrics.LatencyStats{
			P50Ms: 50,
			P75Ms: 80,
			P90Ms: 120,
			P99Ms: 450,
			AvgMs: 60,
			MinMs: 10,
			MaxMs: 900,
		},
		RequestsPerSec: 200,
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPass bool
	}{
		{name: "p99 under limit", input: "latency:p99 < 500", wantPass: true},
		{name: "p99 over limit", input: "latency:p99 < 400", wantPass: false},
		{name: "p75 at boundary inclusive", input: "latency:p75 <= 80", wantPass: true},
		{name: "avg", input: "latency:avg < 100", wantPass: true},
		{name: "max too high", input: "latency:max < 500", wantPass: false},
		{name: "failure rate ok", input: "failed:rate <= 0.05", wantPass: true},
		{name: "failure rate breached", input: "failed:rate < 0.01", wantPass: false},
		{name: "failure count", input: "failed:count == 5", wantPass: true},
		{name: "throughput floor", input: "requests:rate > 100", wantPass: true},
		{name: "request count", input: "requests:count >= 100", wantPass: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}

			results := NewEvaluator([]Threshold{th}).Evaluate(testSummary())
			if len(results) != 1 {
				t.Fatalf("results = %d, want 1", len(results))
			}
			if results[0].Pass != tt.wantPass {
				t.Errorf("%q pass = %v, want %v (message %q)", tt.input, results[0].Pass, tt.wantPass, results[0].Message)
			}
		})
	}
}

func TestEvaluateLatencyWithoutSamples(t *testing.T) {
	th, err := Parse("latency:p99 < 500")
	if err != nil {
		t.Fatal(err)
	}

	summary := metrics.Summary{Total: 3, Failed: 3}
	results := NewEvaluator([]Threshold{th}).Evaluate(summary)

	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Pass {
		t.Error("latency threshold must fail when no successful sample exists")
	}
	if !strings.Contains(results[0].Message, "no successful samples") {
		t.Errorf("message %q does not explain the missing sample", results[0].Message)
	}
}

func TestAllPassed(t *testing.T) {
	if !AllPassed(nil) {
		t.Error("AllPassed(nil) = false, want true")
	}
	if !AllPassed([]Result{{Pass: true}, {Pass: true}}) {
		t.Error("AllPassed(all pass) = false, want true")
	}
	if AllPassed([]Result{{Pass: true}, {Pass: false}}) {
		t.Error("AllPassed(one failure) = true, want false")
	}
}
