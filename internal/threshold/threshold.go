// Package threshold evaluates post-run assertions against a Summary, so a
// run can fail CI when latency or failure figures drift.
package threshold

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lsymds/smashit/internal/metrics"
)

// Threshold is a single assertion over the run summary.
type Threshold struct {
	Metric    string  // "latency", "failed", or "requests"
	Aggregate string  // e.g. "p99", "avg", "rate", "count"
	Operator  string  // "<", "<=", ">", ">=", "=="
	Value     float64 // comparison value
	Raw       string  // original threshold string for display
}

// Result is the outcome of evaluating one threshold.
type Result struct {
	Threshold Threshold
	Actual    float64
	Pass      bool
	Message   string
}

// Evaluator evaluates thresholds against a run summary.
type Evaluator struct {
	thresholds []Threshold
}

func NewEvaluator(thresholds []Threshold) *Evaluator {
	return &Evaluator{thresholds: thresholds}
}

// Evaluate checks all thresholds against the summary.
func (e *Evaluator) Evaluate(s metrics.Summary) []Result {
	if len(e.thresholds) == 0 {
		return nil
	}

	results := make([]Result, 0, len(e.thresholds))
	for _, t := range e.thresholds {
		results = append(results, evaluateOne(t, s))
	}
	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Pass {
			return false
		}
	}
	return true
}

func evaluateOne(t Threshold, s metrics.Summary) Result {
	actual, err := extractMetricValue(t, s)
	if err != nil {
		return Result{
			Threshold: t,
			Pass:      false,
			Message:   fmt.Sprintf("✗ %s: %v", t.Raw, err),
		}
	}

	pass := compareValues(actual, t.Operator, t.Value)
	status := "✓"
	if !pass {
		status = "✗"
	}

	return Result{
		Threshold: t,
		Actual:    actual,
		Pass:      pass,
		Message:   fmt.Sprintf("%s %s: %.2f %s %.2f", status, t.Raw, actual, t.Operator, t.Value),
	}
}

var thresholdPattern = regexp.MustCompile(`^([a-z_]+):([a-z0-9]+)\s*([<>=!]+)\s*([0-9.]+)$`)

// Parse parses a threshold string.
// Supported formats:
//   - "latency:p99 < 500"   (latency aggregate in ms; also p50, p75, p90, avg, min, max)
//   - "failed:rate < 0.01"  (failure rate as decimal)
//   - "failed:count < 10"   (failure count)
//   - "requests:rate > 100" (requests per second)
func Parse(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Threshold{}, fmt.Errorf("empty threshold string")
	}

	matches := thresholdPattern.FindStringSubmatch(s)
	if matches == nil {
		return Threshold{}, fmt.Errorf("invalid threshold format: %q (expected metric:aggregate operator value, e.g. 'latency:p99 < 500')", s)
	}

	metric, aggregate, operator, valueStr := matches[1], matches[2], matches[3], matches[4]

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return Threshold{}, fmt.Errorf("invalid threshold value %q: %v", valueStr, err)
	}

	if metric != "latency" && metric != "failed" && metric != "requests" {
		return Threshold{}, fmt.Errorf("unsupported metric: %q (supported: latency, failed, requests)", metric)
	}
	if !isValidOperator(operator) {
		return Threshold{}, fmt.Errorf("unsupported operator: %q (supported: <, <=, >, >=, ==)", operator)
	}
	if _, err := extractMetricValue(Threshold{Metric: metric, Aggregate: aggregate}, sampleSummary); err != nil {
		return Threshold{}, err
	}

	return Threshold{
		Metric:    metric,
		Aggregate: aggregate,
		Operator:  operator,
		Value:     value,
		Raw:       s,
	}, nil
}

// ParseMultiple parses multiple threshold strings, collecting every error.
func ParseMultiple(thresholds []string) ([]Threshold, error) {
	if len(thresholds) == 0 {
		return nil, nil
	}

	result := make([]Threshold, 0, len(thresholds))
	var issues []string

	for i, s := range thresholds {
		t, err := Parse(s)
		if err != nil {
			issues = append(issues, fmt.Sprintf("threshold[%d]: %v", i, err))
			continue
		}
		result = append(result, t)
	}

	if len(issues) > 0 {
		return nil, fmt.Errorf("threshold parsing errors: %s", strings.Join(issues, "; "))
	}

	return result, nil
}

// sampleSummary lets Parse validate aggregates through the same extraction
// path evaluation uses.
var sampleSummary = metrics.Summary{Latency: &metrics.LatencyStats{}}

func isValidOperator(operator string) bool {
	switch operator {
	case "<", "<=", ">", ">=", "==":
		return true
	}
	return false
}

func extractMetricValue(t Threshold, s metrics.Summary) (float64, error) {
	switch t.Metric {
	case "latency":
		return extractLatencyMetric(t.Aggregate, s)
	case "failed":
		return extractFailureMetric(t.Aggregate, s)
	case "requests":
		return extractRequestMetric(t.Aggregate, s)
	default:
		return 0, fmt.Errorf("unknown metric: %s", t.Metric)
	}
}

func extractLatencyMetric(aggregate string, s metrics.Summary) (float64, error) {
	if s.Latency == nil {
		return 0, fmt.Errorf("no successful samples to evaluate latency against")
	}
	switch aggregate {
	case "p50":
		return s.Latency.P50Ms, nil
	case "p75":
		return s.Latency.P75Ms, nil
	case "p90":
		return s.Latency.P90Ms, nil
	case "p99":
		return s.Latency.P99Ms, nil
	case "avg", "mean":
		return s.Latency.AvgMs, nil
	case "min":
		return s.Latency.MinMs, nil
	case "max":
		return s.Latency.MaxMs, nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for latency (supported: p50, p75, p90, p99, avg, min, max)", aggregate)
	}
}

func extractFailureMetric(aggregate string, s metrics.Summary) (float64, error) {
	switch aggregate {
	case "count":
		return float64(s.Failed), nil
	case "rate":
		if s.Total == 0 {
			return 0, nil
		}
		return float64(s.Failed) / float64(s.Total), nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for failed (use 'count' or 'rate')", aggregate)
	}
}

func extractRequestMetric(aggregate string, s metrics.Summary) (float64, error) {
	switch aggregate {
	case "count":
		return float64(s.Total), nil
	case "rate":
		return s.RequestsPerSec, nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for requests (use 'count' or 'rate')", aggregate)
	}
}

func compareValues(actual float64, operator string, expected float64) bool {
	epsilon := 1e-9

	switch operator {
	case "<":
		return actual < expected
	case "<=":
		return actual <= expected || math.Abs(actual-expected) < epsilon
	case ">":
		return actual > expected
	case ">=":
		return actual >= expected || math.Abs(actual-expected) < epsilon
	case "==":
		return math.Abs(actual-expected) < epsilon
	default:
		return false
	}
}
