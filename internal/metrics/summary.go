package metrics

import (
	"math"
	"sort"
	"time"
)

// StatusCount is one row of the status histogram: how many completed
// attempts produced a given HTTP status code.
type StatusCount struct {
	Code  int `json:"code"`
	Count int `json:"count"`
}

// LatencyStats are order statistics over the successful attempts' latencies.
// Percentiles use the nearest-rank method on the sorted sample.
type LatencyStats struct {
	Min time.Duration `json:"-"`
	Avg time.Duration `json:"-"`
	Max time.Duration `json:"-"`
	P50 time.Duration `json:"-"`
	P75 time.Duration `json:"-"`
	P90 time.Duration `json:"-"`
	P99 time.Duration `json:"-"`

	// JSON-friendly millisecond fields.
	MinMs float64 `json:"min_ms"`
	AvgMs float64 `json:"avg_ms"`
	MaxMs float64 `json:"max_ms"`
	P50Ms float64 `json:"p50_ms"`
	P75Ms float64 `json:"p75_ms"`
	P90Ms float64 `json:"p90_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// Summary is the final reduced statistics for an entire run.
type Summary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`

	// StatusHistogram covers completed attempts only, ascending by code.
	StatusHistogram []StatusCount `json:"status_histogram,omitempty"`

	// Latency is nil when no attempt completed; a failure-only run reports
	// no latency figures rather than zeros.
	Latency *LatencyStats `json:"latency,omitempty"`

	Duration       time.Duration `json:"-"`
	DurationMs     float64       `json:"duration_ms"`
	RequestsPerSec float64       `json:"requests_per_sec"`
}

// Summarize reduces a complete outcome set into a Summary. It is a pure
// function of the outcome multiset: input order never affects the result,
// since the successful sample is sorted before any rank is taken. elapsed is
// the run's wall-clock duration, used only for the throughput figure.
func Summarize(outcomes []Outcome, elapsed time.Duration) Summary {
	s := Summary{Total: len(outcomes)}

	byStatus := make(map[int]int)
	latencies := make([]time.Duration, 0, len(outcomes))
	var sum time.Duration

	for _, o := range outcomes {
		if o.Failed() {
			s.Failed++
			continue
		}
		s.Successful++
		byStatus[o.StatusCode]++
		latencies = append(latencies, o.Latency)
		sum += o.Latency
	}

	if len(byStatus) > 0 {
		codes := make([]int, 0, len(byStatus))
		for code := range byStatus {
			codes = append(codes, code)
		}
		sort.Ints(codes)
		s.StatusHistogram = make([]StatusCount, 0, len(codes))
		for _, code := range codes {
			s.StatusHistogram = append(s.StatusHistogram, StatusCount{Code: code, Count: byStatus[code]})
		}
	}

	if len(latencies) > 0 {
		sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
		ls := &LatencyStats{
			Min: latencies[0],
			Max: latencies[len(latencies)-1],
			Avg: sum / time.Duration(len(latencies)),
			P50: NearestRank(latencies, 50),
			P75: NearestRank(latencies, 75),
			P90: NearestRank(latencies, 90),
			P99: NearestRank(latencies, 99),
		}
		ls.MinMs = toMs(ls.Min)
		ls.AvgMs = toMs(ls.Avg)
		ls.MaxMs = toMs(ls.Max)
		ls.P50Ms = toMs(ls.P50)
		ls.P75Ms = toMs(ls.P75)
		ls.P90Ms = toMs(ls.P90)
		ls.P99Ms = toMs(ls.P99)
		s.Latency = ls
	}

	s.Duration = elapsed
	s.DurationMs = toMs(elapsed)
	if elapsed > 0 && s.Total > 0 {
		s.RequestsPerSec = float64(s.Total) / elapsed.Seconds()
	}

	return s
}

// NearestRank returns the value at rank ceil(p/100 * n) in an
// ascending-sorted sample. Ranks are 1-indexed and clamped to [1, n];
// no interpolation is performed. An empty sample yields zero.
func NearestRank(sorted []time.Duration, p float64) time.Duration {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	rank := int(math.Ceil(p / 100 * float64(n)))
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return sorted[rank-1]
}

func toMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
