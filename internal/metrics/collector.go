package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Collector records outcomes in a thread-safe manner while a run is in
// flight. It backs the progress reporter and the live dashboard; the
// authoritative end-of-run Summary always comes from Summarize over the
// complete outcome slice, not from here. The histogram is a streaming
// estimate, acceptable for a progress display where the sample is still
// growing.
type Collector struct {
	mu         sync.Mutex
	hist       *hdrhistogram.Histogram
	successful int64
	failed     int64
	byStatus   map[int]int64
	start      time.Time
}

// LiveStats is a point-in-time view of an in-flight run.
type LiveStats struct {
	Total          int64
	Successful     int64
	Failed         int64
	RequestsPerSec float64

	// Percentile estimates over successful attempts recorded so far.
	P50 time.Duration
	P90 time.Duration
	P99 time.Duration

	// Statuses covers completed attempts, ascending by code.
	Statuses []StatusCount
}

func NewCollector() *Collector {
	// Track latencies from 1µs up to 60s with 3 significant figures.
	return &Collector{
		hist:     hdrhistogram.New(1, 60_000_000, 3),
		byStatus: make(map[int]int64),
		start:    time.Now(),
	}
}

// Start marks the moment attempts begin dispatching, so throughput figures
// exclude setup time spent before the run.
func (c *Collector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start = time.Now()
}

// Record folds one outcome into the live counters.
func (c *Collector) Record(o Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if o.Failed() {
		c.failed++
		return
	}

	c.successful++
	c.byStatus[o.StatusCode]++

	us := o.Latency.Microseconds()
	if us < c.hist.LowestTrackableValue() {
		us = c.hist.LowestTrackableValue()
	}
	if us > c.hist.HighestTrackableValue() {
		us = c.hist.HighestTrackableValue()
	}
	_ = c.hist.RecordValue(us)
}

// Snapshot returns the current live view.
func (c *Collector) Snapshot() LiveStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := LiveStats{
		Successful: c.successful,
		Failed:     c.failed,
		Total:      c.successful + c.failed,
	}

	elapsed := time.Since(c.start)
	if elapsed > 0 && stats.Total > 0 {
		stats.RequestsPerSec = float64(stats.Total) / elapsed.Seconds()
	}

	if c.hist.TotalCount() > 0 {
		stats.P50 = time.Duration(c.hist.ValueAtQuantile(50)) * time.Microsecond
		stats.P90 = time.Duration(c.hist.ValueAtQuantile(90)) * time.Microsecond
		stats.P99 = time.Duration(c.hist.ValueAtQuantile(99)) * time.Microsecond
	}

	if len(c.byStatus) > 0 {
		codes := make([]int, 0, len(c.byStatus))
		for code := range c.byStatus {
			codes = append(codes, code)
		}
		sort.Ints(codes)
		stats.Statuses = make([]StatusCount, 0, len(codes))
		for _, code := range codes {
			stats.Statuses = append(stats.Statuses, StatusCount{Code: code, Count: int(c.byStatus[code])})
		}
	}

	return stats
}
