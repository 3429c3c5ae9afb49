package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/lsymds/smashit/internal/metrics"
)

// ProgressReporter displays real-time progress updates on a single line.
type ProgressReporter struct {
	collector *metrics.Collector
	ticker    *time.Ticker
	done      chan struct{}
	finished  chan struct{}
	writer    io.Writer
	active    int32
}

// NewProgressReporter creates a progress reporter that updates at the given
// interval.
func NewProgressReporter(collector *metrics.Collector, interval time.Duration, writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		collector: collector,
		ticker:    time.NewTicker(interval),
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
		writer:    writer,
	}
}

// Start begins displaying progress updates in a background goroutine.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return // already running
	}
	go p.run()
}

// Stop halts progress updates and clears the progress line.
func (p *ProgressReporter) Stop() {
	if atomic.CompareAndSwapInt32(&p.active, 1, 0) {
		close(p.done)
		p.ticker.Stop()
		<-p.finished
		fmt.Fprint(p.writer, "\r\033[K")
	}
}

func (p *ProgressReporter) run() {
	defer close(p.finished)
	for {
		select {
		case <-p.ticker.C:
			stats := p.collector.Snapshot()
			line := fmt.Sprintf("\rRequests: %d | Successful: %d | Failed: %d | RPS: %.1f",
				stats.Total, stats.Successful, stats.Failed, stats.RequestsPerSec)
			if stats.Successful > 0 {
				line += fmt.Sprintf(" | P50: %s | P99: %s",
					stats.P50.Round(time.Millisecond), stats.P99.Round(time.Millisecond))
			}
			fmt.Fprint(p.writer, line)
		case <-p.done:
			return
		}
	}
}
