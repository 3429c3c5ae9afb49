package runner

import (
	"context"
	"sync"
	"time"

	"github.com/lsymds/smashit/internal/metrics"
)

// Result carries the complete outcome collection for a run. For a run that
// was not interrupted, len(Outcomes) is exactly the configured count.
type Result struct {
	Outcomes []metrics.Outcome
	Duration time.Duration
}

// Runner drives the configured number of attempts through a fixed-size
// worker pool. Attempts share no mutable state with one another; outcomes
// flow back over a channel and are collected into a single slice.
type Runner struct {
	opt Options
}

func New(opt Options) *Runner {
	opt.normalize()
	return &Runner{opt: opt}
}

// Run dispatches the attempts and blocks until every dispatched attempt has
// produced its Outcome. The returned collection is only handed over once the
// join barrier has passed, so no attempt is ever dropped silently. Context
// cancellation stops scheduling new attempts; attempts already in flight
// still resolve through the barrier.
func (r *Runner) Run(ctx context.Context) Result {
	start := time.Now()

	limiter := r.opt.LimiterFactory(r.opt.RatePerSecond)
	permits := make(chan struct{}, r.opt.Concurrency)

	// Scheduler: serializes pacing so workers cannot overshoot the rate in
	// a burst. Exactly Count permits are issued on an uninterrupted run.
	go func() {
		defer close(permits)
		for i := 0; i < r.opt.Count; i++ {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			select {
			case permits <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()

	outcomes := make(chan metrics.Outcome, r.opt.Concurrency)

	var wg sync.WaitGroup
	wg.Add(r.opt.Concurrency)
	for i := 0; i < r.opt.Concurrency; i++ {
		go func() {
			defer wg.Done()
			for range permits {
				outcomes <- r.opt.Requester.Do(ctx)
			}
		}()
	}

	// Join barrier: the outcome channel closes only after every worker has
	// exited, so the collection loop below sees every outcome.
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	collected := make([]metrics.Outcome, 0, r.opt.Count)
	for o := range outcomes {
		collected = append(collected, o)
	}

	return Result{
		Outcomes: collected,
		Duration: time.Since(start),
	}
}
