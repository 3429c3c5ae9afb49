package runner

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/lsymds/smashit/internal/metrics"
)

// Requester performs one attempt against the target and reports its outcome.
// Transport failures are data, not errors: implementations must always
// return an Outcome, marking failed attempts with a cause.
type Requester interface {
	Do(ctx context.Context) metrics.Outcome
}

// RequesterFunc adapts a function to the Requester interface.
type RequesterFunc func(ctx context.Context) metrics.Outcome

func (f RequesterFunc) Do(ctx context.Context) metrics.Outcome {
	return f(ctx)
}

// Options configure the Runner.
type Options struct {
	Concurrency   int       // worker pool size; the bound on in-flight attempts
	Count         int       // attempts to perform
	RatePerSecond int       // pacing (0 means unpaced)
	Requester     Requester // attempt executor (required)

	LimiterFactory func(rps int) *rate.Limiter // optional injection for tests
}

func (o *Options) normalize() {
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}
	if o.Count < 0 {
		o.Count = 0
	}
	if o.RatePerSecond < 0 {
		o.RatePerSecond = 0
	}
	if o.LimiterFactory == nil {
		o.LimiterFactory = func(rps int) *rate.Limiter {
			if rps <= 0 {
				return rate.NewLimiter(rate.Inf, 0)
			}
			// Burst equal to rps to smooth pacing under concurrency.
			return rate.NewLimiter(rate.Limit(rps), rps)
		}
	}
}
