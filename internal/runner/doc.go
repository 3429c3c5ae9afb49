// Package runner is the request execution engine: it performs a fixed number
// of independent attempts against the target through a bounded worker pool.
//
// A scheduler goroutine issues one permit per attempt, optionally paced by a
// token-bucket rate limiter; a fixed pool of workers consumes permits and
// runs the [Requester] once per permit. The pool size is the single
// configurable bound on simultaneously in-flight requests. No ordering is
// guaranteed between attempts, and none is needed: aggregation downstream is
// order-insensitive.
//
// [Runner.Run] returns only after every dispatched attempt has delivered its
// outcome, failed or not. A failed attempt is an Outcome like any other; the
// engine itself never surfaces per-attempt errors.
package runner
