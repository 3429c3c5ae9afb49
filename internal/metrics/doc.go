// Package metrics models per-attempt outcomes and reduces them into run
// statistics.
//
// An [Outcome] is a tagged variant: a completed response carries its HTTP
// status code, a failed attempt carries its cause. There is deliberately no
// zero-status sentinel, so aggregation can never confuse a transport failure
// with a real status.
//
// [Summarize] is the end-of-run aggregator. It is a pure function over the
// complete outcome multiset: it partitions outcomes into successful and
// failed, builds an ascending-status histogram over the completed attempts,
// and computes min/avg/max plus nearest-rank percentiles over the sorted
// successful sample. A run with zero successful attempts yields a Summary
// with a nil Latency section, never fabricated zeros.
//
// [Collector] serves the live progress display only. It keeps streaming
// percentile estimates in an HDR histogram because the in-flight sample is
// unbounded from its point of view; the final report never uses it.
package metrics
