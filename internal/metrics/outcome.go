package metrics

import "time"

// Outcome records the result of one attempt against the target: either a
// completed response with its HTTP status code, or a failure with its cause.
// Exactly one Outcome exists per attempt, and an Outcome is never mutated
// after creation.
type Outcome struct {
	StatusCode int           // valid only when Err is nil
	Err        error         // non-nil marks an attempt that did not complete
	Latency    time.Duration // dispatch to full response (or failure), >= 0
}

// Completed returns an Outcome for an attempt that received a full response.
func Completed(statusCode int, latency time.Duration) Outcome {
	return Outcome{StatusCode: statusCode, Latency: latency}
}

// Failed returns an Outcome for an attempt that did not complete.
func Failed(cause error, latency time.Duration) Outcome {
	return Outcome{Err: cause, Latency: latency}
}

// Failed reports whether the attempt ended without a usable response.
// Classification is by the failure cause, never by a zero status code.
func (o Outcome) Failed() bool {
	return o.Err != nil
}
