package main

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/lsymds/smashit/internal/expect"
	"github.com/lsymds/smashit/internal/httpclient"
	"github.com/lsymds/smashit/internal/metrics"
	"github.com/lsymds/smashit/internal/tracing"
)

// maxExpectBodyBytes bounds how much of a response body the expectation
// check will buffer.
const maxExpectBodyBytes = 2 << 20

// httpRequester performs one attempt against the frozen request template.
// Latency covers the full exchange: the timer stops only after the response
// body has been fully drained, so keep-alive reuse never skews the sample.
type httpRequester struct {
	client      *http.Client
	builder     *httpclient.RequestBuilder
	collector   *metrics.Collector
	expectation *expect.Expectation
	tracer      *tracing.Provider
}

func (r *httpRequester) Do(ctx context.Context) metrics.Outcome {
	if ctx == nil {
		ctx = context.Background()
	}

	var outcome metrics.Outcome
	defer func() {
		r.collector.Record(outcome)
	}()

	start := time.Now()

	req, err := r.builder.Build(ctx)
	if err != nil {
		outcome = metrics.Failed(err, time.Since(start))
		return outcome
	}

	var span trace.Span
	if r.tracer != nil {
		var spanCtx context.Context
		spanCtx, span = tracing.StartRequestSpan(ctx, r.tracer.Tracer(), req.Method, req.URL.String())
		req = req.WithContext(spanCtx)
		if r.tracer.ShouldPropagate() {
			tracing.InjectHTTPHeaders(spanCtx, req.Header)
		}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		outcome = metrics.Failed(err, time.Since(start))
		r.endSpan(span, outcome)
		return outcome
	}

	body, drainErr := r.drainBody(resp.Body)
	_ = resp.Body.Close()
	latency := time.Since(start)

	if drainErr != nil {
		outcome = metrics.Failed(drainErr, latency)
		r.endSpan(span, outcome)
		return outcome
	}

	if err := r.expectation.Check(body); err != nil {
		outcome = metrics.Failed(err, latency)
		r.endSpan(span, outcome)
		return outcome
	}

	outcome = metrics.Completed(resp.StatusCode, latency)
	r.endSpan(span, outcome)
	return outcome
}

// drainBody consumes the response body so the connection can be reused and
// the latency sample covers the full transfer. The body bytes are kept only
// when an expectation needs them.
func (r *httpRequester) drainBody(body io.Reader) ([]byte, error) {
	if r.expectation == nil {
		_, err := io.Copy(io.Discard, body)
		return nil, err
	}

	buf, err := io.ReadAll(io.LimitReader(body, maxExpectBodyBytes))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return nil, err
	}
	return buf, nil
}

func (r *httpRequester) endSpan(span trace.Span, outcome metrics.Outcome) {
	if span == nil {
		return
	}
	var attrs []attribute.KeyValue
	if outcome.StatusCode > 0 {
		attrs = append(attrs, attribute.Int("http.response.status_code", outcome.StatusCode))
	}
	tracing.EndSpan(span, outcome.Err, attrs...)
}
