package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lsymds/smashit/internal/config"
	"github.com/lsymds/smashit/internal/expect"
	"github.com/lsymds/smashit/internal/httpclient"
	"github.com/lsymds/smashit/internal/metrics"
)

func newRequester(t *testing.T, cfg *config.Config, expectation *expect.Expectation) *httpRequester {
	t.Helper()

	builder, err := httpclient.NewRequestBuilder(cfg)
	if err != nil {
		t.Fatalf("NewRequestBuilder: %v", err)
	}

	return &httpRequester{
		client:      httpclient.NewClient(5 * time.Second),
		builder:     builder,
		collector:   metrics.NewCollector(),
		expectation: expectation,
	}
}

func TestDoRecordsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	r := newRequester(t, &config.Config{TargetURL: server.URL, Method: "GET"}, nil)
	outcome := r.Do(context.Background())

	if outcome.Failed() {
		t.Fatalf("outcome failed: %v", outcome.Err)
	}
	if outcome.StatusCode != http.StatusTeapot {
		t.Errorf("StatusCode = %d, want 418", outcome.StatusCode)
	}
	if outcome.Latency <= 0 {
		t.Errorf("Latency = %s, want > 0", outcome.Latency)
	}

	stats := r.collector.Snapshot()
	if stats.Successful != 1 {
		t.Errorf("collector successful = %d, want 1", stats.Successful)
	}
}

func TestDoErrorStatusIsStillCompleted(t *testing.T) {
	// A 500 is a completed exchange: the server answered. Only transport
	// errors and missed expectations mark an attempt failed.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	r := newRequester(t, &config.Config{TargetURL: server.URL, Method: "GET"}, nil)
	outcome := r.Do(context.Background())

	if outcome.Failed() {
		t.Fatalf("outcome failed: %v", outcome.Err)
	}
	if outcome.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", outcome.StatusCode)
	}
}

func TestDoTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	r := newRequester(t, &config.Config{TargetURL: server.URL, Method: "GET"}, nil)
	outcome := r.Do(context.Background())

	if !outcome.Failed() {
		t.Fatal("expected a failed outcome for a refused connection")
	}
	if outcome.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 on failure", outcome.StatusCode)
	}

	stats := r.collector.Snapshot()
	if stats.Failed != 1 {
		t.Errorf("collector failed = %d, want 1", stats.Failed)
	}
}

func TestDoSendsBodyEveryAttempt(t *testing.T) {
	var received int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) == `{"k":"v"}` {
			atomic.AddInt64(&received, 1)
		}
	}))
	defer server.Close()

	r := newRequester(t, &config.Config{
		TargetURL: server.URL,
		Method:    "POST",
		Body:      `{"k":"v"}`,
	}, nil)

	for i := 0; i < 3; i++ {
		if outcome := r.Do(context.Background()); outcome.Failed() {
			t.Fatalf("attempt %d failed: %v", i, outcome.Err)
		}
	}

	if received != 3 {
		t.Errorf("server received body %d times, want 3", received)
	}
}

func TestDoExpectation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"ok","count":2}`)
	}))
	defer server.Close()

	tests := []struct {
		name     string
		expr     string
		wantFail bool
	}{
		{name: "met", expr: "status=ok"},
		{name: "missed value", expr: "status=error", wantFail: true},
		{name: "missing path", expr: "missing.field=1", wantFail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectation, err := expect.Parse(tt.expr)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}

			r := newRequester(t, &config.Config{TargetURL: server.URL, Method: "GET"}, expectation)
			outcome := r.Do(context.Background())

			if outcome.Failed() != tt.wantFail {
				t.Errorf("Failed() = %v, want %v (err %v)", outcome.Failed(), tt.wantFail, outcome.Err)
			}
		})
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	blocked := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer server.Close()
	defer close(blocked)

	r := newRequester(t, &config.Config{TargetURL: server.URL, Method: "GET"}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	outcome := r.Do(ctx)
	if !outcome.Failed() {
		t.Fatal("expected failure when the context deadline passes")
	}
}
