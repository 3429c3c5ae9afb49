package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestRunHelp(t *testing.T) {
	if err := run(nil); err != nil {
		t.Errorf("run with no args should print help and succeed, got %v", err)
	}
	if err := run([]string{"--help"}); err != nil {
		t.Errorf("run --help should succeed, got %v", err)
	}
}

func TestRunValidationFailure(t *testing.T) {
	if err := run([]string{"--url", "not-a-url"}); err == nil {
		t.Error("expected validation error for a relative URL")
	}
	if err := run([]string{"-u", "http://localhost", "-c", "0"}); err == nil {
		t.Error("expected validation error for count 0")
	}
}

func TestRunEndToEnd(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	err := run([]string{
		"-u", server.URL,
		"-c", "5",
		"--concurrency", "2",
		"--json-output",
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if hits != 5 {
		t.Errorf("server hits = %d, want 5", hits)
	}
}

func TestRunRequestFailuresStillExitZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // all attempts will be refused

	err := run([]string{"-u", server.URL, "-c", "3", "--json-output"})
	if err != nil {
		t.Errorf("failed requests are data, not process errors; got %v", err)
	}
}

func TestRunThresholdBreach(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := run([]string{
		"-u", server.URL,
		"-c", "3",
		"--json-output",
		"--threshold", "requests:count > 1000",
	})
	if !errors.Is(err, errThresholdBreached) {
		t.Errorf("err = %v, want errThresholdBreached", err)
	}
}

func TestRunInvalidThreshold(t *testing.T) {
	err := run([]string{"-u", "http://localhost", "--threshold", "bogus"})
	if err == nil {
		t.Error("expected error for malformed threshold before any request is sent")
	}
}

func TestRunExpectationMiss(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error"}`))
	}))
	defer server.Close()

	// A missed expectation marks attempts failed but the run still
	// completes; only an explicit threshold turns that into exit 1.
	err := run([]string{
		"-u", server.URL,
		"-c", "2",
		"--json-output",
		"--expect-json", "status=ok",
		"--threshold", "failed:count == 0",
	})
	if !errors.Is(err, errThresholdBreached) {
		t.Errorf("err = %v, want errThresholdBreached", err)
	}
}
