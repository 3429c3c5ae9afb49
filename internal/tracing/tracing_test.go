package tracing

import (
	"context"
	"net/http"
	"testing"

	"github.com/lsymds/smashit/internal/config"
)

func TestInitDisabled(t *testing.T) {
	provider, err := Init(context.Background(), config.TracingConfig{})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	if provider.ShouldPropagate() {
		t.Error("disabled provider must not propagate")
	}
	if provider.Tracer() == nil {
		t.Error("Tracer() must return a usable no-op tracer")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown on disabled provider: %v", err)
	}
}

func TestInitEnabled(t *testing.T) {
	cfg := config.TracingConfig{
		Endpoint:    "localhost:4318",
		ServiceName: "smashit-test",
		Propagate:   true,
		Insecure:    true,
	}

	provider, err := Init(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer provider.Shutdown(context.Background())

	if !provider.ShouldPropagate() {
		t.Error("ShouldPropagate = false, want true")
	}
	if provider.tp == nil {
		t.Error("expected a real tracer provider when an endpoint is configured")
	}
}

func TestNilProviderIsSafe(t *testing.T) {
	var provider *Provider

	if provider.ShouldPropagate() {
		t.Error("nil provider must not propagate")
	}
	if provider.Tracer() == nil {
		t.Error("nil provider must still hand out a no-op tracer")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown on nil provider: %v", err)
	}
}

func TestSpanLifecycle(t *testing.T) {
	provider, err := Init(context.Background(), config.TracingConfig{})
	if err != nil {
		t.Fatal(err)
	}

	ctx, span := StartRequestSpan(context.Background(), provider.Tracer(), "GET", "http://localhost/api")
	if ctx == nil {
		t.Fatal("span context is nil")
	}
	EndSpan(span, nil)

	_, failedSpan := StartRequestSpan(context.Background(), provider.Tracer(), "GET", "http://localhost/api")
	EndSpan(failedSpan, context.DeadlineExceeded)
}

func TestInjectHTTPHeaders(t *testing.T) {
	headers := http.Header{}
	// With only the default propagator and no recording span this is a
	// no-op; it must not panic or corrupt existing headers.
	headers.Set("X-Existing", "1")
	InjectHTTPHeaders(context.Background(), headers)

	if got := headers.Get("X-Existing"); got != "1" {
		t.Errorf("existing header clobbered: %q", got)
	}
}
