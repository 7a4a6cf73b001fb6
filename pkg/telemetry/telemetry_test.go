package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/boreksan/trayorders/pkg/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		ServiceName:    "test-service",
		ServiceVersion: "test",
		Environment:    "testing",
		OtelEndpoint:   "", // disabled
	}
}

func TestSetup_NoOtelEndpoint(t *testing.T) {
	shutdown, handler, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected non-nil shutdown")
	}
	if handler == nil {
		t.Fatal("expected non-nil metrics handler")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_MetricsHandlerServesPrometheusFormat(t *testing.T) {
	_, handler, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", http.NoBody))

	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	ct := rr.Header().Get("Content-Type")
	if !strings.Contains(ct, "text/plain") {
		t.Errorf("expected text/plain content-type, got %q", ct)
	}
}

func TestSetup_InstallsPropagator(t *testing.T) {
	shutdown, _, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer shutdown(context.Background()) //nolint:errcheck

	fields := otel.GetTextMapPropagator().Fields()
	for _, want := range []string{"traceparent", "baggage"} {
		if !slices.Contains(fields, want) {
			t.Errorf("propagator fields %v missing %q", fields, want)
		}
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{config.EnvDevelopment, "AlwaysOnSampler"},
		{config.EnvTesting, "AlwaysOnSampler"},
		{config.EnvProduction, "ParentBased{root:TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := sampler(tt.env).Description(); !strings.HasPrefix(got, tt.want) {
				t.Fatalf("sampler(%q) = %q, want prefix %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestHasScheme(t *testing.T) {
	tests := map[string]bool{
		"http://localhost:4318": true,
		"https://otel.internal": true,
		"localhost:4318":        false,
		"otel-collector":        false,
	}
	for in, want := range tests {
		if got := hasScheme(in); got != want {
			t.Errorf("hasScheme(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestReportError_WithoutSentryIsNoop(t *testing.T) {
	// Must not panic when SetupSentry was never called.
	ReportError(context.Background(), context.DeadlineExceeded)
}

func TestSentryOptions(t *testing.T) {
	cfg := baseConfig()
	cfg.SentryDSN = "https://key@sentry.example.com/1"

	opts := sentryOptions(cfg)
	if opts.Release != "test-service@test" {
		t.Errorf("Release = %q", opts.Release)
	}
	if opts.TracesSampleRate != 1.0 {
		t.Errorf("non-production TracesSampleRate = %v, want 1.0", opts.TracesSampleRate)
	}

	cfg.Environment = config.EnvProduction
	if got := sentryOptions(cfg).TracesSampleRate; got != 0.2 {
		t.Errorf("production TracesSampleRate = %v, want 0.2", got)
	}
}

func TestTagCaller_WithoutHubIsNoop(t *testing.T) {
	TagCaller(context.Background(), "shop-1", "SHOP")
}
