package otel

import (
	"context"
	"testing"
)

func TestSetupNoop(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		enabled  string
	}{
		{name: "empty endpoint"},
		{name: "disabled", endpoint: "http://localhost:4318", enabled: "false"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("PIPDECK_OTEL_ENDPOINT", tc.endpoint)
			t.Setenv("PIPDECK_OTEL_ENABLED", tc.enabled)

			shutdown, err := Setup(context.Background(), "test-service")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			if err := shutdown(ctx); err != nil {
				t.Fatalf("noop shutdown error: %v", err)
			}
		})
	}
}

func TestSetupCreatesProvider(t *testing.T) {
	// Non-routable so nothing is exported.
	t.Setenv("PIPDECK_OTEL_ENDPOINT", "http://192.0.2.1:4318")
	t.Setenv("PIPDECK_OTEL_ENABLED", "")

	shutdown, err := Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupRejectsBadRatio(t *testing.T) {
	t.Setenv("PIPDECK_OTEL_ENDPOINT", "")
	t.Setenv("PIPDECK_OTEL_SAMPLE_RATIO", "half")

	if _, err := Setup(context.Background(), "test-service"); err == nil {
		t.Fatal("expected env parse error")
	}
}

func TestSampler(t *testing.T) {
	t.Parallel()

	if got := sampler(1).Description(); got != "AlwaysOnSampler" {
		t.Fatalf("sampler(1) = %q", got)
	}
	if got := sampler(0.5).Description(); got == "AlwaysOnSampler" {
		t.Fatalf("sampler(0.5) = %q, want ratio sampler", got)
	}
}
