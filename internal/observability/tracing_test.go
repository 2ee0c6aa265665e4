package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/signalsfoundry/orrery/internal/logging"
	"go.opentelemetry.io/otel"
	"google.golang.org/grpc"
)

func TestTracingConfigFromEnv(t *testing.T) {
	t.Setenv("ORRERY_TRACING_ENABLED", "TRUE")
	t.Setenv("ORRERY_TRACING_EXPORTER", "OTLP")
	t.Setenv("ORRERY_TRACING_SAMPLE_RATIO", "0.25")
	t.Setenv("ORRERY_OTLP_ENDPOINT", "collector:4317")
	t.Setenv("ORRERY_TRACING_SERVICE_NAME", "")

	cfg := TracingConfigFromEnv()
	if !cfg.Enabled || cfg.Exporter != "otlp" || cfg.SampleRatio != 0.25 || cfg.Endpoint != "collector:4317" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.ServiceName != "orrery" {
		t.Fatalf("service name default = %q, want orrery", cfg.ServiceName)
	}

	t.Setenv("ORRERY_TRACING_SAMPLE_RATIO", "7")
	if got := TracingConfigFromEnv().SampleRatio; got != 1 {
		t.Fatalf("out-of-range ratio should fall back to 1, got %v", got)
	}
}

func TestInitTracingStdoutExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()
	shutdown, err := InitTracing(ctx, TracingConfig{
		Enabled:     true,
		ServiceName: "orrery-test",
		Exporter:    "stdout",
		SampleRatio: 1,
		Output:      &buf,
	}, logging.Noop())
	if err != nil {
		t.Fatalf("InitTracing: %v", err)
	}

	_, span := otel.Tracer("test").Start(ctx, "tick")
	span.End()
	ShutdownWithTimeout(ctx, shutdown, nil)

	if !strings.Contains(buf.String(), `"Name": "tick"`) {
		t.Fatalf("expected exported span in output, got %q", buf.String())
	}
}

func TestTracingResourceDescribesRun(t *testing.T) {
	var buf bytes.Buffer
	ctx, runID := logging.EnsureRunID(context.Background())
	shutdown, err := InitTracing(ctx, TracingConfig{
		Enabled:     true,
		ServiceName: "orrery-test",
		Exporter:    "stdout",
		SampleRatio: 1,
		Output:      &buf,
		TimeMode:    "accelerated",
	}, nil)
	if err != nil {
		t.Fatalf("InitTracing: %v", err)
	}

	_, span := otel.Tracer("test").Start(ctx, "sim.Step")
	span.End()
	ShutdownWithTimeout(ctx, shutdown, nil)

	out := buf.String()
	for _, want := range []string{
		`"orrery.catalog"`,
		`"` + BuiltinCatalog + `"`,
		`"orrery.time_mode"`,
		`"accelerated"`,
		`"orrery.run_id"`,
		runID,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s on the exported resource, got %q", want, out)
		}
	}
}

func TestInitTracingRejectsUnknownExporter(t *testing.T) {
	_, err := InitTracing(context.Background(), TracingConfig{Enabled: true, Exporter: "zipkin"}, nil)
	if err == nil {
		t.Fatalf("expected error for unsupported exporter")
	}
}

func TestInitTracingDisabledIsNoop(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingConfig{}, nil)
	if err != nil {
		t.Fatalf("InitTracing: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
}

func TestTracingInterceptorLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Format: "json", Output: &buf})
	interceptor := TracingUnaryServerInterceptor(log)
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	_, err := interceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, errors.New("down")
	})
	if err == nil {
		t.Fatalf("expected handler error to propagate")
	}
	if !strings.Contains(buf.String(), "rpc failed") || !strings.Contains(buf.String(), `"method":"Check"`) {
		t.Fatalf("expected failure log, got %q", buf.String())
	}
}
