// Package telemetry sets up OpenTelemetry tracing for the HTTP server.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// Config 追踪配置
type Config struct {
	Enabled     bool
	ServiceName string
	// Endpoint is an OTLP/HTTP collector address. Empty selects the
	// stdout exporter.
	Endpoint string
	// File receives stdout-exporter spans; empty means standard output.
	File string
}

// Provider owns the tracer provider and anything its exporter writes to.
type Provider struct {
	tp    *sdktrace.TracerProvider
	close func() error
}

// NewProvider 创建追踪提供者并设为全局默认。未启用时返回空实现。
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{}, nil
	}

	exp, closeFn, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	name := cfg.ServiceName
	if name == "" {
		name = "tracker-backend"
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(name),
		)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return &Provider{tp: tp, close: closeFn}, nil
}

func newExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, func() error, error) {
	if cfg.Endpoint != "" {
		endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(strings.TrimPrefix(endpoint, "https://"))}
		if !strings.HasPrefix(cfg.Endpoint, "https://") {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exp, err := otlptracehttp.New(ctx, opts...)
		return exp, nil, err
	}

	var w io.Writer = os.Stdout
	var closeFn func() error
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w, closeFn = f, f.Close
	}
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithoutTimestamps())
	if err != nil && closeFn != nil {
		_ = closeFn()
	}
	return exp, closeFn, err
}

// Handler wraps h so every request starts a server span.
func (p *Provider) Handler(h http.Handler, operation string) http.Handler {
	if p.tp == nil {
		return h
	}
	return otelhttp.NewHandler(h, operation, otelhttp.WithTracerProvider(p.tp))
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tp == nil {
		return nil
	}
	err := p.tp.Shutdown(ctx)
	if p.close != nil {
		if cerr := p.close(); err == nil {
			err = cerr
		}
	}
	return err
}
