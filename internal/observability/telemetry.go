package observability

import (
	"context"
	"time"

	"github.com/annel0/zonegrid/internal/config"
	"github.com/annel0/zonegrid/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/annel0/zonegrid"

// ShutdownFunc завершает экспорт трейсов
type ShutdownFunc func(context.Context) error

// InitTelemetry настраивает OTLP экспортер и устанавливает глобальный TracerProvider.
// При выключенной телеметрии ничего не делает и возвращает пустой shutdown.
func InitTelemetry(ctx context.Context, cfg config.TelemetryConfig) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	var opts []otlptracehttp.Option
	if cfg.Endpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(cfg.Endpoint))
	}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	// OTLP HTTP экспортер (по умолчанию localhost:4318)
	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, err
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	logging.Info("📡 OpenTelemetry инициализирован (service=%s)", cfg.ServiceName)

	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}
	return shutdown, nil
}

// Tracer трейсер сервиса из глобального провайдера
func Tracer() oteltrace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartSpan открывает span; без InitTelemetry провайдер no-op
func StartSpan(ctx context.Context, name string) (context.Context, oteltrace.Span) {
	return Tracer().Start(ctx, name)
}
