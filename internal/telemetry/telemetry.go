// Package telemetry builds the OpenTelemetry meter provider used by
// MeteredService.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/alexanderramin/gtmdash/internal/config"
)

const (
	ServiceName = "gtmdash"
	// MeterName scopes the instruments MeteredService creates.
	MeterName = "github.com/alexanderramin/gtmdash/internal/service"
)

// ShutdownFunc flushes pending metrics and releases the exporter.
type ShutdownFunc func(context.Context) error

// Provider holds a meter provider and its shutdown hook.
type Provider struct {
	MeterProvider metric.MeterProvider
	Shutdown      ShutdownFunc
}

// Meter returns the meter MeteredService records into.
func (p Provider) Meter() metric.Meter {
	return p.MeterProvider.Meter(MeterName)
}

// Noop returns a provider that records nothing.
func Noop() Provider {
	return Provider{
		MeterProvider: noop.NewMeterProvider(),
		Shutdown:      func(context.Context) error { return nil },
	}
}

// New returns an OTLP gRPC provider when cfg enables it, otherwise Noop.
func New(ctx context.Context, cfg config.OTelConfig, version string) (Provider, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return Noop(), nil
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return Provider{}, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return Provider{}, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	return Provider{MeterProvider: mp, Shutdown: mp.Shutdown}, nil
}
