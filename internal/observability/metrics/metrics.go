package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	jobMutations      metric.Int64Counter
	settingsBranches  metric.Int64Counter
	streakRecomputes  metric.Int64Counter
	weekResolveMisses metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "estilista"
	}
	meter := provider.Meter(name)

	jobMutations, err := meter.Int64Counter("estilista_job_mutations_total")
	if err != nil {
		return nil, err
	}
	settingsBranches, err := meter.Int64Counter("estilista_settings_versions_total")
	if err != nil {
		return nil, err
	}
	streakRecomputes, err := meter.Int64Counter("estilista_streak_recomputes_total")
	if err != nil {
		return nil, err
	}
	weekResolveMisses, err := meter.Int64Counter("estilista_settings_resolve_misses_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		jobMutations:      jobMutations,
		settingsBranches:  settingsBranches,
		streakRecomputes:  streakRecomputes,
		weekResolveMisses: weekResolveMisses,
	}, nil
}

// RecordJobMutation increments job create/update/delete counts.
func (m *Metrics) RecordJobMutation(ctx context.Context, op string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("op", strings.TrimSpace(op)))
	m.jobMutations.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordSettingsVersion increments settings snapshot writes by origin.
func (m *Metrics) RecordSettingsVersion(ctx context.Context, origin string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("origin", strings.TrimSpace(origin)))
	m.settingsBranches.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordStreakRecompute increments streak evaluation counts.
func (m *Metrics) RecordStreakRecompute(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("outcome", strings.TrimSpace(outcome)))
	m.streakRecomputes.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordResolveMiss counts weeks that resolved to no settings snapshot.
func (m *Metrics) RecordResolveMiss(ctx context.Context) {
	if m == nil {
		return
	}
	m.weekResolveMisses.Add(ctx, 1)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"op":          {},
	"origin":      {},
	"outcome":     {},
	"endpoint":    {},
	"status_code": {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
