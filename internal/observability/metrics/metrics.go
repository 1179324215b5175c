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
	emissionRecords    metric.Int64Counter
	reportsGenerated   metric.Int64Counter
	recommendationRuns metric.Int64Counter
	aiCalls            metric.Int64Counter
	rateLimitDenied    metric.Int64Counter
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
		name = "airnex"
	}
	meter := provider.Meter(name)

	emissionRecords, err := meter.Int64Counter("airnex_emission_records_total")
	if err != nil {
		return nil, err
	}
	reportsGenerated, err := meter.Int64Counter("airnex_reports_generated_total")
	if err != nil {
		return nil, err
	}
	recommendationRuns, err := meter.Int64Counter("airnex_recommendation_generations_total")
	if err != nil {
		return nil, err
	}
	aiCalls, err := meter.Int64Counter("airnex_ai_calls_total")
	if err != nil {
		return nil, err
	}
	rateLimitDenied, err := meter.Int64Counter("airnex_rate_limit_denied_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		emissionRecords:    emissionRecords,
		reportsGenerated:   reportsGenerated,
		recommendationRuns: recommendationRuns,
		aiCalls:            aiCalls,
		rateLimitDenied:    rateLimitDenied,
	}, nil
}

// NewNoop returns instruments backed by a no-op provider.
func NewNoop() *Metrics {
	m, _ := New(Config{}, noop.NewMeterProvider())
	return m
}

func (m *Metrics) RecordEmissionRecord(ctx context.Context, scope, source string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("scope", strings.TrimSpace(scope)),
		attribute.String("source", strings.TrimSpace(source)),
	)
	m.emissionRecords.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordReportGenerated(ctx context.Context, reportType string) {
	if m == nil {
		return
	}
	m.reportsGenerated.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("report_type", reportType))...))
}

// RecordRecommendationGeneration counts generation attempts by outcome
// (generated, cached, failed, lost_race).
func (m *Metrics) RecordRecommendationGeneration(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.recommendationRuns.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("outcome", outcome))...))
}

func (m *Metrics) RecordAICall(ctx context.Context, capability, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("capability", capability),
		attribute.String("outcome", outcome),
	)
	m.aiCalls.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint string) {
	if m == nil {
		return
	}
	m.rateLimitDenied.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("endpoint", endpoint))...))
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
	"scope":       {},
	"source":      {},
	"report_type": {},
	"outcome":     {},
	"capability":  {},
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
