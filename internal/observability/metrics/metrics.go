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
	documentsRecalculated metric.Int64Counter
	documentsSaved        metric.Int64Counter
	saveColumnRetries     metric.Int64Counter
	catalogLookups        metric.Int64Counter
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

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "saralbooks"
	}
	meter := provider.Meter(name)

	documentsRecalculated, err := meter.Int64Counter("saralbooks_documents_recalculated_total")
	if err != nil {
		return nil, err
	}
	documentsSaved, err := meter.Int64Counter("saralbooks_documents_saved_total")
	if err != nil {
		return nil, err
	}
	saveColumnRetries, err := meter.Int64Counter("saralbooks_save_column_retries_total")
	if err != nil {
		return nil, err
	}
	catalogLookups, err := meter.Int64Counter("saralbooks_catalog_lookups_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		documentsRecalculated: documentsRecalculated,
		documentsSaved:        documentsSaved,
		saveColumnRetries:     saveColumnRetries,
		catalogLookups:        catalogLookups,
	}, nil
}

// RecordRecalculation increments engine invocation counts.
func (m *Metrics) RecordRecalculation(ctx context.Context, documentType string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("document_type", strings.TrimSpace(documentType)))
	m.documentsRecalculated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordDocumentSaved increments persisted document counts.
func (m *Metrics) RecordDocumentSaved(ctx context.Context, documentType string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("document_type", strings.TrimSpace(documentType)))
	m.documentsSaved.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordSaveColumnRetry counts writes retried after stripping a column.
func (m *Metrics) RecordSaveColumnRetry(ctx context.Context, column string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("column", strings.TrimSpace(column)))
	m.saveColumnRetries.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCatalogLookup counts stock/party prefill lookups.
func (m *Metrics) RecordCatalogLookup(ctx context.Context, catalog string, hit bool) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("catalog", strings.TrimSpace(catalog)),
		attribute.Bool("hit", hit),
	)
	m.catalogLookups.Add(ctx, 1, metric.WithAttributes(attrs...))
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
	"document_type": {},
	"catalog":       {},
	"column":        {},
	"hit":           {},
	"status_code":   {},
	"endpoint":      {},
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
