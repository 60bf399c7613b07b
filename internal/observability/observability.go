// Package observability defines the service metrics and exports them to
// Prometheus.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	ocprom "contrib.go.opencensus.io/exporter/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/logging"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	PredictionCount   = stats.Int64("segment/predictions", "Number of predictions served", stats.UnitDimensionless)
	PredictionLatency = stats.Float64("segment/prediction_latency", "Latency of the inference pipeline", stats.UnitMilliseconds)
	CompareRuns       = stats.Int64("segment/compare_runs", "Number of clustering algorithm runs", stats.UnitDimensionless)

	KeySegment   = tag.MustNewKey("segment")
	KeyAlgorithm = tag.MustNewKey("algorithm")
	KeyOutcome   = tag.MustNewKey("outcome")
)

var Views = []*view.View{
	{
		Name:        "segment/predictions",
		Description: "Predictions by segment",
		Measure:     PredictionCount,
		TagKeys:     []tag.Key{KeySegment},
		Aggregation: view.Count(),
	},
	{
		Name:        "segment/prediction_latency",
		Description: "Inference pipeline latency distribution",
		Measure:     PredictionLatency,
		Aggregation: view.Distribution(0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50),
	},
	{
		Name:        "segment/compare_runs",
		Description: "Clustering runs by algorithm and outcome",
		Measure:     CompareRuns,
		TagKeys:     []tag.Key{KeyAlgorithm, KeyOutcome},
		Aggregation: view.Count(),
	},
}

// Exporter serves the registered views together with the Go runtime and
// build information collectors.
type Exporter struct {
	registry *prometheus.Registry
	exporter *ocprom.Exporter
}

// NewExporter registers Views and returns an exporter whose metric names
// are prefixed with namespace.
func NewExporter(namespace string) (*Exporter, error) {
	if err := view.Register(Views...); err != nil {
		return nil, fmt.Errorf("register views: %w", err)
	}

	registry := prometheus.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}
	if err := registry.Register(versioncollector.NewCollector(namespace)); err != nil {
		return nil, fmt.Errorf("register version collector: %w", err)
	}

	pe, err := ocprom.NewExporter(ocprom.Options{
		Namespace: namespace,
		Registry:  registry,
		OnError: func(err error) {
			logging.DefaultLogger().Errorf("prometheus exporter: %v", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &Exporter{registry: registry, exporter: pe}, nil
}

func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

func (e *Exporter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.exporter.ServeHTTP(w, r)
}

// Close unregisters Views.
func (e *Exporter) Close() {
	view.Unregister(Views...)
}

func RecordPrediction(ctx context.Context, segment string, latency time.Duration) {
	_ = stats.RecordWithTags(ctx,
		[]tag.Mutator{tag.Upsert(KeySegment, segment)},
		PredictionCount.M(1),
		PredictionLatency.M(float64(latency)/float64(time.Millisecond)),
	)
}

func RecordCompareRun(ctx context.Context, algorithm string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	_ = stats.RecordWithTags(ctx,
		[]tag.Mutator{tag.Upsert(KeyAlgorithm, algorithm), tag.Upsert(KeyOutcome, outcome)},
		CompareRuns.M(1),
	)
}
