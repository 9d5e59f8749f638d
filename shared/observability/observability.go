package observability

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// SetupPrometheusMetrics initializes Prometheus metrics exporter and exposes /metrics endpoint
func SetupPrometheusMetrics() *sdkmetric.MeterProvider {
	exp, err := prometheus.New()
	if err != nil {
		log.Fatalf("failed to initialize prometheus exporter: %v", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		_ = http.ListenAndServe(":2112", nil)
	}()
	return mp
}

// Metrics bundles the engine counters exposed over /metrics.
type Metrics struct {
	Spawns        metric.Int64Counter
	Despawns      metric.Int64Counter
	DialogueTurns metric.Int64Counter
	RumorHearers  metric.Int64Counter
}

// NewMetrics registers the engine counters on the given meter provider.
func NewMetrics(mp *sdkmetric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter("npc-engine")

	spawns, err := meter.Int64Counter("npc_spawns_total",
		metric.WithDescription("Number of characters spawned"))
	if err != nil {
		return nil, err
	}
	despawns, err := meter.Int64Counter("npc_despawns_total",
		metric.WithDescription("Number of characters removed"))
	if err != nil {
		return nil, err
	}
	turns, err := meter.Int64Counter("dialogue_turns_total",
		metric.WithDescription("Number of completed dialogue exchanges"))
	if err != nil {
		return nil, err
	}
	rumors, err := meter.Int64Counter("rumor_hearers_total",
		metric.WithDescription("Number of characters reached by rumors"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		Spawns:        spawns,
		Despawns:      despawns,
		DialogueTurns: turns,
		RumorHearers:  rumors,
	}, nil
}
