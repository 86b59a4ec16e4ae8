package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName string
	Port        int
}

// InitMetrics initializes the Prometheus metrics exporter.
// Returns the MeterProvider and an HTTP handler for /metrics endpoint.
func InitMetrics(_ MetricsConfig) (*sdkmetric.MeterProvider, http.Handler, error) {
	exporter, err := promexporter.New()
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	handler := promhttp.Handler()

	return provider, handler, nil
}

// ScoringMetrics groups the Prometheus collectors for the scoring engine.
type ScoringMetrics struct {
	ScoresComputed  *prometheus.CounterVec
	AIFallbacks     prometheus.Counter
	OutcomesLearned prometheus.Counter
	TrainingSamples prometheus.Gauge
}

// NewScoringMetrics registers and returns the scoring engine collectors.
func NewScoringMetrics() *ScoringMetrics {
	return &ScoringMetrics{
		ScoresComputed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustengine_scores_computed_total",
			Help: "Trust scores computed, labelled by the scorer that produced them.",
		}, []string{"source"}),
		AIFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustengine_ai_fallbacks_total",
			Help: "External-AI scoring attempts that fell back to the rule-based scorer.",
		}),
		OutcomesLearned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustengine_outcomes_learned_total",
			Help: "Loan outcomes the adaptive model has learned from.",
		}),
		TrainingSamples: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "trustengine_training_samples",
			Help: "Current training sample count of the adaptive model.",
		}),
	}
}
