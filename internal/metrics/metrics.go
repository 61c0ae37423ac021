package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citystyle_pipeline_runs_total",
			Help: "Total number of pipeline runs by intent and outcome",
		},
		[]string{"intent", "outcome"},
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "citystyle_pipeline_stage_duration_seconds",
			Help:    "Time spent in each pipeline state",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"intent", "stage"},
	)

	ImageFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citystyle_image_fallbacks_total",
			Help: "Total number of image generations that fell back to the unavailable sentinel",
		},
		[]string{"operation"},
	)

	ProviderRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citystyle_provider_retries_total",
			Help: "Total number of failed provider attempts that were retried",
		},
		[]string{"provider"},
	)
)

// RetryNotifier returns a retry hook that counts failed attempts for provider.
func RetryNotifier(provider string) func(attempt int, err error, next time.Duration) {
	counter := ProviderRetries.WithLabelValues(provider)
	return func(int, error, time.Duration) {
		counter.Inc()
	}
}
