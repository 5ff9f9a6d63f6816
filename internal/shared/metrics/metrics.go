package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	submissionStartedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "submission_started_total",
			Help: "Total submissions that entered the pipeline",
		},
	)

	submissionCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "submission_completed_total",
			Help: "Total submissions that reached the complete stage",
		},
	)

	submissionFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submission_failed_total",
			Help: "Total submissions that failed, by failing step",
		},
		[]string{"step"},
	)

	submissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "submission_duration_seconds",
			Help:    "Wall time from upload start to a terminal stage",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)
)

// IncSubmissionStarted increments the started counter.
func IncSubmissionStarted() {
	submissionStartedTotal.Inc()
}

// IncSubmissionCompleted increments the completed counter.
func IncSubmissionCompleted() {
	submissionCompletedTotal.Inc()
}

// IncSubmissionFailed increments the failed counter for the given step.
func IncSubmissionFailed(step string) {
	submissionFailedTotal.WithLabelValues(step).Inc()
}

// ObserveSubmissionDuration records the duration of a finished submission.
func ObserveSubmissionDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	submissionDuration.Observe(d.Seconds())
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
