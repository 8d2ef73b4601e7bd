package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BatchJobMetrics records execution metadata for batch jobs such as the
// distributor floor-price run.
type BatchJobMetrics struct {
	duration  *prometheus.HistogramVec
	success   *prometheus.CounterVec
	failure   *prometheus.CounterVec
	processed *prometheus.CounterVec
	adjusted  *prometheus.CounterVec
}

// NewBatchJobMetrics registers the batch job metrics on the provided
// registerer. A nil registerer yields a no-op recorder, which keeps tests
// and wiring code free of conditionals.
func NewBatchJobMetrics(reg prometheus.Registerer) *BatchJobMetrics {
	if reg == nil {
		return &BatchJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "job_duration_seconds",
		Help:    "Duration of batch jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_success",
		Help: "Successful batch job executions.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_failure",
		Help: "Failed batch job executions.",
	}, []string{"job"})
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_rows_processed",
		Help: "Rows processed by batch jobs.",
	}, []string{"job"})
	adjusted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_rows_adjusted",
		Help: "Rows adjusted by batch jobs.",
	}, []string{"job"})
	reg.MustRegister(duration, success, failure, processed, adjusted)
	return &BatchJobMetrics{
		duration:  duration,
		success:   success,
		failure:   failure,
		processed: processed,
		adjusted:  adjusted,
	}
}

// ObserveDuration records the duration for the named job.
func (b *BatchJobMetrics) ObserveDuration(job string, duration time.Duration) {
	if b == nil || b.duration == nil {
		return
	}
	b.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named job.
func (b *BatchJobMetrics) IncSuccess(job string) {
	if b == nil || b.success == nil {
		return
	}
	b.success.WithLabelValues(normalizeLabel(job)).Inc()
}

// IncFailure increments the failure counter for the named job.
func (b *BatchJobMetrics) IncFailure(job string) {
	if b == nil || b.failure == nil {
		return
	}
	b.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

// AddProcessed adds to the processed-row counter for the named job.
func (b *BatchJobMetrics) AddProcessed(job string, count int) {
	if b == nil || b.processed == nil || count <= 0 {
		return
	}
	b.processed.WithLabelValues(normalizeLabel(job)).Add(float64(count))
}

// AddAdjusted adds to the adjusted-row counter for the named job.
func (b *BatchJobMetrics) AddAdjusted(job string, count int) {
	if b == nil || b.adjusted == nil || count <= 0 {
		return
	}
	b.adjusted.WithLabelValues(normalizeLabel(job)).Add(float64(count))
}

func normalizeLabel(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
