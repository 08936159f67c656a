package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EstimateMetrics records write-path activity per category.
type EstimateMetrics struct {
	created    *prometheus.CounterVec
	promoted   *prometheus.CounterVec
	writeFails *prometheus.CounterVec
}

// NewEstimateMetrics registers the estimate metrics on the provided registerer.
func NewEstimateMetrics(reg prometheus.Registerer) *EstimateMetrics {
	if reg == nil {
		return &EstimateMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "estimates_created_total",
		Help: "Committed estimate creations.",
	}, []string{"category"})
	promoted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "estimates_promoted_total",
		Help: "Successful stage promotions.",
	}, []string{"category", "stage"})
	writeFails := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "estimate_write_failures_total",
		Help: "Rolled-back estimate write attempts.",
	}, []string{"category"})
	reg.MustRegister(created, promoted, writeFails)
	return &EstimateMetrics{
		created:    created,
		promoted:   promoted,
		writeFails: writeFails,
	}
}

// IncCreated increments the creation counter for the category.
func (m *EstimateMetrics) IncCreated(category string) {
	if m == nil || m.created == nil {
		return
	}
	m.created.WithLabelValues(normalizeLabel(category)).Inc()
}

// IncPromoted increments the promotion counter for the category/stage pair.
func (m *EstimateMetrics) IncPromoted(category, stage string) {
	if m == nil || m.promoted == nil {
		return
	}
	m.promoted.WithLabelValues(normalizeLabel(category), normalizeLabel(stage)).Inc()
}

// IncWriteFailure increments the rolled-back write counter for the category.
func (m *EstimateMetrics) IncWriteFailure(category string) {
	if m == nil || m.writeFails == nil {
		return
	}
	m.writeFails.WithLabelValues(normalizeLabel(category)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
