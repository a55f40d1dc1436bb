package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the quiz service.
type Metrics struct {
	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	AnswersGraded   *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vocab_quiz",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "vocab_quiz",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		AnswersGraded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vocab_quiz",
				Name:      "answers_graded_total",
				Help:      "Graded answers by result",
			},
			[]string{"result"},
		),
	}
}

// ObserveAnswer counts one graded answer.
func (m *Metrics) ObserveAnswer(correct bool) {
	result := "incorrect"
	if correct {
		result = "correct"
	}
	m.AnswersGraded.WithLabelValues(result).Inc()
}
