package db

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommender_graph_query_duration_seconds",
			Help:    "Duration of graph store statements",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	queryErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommender_graph_query_errors_total",
			Help: "Graph store statements that returned an error",
		},
	)
)

type instrumentedRunner struct {
	next Runner
}

func newInstrumentedRunner(next Runner) *instrumentedRunner {
	return &instrumentedRunner{next: next}
}

func (r *instrumentedRunner) Execute(ctx context.Context, query string, params map[string]interface{}) ([]Record, error) {
	start := time.Now()
	rows, err := r.next.Execute(ctx, query, params)

	status := "ok"
	if err != nil {
		status = "error"
		queryErrors.Inc()
	}
	queryDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	return rows, err
}
