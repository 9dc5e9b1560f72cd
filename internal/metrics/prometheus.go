package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Fetcher metrics
	FetchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickerpulse_fetch_requests_total",
			Help: "Total number of source fetch attempts",
		},
		[]string{"source", "status"}, // status: success|error|rate_limited
	)

	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tickerpulse_fetch_duration_seconds",
			Help:    "Source fetch duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"source"},
	)

	FetchItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickerpulse_fetch_items_total",
			Help: "Total number of raw items fetched",
		},
		[]string{"source"},
	)

	// Pipeline metrics
	ItemsScored = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickerpulse_items_scored_total",
			Help: "Total number of items scored",
		},
		[]string{"source"},
	)

	PipelineDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tickerpulse_pipeline_duration_seconds",
			Help:    "End-to-end snapshot build duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"ticker"},
	)

	WeightedScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tickerpulse_weighted_score",
			Help: "Latest weighted sentiment score per ticker",
		},
		[]string{"ticker"},
	)

	// Cache metrics
	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickerpulse_cache_requests_total",
			Help: "Snapshot cache lookups",
		},
		[]string{"result"}, // result: hit|miss|error
	)

	// Worker metrics
	WorkerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickerpulse_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"}, // status: success|error
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tickerpulse_worker_duration_seconds",
			Help:    "Worker execution duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"worker"},
	)

	WorkerLastRun = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tickerpulse_worker_last_run_timestamp",
			Help: "Unix timestamp of last worker execution",
		},
		[]string{"worker"},
	)

	// Database metrics
	DBQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickerpulse_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"database", "operation", "status"}, // database: clickhouse|redis
	)

	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tickerpulse_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"database", "operation"},
	)

	// Alert metrics
	AlertsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickerpulse_alerts_sent_total",
			Help: "Total number of sentiment alerts sent",
		},
		[]string{"channel", "status"}, // channel: telegram
	)
)

// Init registers all metrics with Prometheus
func Init() {
	prometheus.MustRegister(FetchRequests)
	prometheus.MustRegister(FetchDuration)
	prometheus.MustRegister(FetchItems)

	prometheus.MustRegister(ItemsScored)
	prometheus.MustRegister(PipelineDuration)
	prometheus.MustRegister(WeightedScore)

	prometheus.MustRegister(CacheRequests)

	prometheus.MustRegister(WorkerExecutions)
	prometheus.MustRegister(WorkerDuration)
	prometheus.MustRegister(WorkerLastRun)

	prometheus.MustRegister(DBQueries)
	prometheus.MustRegister(DBQueryDuration)

	prometheus.MustRegister(AlertsSent)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordFetch records one source fetch attempt
func RecordFetch(source string, duration time.Duration, itemCount int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	FetchRequests.WithLabelValues(source, status).Inc()
	FetchDuration.WithLabelValues(source).Observe(duration.Seconds())
	if itemCount > 0 {
		FetchItems.WithLabelValues(source).Add(float64(itemCount))
	}
}

// RecordWorkerExecution records a worker execution
func RecordWorkerExecution(worker string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	WorkerExecutions.WithLabelValues(worker, status).Inc()
	WorkerDuration.WithLabelValues(worker).Observe(duration.Seconds())
	WorkerLastRun.WithLabelValues(worker).SetToCurrentTime()
}

// RecordDBQuery records a database query
func RecordDBQuery(database, operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	DBQueries.WithLabelValues(database, operation, status).Inc()
	DBQueryDuration.WithLabelValues(database, operation).Observe(duration.Seconds())
}
