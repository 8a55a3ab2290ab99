// Package metrics agrupa los collectors Prometheus de la aplicación.
// Se registran en el registry por defecto y se exponen en /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "questionnaire_submissions_total",
		Help: "counter of questionnaire responses stored",
	})
	DeletionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "questionnaire_deletions_total",
		Help: "counter of delete-by-id requests, by outcome",
	}, []string{"outcome"})
	PurgesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "questionnaire_purges_total",
		Help: "counter of delete-all operations",
	})
	StorageErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "questionnaire_storage_errors_total",
		Help: "counter of failed storage operations, by operation",
	}, []string{"op"})
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "questionnaire_http_requests_total",
		Help: "counter of HTTP requests, by method, route pattern and status code",
	}, []string{"method", "route", "code"})
)
