// Package metrics defines application-level Prometheus collectors for the
// content API and worker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PostDetailRequests counts post detail lookups by result.
	PostDetailRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_post_detail_requests_total",
		Help: "Total number of post detail lookups, labelled by result.",
	}, []string{"result"})

	// SearchRequests counts search executions by result.
	SearchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_search_requests_total",
		Help: "Total number of search executions, labelled by result.",
	}, []string{"result"})

	// ViewIncrementFailures counts failed view counter updates. The update
	// runs after the response is sent, so failures are only visible here.
	ViewIncrementFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blog_view_increment_failures_total",
		Help: "Total number of view counter updates that failed.",
	})

	// ContactSubmissions counts contact form submissions by result.
	ContactSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_submissions_total",
		Help: "Total number of contact form submissions, labelled by result.",
	}, []string{"result"})

	// DigestRuns counts digest worker executions by result.
	DigestRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "digest_runs_total",
		Help: "Total number of digest worker runs, labelled by result.",
	}, []string{"result"})
)

// Result label values.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
	ResultInvalid  = "invalid"
)
