package pagination

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pagination_requests_total",
		Help: "Paginated requests by response status.",
	}, []string{"status"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pagination_errors_total",
		Help: "Pagination failures by kind (validation, database).",
	}, []string{"kind"})

	pageDepth = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pagination_page_depth",
		Help:    "Distribution of requested page numbers.",
		Buckets: []float64{1, 2, 3, 5, 10, 25, 50, 100},
	})
)

// RecordRequest records one paginated request and the page it asked for.
func RecordRequest(status, page int) {
	requestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	pageDepth.Observe(float64(page))
}

// RecordError counts a pagination failure by kind.
func RecordError(kind string) {
	errorsTotal.WithLabelValues(kind).Inc()
}
