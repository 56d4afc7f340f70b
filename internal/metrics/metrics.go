package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wakala",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by handler.",
		},
		[]string{"handler"},
	)

	statusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wakala",
			Name:      "appointment_status_changes_total",
			Help:      "Count of admin status changes by target status.",
		},
		[]string{"status"},
	)

	appointmentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wakala",
			Name:      "appointments_created_total",
			Help:      "Count of appointments created via public intake.",
		},
	)

	resolverFailOpen = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wakala",
			Name:      "resolver_fail_open_total",
			Help:      "Count of week views served with fail-open working hours.",
		},
	)

	exportRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wakala",
			Name:      "export_rows_total",
			Help:      "Count of exported rows by export kind.",
		},
		[]string{"kind"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, statusChanges, appointmentsCreated, resolverFailOpen, exportRows)
	})
}

func IncHTTP(handler string) {
	httpRequests.WithLabelValues(handler).Inc()
}

func IncStatusChange(status string) {
	statusChanges.WithLabelValues(status).Inc()
}

func IncAppointmentCreated() {
	appointmentsCreated.Inc()
}

func IncResolverFailOpen() {
	resolverFailOpen.Inc()
}

func AddExportRows(kind string, n int) {
	exportRows.WithLabelValues(kind).Add(float64(n))
}
