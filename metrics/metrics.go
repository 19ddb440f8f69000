// Package metrics registriert die Prometheus-Zähler des Laufs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	DocumentsChecked *prometheus.CounterVec
	CoversGenerated  *prometheus.CounterVec
	Uploads          *prometheus.CounterVec
	Published        prometheus.Counter
	StageFailures    *prometheus.CounterVec
)

func init() {
	DocumentsChecked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docsync_documents_checked_total",
			Help: "Metadata files checked, by document type and result.",
		},
		[]string{"type", "result"},
	)
	CoversGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docsync_covers_generated_total",
			Help: "Cover images written to the scratch directory, by format and source file type.",
		},
		[]string{"kind", "source"},
	)
	Uploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docsync_uploads_total",
			Help: "Cover uploads to the primary store, by result.",
		},
		[]string{"result"},
	)
	Published = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "docsync_published_total",
			Help: "Files published through the backend.",
		},
	)
	StageFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docsync_stage_failures_total",
			Help: "Failed pipeline stages, by stage name.",
		},
		[]string{"stage"},
	)
	prometheus.MustRegister(DocumentsChecked, CoversGenerated, Uploads, Published, StageFailures)
}

// Push schickt alle registrierten Metriken an ein Pushgateway.
func Push(url, job string) error {
	return push.New(url, job).Gatherer(prometheus.DefaultGatherer).Push()
}
