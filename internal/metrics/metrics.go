// Package metrics exposes the Prometheus collectors of the media lifecycle.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "medias"

// Outcome labels.
const (
	ResultCommitted  = "committed"
	ResultDeleted    = "deleted"
	ResultAbsent     = "absent"
	ResultNotVisible = "not_visible"
	ResultAbandoned  = "abandoned"
	ResultFailed     = "failed"
	ResultReclaimed  = "reclaimed"
)

var (
	UploadLinksIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upload_links_issued_total",
		Help:      "Presigned upload URLs handed out.",
	})

	Fixations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fixations_total",
		Help:      "Fixation attempt chains by outcome.",
	}, []string{"result"})

	Deletions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deletions_total",
		Help:      "Deletion attempt chains by outcome.",
	}, []string{"result"})

	Orphans = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orphans_total",
		Help:      "Orphaned pending medias handled by the reclaimer, by outcome.",
	}, []string{"result"})

	ReclaimDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reclaim_duration_seconds",
		Help:      "Duration of orphan reclaim sweeps.",
		Buckets:   prometheus.DefBuckets,
	})

	IntentsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "intents_published_total",
		Help:      "Fixate/delete intents published, by task type.",
	}, []string{"type"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
