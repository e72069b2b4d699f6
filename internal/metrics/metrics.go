// Package metrics exposes Prometheus collectors for the discovery pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	externalCallsTotal *prometheus.CounterVec
	cacheHitsTotal     *prometheus.CounterVec
	stageItemsTotal    *prometheus.CounterVec
	queueDepth         *prometheus.GaugeVec
	candidatesTotal    *prometheus.CounterVec

	once sync.Once
)

// Init initializes the Prometheus collectors. It is safe to call multiple
// times.
func Init() {
	once.Do(func() {
		externalCallsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termscout_external_calls_total",
				Help: "External provider calls, labeled by stage and outcome.",
			},
			[]string{"stage", "outcome"},
		)

		cacheHitsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termscout_cache_hits_total",
				Help: "Stage cache hits that skipped an external call.",
			},
			[]string{"stage"},
		)

		stageItemsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termscout_stage_items_total",
				Help: "Items drained from stage queues, labeled by outcome.",
			},
			[]string{"stage", "outcome"},
		)

		queueDepth = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "termscout_queue_depth",
				Help: "Current pending items per stage queue.",
			},
			[]string{"queue"},
		)

		candidatesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termscout_candidates_total",
				Help: "Availability outcomes for checked candidate words.",
			},
			[]string{"result"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveExternalCall counts one provider call for a stage.
func ObserveExternalCall(stage string, err error) {
	if externalCallsTotal == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	externalCallsTotal.WithLabelValues(stage, outcome).Inc()
}

// ObserveCacheHit counts a cache hit for a stage.
func ObserveCacheHit(stage string) {
	if cacheHitsTotal == nil {
		return
	}
	cacheHitsTotal.WithLabelValues(stage).Inc()
}

// ObserveStageItem counts one drained queue item with its outcome.
func ObserveStageItem(stage, outcome string) {
	if stageItemsTotal == nil {
		return
	}
	stageItemsTotal.WithLabelValues(stage, outcome).Inc()
}

// SetQueueDepth records the pending count for a queue.
func SetQueueDepth(queue string, depth int) {
	if queueDepth == nil {
		return
	}
	queueDepth.WithLabelValues(queue).Set(float64(depth))
}

// ObserveCandidate counts one availability outcome.
func ObserveCandidate(result string) {
	if candidatesTotal == nil {
		return
	}
	candidatesTotal.WithLabelValues(result).Inc()
}
