// Package observability holds the Prometheus collectors for the tracker.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	WorkoutsLogged = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trailmark",
		Subsystem: "session",
		Name:      "workouts_logged_total",
		Help:      "Workouts created from a form submission, by type.",
	}, []string{"type"})
	ValidationRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trailmark",
		Subsystem: "session",
		Name:      "validation_rejections_total",
		Help:      "Form submissions rejected by validation, by offending field.",
	}, []string{"field"})
	LocationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trailmark",
		Subsystem: "session",
		Name:      "location_failures_total",
		Help:      "Sessions that started without a position.",
	})
	PersistenceFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trailmark",
		Subsystem: "persistence",
		Name:      "failures_total",
		Help:      "Byte store operations that failed, by operation.",
	}, []string{"op"})
	SavesSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trailmark",
		Subsystem: "persistence",
		Name:      "saves_skipped_total",
		Help:      "Saves not attempted because the persisted collection could not be read.",
	})
	CorruptLoads = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trailmark",
		Subsystem: "persistence",
		Name:      "corrupt_loads_total",
		Help:      "Loads that discarded the persisted collection as corrupt.",
	})
	lastSaveGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "trailmark",
		Subsystem: "persistence",
		Name:      "last_save_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful save.",
	})
)

func init() {
	prometheus.MustRegister(
		WorkoutsLogged,
		ValidationRejections,
		LocationFailures,
		PersistenceFailures,
		SavesSkipped,
		CorruptLoads,
		lastSaveGauge,
	)
}

// RecordSave updates the last-save watermark gauge.
func RecordSave(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastSaveGauge.Set(float64(ts.Unix()))
}
