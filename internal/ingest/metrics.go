package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	appliedEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Subsystem: "ingest",
		Name:      "events_applied_total",
		Help:      "Attendance events applied to the check-in, member and activity snapshot.",
	}, []string{"topic", "event_type"})

	rejectedEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Subsystem: "ingest",
		Name:      "events_rejected_total",
		Help:      "Well-framed attendance events the snapshot refused, such as completing an unknown check-in.",
	}, []string{"topic", "event_type"})

	malformedFrames = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Subsystem: "ingest",
		Name:      "frames_malformed_total",
		Help:      "Records skipped because the schema frame or event_type header was unusable.",
	}, []string{"topic"})

	appliedThrough = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "attendance",
		Subsystem: "ingest",
		Name:      "applied_through_timestamp_seconds",
		Help:      "Broker time of the newest attendance event applied from each topic.",
	}, []string{"topic"})
)

func init() {
	prometheus.MustRegister(appliedEvents, rejectedEvents, malformedFrames, appliedThrough)
}

func observeApplied(event Message) {
	appliedEvents.WithLabelValues(event.Topic, event.EventType).Inc()
	if event.Timestamp.IsZero() {
		return
	}
	appliedThrough.WithLabelValues(event.Topic).Set(float64(event.Timestamp.Unix()))
}

func observeRejected(event Message) {
	rejectedEvents.WithLabelValues(event.Topic, event.EventType).Inc()
}

func observeMalformed(topic string) {
	malformedFrames.WithLabelValues(topic).Inc()
}
