// Package observability exposes the attendance gauges scraped by Prometheus.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	checkInsTodayGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "attendance",
		Subsystem: "report",
		Name:      "checkins_today",
		Help:      "Check-ins recorded since local midnight.",
	})

	inProgressGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "attendance",
		Subsystem: "report",
		Name:      "checkins_in_progress",
		Help:      "Active check-ins without a check-out.",
	})

	upcomingBirthdaysGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "attendance",
		Subsystem: "report",
		Name:      "upcoming_birthdays",
		Help:      "Members whose birthday falls within the lookahead window.",
	})

	feedEntriesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "attendance",
		Subsystem: "report",
		Name:      "feed_entries",
		Help:      "Entries in the capped activity feed.",
	})

	lastReportGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "attendance",
		Subsystem: "report",
		Name:      "last_report_timestamp_seconds",
		Help:      "Unix timestamp of the most recent attendance report.",
	})
)

func init() {
	prometheus.MustRegister(checkInsTodayGauge, inProgressGauge, upcomingBirthdaysGauge, feedEntriesGauge, lastReportGauge)
}

// Attendance is one point-in-time attendance report.
type Attendance struct {
	CheckInsToday     int       `json:"checkInsToday"`
	InProgress        int       `json:"inProgress"`
	UpcomingBirthdays int       `json:"upcomingBirthdays"`
	FeedEntries       int       `json:"feedEntries"`
	GeneratedAt       time.Time `json:"generatedAt"`
}

// RecordAttendance publishes a report to the gauges.
func RecordAttendance(a Attendance) {
	checkInsTodayGauge.Set(float64(a.CheckInsToday))
	inProgressGauge.Set(float64(a.InProgress))
	upcomingBirthdaysGauge.Set(float64(a.UpcomingBirthdays))
	feedEntriesGauge.Set(float64(a.FeedEntries))
	if !a.GeneratedAt.IsZero() {
		lastReportGauge.Set(float64(a.GeneratedAt.Unix()))
	}
}
