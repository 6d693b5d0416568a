package ingest

import (
	"context"
	"log"
	"time"

	"example.com/attendance/internal/clock"
	"example.com/attendance/internal/domain"
	"example.com/attendance/internal/feed"
	"example.com/attendance/internal/observability"
	"example.com/attendance/internal/window"
)

// Reporter periodically summarises the store into the attendance gauges.
type Reporter struct {
	store            *Store
	clock            clock.Clock
	filter           *window.Filter
	aggregator       *feed.Aggregator
	lookaheadDays    int
	interval         time.Duration
	logger           *log.Logger
	shutdownComplete chan struct{}
}

// NewReporter constructs a Reporter. A non-positive interval defaults to one minute.
func NewReporter(store *Store, clk clock.Clock, aggregator *feed.Aggregator, lookaheadDays int, interval time.Duration, logger *log.Logger) *Reporter {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[reporter] ", log.LstdFlags)
	}
	return &Reporter{
		store:            store,
		clock:            clk,
		filter:           window.NewFilter(clk),
		aggregator:       aggregator,
		lookaheadDays:    lookaheadDays,
		interval:         interval,
		logger:           logger,
		shutdownComplete: make(chan struct{}),
	}
}

// Start runs the report loop until ctx is cancelled. It should be called in a goroutine.
func (r *Reporter) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer func() {
		ticker.Stop()
		close(r.shutdownComplete)
	}()

	for {
		report := r.Report()
		observability.RecordAttendance(report)
		r.logger.Printf("attendance today=%d in_progress=%d birthdays=%d feed=%d",
			report.CheckInsToday, report.InProgress, report.UpcomingBirthdays, report.FeedEntries)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Wait blocks until Start returns.
func (r *Reporter) Wait() {
	<-r.shutdownComplete
}

// Report computes the current attendance summary from the store.
func (r *Reporter) Report() observability.Attendance {
	snap := r.store.Snapshot()
	now := r.clock.Now()

	today := r.filter.Apply(snap.CheckIns, window.Query{Window: window.Today})
	active := r.filter.Apply(snap.CheckIns, window.Query{Status: domain.CheckInStatusActive})
	inProgress := 0
	for _, rec := range active {
		if rec.InProgress() {
			inProgress++
		}
	}

	upcoming := feed.UpcomingBirthdays(snap.Members, now, r.lookaheadDays)
	entries := r.aggregator.Merge(snap.Activities, upcoming)

	return observability.Attendance{
		CheckInsToday:     len(today),
		InProgress:        inProgress,
		UpcomingBirthdays: len(upcoming),
		FeedEntries:       len(entries),
		GeneratedAt:       now,
	}
}
