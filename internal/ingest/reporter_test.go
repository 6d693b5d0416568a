package ingest

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/attendance/internal/clock"
	"example.com/attendance/internal/domain"
	"example.com/attendance/internal/feed"
)

func TestReporterSummarisesStore(t *testing.T) {
	now := time.Date(2025, time.June, 10, 10, 0, 0, 0, time.UTC)
	earlier := now.Add(-2 * time.Hour)
	out := now.Add(-time.Hour)
	soon := time.Date(1990, time.June, 13, 0, 0, 0, 0, time.UTC)
	later := time.Date(1990, time.August, 1, 0, 0, 0, 0, time.UTC)

	store := NewStore()
	store.Load(domain.Snapshot{
		CheckIns: []domain.CheckInRecord{
			{ID: "open", Status: domain.CheckInStatusActive, CheckInTime: now.Add(-time.Hour)},
			{ID: "closed", Status: domain.CheckInStatusCompleted, CheckInTime: earlier, CheckOutTime: &out},
			{ID: "yesterday", Status: domain.CheckInStatusActive, CheckInTime: now.AddDate(0, 0, -1)},
		},
		Members: []domain.Member{
			{ID: "m1", FirstName: "Soon", DateOfBirth: &soon},
			{ID: "m2", FirstName: "Later", DateOfBirth: &later},
		},
		Activities: []domain.Activity{{ID: "a1", Type: domain.ActivityCheckIn, Timestamp: earlier}},
	})
	clk := clock.Fixed(now)
	reporter := NewReporter(store, clk, feed.NewAggregator(clk), feed.DefaultBirthdayLookaheadDays, time.Minute, log.New(io.Discard, "", 0))

	report := reporter.Report()

	require.Equal(t, 2, report.CheckInsToday)
	require.Equal(t, 2, report.InProgress)
	require.Equal(t, 1, report.UpcomingBirthdays)
	require.Equal(t, 2, report.FeedEntries)
	require.Equal(t, now, report.GeneratedAt)
}

func TestReporterStopsOnCancel(t *testing.T) {
	clk := clock.Fixed(time.Date(2025, time.June, 10, 10, 0, 0, 0, time.UTC))
	reporter := NewReporter(NewStore(), clk, feed.NewAggregator(clk), 7, 0, log.New(io.Discard, "", 0))
	ctx, cancel := context.WithCancel(context.Background())

	go reporter.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		reporter.Wait()
		close(done)
	}()
	require.Eventually(t, func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}
