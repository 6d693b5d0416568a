// Package stats aggregates a member's visit history into per-window counts.
package stats

import (
	"cmp"
	"slices"
	"time"

	"example.com/attendance/internal/clock"
	"example.com/attendance/internal/domain"
	"example.com/attendance/internal/window"
)

// Calculator computes MemberStats relative to a Clock.
type Calculator struct {
	clock clock.Clock
}

// NewCalculator constructs a Calculator.
func NewCalculator(clk clock.Clock) *Calculator {
	return &Calculator{clock: clk}
}

type boundaries struct {
	today, week, month, year time.Time
}

func (c *Calculator) boundaries() boundaries {
	now := c.clock.Now()
	return boundaries{
		today: window.StartOfDay(now),
		// Membership weeks reset Monday 02:00, not on the rolling filter window.
		week:  window.WeeklyReset(now),
		month: window.StartOfMonth(now),
		year:  window.StartOfYear(now),
	}
}

// Compute returns the visit counts and history for memberID. Unknown members
// yield zero counts and an empty history.
func (c *Calculator) Compute(records []domain.CheckInRecord, memberID string) domain.MemberStats {
	history := make([]domain.CheckInRecord, 0)
	for _, rec := range records {
		if rec.MemberID == memberID {
			history = append(history, rec)
		}
	}
	return summarise(memberID, history, c.boundaries())
}

// ComputeAll returns stats for every member present in records, ordered by member id.
func (c *Calculator) ComputeAll(records []domain.CheckInRecord) []domain.MemberStats {
	partitions := make(map[string][]domain.CheckInRecord)
	for _, rec := range records {
		partitions[rec.MemberID] = append(partitions[rec.MemberID], rec)
	}

	memberIDs := make([]string, 0, len(partitions))
	for id := range partitions {
		memberIDs = append(memberIDs, id)
	}
	slices.Sort(memberIDs)

	b := c.boundaries()
	out := make([]domain.MemberStats, 0, len(memberIDs))
	for _, id := range memberIDs {
		out = append(out, summarise(id, partitions[id], b))
	}
	return out
}

func summarise(memberID string, history []domain.CheckInRecord, b boundaries) domain.MemberStats {
	stats := domain.MemberStats{MemberID: memberID, AllTime: len(history)}
	for _, rec := range history {
		at := rec.CheckInTime
		if !at.Before(b.today) {
			stats.Today++
		}
		if !at.Before(b.week) {
			stats.Week++
		}
		if !at.Before(b.month) {
			stats.Month++
		}
		if !at.Before(b.year) {
			stats.Year++
		}
	}

	slices.SortStableFunc(history, newestFirst)
	stats.History = history
	return stats
}

func newestFirst(x, y domain.CheckInRecord) int {
	if order := y.CheckInTime.Compare(x.CheckInTime); order != 0 {
		return order
	}
	return cmp.Compare(x.ID, y.ID)
}
