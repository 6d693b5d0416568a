// Package window filters check-in records by named or custom date ranges.
package window

import (
	"strings"
	"time"

	"example.com/attendance/internal/clock"
	"example.com/attendance/internal/domain"
)

// Window selects a date range relative to the clock.
type Window string

const (
	Today  Window = "today"
	Week   Window = "week"
	Month  Window = "month"
	Year   Window = "year"
	Custom Window = "custom"
)

// DateLayout is the layout of custom range bounds.
const DateLayout = "2006-01-02"

// matchAll disables the status and membership filters.
const matchAll = "all"

// ParseWindow normalises a selector string. Unknown values are kept and act as no-ops.
func ParseWindow(value string) Window {
	return Window(strings.ToLower(strings.TrimSpace(value)))
}

// Query describes a filter request. Every field is optional.
type Query struct {
	Window         Window
	StartDate      string
	EndDate        string
	Search         string
	Status         domain.CheckInStatus
	MembershipType string
}

// Bounds is an inclusive time range. A zero To leaves the range open-ended.
type Bounds struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls within the bounds.
func (b Bounds) Contains(t time.Time) bool {
	if t.Before(b.From) {
		return false
	}
	return b.To.IsZero() || !t.After(b.To)
}

// Filter applies window and attribute filters relative to a Clock.
type Filter struct {
	clock clock.Clock
}

// NewFilter constructs a Filter.
func NewFilter(clk clock.Clock) *Filter {
	return &Filter{clock: clk}
}

// Bounds resolves the time range of q. ok is false when the window imposes no
// constraint: unknown selectors and custom ranges with missing or unparseable dates.
func (f *Filter) Bounds(q Query) (Bounds, bool) {
	now := f.clock.Now()
	today := StartOfDay(now)

	switch q.Window {
	case Today:
		return Bounds{From: today}, true
	case Week:
		return Bounds{From: today.AddDate(0, 0, -7)}, true
	case Month:
		return Bounds{From: today.AddDate(0, 0, -30)}, true
	case Year:
		return Bounds{From: today.AddDate(0, 0, -365)}, true
	case Custom:
		start, err := time.ParseInLocation(DateLayout, strings.TrimSpace(q.StartDate), now.Location())
		if err != nil {
			return Bounds{}, false
		}
		end, err := time.ParseInLocation(DateLayout, strings.TrimSpace(q.EndDate), now.Location())
		if err != nil {
			return Bounds{}, false
		}
		return Bounds{From: StartOfDay(start), To: EndOfDay(end)}, true
	}
	return Bounds{}, false
}

// Apply returns the records matching every filter in q, in their original order.
// The input slice is never modified.
func (f *Filter) Apply(records []domain.CheckInRecord, q Query) []domain.CheckInRecord {
	bounds, bounded := f.Bounds(q)
	search := strings.ToLower(strings.TrimSpace(q.Search))
	status := strings.TrimSpace(string(q.Status))
	membership := strings.TrimSpace(q.MembershipType)

	out := make([]domain.CheckInRecord, 0, len(records))
	for _, rec := range records {
		if bounded && !bounds.Contains(rec.CheckInTime) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(rec.MemberName), search) {
			continue
		}
		if status != "" && status != matchAll && string(rec.Status) != status {
			continue
		}
		if membership != "" && membership != matchAll && rec.MembershipType != membership {
			continue
		}
		out = append(out, rec)
	}
	return out
}
