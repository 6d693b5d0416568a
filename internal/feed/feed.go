// Package feed merges persisted activities and synthesized reminders into a ranked, paginated feed.
package feed

import (
	"cmp"
	"encoding/json"
	"slices"

	"example.com/attendance/internal/clock"
	"example.com/attendance/internal/domain"
)

const (
	// DefaultMaxItems caps the merged feed before pagination.
	DefaultMaxItems = 20
	// DefaultPageSize is used when a caller passes a non-positive page size.
	DefaultPageSize = 10
)

// Page is one slice of the feed plus the total page count.
type Page struct {
	Items      []Entry
	TotalPages int
}

// Activities projects the page items for rendering.
func (p Page) Activities() []domain.Activity {
	out := make([]domain.Activity, 0, len(p.Items))
	for _, item := range p.Items {
		out = append(out, item.Activity())
	}
	return out
}

// MarshalJSON encodes the page as {"items": [...], "totalPages": n}.
func (p Page) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Items      []domain.Activity `json:"items"`
		TotalPages int               `json:"totalPages"`
	}{Items: p.Activities(), TotalPages: p.TotalPages})
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithMaxItems overrides the feed cap. Non-positive values are ignored.
func WithMaxItems(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.maxItems = n
		}
	}
}

// WithPageSize overrides the default page size. Non-positive values are ignored.
func WithPageSize(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.pageSize = n
		}
	}
}

// Aggregator builds feeds relative to a Clock. It holds no per-call state.
type Aggregator struct {
	clock    clock.Clock
	maxItems int
	pageSize int
}

// NewAggregator constructs an Aggregator.
func NewAggregator(clk clock.Clock, opts ...Option) *Aggregator {
	a := &Aggregator{
		clock:    clk,
		maxItems: DefaultMaxItems,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// PageSize reports the page size used when callers pass none.
func (a *Aggregator) PageSize() int { return a.pageSize }

// Merge returns the capped feed: persisted activities and birthday reminders
// sorted newest first, ties broken by id. Every persisted activity is kept; a
// reminder is skipped only when a persisted activity already carries its id.
func (a *Aggregator) Merge(activities []domain.Activity, members []domain.Member) []Entry {
	birthdays := Birthdays(members, a.clock.Now())

	merged := make([]Entry, 0, len(activities)+len(birthdays))
	persisted := make(map[string]struct{}, len(activities))
	for _, act := range activities {
		if act.ID != "" {
			persisted[act.ID] = struct{}{}
		}
		merged = append(merged, &Logged{Record: act})
	}
	for _, b := range birthdays {
		if _, shadowed := persisted[b.ID()]; shadowed {
			continue
		}
		merged = append(merged, b)
	}

	slices.SortStableFunc(merged, func(x, y Entry) int {
		if order := y.Timestamp().Compare(x.Timestamp()); order != 0 {
			return order
		}
		return cmp.Compare(x.ID(), y.ID())
	})

	if len(merged) > a.maxItems {
		merged = merged[:a.maxItems]
	}
	return merged
}

// Build merges the sources and returns the requested 1-based page. A
// non-positive pageSize uses the aggregator default. Pages outside the range
// return no items but still report TotalPages.
func (a *Aggregator) Build(activities []domain.Activity, members []domain.Member, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = a.pageSize
	}
	items, total := Paginate(a.Merge(activities, members), page, pageSize)
	return Page{Items: items, TotalPages: total}
}

// Paginate returns the 1-based page of items and the number of pages.
func Paginate[T any](items []T, page, pageSize int) ([]T, int) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := (len(items) + pageSize - 1) / pageSize
	if page < 1 || page > total {
		return []T{}, total
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(items))
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, total
}
