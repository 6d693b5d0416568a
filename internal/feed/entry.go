package feed

import (
	"fmt"
	"time"

	"example.com/attendance/internal/domain"
)

// Entry is one row of the feed. Concrete types are *Logged and *BirthdayReminder.
type Entry interface {
	ID() string
	Timestamp() time.Time
	// Activity projects the entry onto the shared activity shape for rendering.
	Activity() domain.Activity
	isEntry()
}

// Logged wraps an activity read from the persisted activity log.
type Logged struct {
	Record domain.Activity
}

func (l *Logged) ID() string                { return l.Record.ID }
func (l *Logged) Timestamp() time.Time      { return l.Record.Timestamp }
func (l *Logged) Activity() domain.Activity { return l.Record }
func (*Logged) isEntry()                    {}

// BirthdayReminder is synthesized on read from a member's date of birth. It is never persisted.
type BirthdayReminder struct {
	id         string
	MemberID   string
	MemberName string
	Occurrence time.Time
	// Today is the start of the day the reminder was computed on.
	Today time.Time
}

func (b *BirthdayReminder) ID() string           { return b.id }
func (b *BirthdayReminder) Timestamp() time.Time { return b.Occurrence }
func (*BirthdayReminder) isEntry()               {}

// Activity renders the reminder as a birthday_upcoming activity.
func (b *BirthdayReminder) Activity() domain.Activity {
	return domain.Activity{
		ID:        b.id,
		Type:      domain.ActivityBirthdayUpcoming,
		Message:   b.message(),
		Timestamp: b.Occurrence,
		MemberID:  b.MemberID,
	}
}

func (b *BirthdayReminder) message() string {
	switch {
	case b.Occurrence.Equal(b.Today):
		return fmt.Sprintf("%s's birthday is today", b.MemberName)
	case b.Occurrence.After(b.Today):
		return fmt.Sprintf("%s's birthday is on %s", b.MemberName, b.Occurrence.Format("Monday, January 2"))
	default:
		return fmt.Sprintf("%s celebrated a birthday on %s", b.MemberName, b.Occurrence.Format("Monday, January 2"))
	}
}
