package feed

import (
	"time"

	"github.com/google/uuid"

	"example.com/attendance/internal/domain"
	"example.com/attendance/internal/window"
)

// DefaultBirthdayLookaheadDays is the reminder horizon callers apply when selecting members.
const DefaultBirthdayLookaheadDays = 7

var birthdayNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:attendance:birthday_upcoming"))

// Occurrence returns the member's birthday in now's calendar year at midnight.
// February 29 rolls over to March 1 in non-leap years.
func Occurrence(dateOfBirth, now time.Time) time.Time {
	_, month, day := dateOfBirth.Date()
	return time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
}

// BirthdayID derives a stable identifier from the member and the occurrence date.
func BirthdayID(memberID string, occurrence time.Time) string {
	return uuid.NewSHA1(birthdayNamespace, []byte(memberID+"/"+occurrence.Format(window.DateLayout))).String()
}

func displayName(m domain.Member) string {
	if name := m.FullName(); name != "" {
		return name
	}
	if m.Email != "" {
		return m.Email
	}
	return m.ID
}

// Birthdays synthesizes one reminder per member with a known date of birth.
func Birthdays(members []domain.Member, now time.Time) []*BirthdayReminder {
	today := window.StartOfDay(now)
	out := make([]*BirthdayReminder, 0, len(members))
	for _, m := range members {
		if m.DateOfBirth == nil || m.DateOfBirth.IsZero() {
			continue
		}
		occurrence := Occurrence(*m.DateOfBirth, now)
		out = append(out, &BirthdayReminder{
			id:         BirthdayID(m.ID, occurrence),
			MemberID:   m.ID,
			MemberName: displayName(m),
			Occurrence: occurrence,
			Today:      today,
		})
	}
	return out
}

// UpcomingBirthdays keeps the members whose birthday this year falls between
// today and today+days inclusive.
func UpcomingBirthdays(members []domain.Member, now time.Time, days int) []domain.Member {
	if days < 0 {
		days = 0
	}
	today := window.StartOfDay(now)
	horizon := today.AddDate(0, 0, days)

	out := make([]domain.Member, 0)
	for _, m := range members {
		if m.DateOfBirth == nil || m.DateOfBirth.IsZero() {
			continue
		}
		occurrence := Occurrence(*m.DateOfBirth, now)
		if occurrence.Before(today) || occurrence.After(horizon) {
			continue
		}
		out = append(out, m)
	}
	return out
}
