package domain

import "time"

// ActivityType enumerates the kinds of entries shown in the activity feed.
type ActivityType string

const (
	ActivityCheckIn               ActivityType = "checkin"
	ActivityMemberAdded           ActivityType = "member_added"
	ActivityMemberUpdated         ActivityType = "member_updated"
	ActivityMembershipChanged     ActivityType = "membership_changed"
	ActivityAnnouncementCreated   ActivityType = "announcement_created"
	ActivityAnnouncementPublished ActivityType = "announcement_published"
	ActivityAnnouncementDeleted   ActivityType = "announcement_deleted"
	ActivityBirthdayUpcoming      ActivityType = "birthday_upcoming"
)

// Valid reports whether t is a known activity type.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityCheckIn,
		ActivityMemberAdded,
		ActivityMemberUpdated,
		ActivityMembershipChanged,
		ActivityAnnouncementCreated,
		ActivityAnnouncementPublished,
		ActivityAnnouncementDeleted,
		ActivityBirthdayUpcoming:
		return true
	}
	return false
}

// Activity is one entry of the activity feed. Persisted entries come from the
// activity log; birthday_upcoming entries are computed on read.
type Activity struct {
	ID        string       `json:"id"`
	Type      ActivityType `json:"type"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
	MemberID  string       `json:"memberId,omitempty"`
}
