// Package events defines the attendance event payloads exchanged over Kafka.
package events

import "time"

// Event types carried in the event_type header.
const (
	TypeCheckInRecorded  = "checkin.recorded"
	TypeCheckInCompleted = "checkin.completed"
	TypeMemberUpserted   = "member.upserted"
	TypeActivityLogged   = "activity.logged"
)

// CheckInRecorded is emitted when a member is admitted at the front desk.
type CheckInRecorded struct {
	CheckInID      string    `json:"checkin_id"`
	MemberID       string    `json:"member_id"`
	MemberName     string    `json:"member_name"`
	MembershipType string    `json:"membership_type"`
	Role           string    `json:"role,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	CheckedInAt    time.Time `json:"checked_in_at"`
}

// CheckInCompleted closes an active check-in.
type CheckInCompleted struct {
	CheckInID    string    `json:"checkin_id"`
	MemberID     string    `json:"member_id"`
	CheckedOutAt time.Time `json:"checked_out_at"`
}

// MemberUpserted carries the full member record after a create or update.
type MemberUpserted struct {
	MemberID       string     `json:"member_id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	MembershipType string     `json:"membership_type"`
	Status         string     `json:"status"`
	JoinDate       time.Time  `json:"join_date"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ActivityLogged mirrors an entry written to the activity log, e.g. announcements.
type ActivityLogged struct {
	ActivityID   string    `json:"activity_id"`
	ActivityType string    `json:"activity_type"`
	Message      string    `json:"message"`
	MemberID     string    `json:"member_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
