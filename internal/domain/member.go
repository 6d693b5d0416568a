package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date form accepted for DateOfBirth.
const DateLayout = time.DateOnly

// Member is a gym member as owned by the member directory.
type Member struct {
	ID             string     `json:"id"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	MembershipType string     `json:"membershipType"`
	Status         string     `json:"status"`
	JoinDate       time.Time  `json:"joinDate"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	LastCheckIn    *time.Time `json:"lastCheckIn,omitempty"`
}

// FullName joins first and last name, skipping empty parts.
func (m Member) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(m.FirstName) + " " + strings.TrimSpace(m.LastName))
}

// UnmarshalJSON accepts dateOfBirth either as RFC 3339 or as a bare
// YYYY-MM-DD date, which decodes to midnight UTC.
func (m *Member) UnmarshalJSON(data []byte) error {
	type plain Member
	aux := struct {
		*plain
		DateOfBirth *string `json:"dateOfBirth,omitempty"`
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	m.DateOfBirth = nil
	if aux.DateOfBirth == nil || strings.TrimSpace(*aux.DateOfBirth) == "" {
		return nil
	}
	raw := strings.TrimSpace(*aux.DateOfBirth)
	if dob, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		m.DateOfBirth = &dob
		return nil
	}
	dob, err := time.Parse(DateLayout, raw)
	if err != nil {
		return fmt.Errorf("member %s: dateOfBirth %q is neither %s nor RFC 3339", m.ID, raw, DateLayout)
	}
	m.DateOfBirth = &dob
	return nil
}
