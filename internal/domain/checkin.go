// Package domain defines the records exchanged between the attendance engine and its collaborators.
package domain

import (
	"errors"
	"time"
)

// ErrCheckOutBeforeCheckIn is returned when a record closes before it opens.
var ErrCheckOutBeforeCheckIn = errors.New("check-out time precedes check-in time")

// CheckInStatus represents whether a visit is still open.
type CheckInStatus string

const (
	CheckInStatusActive    CheckInStatus = "active"
	CheckInStatusCompleted CheckInStatus = "completed"
)

// CheckInRecord is a single timestamped attendance entry for a member.
type CheckInRecord struct {
	ID             string        `json:"id"`
	MemberID       string        `json:"memberId"`
	MemberName     string        `json:"memberName"`
	MembershipType string        `json:"membershipType"`
	Role           string        `json:"role"`
	Status         CheckInStatus `json:"status"`
	CheckInTime    time.Time     `json:"checkInTime"`
	CheckOutTime   *time.Time    `json:"checkOutTime,omitempty"`
	Phone          string        `json:"phone,omitempty"`
}

// InProgress reports whether the member is still inside the gym.
func (r CheckInRecord) InProgress() bool {
	return r.Status == CheckInStatusActive && r.CheckOutTime == nil
}

// Validate checks the record invariants.
func (r CheckInRecord) Validate() error {
	if r.CheckOutTime != nil && r.CheckOutTime.Before(r.CheckInTime) {
		return ErrCheckOutBeforeCheckIn
	}
	return nil
}

// MemberStats summarises a member's visits across fixed windows.
type MemberStats struct {
	MemberID string          `json:"memberId"`
	Today    int             `json:"today"`
	Week     int             `json:"week"`
	Month    int             `json:"month"`
	Year     int             `json:"year"`
	AllTime  int             `json:"allTime"`
	History  []CheckInRecord `json:"history"`
}
