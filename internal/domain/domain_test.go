package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCheckInRecordInProgress(t *testing.T) {
	in := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	out := in.Add(time.Hour)

	tests := []struct {
		name   string
		record CheckInRecord
		want   bool
	}{
		{"active without checkout", CheckInRecord{Status: CheckInStatusActive, CheckInTime: in}, true},
		{"active with checkout", CheckInRecord{Status: CheckInStatusActive, CheckInTime: in, CheckOutTime: &out}, false},
		{"completed", CheckInRecord{Status: CheckInStatusCompleted, CheckInTime: in, CheckOutTime: &out}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.record.InProgress())
		})
	}
}

func TestCheckInRecordValidate(t *testing.T) {
	in := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	before := in.Add(-time.Minute)

	require.NoError(t, CheckInRecord{CheckInTime: in}.Validate())
	require.NoError(t, CheckInRecord{CheckInTime: in, CheckOutTime: &in}.Validate())
	require.ErrorIs(t, CheckInRecord{CheckInTime: in, CheckOutTime: &before}.Validate(), ErrCheckOutBeforeCheckIn)
}

func TestMemberFullName(t *testing.T) {
	require.Equal(t, "Ragnar Lothbrok", Member{FirstName: "Ragnar", LastName: "Lothbrok"}.FullName())
	require.Equal(t, "Lagertha", Member{FirstName: " Lagertha "}.FullName())
}

func TestMemberDecodesDateOfBirth(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *time.Time
	}{
		{"calendar date", `{"id":"m1","dateOfBirth":"1990-06-12"}`, ptr(time.Date(1990, time.June, 12, 0, 0, 0, 0, time.UTC))},
		{"timestamp", `{"id":"m1","dateOfBirth":"1990-06-12T00:00:00Z"}`, ptr(time.Date(1990, time.June, 12, 0, 0, 0, 0, time.UTC))},
		{"absent", `{"id":"m1"}`, nil},
		{"null", `{"id":"m1","dateOfBirth":null}`, nil},
		{"blank", `{"id":"m1","dateOfBirth":""}`, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var m Member
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &m))
			require.Equal(t, "m1", m.ID)
			if tc.want == nil {
				require.Nil(t, m.DateOfBirth)
				return
			}
			require.NotNil(t, m.DateOfBirth)
			require.True(t, tc.want.Equal(*m.DateOfBirth))
		})
	}
}

func TestMemberRejectsUnparseableDateOfBirth(t *testing.T) {
	var m Member

	require.ErrorContains(t, json.Unmarshal([]byte(`{"id":"m1","dateOfBirth":"12/06/1990"}`), &m), "12/06/1990")
}

func TestMemberKeepsOtherFieldsWhenDecoding(t *testing.T) {
	var m Member
	raw := `{"id":"m1","firstName":"Ada","membershipType":"premium","joinDate":"2024-01-02T00:00:00Z","dateOfBirth":"1815-12-10"}`

	require.NoError(t, json.Unmarshal([]byte(raw), &m))

	require.Equal(t, "Ada", m.FirstName)
	require.Equal(t, "premium", m.MembershipType)
	require.Equal(t, time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), m.JoinDate)
	require.Equal(t, time.December, m.DateOfBirth.Month())
}

func ptr[T any](v T) *T { return &v }

func TestActivityTypeValid(t *testing.T) {
	require.True(t, ActivityBirthdayUpcoming.Valid())
	require.True(t, ActivityAnnouncementDeleted.Valid())
	require.False(t, ActivityType("workout_logged").Valid())
}
