package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"example.com/attendance/internal/clock"
	"example.com/attendance/internal/domain"
	"example.com/attendance/internal/events"
)

var activityNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:attendance:activity"))

// activityID derives a stable id so redelivered events do not duplicate feed entries.
func activityID(parts ...string) string {
	return uuid.NewSHA1(activityNamespace, []byte(strings.Join(parts, "/"))).String()
}

// StoreHandler projects attendance events into a Store and the activity log.
// Events carrying neither an event time nor a broker time are stamped with clk.
type StoreHandler struct {
	store *Store
	clock clock.Clock
}

// NewStoreHandler constructs a handler writing into store.
func NewStoreHandler(store *Store, clk clock.Clock) *StoreHandler {
	return &StoreHandler{store: store, clock: clk}
}

// Handle applies msg to the store. Unknown event types are ignored.
func (h *StoreHandler) Handle(_ context.Context, msg Message) error {
	switch msg.EventType {
	case events.TypeCheckInRecorded:
		var evt events.CheckInRecorded
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		return h.checkInRecorded(evt, msg.Timestamp)
	case events.TypeCheckInCompleted:
		var evt events.CheckInCompleted
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		_, err := h.store.CompleteCheckIn(evt.CheckInID, h.stamp(evt.CheckedOutAt, msg.Timestamp))
		return err
	case events.TypeMemberUpserted:
		var evt events.MemberUpserted
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		return h.memberUpserted(evt, msg.Timestamp)
	case events.TypeActivityLogged:
		var evt events.ActivityLogged
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		return h.activityLogged(evt, msg.Timestamp)
	default:
		return nil
	}
}

func (h *StoreHandler) checkInRecorded(evt events.CheckInRecorded, received time.Time) error {
	at := h.stamp(evt.CheckedInAt, received)
	rec := domain.CheckInRecord{
		ID:             evt.CheckInID,
		MemberID:       evt.MemberID,
		MemberName:     evt.MemberName,
		MembershipType: evt.MembershipType,
		Role:           evt.Role,
		Status:         domain.CheckInStatusActive,
		CheckInTime:    at,
		Phone:          evt.Phone,
	}
	if err := h.store.RecordCheckIn(rec); err != nil {
		return err
	}
	h.store.AppendActivity(domain.Activity{
		ID:        activityID(string(domain.ActivityCheckIn), evt.CheckInID),
		Type:      domain.ActivityCheckIn,
		Message:   fmt.Sprintf("%s checked in", evt.MemberName),
		Timestamp: at,
		MemberID:  evt.MemberID,
	})
	return nil
}

func (h *StoreHandler) memberUpserted(evt events.MemberUpserted, received time.Time) error {
	if strings.TrimSpace(evt.MemberID) == "" {
		return fmt.Errorf("%s: member id is required", events.TypeMemberUpserted)
	}
	member := domain.Member{
		ID:             evt.MemberID,
		FirstName:      evt.FirstName,
		LastName:       evt.LastName,
		Email:          evt.Email,
		Phone:          evt.Phone,
		MembershipType: evt.MembershipType,
		Status:         evt.Status,
		JoinDate:       evt.JoinDate,
		DateOfBirth:    evt.DateOfBirth,
	}
	at := h.stamp(evt.UpdatedAt, received)
	stamp := at.UTC().Format(time.RFC3339Nano)
	name := member.FullName()

	prev, existed := h.store.UpsertMember(member)
	if !existed {
		h.store.AppendActivity(domain.Activity{
			ID:        activityID(string(domain.ActivityMemberAdded), member.ID),
			Type:      domain.ActivityMemberAdded,
			Message:   fmt.Sprintf("%s joined with a %s membership", name, member.MembershipType),
			Timestamp: at,
			MemberID:  member.ID,
		})
		return nil
	}

	if prev.MembershipType != member.MembershipType {
		h.store.AppendActivity(domain.Activity{
			ID:        activityID(string(domain.ActivityMembershipChanged), member.ID, stamp),
			Type:      domain.ActivityMembershipChanged,
			Message:   fmt.Sprintf("%s changed membership from %s to %s", name, prev.MembershipType, member.MembershipType),
			Timestamp: at,
			MemberID:  member.ID,
		})
		return nil
	}
	h.store.AppendActivity(domain.Activity{
		ID:        activityID(string(domain.ActivityMemberUpdated), member.ID, stamp),
		Type:      domain.ActivityMemberUpdated,
		Message:   fmt.Sprintf("%s updated their details", name),
		Timestamp: at,
		MemberID:  member.ID,
	})
	return nil
}

func (h *StoreHandler) activityLogged(evt events.ActivityLogged, received time.Time) error {
	kind := domain.ActivityType(evt.ActivityType)
	if !kind.Valid() || kind == domain.ActivityBirthdayUpcoming {
		return fmt.Errorf("%s: unsupported activity type %q", events.TypeActivityLogged, evt.ActivityType)
	}
	id := evt.ActivityID
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s: activity id is required", events.TypeActivityLogged)
	}
	h.store.AppendActivity(domain.Activity{
		ID:        id,
		Type:      kind,
		Message:   evt.Message,
		Timestamp: h.stamp(evt.OccurredAt, received),
		MemberID:  evt.MemberID,
	})
	return nil
}

func (h *StoreHandler) stamp(values ...time.Time) time.Time {
	for _, v := range values {
		if !v.IsZero() {
			return v
		}
	}
	return h.clock.Now()
}
