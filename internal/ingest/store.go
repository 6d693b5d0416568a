package ingest

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"example.com/attendance/internal/domain"
)

// ErrCheckInNotFound is returned when completing a check-in the store has not seen.
var ErrCheckInNotFound = errors.New("check-in not found")

// Store holds the latest known check-ins, members and activities in memory.
// Nothing is persisted; the consumer rebuilds it on every start by replaying
// each partition from its first offset.
type Store struct {
	mu         sync.RWMutex
	checkIns   map[string]domain.CheckInRecord
	members    map[string]domain.Member
	activities map[string]domain.Activity
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{
		checkIns:   make(map[string]domain.CheckInRecord),
		members:    make(map[string]domain.Member),
		activities: make(map[string]domain.Activity),
	}
}

// Load seeds the store from a snapshot, replacing entries with matching ids.
func (s *Store) Load(snap domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range snap.CheckIns {
		s.checkIns[rec.ID] = rec
	}
	for _, m := range snap.Members {
		s.members[m.ID] = m
	}
	for _, act := range snap.Activities {
		s.activities[act.ID] = act
	}
}

// RecordCheckIn stores an active check-in and bumps the member's last visit.
func (s *Store) RecordCheckIn(rec domain.CheckInRecord) error {
	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("check-in id is required")
	}
	if err := rec.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.checkIns[rec.ID] = rec
	if m, ok := s.members[rec.MemberID]; ok {
		if m.LastCheckIn == nil || rec.CheckInTime.After(*m.LastCheckIn) {
			at := rec.CheckInTime
			m.LastCheckIn = &at
			s.members[rec.MemberID] = m
		}
	}
	return nil
}

// CompleteCheckIn closes the check-in identified by id at checkOut.
func (s *Store) CompleteCheckIn(id string, checkOut time.Time) (domain.CheckInRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.checkIns[id]
	if !ok {
		return domain.CheckInRecord{}, fmt.Errorf("%w: %s", ErrCheckInNotFound, id)
	}
	rec.Status = domain.CheckInStatusCompleted
	rec.CheckOutTime = &checkOut
	if err := rec.Validate(); err != nil {
		return domain.CheckInRecord{}, fmt.Errorf("complete %s: %w", id, err)
	}
	s.checkIns[id] = rec
	return rec, nil
}

// UpsertMember stores m and returns the previous version if one existed.
// A known last check-in is kept when m carries none.
func (s *Store) UpsertMember(m domain.Member) (domain.Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.members[m.ID]
	if existed && m.LastCheckIn == nil {
		m.LastCheckIn = prev.LastCheckIn
	}
	s.members[m.ID] = m
	return prev, existed
}

// AppendActivity stores act unless an activity with the same id is already known.
func (s *Store) AppendActivity(act domain.Activity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activities[act.ID]; ok {
		return false
	}
	s.activities[act.ID] = act
	return true
}

// Snapshot returns copies of the stored records. Check-ins and activities are
// ordered oldest first, members by id.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := domain.Snapshot{
		CheckIns:   make([]domain.CheckInRecord, 0, len(s.checkIns)),
		Members:    make([]domain.Member, 0, len(s.members)),
		Activities: make([]domain.Activity, 0, len(s.activities)),
	}
	for _, rec := range s.checkIns {
		snap.CheckIns = append(snap.CheckIns, rec)
	}
	for _, m := range s.members {
		snap.Members = append(snap.Members, m)
	}
	for _, act := range s.activities {
		snap.Activities = append(snap.Activities, act)
	}

	slices.SortFunc(snap.CheckIns, func(a, b domain.CheckInRecord) int {
		if c := a.CheckInTime.Compare(b.CheckInTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	slices.SortFunc(snap.Members, func(a, b domain.Member) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(snap.Activities, func(a, b domain.Activity) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return snap
}
