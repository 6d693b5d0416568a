package feed

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"example.com/attendance/internal/clock"
	"example.com/attendance/internal/domain"
)

var now = time.Date(2025, time.June, 10, 10, 0, 0, 0, time.UTC)

func activity(id string, at time.Time) domain.Activity {
	return domain.Activity{
		ID:        id,
		Type:      domain.ActivityCheckIn,
		Message:   "checked in",
		Timestamp: at,
	}
}

func member(id string, dob time.Time) domain.Member {
	return domain.Member{ID: id, FirstName: "Member", LastName: id, DateOfBirth: &dob}
}

func ids(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID())
	}
	return out
}

func TestBuildPaginatesCappedFeed(t *testing.T) {
	activities := make([]domain.Activity, 0, 25)
	for i := 0; i < 25; i++ {
		activities = append(activities, activity(fmt.Sprintf("a%02d", i), now.Add(-time.Duration(i)*time.Hour)))
	}
	members := []domain.Member{
		member("m1", time.Date(1990, time.June, 11, 0, 0, 0, 0, time.UTC)),
		member("m2", time.Date(1985, time.June, 12, 0, 0, 0, 0, time.UTC)),
		member("m3", time.Date(2000, time.June, 14, 0, 0, 0, 0, time.UTC)),
	}
	agg := NewAggregator(clock.Fixed(now))
	merged := agg.Merge(activities, members)
	require.Len(t, merged, DefaultMaxItems)

	first := agg.Build(activities, members, 1, 10)
	second := agg.Build(activities, members, 2, 10)
	third := agg.Build(activities, members, 3, 10)

	require.Equal(t, 2, first.TotalPages)
	require.Equal(t, ids(merged[0:10]), ids(first.Items))
	require.Equal(t, ids(merged[10:20]), ids(second.Items))
	require.Empty(t, third.Items)
	require.Equal(t, 2, third.TotalPages)
}

func TestMergeOrdersNewestFirstWithBirthdays(t *testing.T) {
	agg := NewAggregator(clock.Fixed(now))
	members := []domain.Member{member("m1", time.Date(1990, time.June, 12, 0, 0, 0, 0, time.UTC))}
	activities := []domain.Activity{
		activity("old", now.Add(-48*time.Hour)),
		activity("recent", now.Add(-time.Minute)),
	}

	merged := agg.Merge(activities, members)

	require.Len(t, merged, 3)
	birthday, ok := merged[0].(*BirthdayReminder)
	require.True(t, ok, "future birthday sorts first")
	require.Equal(t, time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC), birthday.Timestamp())
	require.Equal(t, []string{"recent", "old"}, ids(merged[1:]))
}

func TestMergeBreaksTimestampTiesById(t *testing.T) {
	agg := NewAggregator(clock.Fixed(now))
	at := now.Add(-time.Hour)
	activities := []domain.Activity{activity("c", at), activity("a", at), activity("b", at)}

	require.Equal(t, []string{"a", "b", "c"}, ids(agg.Merge(activities, nil)))
}

func TestMergeKeepsPersistedEntriesWithBlankOrRepeatedIds(t *testing.T) {
	agg := NewAggregator(clock.Fixed(now))
	activities := make([]domain.Activity, 0, 7)
	for i := 0; i < 5; i++ {
		activities = append(activities, domain.Activity{
			Type:      domain.ActivityAnnouncementPublished,
			Message:   fmt.Sprintf("announcement %d", i),
			Timestamp: now.Add(-time.Duration(i) * time.Hour),
		})
	}
	activities = append(activities,
		activity("dup", now.Add(-10*time.Hour)),
		domain.Activity{ID: "dup", Type: domain.ActivityMemberUpdated, Timestamp: now.Add(-11 * time.Hour)},
	)

	merged := agg.Merge(activities, nil)
	page := agg.Build(activities, nil, 1, 10)

	require.Len(t, merged, 7)
	require.Len(t, page.Items, 7)
	require.Equal(t, 1, page.TotalPages)
	require.Equal(t, domain.ActivityCheckIn, merged[5].Activity().Type)
	require.Equal(t, domain.ActivityMemberUpdated, merged[6].Activity().Type)
}

func TestMergeSkipsBirthdayAlreadyPersisted(t *testing.T) {
	agg := NewAggregator(clock.Fixed(now))
	dob := time.Date(1990, time.June, 12, 0, 0, 0, 0, time.UTC)
	occurrence := time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC)
	persisted := domain.Activity{
		ID:        BirthdayID("m1", occurrence),
		Type:      domain.ActivityBirthdayUpcoming,
		Message:   "stored reminder",
		Timestamp: occurrence,
		MemberID:  "m1",
	}

	merged := agg.Merge([]domain.Activity{persisted}, []domain.Member{member("m1", dob)})

	require.Len(t, merged, 1)
	_, logged := merged[0].(*Logged)
	require.True(t, logged)
	require.Equal(t, "stored reminder", merged[0].Activity().Message)
}

func TestBuildDefaultsAndEmptyFeed(t *testing.T) {
	agg := NewAggregator(clock.Fixed(now))

	empty := agg.Build(nil, nil, 1, 10)
	require.Empty(t, empty.Items)
	require.Equal(t, 0, empty.TotalPages)

	activities := make([]domain.Activity, 0, 12)
	for i := 0; i < 12; i++ {
		activities = append(activities, activity(fmt.Sprintf("a%02d", i), now.Add(-time.Duration(i)*time.Minute)))
	}
	page := agg.Build(activities, nil, 1, 0)
	require.Len(t, page.Items, DefaultPageSize)
	require.Equal(t, 2, page.TotalPages)

	require.Empty(t, agg.Build(activities, nil, 0, 5).Items)
	require.Empty(t, agg.Build(activities, nil, -1, 5).Items)
}

func TestAggregatorOptions(t *testing.T) {
	activities := make([]domain.Activity, 0, 8)
	for i := 0; i < 8; i++ {
		activities = append(activities, activity(fmt.Sprintf("a%02d", i), now.Add(-time.Duration(i)*time.Minute)))
	}
	agg := NewAggregator(clock.Fixed(now), WithMaxItems(5), WithPageSize(2), WithMaxItems(0))

	page := agg.Build(activities, nil, 1, 0)

	require.Equal(t, 2, agg.PageSize())
	require.Len(t, page.Items, 2)
	require.Equal(t, 3, page.TotalPages)
}

func TestPageJSONShape(t *testing.T) {
	agg := NewAggregator(clock.Fixed(now))
	page := agg.Build([]domain.Activity{activity("a1", now)}, nil, 1, 10)

	raw, err := page.MarshalJSON()

	require.NoError(t, err)
	require.JSONEq(t, `{
		"items": [{"id":"a1","type":"checkin","message":"checked in","timestamp":"2025-06-10T10:00:00Z"}],
		"totalPages": 1
	}`, string(raw))
}

func TestPaginationCoversFeed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 40).Draw(t, "n")
		size := rapid.IntRange(1, 12).Draw(t, "pageSize")
		activities := make([]domain.Activity, 0, n)
		for i := 0; i < n; i++ {
			offset := rapid.IntRange(0, 1000).Draw(t, "minutesAgo")
			activities = append(activities, activity(fmt.Sprintf("a%02d", i), now.Add(-time.Duration(offset)*time.Minute)))
		}
		agg := NewAggregator(clock.Fixed(now))
		merged := agg.Merge(activities, nil)
		if len(merged) > DefaultMaxItems {
			t.Fatalf("feed exceeds cap: %d", len(merged))
		}

		var collected []string
		total := agg.Build(activities, nil, 1, size).TotalPages
		for page := 1; page <= total; page++ {
			got := agg.Build(activities, nil, page, size)
			if got.TotalPages != total {
				t.Fatalf("totalPages changed between pages")
			}
			collected = append(collected, ids(got.Items)...)
		}
		want := ids(merged)
		if len(collected) != len(want) {
			t.Fatalf("pages cover %d items, feed has %d", len(collected), len(want))
		}
		for i := range want {
			if collected[i] != want[i] {
				t.Fatalf("page concatenation diverges at %d", i)
			}
		}
		for i := 1; i < len(merged); i++ {
			if merged[i].Timestamp().After(merged[i-1].Timestamp()) {
				t.Fatalf("feed not sorted at %d", i)
			}
		}
	})
}
