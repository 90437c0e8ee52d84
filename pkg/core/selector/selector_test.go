package selector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntc490/mls3/pkg/core/model"
)

var testToday = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func member(id, first, last string, gender model.Gender, lastPrayer string) model.Member {
	return model.Member{
		ID:             id,
		FirstName:      first,
		LastName:       last,
		Gender:         gender,
		LastPrayerDate: lastPrayer,
		Active:         true,
	}
}

func TestEligibleMembers_Filters(t *testing.T) {
	inactive := member("m1", "Alan", "Old", model.GenderMale, "")
	inactive.Active = false

	optedOut := member("m2", "Ben", "Quiet", model.GenderMale, "")
	optedOut.DontAskPrayer = true

	skipping := member("m3", "Carl", "Busy", model.GenderMale, "")
	skipping.SkipUntil = "2026-03-01" // today, still excluded

	skipExpired := member("m4", "Dan", "Back", model.GenderMale, "")
	skipExpired.SkipUntil = "2026-02-28"

	woman := member("m5", "Eve", "Other", model.GenderFemale, "")
	ok := member("m6", "Fred", "Ready", model.GenderMale, "")

	roster := []model.Member{inactive, optedOut, skipping, skipExpired, woman, ok}

	eligible := EligibleMembers(roster, model.GenderMale, testToday)

	ids := make([]string, 0, len(eligible))
	for _, m := range eligible {
		ids = append(ids, m.ID)
	}
	assert.ElementsMatch(t, []string{"m4", "m6"}, ids)
}

func TestSelectCandidates_NeverAssignedFirst(t *testing.T) {
	roster := []model.Member{
		member("m1", "Adam", "Ant", model.GenderMale, "2026-01-04"),
		member("m2", "Bob", "Bee", model.GenderMale, ""),
		member("m3", "Cal", "Cat", model.GenderMale, "2025-11-30"),
	}

	got := SelectCandidates(roster, model.GenderMale, nil, 3, testToday)

	require.Len(t, got, 3)
	assert.Equal(t, "m2", got[0].ID)
	assert.Equal(t, "m3", got[1].ID)
	assert.Equal(t, "m1", got[2].ID)
}

func TestSelectCandidates_TieBreakByID(t *testing.T) {
	roster := []model.Member{
		member("m9", "Zed", "Zap", model.GenderMale, "2026-01-04"),
		member("m2", "Art", "Arc", model.GenderMale, "2026-01-04"),
	}

	got := SelectCandidates(roster, model.GenderMale, nil, 2, testToday)

	require.Len(t, got, 2)
	assert.Equal(t, "m2", got[0].ID)
	assert.Equal(t, "m9", got[1].ID)
}

func TestSelectCandidates_ExclusionIsNotSubstituted(t *testing.T) {
	roster := []model.Member{
		member("m1", "Adam", "Ant", model.GenderMale, ""),
		member("m2", "Bob", "Bee", model.GenderMale, "2025-12-07"),
	}

	got := SelectCandidates(roster, model.GenderMale, map[string]bool{"m1": true, "m2": true}, 3, testToday)
	assert.Empty(t, got)
}

func TestSelectCandidates_LimitAndDeterminism(t *testing.T) {
	roster := []model.Member{
		member("m1", "Adam", "Ant", model.GenderMale, "2026-01-04"),
		member("m2", "Bob", "Bee", model.GenderMale, "2026-01-11"),
		member("m3", "Cal", "Cat", model.GenderMale, "2026-01-18"),
	}

	first := SelectCandidates(roster, model.GenderMale, nil, 2, testToday)
	second := SelectCandidates(roster, model.GenderMale, nil, 2, testToday)

	require.Len(t, first, 2)
	assert.Equal(t, first, second)
}

func TestSelectCandidates_NonPositiveLimit(t *testing.T) {
	roster := []model.Member{
		member("m1", "Adam", "Ant", model.GenderMale, ""),
		member("m2", "Bob", "Bee", model.GenderMale, ""),
	}

	assert.Empty(t, SelectCandidates(roster, model.GenderMale, nil, 0, testToday))
	assert.Empty(t, SelectCandidates(roster, model.GenderMale, nil, -1, testToday))
}

func TestSelectCandidates_GenderPurity(t *testing.T) {
	roster := []model.Member{
		member("m1", "Adam", "Ant", model.GenderMale, ""),
		member("f1", "Ann", "Ash", model.GenderFemale, ""),
	}

	for _, got := range SelectCandidates(roster, model.GenderFemale, nil, 5, testToday) {
		assert.Equal(t, model.GenderFemale, got.Gender)
	}
}

func TestCandidatesWithContext(t *testing.T) {
	roster := []model.Member{
		member("m1", "Adam", "Ant", model.GenderMale, "2026-01-04"),
		member("m2", "Bob", "Bee", model.GenderMale, ""),
	}

	got := CandidatesWithContext(roster, model.GenderMale, nil, 2, testToday)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Priority)
	assert.Equal(t, "Never", got[0].LastPrayerDisplay)
	assert.Equal(t, 2, got[1].Priority)
	assert.Equal(t, "2026-01-04", got[1].LastPrayerDisplay)
}
