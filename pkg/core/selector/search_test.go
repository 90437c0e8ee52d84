package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntc490/mls3/pkg/core/model"
)

func searchRoster() []model.Member {
	retired := member("m4", "Smith", "Jones", model.GenderMale, "")
	retired.Active = false

	return []model.Member{
		member("m1", "John", "Smith", model.GenderMale, ""),
		member("m2", "Johanna", "Smythe", model.GenderFemale, ""),
		member("m3", "Peter", "Johnson", model.GenderMale, ""),
		retired,
	}
}

func TestFuzzySearch_SubstringBeatsPrefix(t *testing.T) {
	got := FuzzySearch(searchRoster(), "john", "", 10)

	require.Len(t, got, 3)
	// "john smith" and "peter johnson" contain the query; Johanna only
	// matches by first-name prefix
	assert.Equal(t, "m3", got[0].ID)
	assert.Equal(t, "m1", got[1].ID)
	assert.Equal(t, "m2", got[2].ID)
}

func TestFuzzySearch_LastNamePrefix(t *testing.T) {
	got := FuzzySearch(searchRoster(), "smy", "", 10)

	require.Len(t, got, 1)
	assert.Equal(t, "m2", got[0].ID)
}

func TestFuzzySearch_GenderFilter(t *testing.T) {
	got := FuzzySearch(searchRoster(), "john", model.GenderFemale, 10)

	require.Len(t, got, 1)
	assert.Equal(t, "m2", got[0].ID)
}

func TestFuzzySearch_ExcludesInactive(t *testing.T) {
	got := FuzzySearch(searchRoster(), "smith", "", 10)

	for _, m := range got {
		assert.NotEqual(t, "m4", m.ID)
	}
}

func TestFuzzySearch_EmptyQueryListsActive(t *testing.T) {
	got := FuzzySearch(searchRoster(), "", "", 2)
	assert.Len(t, got, 2)
}

func TestFuzzySearch_NonPositiveLimit(t *testing.T) {
	assert.Empty(t, FuzzySearch(searchRoster(), "john", "", 0))
	assert.Empty(t, FuzzySearch(searchRoster(), "john", "", -1))
	assert.Empty(t, FuzzySearch(searchRoster(), "", "", -1))
}
