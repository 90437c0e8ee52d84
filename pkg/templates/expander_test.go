package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntc490/mls3/pkg/core/model"
)

func fixedExpander(t *testing.T, now time.Time) *Expander {
	t.Helper()
	store := &Store{
		activities: map[string]map[string]string{},
		pleasantries: map[string][]string{
			"greetings": {"Hello", "Hi there"},
		},
	}
	e := NewExpander(store)
	e.pick = func(n int) int { return 0 }
	e.now = func() time.Time { return now }
	return e
}

func maleMember() *model.Member {
	return &model.Member{
		ID:        "m1",
		FirstName: "Jonathan",
		LastName:  "Smith",
		AKA:       "Jon",
		Gender:    model.GenderMale,
		Active:    true,
	}
}

func prayerFor(date string) *model.Unit {
	return &model.Unit{
		ID:       "u1",
		Kind:     model.KindPrayer,
		MemberID: "m1",
		Date:     date,
		Category: model.PrayerOpening,
		State:    model.StateInvited,
	}
}

func TestExpand_SimpleVariables(t *testing.T) {
	e := fixedExpander(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	unit := prayerFor("2026-03-08")

	got := e.Expand("Hi {first_name}, will you give the {prayer_type} prayer on {day_of_week}?", maleMember(), unit, nil)

	assert.Equal(t, "Hi Jon, will you give the opening prayer on Sunday?", got)
}

func TestExpand_UnknownVariableLeftAlone(t *testing.T) {
	e := fixedExpander(t, time.Now())

	got := e.Expand("Hello {no_such_var}!", maleMember(), nil, nil)
	assert.Equal(t, "Hello {no_such_var}!", got)
}

func TestExpand_ConditionalOnFlag(t *testing.T) {
	e := fixedExpander(t, time.Now())

	formal := maleMember()
	formal.Flag = "red"
	got := e.Expand("Dear {name|red?formal:casual}", formal, nil, nil)
	assert.Equal(t, "Dear Brother Smith", got)

	casual := maleMember()
	got = e.Expand("Dear {name|red?formal:casual}", casual, nil, nil)
	assert.Equal(t, "Dear Jon", got)
}

func TestExpand_FormalUsesSisterForWomen(t *testing.T) {
	e := fixedExpander(t, time.Now())
	member := maleMember()
	member.Gender = model.GenderFemale
	member.Flag = "red"

	got := e.Expand("{name|red?formal:casual}", member, nil, nil)
	assert.Equal(t, "Sister Smith", got)
}

func TestExpand_SmartDate(t *testing.T) {
	now := time.Date(2026, 3, 8, 7, 0, 0, 0, time.UTC)
	e := fixedExpander(t, now)

	tests := []struct {
		date string
		want string
	}{
		{"2026-03-08", "today"},
		{"2026-03-09", "tomorrow"},
		{"2026-03-15", "Sunday, March 15"},
	}
	for _, tt := range tests {
		got := e.Expand("{smart_date}", maleMember(), prayerFor(tt.date), nil)
		assert.Equal(t, tt.want, got)
	}
}

func TestExpand_RandomPleasantry(t *testing.T) {
	e := fixedExpander(t, time.Now())

	got := e.Expand("{random:greetings} {first_name}", maleMember(), nil, nil)
	assert.Equal(t, "Hello Jon", got)
}

func TestExpand_RandomUnknownListEmpty(t *testing.T) {
	e := fixedExpander(t, time.Now())

	got := e.Expand("{random:nope}hi", maleMember(), nil, nil)
	assert.Equal(t, "hi", got)
}

func TestExpand_AppointmentContext(t *testing.T) {
	e := fixedExpander(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	unit := &model.Unit{
		ID:              "u2",
		Kind:            model.KindAppointment,
		MemberID:        "m1",
		Date:            "2026-03-10",
		Category:        "Temple Recommend",
		State:           model.StateInvited,
		Time:            "15:05",
		DurationMinutes: 15,
		Conductor:       "Bishop",
	}

	got := e.Expand("{appointment_type} with {conductor} at {time} on {date}", maleMember(), unit, nil)
	assert.Equal(t, "Temple Recommend with Bishop at 3:05 PM on March 10, 2026", got)
}

func TestExpand_ExtraOverridesContext(t *testing.T) {
	e := fixedExpander(t, time.Now())

	got := e.Expand("{first_name}", maleMember(), nil, map[string]string{"first_name": "Friend"})
	assert.Equal(t, "Friend", got)
}

func TestStore_GetWithFallback(t *testing.T) {
	store := &Store{
		activities: map[string]map[string]string{
			"appointment": {"default_invite": "generic"},
			"interview":   {"invite": "specific"},
		},
	}

	assert.Equal(t, "specific", store.GetWithFallback("interview", "invite", "default_invite"))
	assert.Equal(t, "generic", store.GetWithFallback("appointment", "missing", "default_invite"))
	assert.Equal(t, "", store.GetWithFallback("nope", "missing", "also_missing"))
}

func TestLoad_MissingFileYieldsEmptyStore(t *testing.T) {
	store, err := Load("/does/not/exist.yaml")

	require.NoError(t, err)
	assert.Equal(t, "", store.Get("prayer", "invite"))
}
