package lifecycle

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntc490/mls3/pkg/core/model"
)

var testNow = time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)

func prayerUnit(state model.State) *model.Unit {
	return &model.Unit{
		ID:       "u1",
		Kind:     model.KindPrayer,
		MemberID: "m1",
		Date:     "2026-03-08",
		Category: model.PrayerOpening,
		State:    state,
	}
}

func appointmentUnit(state model.State) *model.Unit {
	return &model.Unit{
		ID:       "u2",
		Kind:     model.KindAppointment,
		MemberID: "m1",
		Date:     "2026-03-10",
		Category: "Temple Recommend",
		State:    state,
	}
}

func testMember() *model.Member {
	return &model.Member{ID: "m1", FirstName: "John", LastName: "Smith", Gender: model.GenderMale, Active: true}
}

func TestApply_LegalTransitions(t *testing.T) {
	tests := []struct {
		from    model.State
		trigger Trigger
		want    model.State
	}{
		{model.StateDraft, TriggerInvite, model.StateInvited},
		{model.StateInvited, TriggerAccept, model.StateAccepted},
		{model.StateInvited, TriggerDecline, model.StateDraft},
		{model.StateAccepted, TriggerCancel, model.StateDraft},
		{model.StateAccepted, TriggerRemind, model.StateReminded},
		{model.StateAccepted, TriggerComplete, model.StateCompleted},
		{model.StateReminded, TriggerCancel, model.StateDraft},
		{model.StateReminded, TriggerComplete, model.StateCompleted},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_"+string(tt.trigger), func(t *testing.T) {
			m := NewMachine()
			unit := prayerUnit(tt.from)

			err := m.Apply(unit, tt.trigger, testMember(), testNow)

			require.NoError(t, err)
			assert.Equal(t, tt.want, unit.State)
		})
	}
}

func TestApply_IllegalTransitionsRejected(t *testing.T) {
	tests := []struct {
		from    model.State
		trigger Trigger
	}{
		{model.StateDraft, TriggerAccept},
		{model.StateDraft, TriggerDecline},
		{model.StateDraft, TriggerRemind},
		{model.StateDraft, TriggerComplete},
		{model.StateDraft, TriggerCancel},
		{model.StateInvited, TriggerInvite},
		{model.StateInvited, TriggerRemind},
		{model.StateInvited, TriggerComplete},
		{model.StateInvited, TriggerCancel},
		{model.StateAccepted, TriggerInvite},
		{model.StateAccepted, TriggerAccept},
		{model.StateAccepted, TriggerDecline},
		{model.StateReminded, TriggerInvite},
		{model.StateReminded, TriggerAccept},
		{model.StateReminded, TriggerDecline},
		{model.StateReminded, TriggerRemind},
		{model.StateCompleted, TriggerInvite},
		{model.StateCompleted, TriggerAccept},
		{model.StateCompleted, TriggerDecline},
		{model.StateCompleted, TriggerRemind},
		{model.StateCompleted, TriggerComplete},
		{model.StateCompleted, TriggerCancel},
		{model.StateCancelled, TriggerInvite},
		{model.StateCancelled, TriggerComplete},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_"+string(tt.trigger), func(t *testing.T) {
			m := NewMachine()
			unit := prayerUnit(tt.from)

			err := m.Apply(unit, tt.trigger, testMember(), testNow)

			require.Error(t, err)
			assert.True(t, IsTransitionError(err))
			// Unit untouched on failure
			assert.Equal(t, tt.from, unit.State)
			assert.Equal(t, "m1", unit.MemberID)
		})
	}
}

func TestApply_InviteRequiresMember(t *testing.T) {
	m := NewMachine()
	unit := prayerUnit(model.StateDraft)
	unit.MemberID = ""

	err := m.Apply(unit, TriggerInvite, nil, testNow)

	require.Error(t, err)
	assert.True(t, IsTransitionError(err))
	assert.Equal(t, model.StateDraft, unit.State)
}

func TestApply_PrayerInviteAllowedWhileUndecided(t *testing.T) {
	m := NewMachine()
	unit := prayerUnit(model.StateDraft)
	unit.Category = model.PrayerUndecided

	err := m.Apply(unit, TriggerInvite, testMember(), testNow)

	require.NoError(t, err)
	assert.Equal(t, model.StateInvited, unit.State)
}

func TestApply_PrayerAcceptRequiresFinalizedType(t *testing.T) {
	m := NewMachine()
	unit := prayerUnit(model.StateInvited)
	unit.Category = model.PrayerUndecided

	err := m.Apply(unit, TriggerAccept, testMember(), testNow)

	require.Error(t, err)
	assert.True(t, IsTransitionError(err))
	assert.Equal(t, model.StateInvited, unit.State)
}

func TestApply_DeclineClearsMemberKeepsSlot(t *testing.T) {
	m := NewMachine()
	unit := prayerUnit(model.StateInvited)

	err := m.Apply(unit, TriggerDecline, testMember(), testNow)

	require.NoError(t, err)
	assert.Equal(t, model.StateDraft, unit.State)
	assert.Empty(t, unit.MemberID)
	assert.Equal(t, "2026-03-08", unit.Date)
	assert.Equal(t, model.PrayerOpening, unit.Category)
}

func TestApply_CancelClearsMember(t *testing.T) {
	m := NewMachine()
	unit := prayerUnit(model.StateAccepted)

	err := m.Apply(unit, TriggerCancel, testMember(), testNow)

	require.NoError(t, err)
	assert.Equal(t, model.StateDraft, unit.State)
	assert.Empty(t, unit.MemberID)
}

func TestApply_CompleteAdvancesRotation(t *testing.T) {
	m := NewMachine()
	unit := prayerUnit(model.StateAccepted)
	member := testMember()
	member.LastPrayerDate = "2026-01-04"

	err := m.Apply(unit, TriggerComplete, member, testNow)

	require.NoError(t, err)
	assert.Equal(t, model.StateCompleted, unit.State)
	assert.Equal(t, "2026-03-08", member.LastPrayerDate)
	assert.Equal(t, testNow.Format(model.DateFormat), unit.CompletedAt)
}

func TestApply_CompleteNeverMovesRotationBackward(t *testing.T) {
	m := NewMachine()
	unit := prayerUnit(model.StateAccepted)
	member := testMember()
	member.LastPrayerDate = "2026-04-05" // already ahead of the unit date

	err := m.Apply(unit, TriggerComplete, member, testNow)

	require.NoError(t, err)
	assert.Equal(t, "2026-04-05", member.LastPrayerDate)
}

func TestApply_AppointmentCompleteSkipsRotation(t *testing.T) {
	m := NewMachine()
	unit := appointmentUnit(model.StateAccepted)
	member := testMember()

	err := m.Apply(unit, TriggerComplete, member, testNow)

	require.NoError(t, err)
	assert.Empty(t, member.LastPrayerDate)
}

func TestApply_AbandonOnlyForAppointments(t *testing.T) {
	m := NewMachine()

	appt := appointmentUnit(model.StateAccepted)
	require.NoError(t, m.Apply(appt, TriggerAbandon, testMember(), testNow))
	assert.Equal(t, model.StateCancelled, appt.State)

	prayer := prayerUnit(model.StateAccepted)
	err := m.Apply(prayer, TriggerAbandon, testMember(), testNow)
	require.Error(t, err)
	assert.True(t, IsTransitionError(err))
}

func TestApply_ConcurrentTriggersSerialize(t *testing.T) {
	m := NewMachine()
	unit := prayerUnit(model.StateInvited)

	var mu sync.Mutex
	var errs []error
	var wg sync.WaitGroup

	// Two workers race to accept the same invitation. The loser must see
	// the post-transition state and fail, not double-apply.
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := m.Lock(unit.ID)
			defer unlock()
			err := m.Apply(unit, TriggerAccept, testMember(), testNow)
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, errs, 2)
	failures := 0
	for _, err := range errs {
		if err != nil {
			assert.True(t, IsTransitionError(err))
			failures++
		}
	}
	assert.Equal(t, 1, failures)
	assert.Equal(t, model.StateAccepted, unit.State)
}

func TestRetractMirror(t *testing.T) {
	assert.True(t, RetractMirror(prayerUnit(model.StateDraft)))
	assert.True(t, RetractMirror(prayerUnit(model.StateAccepted)))
	assert.True(t, RetractMirror(appointmentUnit(model.StateCancelled)))
	assert.False(t, RetractMirror(prayerUnit(model.StateCompleted)))
}

func TestTransitionError_Message(t *testing.T) {
	m := NewMachine()
	unit := prayerUnit(model.StateCompleted)

	err := m.Apply(unit, TriggerAccept, testMember(), testNow)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "u1")
	assert.Contains(t, err.Error(), string(model.StateCompleted))
}
