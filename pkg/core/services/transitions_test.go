package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntc490/mls3/pkg/core/lifecycle"
	"github.com/ntc490/mls3/pkg/core/model"
)

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(model.DateFormat)
}

func transitionFixture() *mockDB {
	return &mockDB{
		members: []model.Member{
			{ID: "m1", FirstName: "John", LastName: "Smith", Gender: model.GenderMale, Active: true, Phone: "5551234"},
		},
		units: []model.Unit{
			{ID: "u1", Kind: model.KindPrayer, MemberID: "m1", Date: futureDate(7), Category: model.PrayerOpening, State: model.StateInvited},
			{ID: "u2", Kind: model.KindAppointment, MemberID: "m1", Date: futureDate(9), Category: "Temple Recommend", State: model.StateAccepted, Time: "11:00", DurationMinutes: 15, Conductor: "Bishop"},
		},
	}
}

func TestAccept_PersistsNewState(t *testing.T) {
	database := transitionFixture()
	machine := lifecycle.NewMachine()

	result, err := Accept(context.Background(), database, testLogger, machine, "u1")

	require.NoError(t, err)
	assert.Equal(t, model.StateAccepted, result.Unit.State)
	assert.Equal(t, model.StateAccepted, database.unitByID("u1").State)
}

func TestAccept_InvalidStateSurfacesTransitionError(t *testing.T) {
	database := transitionFixture()
	database.unitByID("u1").State = model.StateDraft
	machine := lifecycle.NewMachine()

	_, err := Accept(context.Background(), database, testLogger, machine, "u1")

	require.Error(t, err)
	assert.True(t, lifecycle.IsTransitionError(err))
	assert.Equal(t, model.StateDraft, database.unitByID("u1").State)
}

func TestDecline_SetsSkipUntil(t *testing.T) {
	database := transitionFixture()
	machine := lifecycle.NewMachine()

	result, err := Decline(context.Background(), database, testLogger, machine, "u1", 2)

	require.NoError(t, err)
	assert.Equal(t, model.StateDraft, result.Unit.State)
	assert.Empty(t, result.Unit.MemberID)

	wantSkip := time.Now().AddDate(0, 0, 14).Format(model.DateFormat)
	assert.Equal(t, wantSkip, database.memberByID("m1").SkipUntil)
}

func TestDecline_ZeroSkipWeeksLeavesMemberAlone(t *testing.T) {
	database := transitionFixture()
	machine := lifecycle.NewMachine()

	_, err := Decline(context.Background(), database, testLogger, machine, "u1", 0)

	require.NoError(t, err)
	assert.Empty(t, database.memberByID("m1").SkipUntil)
}

func TestDecline_AppointmentDoesNotSkipMember(t *testing.T) {
	database := transitionFixture()
	database.unitByID("u2").State = model.StateInvited
	machine := lifecycle.NewMachine()

	result, err := Decline(context.Background(), database, testLogger, machine, "u2", 2)

	require.NoError(t, err)
	assert.Equal(t, model.StateDraft, result.Unit.State)
	assert.Empty(t, database.memberByID("m1").SkipUntil)
}

func TestComplete_PersistsRotationDate(t *testing.T) {
	database := transitionFixture()
	unit := database.unitByID("u1")
	unit.State = model.StateAccepted
	machine := lifecycle.NewMachine()

	result, err := Complete(context.Background(), database, testLogger, machine, "u1")

	require.NoError(t, err)
	assert.Equal(t, model.StateCompleted, result.Unit.State)
	assert.Equal(t, unit.Date, database.memberByID("m1").LastPrayerDate)
}

func TestAbandon_Appointment(t *testing.T) {
	database := transitionFixture()
	machine := lifecycle.NewMachine()

	result, err := Abandon(context.Background(), database, testLogger, machine, "u2")

	require.NoError(t, err)
	assert.Equal(t, model.StateCancelled, result.Unit.State)
	// Abandon keeps the member attached for the record
	assert.Equal(t, "m1", result.Unit.MemberID)
}

func TestAbandon_PrayerRejected(t *testing.T) {
	database := transitionFixture()
	database.unitByID("u1").State = model.StateAccepted
	machine := lifecycle.NewMachine()

	_, err := Abandon(context.Background(), database, testLogger, machine, "u1")

	require.Error(t, err)
	assert.True(t, lifecycle.IsTransitionError(err))
}

func TestDeleteUnit_RetractsLiveMirror(t *testing.T) {
	database := transitionFixture()
	database.unitByID("u2").GoogleEventID = "evt1"
	machine := lifecycle.NewMachine()

	result, err := DeleteUnit(context.Background(), database, testLogger, machine, "u2")

	require.NoError(t, err)
	assert.True(t, result.RetractMirror)
	assert.Nil(t, database.unitByID("u2"))
}

func TestDeleteUnit_CompletedKeepsMirror(t *testing.T) {
	database := transitionFixture()
	unit := database.unitByID("u2")
	unit.State = model.StateCompleted
	unit.GoogleEventID = "evt1"
	machine := lifecycle.NewMachine()

	result, err := DeleteUnit(context.Background(), database, testLogger, machine, "u2")

	require.NoError(t, err)
	assert.False(t, result.RetractMirror)
}

func TestDeleteUnit_NoEventNoRetract(t *testing.T) {
	database := transitionFixture()
	machine := lifecycle.NewMachine()

	result, err := DeleteUnit(context.Background(), database, testLogger, machine, "u1")

	require.NoError(t, err)
	assert.False(t, result.RetractMirror)
}

func TestTransition_UnknownUnit(t *testing.T) {
	database := transitionFixture()
	machine := lifecycle.NewMachine()

	_, err := Accept(context.Background(), database, testLogger, machine, "nope")
	require.Error(t, err)
}
