package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntc490/mls3/internal/config"
	"github.com/ntc490/mls3/pkg/core/model"
)

func appointmentFixture() *mockDB {
	return &mockDB{
		members: []model.Member{
			{ID: "m1", FirstName: "John", LastName: "Smith", Gender: model.GenderMale, Active: true},
		},
		types: []model.AppointmentType{
			{Name: "Temple Recommend", DefaultDuration: 15, DefaultConductor: "Bishop"},
			{Name: "Interview", DefaultDuration: 30, DefaultConductor: "Counselor"},
		},
	}
}

func TestScheduleAppointment_TypeDefaults(t *testing.T) {
	database := appointmentFixture()

	unit, err := ScheduleAppointment(context.Background(), database, testLogger, AppointmentRequest{
		MemberID: "m1",
		Type:     "Temple Recommend",
		Date:     futureDate(5),
		Time:     "11:15",
	})

	require.NoError(t, err)
	assert.Equal(t, model.KindAppointment, unit.Kind)
	assert.Equal(t, model.StateDraft, unit.State)
	assert.Equal(t, 15, unit.DurationMinutes)
	assert.Equal(t, "Bishop", unit.Conductor)
	assert.Equal(t, "Temple Recommend", unit.Category)
}

func TestScheduleAppointment_OverridesBeatDefaults(t *testing.T) {
	database := appointmentFixture()

	unit, err := ScheduleAppointment(context.Background(), database, testLogger, AppointmentRequest{
		MemberID:        "m1",
		Type:            "Temple Recommend",
		Date:            futureDate(5),
		Time:            "11:15",
		DurationMinutes: 45,
		Conductor:       "Counselor",
	})

	require.NoError(t, err)
	assert.Equal(t, 45, unit.DurationMinutes)
	assert.Equal(t, "Counselor", unit.Conductor)
}

func TestScheduleAppointment_UnknownType(t *testing.T) {
	database := appointmentFixture()

	_, err := ScheduleAppointment(context.Background(), database, testLogger, AppointmentRequest{
		MemberID: "m1",
		Type:     "Haircut",
		Date:     futureDate(5),
	})
	require.Error(t, err)
}

func TestScheduleAppointment_PastDate(t *testing.T) {
	database := appointmentFixture()

	_, err := ScheduleAppointment(context.Background(), database, testLogger, AppointmentRequest{
		MemberID: "m1",
		Type:     "Interview",
		Date:     "2020-06-01",
	})
	require.Error(t, err)
}

func TestUpdateAppointment_PartialUpdate(t *testing.T) {
	database := appointmentFixture()
	database.units = []model.Unit{
		{ID: "u1", Kind: model.KindAppointment, MemberID: "m1", Date: futureDate(5), Category: "Interview", State: model.StateAccepted, Time: "11:00", DurationMinutes: 30, Conductor: "Bishop"},
	}

	newTime := "11:30"
	result, err := UpdateAppointment(context.Background(), database, testLogger, "u1", AppointmentUpdate{Time: &newTime})

	require.NoError(t, err)
	assert.Equal(t, "11:30", result.Unit.Time)
	assert.Equal(t, "Bishop", result.Unit.Conductor)
	assert.Equal(t, "Bishop", result.PrevConductor)
}

func TestUpdateAppointment_ConductorChangeReported(t *testing.T) {
	database := appointmentFixture()
	database.units = []model.Unit{
		{ID: "u1", Kind: model.KindAppointment, MemberID: "m1", Date: futureDate(5), Category: "Interview", State: model.StateAccepted, Time: "11:00", DurationMinutes: 30, Conductor: "Bishop"},
	}

	newConductor := "Counselor"
	result, err := UpdateAppointment(context.Background(), database, testLogger, "u1", AppointmentUpdate{Conductor: &newConductor})

	require.NoError(t, err)
	assert.Equal(t, "Bishop", result.PrevConductor)
	assert.Equal(t, "Counselor", result.Unit.Conductor)
}

func TestUpdateAppointment_TerminalRejected(t *testing.T) {
	database := appointmentFixture()
	database.units = []model.Unit{
		{ID: "u1", Kind: model.KindAppointment, MemberID: "m1", Date: futureDate(5), Category: "Interview", State: model.StateCompleted},
	}

	newTime := "11:30"
	_, err := UpdateAppointment(context.Background(), database, testLogger, "u1", AppointmentUpdate{Time: &newTime})
	require.Error(t, err)
}

func defaultWindow() config.AppointmentWindow {
	return config.AppointmentWindow{Start: "11:00", End: "12:00", StepMinutes: 5}
}

func TestSuggestAppointmentTime_EmptyDay(t *testing.T) {
	database := appointmentFixture()

	slot, err := SuggestAppointmentTime(context.Background(), database, testLogger, defaultWindow(), futureDate(5), 30)

	require.NoError(t, err)
	assert.Equal(t, "11:00", slot)
}

func TestSuggestAppointmentTime_SkipsBusySlots(t *testing.T) {
	date := futureDate(5)
	database := appointmentFixture()
	database.units = []model.Unit{
		{ID: "u1", Kind: model.KindAppointment, Date: date, Category: "Interview", State: model.StateAccepted, Time: "11:00", DurationMinutes: 15},
	}

	slot, err := SuggestAppointmentTime(context.Background(), database, testLogger, defaultWindow(), date, 30)

	require.NoError(t, err)
	assert.Equal(t, "11:15", slot)
}

func TestSuggestAppointmentTime_CancelledFreesSlot(t *testing.T) {
	date := futureDate(5)
	database := appointmentFixture()
	database.units = []model.Unit{
		{ID: "u1", Kind: model.KindAppointment, Date: date, Category: "Interview", State: model.StateCancelled, Time: "11:00", DurationMinutes: 60},
	}

	slot, err := SuggestAppointmentTime(context.Background(), database, testLogger, defaultWindow(), date, 30)

	require.NoError(t, err)
	assert.Equal(t, "11:00", slot)
}

func TestSuggestAppointmentTime_FullWindow(t *testing.T) {
	date := futureDate(5)
	database := appointmentFixture()
	database.units = []model.Unit{
		{ID: "u1", Kind: model.KindAppointment, Date: date, Category: "Interview", State: model.StateAccepted, Time: "11:00", DurationMinutes: 60},
	}

	_, err := SuggestAppointmentTime(context.Background(), database, testLogger, defaultWindow(), date, 30)
	require.Error(t, err)
}
