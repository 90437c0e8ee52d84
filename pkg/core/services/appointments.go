package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ntc490/mls3/internal/config"
	"github.com/ntc490/mls3/pkg/core/model"
	"github.com/ntc490/mls3/pkg/db"
)

const clockFormat = "15:04"

// AppointmentRequest describes a new appointment to schedule. Duration and
// conductor fall back to the appointment type's defaults when unset.
type AppointmentRequest struct {
	MemberID        string
	Type            string
	Date            string
	Time            string
	DurationMinutes int
	Conductor       string
}

// ScheduleAppointment drafts an appointment for a member. The appointment
// type must exist in the type registry.
func ScheduleAppointment(ctx context.Context, database db.Database, logger *zap.Logger, req AppointmentRequest) (*model.Unit, error) {
	if _, err := time.Parse(model.DateFormat, req.Date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", req.Date, err)
	}
	today := time.Now().Format(model.DateFormat)
	if req.Date < today {
		return nil, fmt.Errorf("cannot schedule an appointment in the past")
	}
	if req.Time != "" {
		if _, err := time.Parse(clockFormat, req.Time); err != nil {
			return nil, fmt.Errorf("invalid time %q: %w", req.Time, err)
		}
	}

	member, err := database.GetMemberByID(ctx, req.MemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member: %w", err)
	}

	apptType, err := lookupAppointmentType(ctx, database, req.Type)
	if err != nil {
		return nil, err
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = apptType.DefaultDuration
	}
	conductor := req.Conductor
	if conductor == "" {
		conductor = apptType.DefaultConductor
	}

	now := time.Now().Format(model.DateFormat)
	unit := &model.Unit{
		ID:              uuid.New().String(),
		Kind:            model.KindAppointment,
		MemberID:        req.MemberID,
		Date:            req.Date,
		Category:        apptType.Name,
		State:           model.StateDraft,
		Time:            req.Time,
		DurationMinutes: duration,
		Conductor:       conductor,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := database.InsertUnit(ctx, unit); err != nil {
		return nil, fmt.Errorf("failed to insert appointment: %w", err)
	}

	logger.Info("Appointment scheduled",
		zap.String("unit_id", unit.ID),
		zap.String("member", member.FullName()),
		zap.String("type", apptType.Name),
		zap.String("date", req.Date),
		zap.String("time", req.Time))

	return unit, nil
}

func lookupAppointmentType(ctx context.Context, database db.AppointmentTypeStore, name string) (*model.AppointmentType, error) {
	types, err := database.GetAppointmentTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointment types: %w", err)
	}
	for i := range types {
		if types[i].Name == name {
			return &types[i], nil
		}
	}
	return nil, fmt.Errorf("unknown appointment type %q", name)
}

// AppointmentUpdate carries optional field changes for an appointment.
// Nil fields are left as they are.
type AppointmentUpdate struct {
	Date            *string
	Time            *string
	DurationMinutes *int
	Conductor       *string
}

// AppointmentUpdateResult reports the applied update. When the conductor
// changed, the calendar event must move to the new conductor's calendar.
type AppointmentUpdateResult struct {
	Unit          *model.Unit
	PrevConductor string
}

// UpdateAppointment reschedules or reassigns an appointment. Terminal
// appointments are immutable.
func UpdateAppointment(ctx context.Context, database db.Database, logger *zap.Logger, unitID string, upd AppointmentUpdate) (*AppointmentUpdateResult, error) {
	unit, err := database.GetUnitByID(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unit: %w", err)
	}
	if unit.Kind != model.KindAppointment {
		return nil, fmt.Errorf("unit %s is not an appointment", unitID)
	}
	if unit.State.IsTerminal() {
		return nil, fmt.Errorf("cannot modify a %s appointment", unit.State)
	}

	prevConductor := unit.Conductor

	if upd.Date != nil {
		if _, err := time.Parse(model.DateFormat, *upd.Date); err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", *upd.Date, err)
		}
		unit.Date = *upd.Date
	}
	if upd.Time != nil {
		if *upd.Time != "" {
			if _, err := time.Parse(clockFormat, *upd.Time); err != nil {
				return nil, fmt.Errorf("invalid time %q: %w", *upd.Time, err)
			}
		}
		unit.Time = *upd.Time
	}
	if upd.DurationMinutes != nil {
		if *upd.DurationMinutes <= 0 {
			return nil, fmt.Errorf("duration must be positive, got %d", *upd.DurationMinutes)
		}
		unit.DurationMinutes = *upd.DurationMinutes
	}
	if upd.Conductor != nil {
		unit.Conductor = *upd.Conductor
	}

	unit.UpdatedAt = time.Now().Format(model.DateFormat)
	if err := database.UpdateUnit(ctx, unit); err != nil {
		return nil, fmt.Errorf("failed to persist unit: %w", err)
	}

	logger.Info("Appointment updated",
		zap.String("unit_id", unitID),
		zap.String("date", unit.Date),
		zap.String("time", unit.Time),
		zap.String("conductor", unit.Conductor))

	return &AppointmentUpdateResult{Unit: unit, PrevConductor: prevConductor}, nil
}

// SuggestAppointmentTime finds the first open slot of the given duration in
// the configured window on a date, stepping through candidate start times and
// skipping any that would overlap an existing live appointment.
// Returns an error when the window has no room.
func SuggestAppointmentTime(ctx context.Context, database db.Database, logger *zap.Logger, window config.AppointmentWindow, date string, durationMinutes int) (string, error) {
	if durationMinutes <= 0 {
		return "", fmt.Errorf("duration must be positive, got %d", durationMinutes)
	}

	windowStart, err := time.Parse(clockFormat, window.Start)
	if err != nil {
		return "", fmt.Errorf("invalid window start %q: %w", window.Start, err)
	}
	windowEnd, err := time.Parse(clockFormat, window.End)
	if err != nil {
		return "", fmt.Errorf("invalid window end %q: %w", window.End, err)
	}

	units, err := database.GetUnits(ctx, model.KindAppointment)
	if err != nil {
		return "", fmt.Errorf("failed to fetch appointments: %w", err)
	}

	type interval struct{ start, end time.Time }
	var busy []interval
	for _, u := range units {
		if u.Date != date || u.Time == "" || u.State.IsTerminal() {
			continue
		}
		start, err := time.Parse(clockFormat, u.Time)
		if err != nil {
			continue
		}
		busy = append(busy, interval{start, start.Add(time.Duration(u.DurationMinutes) * time.Minute)})
	}

	duration := time.Duration(durationMinutes) * time.Minute
	step := time.Duration(window.StepMinutes) * time.Minute

	for candidate := windowStart; !candidate.Add(duration).After(windowEnd); candidate = candidate.Add(step) {
		candidateEnd := candidate.Add(duration)
		clear := true
		for _, b := range busy {
			if candidate.Before(b.end) && b.start.Before(candidateEnd) {
				clear = false
				break
			}
		}
		if clear {
			slot := candidate.Format(clockFormat)
			logger.Debug("Suggested appointment slot",
				zap.String("date", date),
				zap.String("time", slot),
				zap.Int("duration_minutes", durationMinutes))
			return slot, nil
		}
	}

	return "", fmt.Errorf("no free %d minute slot between %s and %s on %s", durationMinutes, window.Start, window.End, date)
}
