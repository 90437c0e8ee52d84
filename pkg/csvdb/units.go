package csvdb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ntc490/mls3/pkg/core/model"
	"github.com/ntc490/mls3/pkg/db"
)

// Prayer assignments and appointments live in separate CSV files with the
// layouts the data predates this tool with; both load into model.Unit.

var prayerHeader = []string{
	"assignment_id", "member_id", "date", "prayer_type", "state",
	"created_date", "last_updated", "completed_date", "google_event_id",
}

var appointmentHeader = []string{
	"appointment_id", "member_id", "appointment_type", "date", "time",
	"duration_minutes", "conductor", "state", "created_date", "last_updated",
	"completed_date", "google_event_id",
}

func prayerToRow(u *model.Unit) []string {
	return []string{
		u.ID, u.MemberID, u.Date, u.Category, string(u.State),
		u.CreatedAt, u.UpdatedAt, u.CompletedAt, u.GoogleEventID,
	}
}

func rowToPrayer(row []string) (model.Unit, error) {
	if len(row) < len(prayerHeader) {
		return model.Unit{}, fmt.Errorf("prayer row has %d fields, want %d", len(row), len(prayerHeader))
	}
	return model.Unit{
		ID:            row[0],
		Kind:          model.KindPrayer,
		MemberID:      row[1],
		Date:          row[2],
		Category:      row[3],
		State:         model.State(row[4]),
		CreatedAt:     row[5],
		UpdatedAt:     row[6],
		CompletedAt:   row[7],
		GoogleEventID: row[8],
	}, nil
}

func appointmentToRow(u *model.Unit) []string {
	return []string{
		u.ID, u.MemberID, u.Category, u.Date, u.Time,
		strconv.Itoa(u.DurationMinutes), u.Conductor, string(u.State),
		u.CreatedAt, u.UpdatedAt, u.CompletedAt, u.GoogleEventID,
	}
}

func rowToAppointment(row []string) (model.Unit, error) {
	if len(row) < len(appointmentHeader) {
		return model.Unit{}, fmt.Errorf("appointment row has %d fields, want %d", len(row), len(appointmentHeader))
	}
	duration, err := strconv.Atoi(row[5])
	if err != nil {
		return model.Unit{}, fmt.Errorf("bad duration_minutes value %q: %w", row[5], err)
	}
	return model.Unit{
		ID:              row[0],
		Kind:            model.KindAppointment,
		MemberID:        row[1],
		Category:        row[2],
		Date:            row[3],
		Time:            row[4],
		DurationMinutes: duration,
		Conductor:       row[6],
		State:           model.State(row[7]),
		CreatedAt:       row[8],
		UpdatedAt:       row[9],
		CompletedAt:     row[10],
		GoogleEventID:   row[11],
	}, nil
}

func (d *DB) loadUnitsOfKind(kind model.Kind) ([]model.Unit, error) {
	var path string
	var fromRow func([]string) (model.Unit, error)
	switch kind {
	case model.KindPrayer:
		path, fromRow = d.prayersPath, rowToPrayer
	case model.KindAppointment:
		path, fromRow = d.appointmentsPath, rowToAppointment
	default:
		return nil, fmt.Errorf("unknown unit kind %q", kind)
	}

	rows, err := readAll(path)
	if err != nil {
		return nil, err
	}

	units := make([]model.Unit, 0, len(rows))
	for i, row := range rows {
		u, err := fromRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		units = append(units, u)
	}
	return units, nil
}

func (d *DB) saveUnitsOfKind(kind model.Kind, units []model.Unit) error {
	switch kind {
	case model.KindPrayer:
		rows := make([][]string, 0, len(units))
		for i := range units {
			rows = append(rows, prayerToRow(&units[i]))
		}
		return writeAll(d.prayersPath, prayerHeader, rows)
	case model.KindAppointment:
		rows := make([][]string, 0, len(units))
		for i := range units {
			rows = append(rows, appointmentToRow(&units[i]))
		}
		return writeAll(d.appointmentsPath, appointmentHeader, rows)
	}
	return fmt.Errorf("unknown unit kind %q", kind)
}

// GetUnits loads all schedulable units of the given kind. A kind of ""
// loads prayers and appointments together.
func (d *DB) GetUnits(ctx context.Context, kind model.Kind) ([]model.Unit, error) {
	if kind != "" {
		return d.loadUnitsOfKind(kind)
	}

	prayers, err := d.loadUnitsOfKind(model.KindPrayer)
	if err != nil {
		return nil, err
	}
	appointments, err := d.loadUnitsOfKind(model.KindAppointment)
	if err != nil {
		return nil, err
	}
	return append(prayers, appointments...), nil
}

// GetUnitByID loads a single unit, searching both kinds
func (d *DB) GetUnitByID(ctx context.Context, id string) (*model.Unit, error) {
	units, err := d.GetUnits(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range units {
		if units[i].ID == id {
			return &units[i], nil
		}
	}
	return nil, db.NotFoundf("unit", id)
}

// InsertUnit appends a new unit record to its kind's file
func (d *DB) InsertUnit(ctx context.Context, unit *model.Unit) error {
	units, err := d.loadUnitsOfKind(unit.Kind)
	if err != nil {
		return err
	}
	units = append(units, *unit)
	return d.saveUnitsOfKind(unit.Kind, units)
}

// UpdateUnit rewrites an existing unit record by id
func (d *DB) UpdateUnit(ctx context.Context, unit *model.Unit) error {
	units, err := d.loadUnitsOfKind(unit.Kind)
	if err != nil {
		return err
	}
	for i := range units {
		if units[i].ID == unit.ID {
			units[i] = *unit
			return d.saveUnitsOfKind(unit.Kind, units)
		}
	}
	return db.NotFoundf("unit", unit.ID)
}

// DeleteUnit removes a unit record by id, searching both kinds
func (d *DB) DeleteUnit(ctx context.Context, id string) error {
	for _, kind := range []model.Kind{model.KindPrayer, model.KindAppointment} {
		units, err := d.loadUnitsOfKind(kind)
		if err != nil {
			return err
		}
		for i := range units {
			if units[i].ID == id {
				units = append(units[:i], units[i+1:]...)
				return d.saveUnitsOfKind(kind, units)
			}
		}
	}
	return db.NotFoundf("unit", id)
}
