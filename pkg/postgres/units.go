package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ntc490/mls3/pkg/core/model"
	"github.com/ntc490/mls3/pkg/db"
)

var _ db.Database = (*DB)(nil)

const unitColumns = `
	id, kind, member_id, date, category, state, time, duration_minutes,
	conductor, google_event_id, created_at, updated_at, completed_at
`

func scanUnit(row pgx.Row) (model.Unit, error) {
	var u model.Unit
	var kind, state string
	var date time.Time
	var createdAt, updatedAt, completedAt *time.Time
	err := row.Scan(
		&u.ID, &kind, &u.MemberID, &date, &u.Category, &state, &u.Time,
		&u.DurationMinutes, &u.Conductor, &u.GoogleEventID,
		&createdAt, &updatedAt, &completedAt,
	)
	if err != nil {
		return model.Unit{}, err
	}
	u.Kind = model.Kind(kind)
	u.State = model.State(state)
	u.Date = date.Format(model.DateFormat)
	u.CreatedAt = formatDate(createdAt)
	u.UpdatedAt = formatDate(updatedAt)
	u.CompletedAt = formatDate(completedAt)
	return u, nil
}

// GetUnits retrieves all schedulable units, optionally filtered by kind
func (d *DB) GetUnits(ctx context.Context, kind model.Kind) ([]model.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM unit`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = $1`
		args = append(args, string(kind))
	}
	query += ` ORDER BY date, time`

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query units: %w", err)
	}
	defer rows.Close()

	var units []model.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating units: %w", err)
	}
	return units, nil
}

// GetUnitByID retrieves a single unit
func (d *DB) GetUnitByID(ctx context.Context, id string) (*model.Unit, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+unitColumns+` FROM unit WHERE id = $1`, id)
	u, err := scanUnit(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.NotFoundf("unit", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get unit: %w", err)
	}
	return &u, nil
}

// InsertUnit inserts a new unit record
func (d *DB) InsertUnit(ctx context.Context, unit *model.Unit) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO unit (`+unitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		unit.ID, string(unit.Kind), unit.MemberID, unit.Date, unit.Category,
		string(unit.State), unit.Time, unit.DurationMinutes, unit.Conductor,
		unit.GoogleEventID, nullDate(unit.CreatedAt), nullDate(unit.UpdatedAt),
		nullDate(unit.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert unit: %w", err)
	}
	return nil
}

// UpdateUnit rewrites an existing unit record by id
func (d *DB) UpdateUnit(ctx context.Context, unit *model.Unit) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE unit SET
			member_id = $2, date = $3, category = $4, state = $5, time = $6,
			duration_minutes = $7, conductor = $8, google_event_id = $9,
			updated_at = $10, completed_at = $11
		WHERE id = $1
	`,
		unit.ID, unit.MemberID, unit.Date, unit.Category, string(unit.State),
		unit.Time, unit.DurationMinutes, unit.Conductor, unit.GoogleEventID,
		nullDate(unit.UpdatedAt), nullDate(unit.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to update unit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.NotFoundf("unit", unit.ID)
	}
	return nil
}

// DeleteUnit removes a unit record by id
func (d *DB) DeleteUnit(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM unit WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete unit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.NotFoundf("unit", id)
	}
	return nil
}

// GetAppointmentTypes retrieves the appointment type registry
func (d *DB) GetAppointmentTypes(ctx context.Context) ([]model.AppointmentType, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT name, default_duration, default_conductor
		FROM appointment_type ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointment types: %w", err)
	}
	defer rows.Close()

	var types []model.AppointmentType
	for rows.Next() {
		var t model.AppointmentType
		if err := rows.Scan(&t.Name, &t.DefaultDuration, &t.DefaultConductor); err != nil {
			return nil, fmt.Errorf("failed to scan appointment type: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointment types: %w", err)
	}
	return types, nil
}
