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

const memberColumns = `
	id, first_name, last_name, aka, gender, phone, birthday,
	recommend_expiration, last_prayer_date, dont_ask_prayer, active,
	skip_until, notes, flag
`

// formatDate renders a nullable DATE column as the model's string form
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(model.DateFormat)
}

// nullDate converts a model date string to a nullable DATE parameter
func nullDate(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func scanMember(row pgx.Row) (model.Member, error) {
	var m model.Member
	var gender string
	var birthday, recommendExp, lastPrayer, skipUntil *time.Time
	err := row.Scan(
		&m.ID, &m.FirstName, &m.LastName, &m.AKA, &gender, &m.Phone,
		&birthday, &recommendExp, &lastPrayer, &m.DontAskPrayer, &m.Active,
		&skipUntil, &m.Notes, &m.Flag,
	)
	if err != nil {
		return model.Member{}, err
	}
	m.Gender = model.Gender(gender)
	m.Birthday = formatDate(birthday)
	m.RecommendExpiration = formatDate(recommendExp)
	m.LastPrayerDate = formatDate(lastPrayer)
	m.SkipUntil = formatDate(skipUntil)
	return m, nil
}

// GetMembers retrieves the full member roster
func (d *DB) GetMembers(ctx context.Context) ([]model.Member, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+memberColumns+` FROM member ORDER BY last_name, first_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}
	return members, nil
}

// GetMemberByID retrieves a single member
func (d *DB) GetMemberByID(ctx context.Context, id string) (*model.Member, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM member WHERE id = $1`, id)
	m, err := scanMember(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.NotFoundf("member", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return &m, nil
}

// InsertMember inserts a new member record
func (d *DB) InsertMember(ctx context.Context, member *model.Member) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO member (`+memberColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		member.ID, member.FirstName, member.LastName, member.AKA,
		string(member.Gender), member.Phone, nullDate(member.Birthday),
		nullDate(member.RecommendExpiration), nullDate(member.LastPrayerDate),
		member.DontAskPrayer, member.Active, nullDate(member.SkipUntil),
		member.Notes, member.Flag,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// UpdateMember rewrites an existing member record by id
func (d *DB) UpdateMember(ctx context.Context, member *model.Member) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE member SET
			first_name = $2, last_name = $3, aka = $4, gender = $5,
			phone = $6, birthday = $7, recommend_expiration = $8,
			last_prayer_date = $9, dont_ask_prayer = $10, active = $11,
			skip_until = $12, notes = $13, flag = $14
		WHERE id = $1
	`,
		member.ID, member.FirstName, member.LastName, member.AKA,
		string(member.Gender), member.Phone, nullDate(member.Birthday),
		nullDate(member.RecommendExpiration), nullDate(member.LastPrayerDate),
		member.DontAskPrayer, member.Active, nullDate(member.SkipUntil),
		member.Notes, member.Flag,
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.NotFoundf("member", member.ID)
	}
	return nil
}
