package csvdb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ntc490/mls3/pkg/core/model"
	"github.com/ntc490/mls3/pkg/db"
)

var memberHeader = []string{
	"member_id", "first_name", "last_name", "aka", "gender", "phone",
	"birthday", "recommend_expiration", "last_prayer_date",
	"dont_ask_prayer", "active", "skip_until", "notes", "flag",
}

func memberToRow(m *model.Member) []string {
	return []string{
		m.ID, m.FirstName, m.LastName, m.AKA, string(m.Gender), m.Phone,
		m.Birthday, m.RecommendExpiration, m.LastPrayerDate,
		strconv.FormatBool(m.DontAskPrayer), strconv.FormatBool(m.Active),
		m.SkipUntil, m.Notes, m.Flag,
	}
}

func rowToMember(row []string) (model.Member, error) {
	if len(row) < len(memberHeader) {
		return model.Member{}, fmt.Errorf("member row has %d fields, want %d", len(row), len(memberHeader))
	}
	dontAsk, err := strconv.ParseBool(row[9])
	if err != nil {
		return model.Member{}, fmt.Errorf("bad dont_ask_prayer value %q: %w", row[9], err)
	}
	active, err := strconv.ParseBool(row[10])
	if err != nil {
		return model.Member{}, fmt.Errorf("bad active value %q: %w", row[10], err)
	}
	return model.Member{
		ID:                  row[0],
		FirstName:           row[1],
		LastName:            row[2],
		AKA:                 row[3],
		Gender:              model.Gender(row[4]),
		Phone:               row[5],
		Birthday:            row[6],
		RecommendExpiration: row[7],
		LastPrayerDate:      row[8],
		DontAskPrayer:       dontAsk,
		Active:              active,
		SkipUntil:           row[11],
		Notes:               row[12],
		Flag:                row[13],
	}, nil
}

func (d *DB) loadMembers() ([]model.Member, error) {
	rows, err := readAll(d.membersPath)
	if err != nil {
		return nil, err
	}

	members := make([]model.Member, 0, len(rows))
	for i, row := range rows {
		m, err := rowToMember(row)
		if err != nil {
			return nil, fmt.Errorf("members.csv row %d: %w", i+2, err)
		}
		members = append(members, m)
	}
	return members, nil
}

func (d *DB) saveMembers(members []model.Member) error {
	rows := make([][]string, 0, len(members))
	for i := range members {
		rows = append(rows, memberToRow(&members[i]))
	}
	return writeAll(d.membersPath, memberHeader, rows)
}

// GetMembers loads the full member roster
func (d *DB) GetMembers(ctx context.Context) ([]model.Member, error) {
	return d.loadMembers()
}

// GetMemberByID loads a single member
func (d *DB) GetMemberByID(ctx context.Context, id string) (*model.Member, error) {
	members, err := d.loadMembers()
	if err != nil {
		return nil, err
	}
	for i := range members {
		if members[i].ID == id {
			return &members[i], nil
		}
	}
	return nil, db.NotFoundf("member", id)
}

// InsertMember appends a new member record
func (d *DB) InsertMember(ctx context.Context, member *model.Member) error {
	members, err := d.loadMembers()
	if err != nil {
		return err
	}
	members = append(members, *member)
	return d.saveMembers(members)
}

// UpdateMember rewrites an existing member record by id
func (d *DB) UpdateMember(ctx context.Context, member *model.Member) error {
	members, err := d.loadMembers()
	if err != nil {
		return err
	}
	for i := range members {
		if members[i].ID == member.ID {
			members[i] = *member
			return d.saveMembers(members)
		}
	}
	return db.NotFoundf("member", member.ID)
}
