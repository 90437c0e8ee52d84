package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ntc490/mls3/pkg/core/model"
	"github.com/ntc490/mls3/pkg/db"
)

var testLogger = zap.NewNop()

// mockDB is an in-memory db.Database for service tests
type mockDB struct {
	members []model.Member
	units   []model.Unit
	types   []model.AppointmentType

	getMembersErr error
	getUnitsErr   error
	updateErr     error
}

var _ db.Database = (*mockDB)(nil)

func (m *mockDB) GetMembers(ctx context.Context) ([]model.Member, error) {
	if m.getMembersErr != nil {
		return nil, m.getMembersErr
	}
	out := make([]model.Member, len(m.members))
	copy(out, m.members)
	return out, nil
}

func (m *mockDB) GetMemberByID(ctx context.Context, id string) (*model.Member, error) {
	for i := range m.members {
		if m.members[i].ID == id {
			member := m.members[i]
			return &member, nil
		}
	}
	return nil, db.NotFoundf("member", id)
}

func (m *mockDB) InsertMember(ctx context.Context, member *model.Member) error {
	m.members = append(m.members, *member)
	return nil
}

func (m *mockDB) UpdateMember(ctx context.Context, member *model.Member) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	for i := range m.members {
		if m.members[i].ID == member.ID {
			m.members[i] = *member
			return nil
		}
	}
	return db.NotFoundf("member", member.ID)
}

func (m *mockDB) GetUnits(ctx context.Context, kind model.Kind) ([]model.Unit, error) {
	if m.getUnitsErr != nil {
		return nil, m.getUnitsErr
	}
	var out []model.Unit
	for _, u := range m.units {
		if kind == "" || u.Kind == kind {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockDB) GetUnitByID(ctx context.Context, id string) (*model.Unit, error) {
	for i := range m.units {
		if m.units[i].ID == id {
			unit := m.units[i]
			return &unit, nil
		}
	}
	return nil, db.NotFoundf("unit", id)
}

func (m *mockDB) InsertUnit(ctx context.Context, unit *model.Unit) error {
	m.units = append(m.units, *unit)
	return nil
}

func (m *mockDB) UpdateUnit(ctx context.Context, unit *model.Unit) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	for i := range m.units {
		if m.units[i].ID == unit.ID {
			m.units[i] = *unit
			return nil
		}
	}
	return db.NotFoundf("unit", unit.ID)
}

func (m *mockDB) DeleteUnit(ctx context.Context, id string) error {
	for i := range m.units {
		if m.units[i].ID == id {
			m.units = append(m.units[:i], m.units[i+1:]...)
			return nil
		}
	}
	return db.NotFoundf("unit", id)
}

func (m *mockDB) GetAppointmentTypes(ctx context.Context) ([]model.AppointmentType, error) {
	return m.types, nil
}

func (m *mockDB) memberByID(id string) *model.Member {
	for i := range m.members {
		if m.members[i].ID == id {
			return &m.members[i]
		}
	}
	return nil
}

func (m *mockDB) unitByID(id string) *model.Unit {
	for i := range m.units {
		if m.units[i].ID == id {
			return &m.units[i]
		}
	}
	return nil
}
