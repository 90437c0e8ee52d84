package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/ntc490/mls3/pkg/core/model"
)

// ErrNotFound is returned when a referenced member or unit does not exist
// in storage. Wrap it with the entity name and id.
var ErrNotFound = errors.New("not found")

// NotFoundf wraps ErrNotFound with entity context
func NotFoundf(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
}

// MemberStore defines roster storage operations
type MemberStore interface {
	GetMembers(ctx context.Context) ([]model.Member, error)
	GetMemberByID(ctx context.Context, id string) (*model.Member, error)
	InsertMember(ctx context.Context, member *model.Member) error
	UpdateMember(ctx context.Context, member *model.Member) error
}

// UnitStore defines schedulable unit storage operations.
// A kind of "" matches all units.
type UnitStore interface {
	GetUnits(ctx context.Context, kind model.Kind) ([]model.Unit, error)
	GetUnitByID(ctx context.Context, id string) (*model.Unit, error)
	InsertUnit(ctx context.Context, unit *model.Unit) error
	UpdateUnit(ctx context.Context, unit *model.Unit) error
	DeleteUnit(ctx context.Context, id string) error
}

// AppointmentTypeStore provides the appointment type registry
type AppointmentTypeStore interface {
	GetAppointmentTypes(ctx context.Context) ([]model.AppointmentType, error)
}

// Database is the full storage surface. Both the CSV-backed csvdb.DB and
// postgres.DB implement this interface.
type Database interface {
	MemberStore
	UnitStore
	AppointmentTypeStore
}
