package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ntc490/mls3/pkg/core/model"
	"github.com/ntc490/mls3/pkg/db"
)

// UnitWithMember pairs a unit with its resolved member for display
type UnitWithMember struct {
	Unit   model.Unit
	Member *model.Member // nil when no member is selected
}

// AgendaResult is the day sheet for one service date
type AgendaResult struct {
	Date         string
	Prayers      []UnitWithMember
	Appointments []UnitWithMember
}

func prayerOrder(category string) int {
	switch category {
	case model.PrayerOpening:
		return 0
	case model.PrayerClosing:
		return 2
	default:
		return 1
	}
}

// Agenda collects everything scheduled for a date: the prayer slots and the
// appointments, each with the member resolved. Cancelled units are omitted.
func Agenda(ctx context.Context, database db.Database, logger *zap.Logger, date string) (*AgendaResult, error) {
	if _, err := time.Parse(model.DateFormat, date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	units, err := database.GetUnits(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch units: %w", err)
	}

	members, err := database.GetMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}
	byID := make(map[string]*model.Member, len(members))
	for i := range members {
		byID[members[i].ID] = &members[i]
	}

	result := &AgendaResult{Date: date}
	for _, u := range units {
		if u.Date != date || u.State == model.StateCancelled {
			continue
		}
		entry := UnitWithMember{Unit: u, Member: byID[u.MemberID]}
		if u.Kind == model.KindPrayer {
			result.Prayers = append(result.Prayers, entry)
		} else {
			result.Appointments = append(result.Appointments, entry)
		}
	}

	// Opening before closing, appointments by time
	sort.Slice(result.Prayers, func(i, j int) bool {
		return prayerOrder(result.Prayers[i].Unit.Category) < prayerOrder(result.Prayers[j].Unit.Category)
	})
	sort.Slice(result.Appointments, func(i, j int) bool {
		return result.Appointments[i].Unit.Time < result.Appointments[j].Unit.Time
	})

	logger.Debug("Agenda built",
		zap.String("date", date),
		zap.Int("prayers", len(result.Prayers)),
		zap.Int("appointments", len(result.Appointments)))

	return result, nil
}

// MemberHistory returns a member's units, most recent first
func MemberHistory(ctx context.Context, database db.Database, logger *zap.Logger, memberID string) (*model.Member, []model.Unit, error) {
	member, err := database.GetMemberByID(ctx, memberID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch member: %w", err)
	}

	units, err := database.GetUnits(ctx, "")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch units: %w", err)
	}

	var history []model.Unit
	for _, u := range units {
		if u.MemberID == memberID {
			history = append(history, u)
		}
	}
	sort.Slice(history, func(i, j int) bool {
		if history[i].Date != history[j].Date {
			return history[i].Date > history[j].Date
		}
		return history[i].Time > history[j].Time
	})

	return member, history, nil
}
