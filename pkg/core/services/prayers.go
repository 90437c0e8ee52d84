package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/ntc490/mls3/pkg/core/model"
	"github.com/ntc490/mls3/pkg/core/selector"
	"github.com/ntc490/mls3/pkg/db"
)

// NextServiceDate returns the next service occurrence on or after the given
// time, truncated to a date
func NextServiceDate(rule *rrule.RRule, from time.Time) time.Time {
	next := rule.After(from, true)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC)
}

// prayerSlots returns the live prayer units already scheduled for a date.
// Cancelled units free their slot; everything else occupies one.
func prayerSlots(units []model.Unit, date string) []model.Unit {
	var slots []model.Unit
	for _, u := range units {
		if u.Date == date && u.State != model.StateCancelled {
			slots = append(slots, u)
		}
	}
	return slots
}

func siblingCategory(category string) string {
	if category == model.PrayerOpening {
		return model.PrayerClosing
	}
	return model.PrayerOpening
}

// CreatePrayerAssignment drafts a prayer slot for the given service date.
// A date carries at most two slots (opening and closing); when the first
// slot already has a finalized type the new slot takes the other one.
// category may be empty, which leaves the type undecided.
func CreatePrayerAssignment(ctx context.Context, database db.Database, logger *zap.Logger, date, category string) (*model.Unit, error) {
	serviceDate, err := time.Parse(model.DateFormat, date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	today := time.Now().Format(model.DateFormat)
	if date < today {
		return nil, fmt.Errorf("cannot create an assignment for past date %s", serviceDate.Format(model.DisplayDateFormat))
	}

	if category != "" && category != model.PrayerOpening && category != model.PrayerClosing {
		return nil, fmt.Errorf("invalid prayer type %q", category)
	}

	units, err := database.GetUnits(ctx, model.KindPrayer)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prayer assignments: %w", err)
	}

	slots := prayerSlots(units, date)
	if len(slots) >= 2 {
		return nil, fmt.Errorf("both prayer slots for %s already exist", date)
	}

	if category == "" {
		category = model.PrayerUndecided
	}

	if len(slots) == 1 {
		sibling := slots[0]
		if sibling.CategoryFinalized() {
			if category == sibling.Category {
				return nil, fmt.Errorf("a %s prayer for %s already exists", category, date)
			}
			// The remaining slot can only be the other type
			category = siblingCategory(sibling.Category)
		}
	}

	now := time.Now().Format(model.DateFormat)
	unit := &model.Unit{
		ID:        uuid.New().String(),
		Kind:      model.KindPrayer,
		Date:      date,
		Category:  category,
		State:     model.StateDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := database.InsertUnit(ctx, unit); err != nil {
		return nil, fmt.Errorf("failed to insert prayer assignment: %w", err)
	}

	logger.Info("Prayer assignment created",
		zap.String("unit_id", unit.ID),
		zap.String("date", date),
		zap.String("prayer_type", category))

	return unit, nil
}

// SetPrayerType finalizes the prayer type for a slot. The sibling slot on the
// same date, if still open, flips to the opposite type so the pair stays
// consistent.
func SetPrayerType(ctx context.Context, database db.Database, logger *zap.Logger, unitID, category string) (*model.Unit, error) {
	if category != model.PrayerOpening && category != model.PrayerClosing {
		return nil, fmt.Errorf("invalid prayer type %q", category)
	}

	unit, err := database.GetUnitByID(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unit: %w", err)
	}
	if unit.Kind != model.KindPrayer {
		return nil, fmt.Errorf("unit %s is not a prayer assignment", unitID)
	}
	if unit.State.IsTerminal() {
		return nil, fmt.Errorf("cannot change prayer type of a %s assignment", unit.State)
	}

	unit.Category = category
	unit.UpdatedAt = time.Now().Format(model.DateFormat)
	if err := database.UpdateUnit(ctx, unit); err != nil {
		return nil, fmt.Errorf("failed to persist unit: %w", err)
	}

	logger.Info("Prayer type set",
		zap.String("unit_id", unitID),
		zap.String("prayer_type", category))

	// Flip the sibling slot so one date never holds two of the same type
	units, err := database.GetUnits(ctx, model.KindPrayer)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prayer assignments: %w", err)
	}
	for i := range units {
		sibling := &units[i]
		if sibling.ID == unit.ID || sibling.Date != unit.Date || sibling.State.IsTerminal() {
			continue
		}
		if sibling.Category != siblingCategory(category) {
			sibling.Category = siblingCategory(category)
			sibling.UpdatedAt = unit.UpdatedAt
			if err := database.UpdateUnit(ctx, sibling); err != nil {
				return nil, fmt.Errorf("failed to persist sibling slot: %w", err)
			}
			logger.Debug("Sibling slot flipped",
				zap.String("unit_id", sibling.ID),
				zap.String("prayer_type", sibling.Category))
		}
	}

	return unit, nil
}

// AssignMember selects a member for a drafted unit
func AssignMember(ctx context.Context, database db.Database, logger *zap.Logger, unitID, memberID string) (*model.Unit, error) {
	unit, err := database.GetUnitByID(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unit: %w", err)
	}
	if unit.State != model.StateDraft {
		return nil, fmt.Errorf("cannot change member selection in state %s", unit.State)
	}

	member, err := database.GetMemberByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member: %w", err)
	}
	if !member.Active {
		return nil, fmt.Errorf("%s is not an active member", member.FullName())
	}

	// One member per date per kind
	units, err := database.GetUnits(ctx, unit.Kind)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch units: %w", err)
	}
	for _, other := range units {
		if other.ID != unit.ID && other.Date == unit.Date && other.MemberID == memberID && !other.State.IsTerminal() {
			return nil, fmt.Errorf("%s is already scheduled on %s", member.FullName(), unit.Date)
		}
	}

	unit.MemberID = memberID
	unit.UpdatedAt = time.Now().Format(model.DateFormat)
	if err := database.UpdateUnit(ctx, unit); err != nil {
		return nil, fmt.Errorf("failed to persist unit: %w", err)
	}

	logger.Info("Member assigned",
		zap.String("unit_id", unitID),
		zap.String("member_id", memberID),
		zap.String("member", member.FullName()))

	return unit, nil
}

// NextCandidates returns the fair-rotation candidate list for a prayer slot.
// Members already holding a live prayer assignment are excluded so two slots
// never converge on the same person.
func NextCandidates(ctx context.Context, database db.Database, logger *zap.Logger, gender model.Gender, limit int) ([]selector.Candidate, error) {
	members, err := database.GetMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}

	units, err := database.GetUnits(ctx, model.KindPrayer)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prayer assignments: %w", err)
	}

	excludeIDs := make(map[string]bool)
	for _, u := range units {
		if u.HasMember() && !u.State.IsTerminal() {
			excludeIDs[u.MemberID] = true
		}
	}

	today := time.Now()
	candidates := selector.CandidatesWithContext(members, gender, excludeIDs, limit, today)

	logger.Debug("Candidates selected",
		zap.String("gender", string(gender)),
		zap.Int("excluded", len(excludeIDs)),
		zap.Int("count", len(candidates)))

	return candidates, nil
}
