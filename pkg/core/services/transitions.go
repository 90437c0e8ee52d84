package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ntc490/mls3/pkg/core/lifecycle"
	"github.com/ntc490/mls3/pkg/core/model"
	"github.com/ntc490/mls3/pkg/db"
)

// TransitionResult reports the outcome of a lifecycle transition
type TransitionResult struct {
	Unit *model.Unit
	// Member is the unit's member as of the transition. For decline and
	// cancel this is the member who was released from the unit.
	Member *model.Member
	// MirrorStale is set when the unit's calendar event no longer matches
	// and should be rewritten
	MirrorStale bool
}

// applyTransition runs a trigger against a unit under its advisory lock.
// The unit is re-read after the lock is held so a concurrent transition
// observed first wins and this one fails the table lookup.
func applyTransition(ctx context.Context, database db.Database, logger *zap.Logger, machine *lifecycle.Machine, unitID string, trigger lifecycle.Trigger, now time.Time) (*TransitionResult, error) {
	unlock := machine.Lock(unitID)
	defer unlock()

	unit, err := database.GetUnitByID(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unit: %w", err)
	}

	logger.Debug("Applying transition",
		zap.String("unit_id", unitID),
		zap.String("kind", string(unit.Kind)),
		zap.String("state", string(unit.State)),
		zap.String("trigger", string(trigger)))

	var member *model.Member
	if unit.HasMember() {
		member, err = database.GetMemberByID(ctx, unit.MemberID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch member: %w", err)
		}
	}

	if err := machine.Apply(unit, trigger, member, now); err != nil {
		return nil, err
	}

	if err := database.UpdateUnit(ctx, unit); err != nil {
		return nil, fmt.Errorf("failed to persist unit: %w", err)
	}

	if trigger == lifecycle.TriggerComplete && member != nil {
		if err := database.UpdateMember(ctx, member); err != nil {
			return nil, fmt.Errorf("failed to persist member rotation date: %w", err)
		}
		logger.Info("Rotation date advanced",
			zap.String("member_id", member.ID),
			zap.String("last_prayer_date", member.LastPrayerDate))
	}

	logger.Info("Transition applied",
		zap.String("unit_id", unitID),
		zap.String("trigger", string(trigger)),
		zap.String("new_state", string(unit.State)))

	return &TransitionResult{Unit: unit, Member: member, MirrorStale: unit.GoogleEventID != ""}, nil
}

// Invite moves a drafted unit with a selected member into the Invited state
func Invite(ctx context.Context, database db.Database, logger *zap.Logger, machine *lifecycle.Machine, unitID string) (*TransitionResult, error) {
	return applyTransition(ctx, database, logger, machine, unitID, lifecycle.TriggerInvite, time.Now())
}

// Accept records the member's yes
func Accept(ctx context.Context, database db.Database, logger *zap.Logger, machine *lifecycle.Machine, unitID string) (*TransitionResult, error) {
	return applyTransition(ctx, database, logger, machine, unitID, lifecycle.TriggerAccept, time.Now())
}

// Remind marks that a reminder was sent for an accepted unit
func Remind(ctx context.Context, database db.Database, logger *zap.Logger, machine *lifecycle.Machine, unitID string) (*TransitionResult, error) {
	return applyTransition(ctx, database, logger, machine, unitID, lifecycle.TriggerRemind, time.Now())
}

// Complete finishes the unit. For prayer units this also advances the
// member's rotation marker so they drop to the back of the queue.
func Complete(ctx context.Context, database db.Database, logger *zap.Logger, machine *lifecycle.Machine, unitID string) (*TransitionResult, error) {
	return applyTransition(ctx, database, logger, machine, unitID, lifecycle.TriggerComplete, time.Now())
}

// Cancel releases an accepted or reminded unit back to Draft so a
// replacement member can be selected
func Cancel(ctx context.Context, database db.Database, logger *zap.Logger, machine *lifecycle.Machine, unitID string) (*TransitionResult, error) {
	return applyTransition(ctx, database, logger, machine, unitID, lifecycle.TriggerCancel, time.Now())
}

// Abandon terminally cancels an appointment that will not be rescheduled
func Abandon(ctx context.Context, database db.Database, logger *zap.Logger, machine *lifecycle.Machine, unitID string) (*TransitionResult, error) {
	return applyTransition(ctx, database, logger, machine, unitID, lifecycle.TriggerAbandon, time.Now())
}

// Decline records the member's no and resets the unit to Draft. Declining a
// prayer also pushes the member's skip-until marker out so they are not asked
// again immediately; an appointment decline leaves their candidacy alone.
func Decline(ctx context.Context, database db.Database, logger *zap.Logger, machine *lifecycle.Machine, unitID string, skipWeeks int) (*TransitionResult, error) {
	now := time.Now()

	result, err := applyTransition(ctx, database, logger, machine, unitID, lifecycle.TriggerDecline, now)
	if err != nil {
		return nil, err
	}

	if result.Unit.Kind == model.KindPrayer && result.Member != nil && skipWeeks > 0 {
		skipUntil := now.AddDate(0, 0, 7*skipWeeks).Format(model.DateFormat)
		result.Member.SkipUntil = skipUntil
		if err := database.UpdateMember(ctx, result.Member); err != nil {
			return nil, fmt.Errorf("failed to persist member skip date: %w", err)
		}
		logger.Info("Member declined, skipping for a while",
			zap.String("member_id", result.Member.ID),
			zap.String("skip_until", skipUntil))
	}

	return result, nil
}

// DeleteResult reports a unit deletion and whether its calendar mirror
// must be retracted along with it
type DeleteResult struct {
	Unit          *model.Unit
	RetractMirror bool
}

// DeleteUnit removes a unit from storage. Completed units keep their
// calendar event as history; anything else signals a retraction.
func DeleteUnit(ctx context.Context, database db.Database, logger *zap.Logger, machine *lifecycle.Machine, unitID string) (*DeleteResult, error) {
	unlock := machine.Lock(unitID)
	defer unlock()

	unit, err := database.GetUnitByID(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unit: %w", err)
	}

	if err := database.DeleteUnit(ctx, unitID); err != nil {
		return nil, fmt.Errorf("failed to delete unit: %w", err)
	}

	retract := lifecycle.RetractMirror(unit) && unit.GoogleEventID != ""

	logger.Info("Unit deleted",
		zap.String("unit_id", unitID),
		zap.String("kind", string(unit.Kind)),
		zap.String("state", string(unit.State)),
		zap.Bool("retract_mirror", retract))

	return &DeleteResult{Unit: unit, RetractMirror: retract}, nil
}
