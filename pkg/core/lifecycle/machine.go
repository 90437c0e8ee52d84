package lifecycle

import (
	"time"

	"github.com/ntc490/mls3/pkg/core/model"
)

// Trigger is a workflow action requested against a unit
type Trigger string

const (
	TriggerInvite   Trigger = "invite"
	TriggerAccept   Trigger = "accept"
	TriggerDecline  Trigger = "decline"
	TriggerCancel   Trigger = "cancel"
	TriggerRemind   Trigger = "remind"
	TriggerComplete Trigger = "complete"
	TriggerAbandon  Trigger = "abandon"
)

type transitionKey struct {
	From    model.State
	Trigger Trigger
}

// transitions is the closed transition table. Any (state, trigger) pair
// missing from this map is an invalid transition.
var transitions = map[transitionKey]model.State{
	{model.StateDraft, TriggerInvite}:     model.StateInvited,
	{model.StateInvited, TriggerAccept}:   model.StateAccepted,
	{model.StateInvited, TriggerDecline}:  model.StateDraft,
	{model.StateAccepted, TriggerCancel}:  model.StateDraft,
	{model.StateReminded, TriggerCancel}:  model.StateDraft,
	{model.StateAccepted, TriggerRemind}:  model.StateReminded,
	{model.StateAccepted, TriggerComplete}: model.StateCompleted,
	{model.StateReminded, TriggerComplete}: model.StateCompleted,

	// Appointments can be called off for good once the member is engaged;
	// prayer slots instead reset to Draft via decline/cancel.
	{model.StateInvited, TriggerAbandon}:  model.StateCancelled,
	{model.StateAccepted, TriggerAbandon}: model.StateCancelled,
	{model.StateReminded, TriggerAbandon}: model.StateCancelled,
}

// KindConfig captures the per-kind workflow rules
type KindConfig struct {
	// AllowUndecidedInvite permits inviting before the category is finalized
	AllowUndecidedInvite bool
	// RequireFinalizedAccept rejects accept while the category is undecided
	RequireFinalizedAccept bool
	// UpdatesRotation advances the member's last prayer date on completion
	UpdatesRotation bool
	// AllowAbandon enables the abandon trigger (terminal cancellation)
	AllowAbandon bool
}

// ConfigFor returns the workflow rules for a unit kind
func ConfigFor(kind model.Kind) KindConfig {
	switch kind {
	case model.KindPrayer:
		return KindConfig{
			AllowUndecidedInvite:   true,
			RequireFinalizedAccept: true,
			UpdatesRotation:        true,
		}
	case model.KindAppointment:
		return KindConfig{
			RequireFinalizedAccept: false,
			AllowAbandon:           true,
		}
	}
	return KindConfig{}
}

// Machine validates and applies lifecycle transitions for schedulable units
type Machine struct {
	locks *unitLocks
}

// NewMachine creates a state machine instance
func NewMachine() *Machine {
	return &Machine{locks: newUnitLocks()}
}

// Lock acquires the per-unit advisory lock and returns its release function.
// Callers hold it across the read-modify-write of a transition so concurrent
// triggers against the same unit serialize: the loser re-reads the
// post-transition state and fails the table lookup instead of corrupting it.
func (m *Machine) Lock(unitID string) func() {
	return m.locks.lock(unitID)
}

// Apply validates the trigger against the unit's current state and, if legal,
// mutates the unit (and the owning member on completion) in memory. The caller
// persists both records afterwards. On error the unit is left untouched.
func (m *Machine) Apply(unit *model.Unit, trigger Trigger, member *model.Member, now time.Time) error {
	cfg := ConfigFor(unit.Kind)

	target, ok := transitions[transitionKey{unit.State, trigger}]
	if !ok {
		return &TransitionError{
			UnitID:  unit.ID,
			State:   unit.State,
			Trigger: trigger,
			Reason:  "no transition defined",
		}
	}

	if err := m.checkGuards(unit, trigger, cfg); err != nil {
		return err
	}

	unit.State = target
	unit.UpdatedAt = now.Format(model.DateFormat)

	switch trigger {
	case TriggerDecline, TriggerCancel:
		// Selection reset: member cleared, category and date retained so a
		// replacement candidate can be picked without re-entering details
		unit.MemberID = ""
	case TriggerComplete:
		unit.CompletedAt = now.Format(model.DateFormat)
		if cfg.UpdatesRotation && member != nil {
			advanceRotationDate(member, unit.Date)
		}
	}

	return nil
}

func (m *Machine) checkGuards(unit *model.Unit, trigger Trigger, cfg KindConfig) error {
	fail := func(reason string) error {
		return &TransitionError{UnitID: unit.ID, State: unit.State, Trigger: trigger, Reason: reason}
	}

	switch trigger {
	case TriggerInvite:
		if !unit.HasMember() {
			return fail("no member selected")
		}
		if !cfg.AllowUndecidedInvite && !unit.CategoryFinalized() {
			return fail("category not finalized")
		}
	case TriggerAccept:
		if cfg.RequireFinalizedAccept && !unit.CategoryFinalized() {
			return fail("category not finalized")
		}
	case TriggerComplete:
		if cfg.UpdatesRotation && !unit.HasMember() {
			return fail("no member selected")
		}
	case TriggerAbandon:
		if !cfg.AllowAbandon {
			return fail("not supported for this unit kind")
		}
	}

	return nil
}

// advanceRotationDate raises the member's last prayer date to the unit date.
// The marker never moves backward, so completing a previously-queued unit
// out of order cannot make the member look overdue again.
func advanceRotationDate(member *model.Member, unitDate string) {
	if member.LastPrayerDate == "" || unitDate > member.LastPrayerDate {
		member.LastPrayerDate = unitDate
	}
}

// RetractMirror reports whether deleting the unit must also retract its
// external calendar mirror. Completed units keep their mirror as history.
func RetractMirror(unit *model.Unit) bool {
	return unit.State != model.StateCompleted
}
