package model

import "time"

// Kind distinguishes the two schedulable unit variants
type Kind string

const (
	KindPrayer      Kind = "prayer"
	KindAppointment Kind = "appointment"
)

func (k Kind) IsValid() bool {
	return k == KindPrayer || k == KindAppointment
}

// State is a lifecycle state of a schedulable unit
type State string

const (
	StateDraft     State = "Draft"
	StateInvited   State = "Invited"
	StateAccepted  State = "Accepted"
	StateReminded  State = "Reminded"
	StateCompleted State = "Completed"
	StateCancelled State = "Cancelled"
)

func (s State) IsValid() bool {
	switch s {
	case StateDraft, StateInvited, StateAccepted, StateReminded, StateCompleted, StateCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are defined from s
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// Prayer categories. An appointment's category is a type name from the
// appointment type registry instead.
const (
	PrayerOpening   = "Opening"
	PrayerClosing   = "Closing"
	PrayerUndecided = "Undecided"
)

// Unit is a schedulable unit: a prayer assignment or an appointment.
// The appointment-only fields are zero for prayer units.
type Unit struct {
	ID       string
	Kind     Kind
	MemberID string // Empty until a member is selected
	Date     string // Date format
	Category string // Prayer type or appointment type name
	State    State

	// Appointment payload
	Time            string // "15:04", local
	DurationMinutes int
	Conductor       string

	GoogleEventID string

	CreatedAt   string
	UpdatedAt   string
	CompletedAt string
}

// DateObj parses the unit's scheduled date
func (u *Unit) DateObj() (time.Time, error) {
	return time.Parse(DateFormat, u.Date)
}

// StartTime parses the unit's scheduled date and time.
// Prayer units have no time component and resolve to midnight.
func (u *Unit) StartTime() (time.Time, error) {
	if u.Time == "" {
		return u.DateObj()
	}
	return time.Parse(DateFormat+" 15:04", u.Date+" "+u.Time)
}

// StartTimeIn is StartTime interpreted in the given location
func (u *Unit) StartTimeIn(loc *time.Location) (time.Time, error) {
	if u.Time == "" {
		return time.ParseInLocation(DateFormat, u.Date, loc)
	}
	return time.ParseInLocation(DateFormat+" 15:04", u.Date+" "+u.Time, loc)
}

// HasMember reports whether a member has been selected for the unit
func (u *Unit) HasMember() bool {
	return u.MemberID != ""
}

// CategoryFinalized reports whether the category field has been decided.
// Only prayer units carry an Undecided placeholder.
func (u *Unit) CategoryFinalized() bool {
	if u.Kind == KindPrayer {
		return u.Category == PrayerOpening || u.Category == PrayerClosing
	}
	return u.Category != ""
}

// AppointmentType describes an entry in the appointment type registry
type AppointmentType struct {
	Name             string `yaml:"name"`
	DefaultDuration  int    `yaml:"defaultDuration"`
	DefaultConductor string `yaml:"defaultConductor"`
}
