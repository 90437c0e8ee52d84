package model

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the ISO layout used for all stored dates
const DateFormat = "2006-01-02"

// DisplayDateFormat is the human-readable layout used in messages
const DisplayDateFormat = "January 2, 2006"

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// Member represents a church member eligible for assignments
type Member struct {
	ID                  string
	FirstName           string
	LastName            string
	AKA                 string // Preferred name, overrides FirstName for display
	Gender              Gender
	Phone               string
	Birthday            string // Date format, may be empty
	RecommendExpiration string
	LastPrayerDate      string // Date format, empty means never assigned
	DontAskPrayer       bool
	Active              bool
	SkipUntil           string // Date format, empty means no temporary opt-out
	Notes               string
	Flag                string // Comma-joined color flags: red, yellow, blue
}

// FullName returns first and last name
func (m *Member) FullName() string {
	return fmt.Sprintf("%s %s", m.FirstName, m.LastName)
}

// DisplayName returns the preferred name if set, otherwise the first name
func (m *Member) DisplayName() string {
	if m.AKA != "" {
		return m.AKA
	}
	return m.FirstName
}

// Age calculates the member's age in years at the given date.
// Returns -1 if the birthday is missing or unparseable.
func (m *Member) Age(today time.Time) int {
	if m.Birthday == "" {
		return -1
	}
	birth, err := time.Parse(DateFormat, m.Birthday)
	if err != nil {
		return -1
	}
	years := today.Year() - birth.Year()
	if today.Month() < birth.Month() ||
		(today.Month() == birth.Month() && today.Day() < birth.Day()) {
		years--
	}
	return years
}

// FlagsList returns the individual color flags set on the member
func (m *Member) FlagsList() []string {
	if m.Flag == "" {
		return nil
	}
	return strings.Split(m.Flag, ",")
}

// HasFlag reports whether the member carries the given color flag
func (m *Member) HasFlag(flag string) bool {
	for _, f := range m.FlagsList() {
		if f == flag {
			return true
		}
	}
	return false
}

// ToggleFlag adds the flag if absent, removes it if present
func (m *Member) ToggleFlag(flag string) {
	flags := m.FlagsList()
	for i, f := range flags {
		if f == flag {
			flags = append(flags[:i], flags[i+1:]...)
			m.Flag = strings.Join(flags, ",")
			return
		}
	}
	flags = append(flags, flag)
	m.Flag = strings.Join(flags, ",")
}
