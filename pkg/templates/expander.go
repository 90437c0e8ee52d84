package templates

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/ntc490/mls3/pkg/core/model"
)

// Template variable syntax:
//
//	{variable}                     plain substitution
//	{variable|flag?then:else}      transform chosen by a member color flag
//	{smart_date}                   today / tomorrow / "Sunday, February 9"
//	{random:list}                  random pick from a pleasantry list
var (
	conditionalPattern = regexp.MustCompile(`\{(\w+)\|(\w+)\?(\w+):(\w+)\}`)
	randomPattern      = regexp.MustCompile(`\{random:(\w+)\}`)
	smartDatePattern   = regexp.MustCompile(`\{smart_date(?:\|(\w+)\?(\w+):(\w+))?\}`)
	simpleVarPattern   = regexp.MustCompile(`\{(\w+)\}`)
)

// Expander renders message templates with member- and unit-aware variables
type Expander struct {
	store *Store
	pick  func(n int) int
	now   func() time.Time
}

// NewExpander creates an expander over the given template store
func NewExpander(store *Store) *Expander {
	return &Expander{
		store: store,
		pick:  rand.Intn,
		now:   time.Now,
	}
}

// Expand renders the raw template text. The unit may be nil for messages
// that are not tied to a schedulable unit; extra supplies additional plain
// variables (e.g. "conductor") that override the built-in context.
func (e *Expander) Expand(template string, member *model.Member, unit *model.Unit, extra map[string]string) string {
	result := template

	result = randomPattern.ReplaceAllStringFunc(result, func(match string) string {
		list := randomPattern.FindStringSubmatch(match)[1]
		phrases := e.store.Pleasantries(list)
		if len(phrases) == 0 {
			return ""
		}
		return phrases[e.pick(len(phrases))]
	})

	if unit != nil {
		result = smartDatePattern.ReplaceAllStringFunc(result, func(match string) string {
			groups := smartDatePattern.FindStringSubmatch(match)
			base := e.smartDate(unit)
			if groups[1] != "" {
				transform := groups[3]
				if member.HasFlag(groups[1]) {
					transform = groups[2]
				}
				return applyDateTransform(base, unit, transform)
			}
			return base
		})
	}

	result = conditionalPattern.ReplaceAllStringFunc(result, func(match string) string {
		groups := conditionalPattern.FindStringSubmatch(match)
		varName, flag, thenT, elseT := groups[1], groups[2], groups[3], groups[4]
		transform := elseT
		if member.HasFlag(flag) {
			transform = thenT
		}
		return applyTransform(varName, transform, member, unit)
	})

	context := e.buildContext(member, unit, extra)
	result = simpleVarPattern.ReplaceAllStringFunc(result, func(match string) string {
		name := simpleVarPattern.FindStringSubmatch(match)[1]
		if value, ok := context[name]; ok {
			return value
		}
		return match // Unknown variable left as-is
	})

	return result
}

// smartDate renders the unit date relative to today
func (e *Expander) smartDate(unit *model.Unit) string {
	unitDate, err := unit.DateObj()
	if err != nil {
		return unit.Date
	}
	today := e.now()
	todayMidnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	delta := int(unitDate.Sub(todayMidnight).Hours() / 24)

	switch delta {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return unitDate.Format("Monday, January 2")
	}
}

func applyDateTransform(base string, unit *model.Unit, transform string) string {
	unitDate, err := unit.DateObj()
	if err != nil {
		return base
	}
	switch transform {
	case "short":
		return unitDate.Format("Jan 2")
	case "long":
		return unitDate.Format("Monday, January 2, 2006")
	default:
		return base
	}
}

func applyTransform(varName, transform string, member *model.Member, unit *model.Unit) string {
	switch varName {
	case "name":
		switch transform {
		case "formal":
			prefix := "Brother"
			if member.Gender == model.GenderFemale {
				prefix = "Sister"
			}
			return fmt.Sprintf("%s %s", prefix, member.LastName)
		case "full":
			return member.FullName()
		default: // casual and unknown transforms
			return member.DisplayName()
		}
	case "date":
		if unit != nil {
			return applyDateTransform(unitDisplayDate(unit), unit, transform)
		}
	}
	return "{" + varName + "}" // Unknown variable left as-is
}

func unitDisplayDate(unit *model.Unit) string {
	unitDate, err := unit.DateObj()
	if err != nil {
		return unit.Date
	}
	return unitDate.Format(model.DisplayDateFormat)
}

func (e *Expander) buildContext(member *model.Member, unit *model.Unit, extra map[string]string) map[string]string {
	context := map[string]string{
		"first_name":  member.DisplayName(),
		"last_name":   member.LastName,
		"member_name": member.DisplayName(),
		"full_name":   member.FullName(),
	}

	if unit != nil {
		context["date"] = unitDisplayDate(unit)
		switch unit.Kind {
		case model.KindPrayer:
			context["prayer_type"] = strings.ToLower(unit.Category)
			context["day_of_week"] = unitWeekday(unit)
		case model.KindAppointment:
			context["appointment_type"] = unit.Category
			context["time"] = unitDisplayTime(unit)
			context["conductor"] = unit.Conductor
		}
	}

	for k, v := range extra {
		context[k] = v
	}
	return context
}

func unitWeekday(unit *model.Unit) string {
	unitDate, err := unit.DateObj()
	if err != nil {
		return ""
	}
	return unitDate.Format("Monday")
}

func unitDisplayTime(unit *model.Unit) string {
	start, err := unit.StartTime()
	if err != nil || unit.Time == "" {
		return unit.Time
	}
	return start.Format("3:04 PM")
}
