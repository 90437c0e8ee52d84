package calendarclient

import (
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/ntc490/mls3/pkg/core/model"
)

const (
	propUnitID   = "mls3_unit_id"
	propMemberID = "mls3_member_id"
)

// summaryPrefix marks the unit's progress in the event title so a glance at
// the calendar shows what still needs chasing
func summaryPrefix(state model.State) string {
	switch state {
	case model.StateAccepted, model.StateReminded, model.StateCompleted:
		return "✓ "
	default:
		return "? "
	}
}

func eventSummary(unit *model.Unit, member *model.Member) string {
	name := "TBD"
	if member != nil {
		name = member.DisplayName()
	}

	label := unit.Category
	if unit.Kind == model.KindPrayer {
		label = fmt.Sprintf("%s Prayer", unit.Category)
	}

	return fmt.Sprintf("%s%s - %s", summaryPrefix(unit.State), label, name)
}

// buildEvent constructs the calendar event for a unit. Units without a time
// become all-day events; timed units use the configured duration.
func buildEvent(unit *model.Unit, member *model.Member, loc *time.Location) (*calendar.Event, error) {
	event := &calendar.Event{
		Summary: eventSummary(unit, member),
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				propUnitID: unit.ID,
			},
		},
	}
	if member != nil {
		event.ExtendedProperties.Private[propMemberID] = member.ID
		event.Description = fmt.Sprintf("Member: %s", member.FullName())
	}

	if unit.Time == "" {
		date, err := unit.DateObj()
		if err != nil {
			return nil, fmt.Errorf("invalid unit date: %w", err)
		}
		event.Start = &calendar.EventDateTime{Date: unit.Date}
		event.End = &calendar.EventDateTime{Date: date.AddDate(0, 0, 1).Format(model.DateFormat)}
		return event, nil
	}

	start, err := unit.StartTimeIn(loc)
	if err != nil {
		return nil, fmt.Errorf("invalid unit start time: %w", err)
	}
	duration := time.Duration(unit.DurationMinutes) * time.Minute
	if duration == 0 {
		duration = 30 * time.Minute
	}
	event.Start = &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)}
	event.End = &calendar.EventDateTime{DateTime: start.Add(duration).Format(time.RFC3339)}
	return event, nil
}

// CreateEvent inserts an event for the unit on its conductor's calendar and
// returns the new event ID
func (c *Client) CreateEvent(unit *model.Unit, member *model.Member, loc *time.Location) (string, error) {
	event, err := buildEvent(unit, member, loc)
	if err != nil {
		return "", err
	}

	created, err := c.service.Events.Insert(c.CalendarFor(unit.Conductor), event).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}

	return created.Id, nil
}

// UpdateEvent rewrites the existing event for the unit in place
func (c *Client) UpdateEvent(unit *model.Unit, member *model.Member, loc *time.Location) error {
	if unit.GoogleEventID == "" {
		return fmt.Errorf("unit %s has no calendar event to update", unit.ID)
	}

	event, err := buildEvent(unit, member, loc)
	if err != nil {
		return err
	}

	_, err = c.service.Events.Update(c.CalendarFor(unit.Conductor), unit.GoogleEventID, event).Do()
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	return nil
}

// MoveEvent relocates the unit's event after a conductor change by removing
// it from the old conductor's calendar and recreating it on the new one.
// Returns the replacement event ID.
func (c *Client) MoveEvent(oldConductor string, unit *model.Unit, member *model.Member, loc *time.Location) (string, error) {
	if err := c.DeleteEvent(oldConductor, unit.GoogleEventID); err != nil {
		return "", err
	}
	return c.CreateEvent(unit, member, loc)
}

// DeleteEvent removes an event from the conductor's calendar. Events already
// deleted on the Google side are not treated as errors.
func (c *Client) DeleteEvent(conductor, eventID string) error {
	if eventID == "" {
		return nil
	}

	err := c.service.Events.Delete(c.CalendarFor(conductor), eventID).Do()
	if err != nil {
		if gerr, ok := err.(*googleapi.Error); ok && (gerr.Code == 404 || gerr.Code == 410) {
			return nil
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}

	return nil
}

// FindEventID looks up the event carrying the unit's ID in its private
// properties. Returns an empty string when no event exists.
func (c *Client) FindEventID(conductor, unitID string) (string, error) {
	events, err := c.service.Events.List(c.CalendarFor(conductor)).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", propUnitID, unitID)).
		MaxResults(1).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to search events: %w", err)
	}

	if len(events.Items) == 0 {
		return "", nil
	}
	return events.Items[0].Id, nil
}
