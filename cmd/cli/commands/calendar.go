package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ntc490/mls3/pkg/core/model"
)

// PushCalendarCmd creates the pushCalendar command
func PushCalendarCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pushCalendar",
		Short: "Mirror appointments onto the conductors' Google calendars",
		Long: `Mirror appointments onto the conductors' Google calendars. Missing events
are created, stale ones are rewritten, and events for cancelled appointments
are removed. Completed appointments keep their events as history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			calendar, err := app.Calendar()
			if err != nil {
				return err
			}

			units, err := app.Database.GetUnits(app.Ctx, model.KindAppointment)
			if err != nil {
				return fmt.Errorf("failed to fetch appointments: %w", err)
			}

			loc := app.Location()
			created, updated, removed := 0, 0, 0

			for i := range units {
				unit := &units[i]

				if unit.State == model.StateCancelled {
					if unit.GoogleEventID == "" {
						continue
					}
					if err := calendar.DeleteEvent(unit.Conductor, unit.GoogleEventID); err != nil {
						return err
					}
					unit.GoogleEventID = ""
					if err := app.Database.UpdateUnit(app.Ctx, unit); err != nil {
						return err
					}
					removed++
					continue
				}

				var member *model.Member
				if unit.HasMember() {
					member, err = app.Database.GetMemberByID(app.Ctx, unit.MemberID)
					if err != nil {
						return err
					}
				}

				if unit.GoogleEventID == "" {
					// A lost event ID does not mean a lost event; adopt an
					// existing one before creating a duplicate
					eventID, err := calendar.FindEventID(unit.Conductor, unit.ID)
					if err != nil {
						return err
					}
					if eventID == "" {
						eventID, err = calendar.CreateEvent(unit, member, loc)
						if err != nil {
							return err
						}
						unit.GoogleEventID = eventID
						if err := app.Database.UpdateUnit(app.Ctx, unit); err != nil {
							return err
						}
						created++
						continue
					}
					unit.GoogleEventID = eventID
					if err := app.Database.UpdateUnit(app.Ctx, unit); err != nil {
						return err
					}
				}
				if err := calendar.UpdateEvent(unit, member, loc); err != nil {
					return err
				}
				updated++
			}

			app.Logger.Info("Calendar push finished",
				zap.Int("created", created),
				zap.Int("updated", updated),
				zap.Int("removed", removed))

			fmt.Printf("\n✓ Calendar in sync: %d created, %d updated, %d removed\n\n", created, updated, removed)
			return nil
		},
	}
}
