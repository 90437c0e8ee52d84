package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ntc490/mls3/pkg/core/services"
)

// ScheduleAppointmentCmd creates the scheduleAppointment command
func ScheduleAppointmentCmd(app *AppContext) *cobra.Command {
	var timeStr, conductor string
	var duration int

	cmd := &cobra.Command{
		Use:   "scheduleAppointment <member_id> <type> <date>",
		Short: "Schedule an appointment for a member",
		Long: `Schedule an appointment for a member on the given date.
When no time is given, the first free slot in the configured window is used.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := services.AppointmentRequest{
				MemberID:        args[0],
				Type:            args[1],
				Date:            args[2],
				Time:            timeStr,
				DurationMinutes: duration,
				Conductor:       conductor,
			}

			if req.Time == "" {
				suggested, err := services.SuggestAppointmentTime(app.Ctx, app.Database, app.Logger, app.Cfg.AppointmentWindow, req.Date, suggestDuration(app, req))
				if err != nil {
					return err
				}
				req.Time = suggested
			}

			unit, err := services.ScheduleAppointment(app.Ctx, app.Database, app.Logger, req)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Appointment scheduled\n\n")
			fmt.Printf("ID:        %s\n", unit.ID)
			fmt.Printf("Type:      %s\n", unit.Category)
			fmt.Printf("Date:      %s\n", displayDate(unit.Date))
			fmt.Printf("Time:      %s (%d min)\n", unit.Time, unit.DurationMinutes)
			fmt.Printf("Conductor: %s\n\n", unit.Conductor)
			return nil
		},
	}

	cmd.Flags().StringVarP(&timeStr, "time", "t", "", "Start time (HH:MM, 24h)")
	cmd.Flags().IntVarP(&duration, "duration", "d", 0, "Duration in minutes (default from type)")
	cmd.Flags().StringVarP(&conductor, "conductor", "c", "", "Conductor (default from type)")

	return cmd
}

// suggestDuration resolves the duration used for slot suggestion before the
// appointment exists, falling back to the type default
func suggestDuration(app *AppContext, req services.AppointmentRequest) int {
	if req.DurationMinutes > 0 {
		return req.DurationMinutes
	}
	types, err := app.Database.GetAppointmentTypes(app.Ctx)
	if err == nil {
		for _, t := range types {
			if t.Name == req.Type && t.DefaultDuration > 0 {
				return t.DefaultDuration
			}
		}
	}
	return 30
}

// UpdateAppointmentCmd creates the updateAppointment command
func UpdateAppointmentCmd(app *AppContext) *cobra.Command {
	var date, timeStr, conductor string
	var duration int

	cmd := &cobra.Command{
		Use:   "updateAppointment <unit_id>",
		Short: "Reschedule or reassign an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upd := services.AppointmentUpdate{}
			if cmd.Flags().Changed("date") {
				upd.Date = &date
			}
			if cmd.Flags().Changed("time") {
				upd.Time = &timeStr
			}
			if cmd.Flags().Changed("duration") {
				upd.DurationMinutes = &duration
			}
			if cmd.Flags().Changed("conductor") {
				upd.Conductor = &conductor
			}

			result, err := services.UpdateAppointment(app.Ctx, app.Database, app.Logger, args[0], upd)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Appointment updated\n\n")
			fmt.Printf("Date:      %s\n", displayDate(result.Unit.Date))
			fmt.Printf("Time:      %s (%d min)\n", result.Unit.Time, result.Unit.DurationMinutes)
			fmt.Printf("Conductor: %s\n\n", result.Unit.Conductor)

			if result.Unit.GoogleEventID == "" {
				return nil
			}

			calendar, err := app.Calendar()
			if err != nil {
				return fmt.Errorf("appointment updated but calendar event is stale: %w", err)
			}

			member, err := app.Database.GetMemberByID(app.Ctx, result.Unit.MemberID)
			if err != nil {
				return err
			}

			if result.PrevConductor != result.Unit.Conductor {
				eventID, err := calendar.MoveEvent(result.PrevConductor, result.Unit, member, app.Location())
				if err != nil {
					return fmt.Errorf("appointment updated but calendar event is stale: %w", err)
				}
				result.Unit.GoogleEventID = eventID
				if err := app.Database.UpdateUnit(app.Ctx, result.Unit); err != nil {
					return err
				}
				fmt.Println("Calendar event moved to the new conductor's calendar.")
			} else {
				if err := calendar.UpdateEvent(result.Unit, member, app.Location()); err != nil {
					return fmt.Errorf("appointment updated but calendar event is stale: %w", err)
				}
				fmt.Println("Calendar event updated.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "New date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&timeStr, "time", "", "New start time (HH:MM)")
	cmd.Flags().IntVar(&duration, "duration", 0, "New duration in minutes")
	cmd.Flags().StringVar(&conductor, "conductor", "", "New conductor")

	return cmd
}

// SuggestTimeCmd creates the suggestTime command
func SuggestTimeCmd(app *AppContext) *cobra.Command {
	var duration int

	cmd := &cobra.Command{
		Use:   "suggestTime <date>",
		Short: "Find the first free appointment slot on a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := services.SuggestAppointmentTime(app.Ctx, app.Database, app.Logger, app.Cfg.AppointmentWindow, args[0], duration)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ First free slot on %s: %s (%d min)\n\n", displayDate(args[0]), slot, duration)
			return nil
		},
	}

	cmd.Flags().IntVarP(&duration, "duration", "d", 30, "Duration in minutes")

	return cmd
}
