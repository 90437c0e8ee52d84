package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ntc490/mls3/pkg/core/services"
	"github.com/ntc490/mls3/pkg/sms"
)

// sendUnitMessage composes and sends the named template message for a unit
func sendUnitMessage(app *AppContext, unitID, messageName string) error {
	draft, err := services.ComposeMessage(app.Ctx, app.Database, app.Logger, app.Expander, app.Templates, unitID, messageName)
	if err != nil {
		return err
	}

	preview := sms.PreviewMessage(draft.Phone, draft.Body)
	fmt.Printf("\nMessage to %s (%s, %d chars, %d part(s)):\n%s\n\n", draft.Member.DisplayName(), draft.Phone, preview.Length, preview.EstimatedParts, draft.Body)

	return app.SMS.Send(app.Ctx, draft.Phone, draft.Body)
}

// InviteCmd creates the invite command
func InviteCmd(app *AppContext) *cobra.Command {
	var noSMS bool

	cmd := &cobra.Command{
		Use:   "invite <unit_id>",
		Short: "Invite the selected member and send them the invite message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.Invite(app.Ctx, app.Database, app.Logger, app.Machine, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %s invited for %s\n", result.Member.DisplayName(), displayDate(result.Unit.Date))

			if !noSMS {
				if err := sendUnitMessage(app, args[0], "invite"); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSMS, "no-sms", false, "Skip sending the invite message")

	return cmd
}

// AcceptCmd creates the accept command
func AcceptCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "accept <unit_id>",
		Short: "Record that the member said yes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.Accept(app.Ctx, app.Database, app.Logger, app.Machine, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %s accepted for %s\n\n", result.Member.DisplayName(), displayDate(result.Unit.Date))
			mirrorHint(result.MirrorStale)
			return nil
		},
	}
}

// DeclineCmd creates the decline command
func DeclineCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "decline <unit_id>",
		Short: "Record a no and rest the member for a while",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.Decline(app.Ctx, app.Database, app.Logger, app.Machine, args[0], app.Cfg.DeclineSkipWeeks)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Declined. Slot is open again for %s\n", displayDate(result.Unit.Date))
			if result.Member != nil && result.Member.SkipUntil != "" {
				fmt.Printf("  %s will not be suggested until %s\n", result.Member.DisplayName(), displayDate(result.Member.SkipUntil))
			}
			fmt.Println()
			return nil
		},
	}
}

// RemindCmd creates the remind command
func RemindCmd(app *AppContext) *cobra.Command {
	var noSMS bool

	cmd := &cobra.Command{
		Use:   "remind <unit_id>",
		Short: "Send the reminder message for an accepted unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.Remind(app.Ctx, app.Database, app.Logger, app.Machine, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %s reminded about %s\n", result.Member.DisplayName(), displayDate(result.Unit.Date))

			if !noSMS {
				if err := sendUnitMessage(app, args[0], "reminder"); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSMS, "no-sms", false, "Skip sending the reminder message")

	return cmd
}

// CompleteCmd creates the complete command
func CompleteCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <unit_id>",
		Short: "Mark a unit as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.Complete(app.Ctx, app.Database, app.Logger, app.Machine, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Completed %s on %s\n", result.Unit.Category, displayDate(result.Unit.Date))
			if result.Member != nil && result.Member.LastPrayerDate != "" {
				fmt.Printf("  %s's rotation date is now %s\n", result.Member.DisplayName(), displayDate(result.Member.LastPrayerDate))
			}
			fmt.Println()
			mirrorHint(result.MirrorStale)
			return nil
		},
	}
}

// CancelCmd creates the cancel command
func CancelCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <unit_id>",
		Short: "Release an accepted unit back to draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.Cancel(app.Ctx, app.Database, app.Logger, app.Machine, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Cancelled. Slot is open again for %s\n\n", displayDate(result.Unit.Date))
			mirrorHint(result.MirrorStale)
			return nil
		},
	}
}

// AbandonCmd creates the abandon command
func AbandonCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "abandon <unit_id>",
		Short: "Call off an appointment for good",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.Abandon(app.Ctx, app.Database, app.Logger, app.Machine, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %s on %s abandoned\n\n", result.Unit.Category, displayDate(result.Unit.Date))
			mirrorHint(result.MirrorStale)
			return nil
		},
	}
}

// DeleteUnitCmd creates the deleteUnit command
func DeleteUnitCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteUnit <unit_id>",
		Short: "Delete a unit, retracting its calendar event unless completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.DeleteUnit(app.Ctx, app.Database, app.Logger, app.Machine, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Deleted %s unit for %s\n", result.Unit.Kind, displayDate(result.Unit.Date))

			if result.RetractMirror {
				calendar, err := app.Calendar()
				if err != nil {
					return fmt.Errorf("unit deleted but calendar event remains: %w", err)
				}
				if err := calendar.DeleteEvent(result.Unit.Conductor, result.Unit.GoogleEventID); err != nil {
					return fmt.Errorf("unit deleted but calendar event remains: %w", err)
				}
				fmt.Println("  Calendar event removed")
			}
			fmt.Println()
			return nil
		},
	}
}

func mirrorHint(stale bool) {
	if stale {
		fmt.Println("Run 'pushCalendar' to update the calendar event.")
	}
}
