package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ntc490/mls3/pkg/core/model"
	"github.com/ntc490/mls3/pkg/core/services"
)

// AgendaCmd creates the agenda command
func AgendaCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "agenda [date]",
		Short: "Show everything scheduled for a date (defaults to the next service)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var date string
			if len(args) > 0 {
				date = args[0]
			} else {
				rule, err := app.Cfg.ServiceRRule()
				if err != nil {
					return err
				}
				date = services.NextServiceDate(rule, time.Now()).Format(model.DateFormat)
			}

			agenda, err := services.Agenda(app.Ctx, app.Database, app.Logger, date)
			if err != nil {
				return err
			}

			fmt.Printf("\nAgenda for %s\n", displayDate(agenda.Date))

			fmt.Printf("\nPrayers:\n")
			if len(agenda.Prayers) == 0 {
				fmt.Println("  (none)")
			}
			for _, p := range agenda.Prayers {
				name := "unassigned"
				if p.Member != nil {
					name = p.Member.DisplayName()
				}
				fmt.Printf("  %-10s %-25s [%s]\n", p.Unit.Category, name, p.Unit.State)
			}

			fmt.Printf("\nAppointments:\n")
			if len(agenda.Appointments) == 0 {
				fmt.Println("  (none)")
			}
			for _, a := range agenda.Appointments {
				name := "unassigned"
				if a.Member != nil {
					name = a.Member.DisplayName()
				}
				fmt.Printf("  %-6s %-20s %-25s with %-15s [%s]\n", a.Unit.Time, a.Unit.Category, name, a.Unit.Conductor, a.Unit.State)
			}
			fmt.Println()
			return nil
		},
	}
}

// SyncPrayerDatesCmd creates the syncPrayerDates command
func SyncPrayerDatesCmd(app *AppContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "syncPrayerDates",
		Short: "Reconcile member rotation dates against completed assignments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.SyncPrayerDates(app.Ctx, app.Database, app.Logger, dryRun)
			if err != nil {
				return err
			}

			if len(result.Updates) == 0 {
				fmt.Printf("\n✓ All %d members are in sync\n\n", result.Checked)
				return nil
			}

			verb := "Updated"
			if result.DryRun {
				verb = "Would update"
			}
			fmt.Printf("\n%s %d member(s):\n\n", verb, len(result.Updates))
			for _, u := range result.Updates {
				from := u.From
				if from == "" {
					from = "never"
				}
				fmt.Printf("  %-30s %s -> %s\n", u.Name, from, u.To)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report without writing")

	return cmd
}
