package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ntc490/mls3/pkg/core/model"
	"github.com/ntc490/mls3/pkg/core/services"
)

// CreatePrayerCmd creates the createPrayer command
func CreatePrayerCmd(app *AppContext) *cobra.Command {
	var prayerType string

	cmd := &cobra.Command{
		Use:   "createPrayer [date]",
		Short: "Draft a prayer slot for a service date (defaults to the next service)",
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

			unit, err := services.CreatePrayerAssignment(app.Ctx, app.Database, app.Logger, date, prayerType)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Prayer slot created\n\n")
			fmt.Printf("ID:     %s\n", unit.ID)
			fmt.Printf("Date:   %s\n", displayDate(unit.Date))
			fmt.Printf("Type:   %s\n\n", unit.Category)
			return nil
		},
	}

	cmd.Flags().StringVarP(&prayerType, "type", "t", "", "Prayer type (Opening or Closing)")

	return cmd
}

// SetPrayerTypeCmd creates the setPrayerType command
func SetPrayerTypeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setPrayerType <unit_id> <Opening|Closing>",
		Short: "Finalize the prayer type for a slot (flips the sibling slot)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			unit, err := services.SetPrayerType(app.Ctx, app.Database, app.Logger, args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Prayer type set to %s for %s\n\n", unit.Category, displayDate(unit.Date))
			return nil
		},
	}
}

// NextCandidatesCmd creates the nextCandidates command
func NextCandidatesCmd(app *AppContext) *cobra.Command {
	var gender string
	var limit int

	cmd := &cobra.Command{
		Use:   "nextCandidates",
		Short: "Show who is next in the prayer rotation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := model.Gender(gender)
			if !g.IsValid() {
				return fmt.Errorf("gender must be M or F, got %q", gender)
			}
			if limit <= 0 {
				limit = app.Cfg.NextCandidateCount
			}

			candidates, err := services.NextCandidates(app.Ctx, app.Database, app.Logger, g, limit)
			if err != nil {
				return err
			}

			if len(candidates) == 0 {
				fmt.Println("\nNo eligible candidates.")
				return nil
			}

			fmt.Printf("\nNext in rotation:\n\n")
			for _, c := range candidates {
				fmt.Printf("  %d. %-30s last prayed: %s\n", c.Priority, c.Member.FullName(), c.LastPrayerDisplay)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVarP(&gender, "gender", "g", "", "Gender to select for (M or F)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of candidates (default from config)")
	cmd.MarkFlagRequired("gender")

	return cmd
}

// AssignMemberCmd creates the assignMember command
func AssignMemberCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "assignMember <unit_id> <member_id>",
		Short: "Select a member for a drafted unit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			unit, err := services.AssignMember(app.Ctx, app.Database, app.Logger, args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Member assigned to %s slot on %s\n\n", unit.Category, displayDate(unit.Date))
			return nil
		},
	}
}
