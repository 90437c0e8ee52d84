package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ntc490/mls3/pkg/core/model"
	"github.com/ntc490/mls3/pkg/core/services"
)

// AddMemberCmd creates the addMember command
func AddMemberCmd(app *AppContext) *cobra.Command {
	var gender, phone, aka, birthday, notes string

	cmd := &cobra.Command{
		Use:   "addMember <first_name> <last_name>",
		Short: "Add a new member to the roster",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			member := model.Member{
				FirstName: args[0],
				LastName:  args[1],
				Gender:    model.Gender(gender),
				Phone:     phone,
				AKA:       aka,
				Birthday:  birthday,
				Notes:     notes,
			}

			added, err := services.AddMember(app.Ctx, app.Database, app.Logger, member)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Member added\n\n")
			fmt.Printf("ID:   %s\n", added.ID)
			fmt.Printf("Name: %s\n\n", added.FullName())
			return nil
		},
	}

	cmd.Flags().StringVarP(&gender, "gender", "g", "", "Gender (M or F)")
	cmd.Flags().StringVarP(&phone, "phone", "p", "", "Phone number")
	cmd.Flags().StringVar(&aka, "aka", "", "Preferred name")
	cmd.Flags().StringVar(&birthday, "birthday", "", "Birthday (YYYY-MM-DD)")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	cmd.MarkFlagRequired("gender")

	return cmd
}

// FindMemberCmd creates the findMember command
func FindMemberCmd(app *AppContext) *cobra.Command {
	var gender string
	var limit int

	cmd := &cobra.Command{
		Use:   "findMember [query]",
		Short: "Search the roster by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}

			matches, err := services.SearchMembers(app.Ctx, app.Database, app.Logger, query, model.Gender(gender), limit)
			if err != nil {
				return err
			}

			if len(matches) == 0 {
				fmt.Println("\nNo members found.")
				return nil
			}

			fmt.Printf("\nFound %d member(s):\n\n", len(matches))
			for _, m := range matches {
				status := ""
				if !m.Active {
					status = " (inactive)"
				}
				fmt.Printf("  %-38s %s%s\n", m.ID, m.FullName(), status)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVarP(&gender, "gender", "g", "", "Restrict to gender (M or F)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum results")

	return cmd
}

// MemberHistoryCmd creates the memberHistory command
func MemberHistoryCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "memberHistory <member_id>",
		Short: "Show a member's prayer and appointment history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			member, history, err := services.MemberHistory(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n%s\n", member.FullName())
			if member.LastPrayerDate != "" {
				fmt.Printf("Last prayer: %s\n", member.LastPrayerDate)
			} else {
				fmt.Printf("Last prayer: never\n")
			}
			if member.SkipUntil != "" {
				fmt.Printf("Skipped until: %s\n", member.SkipUntil)
			}
			if flags := member.FlagsList(); len(flags) > 0 {
				fmt.Printf("Flags: %s\n", strings.Join(flags, ", "))
			}

			if len(history) == 0 {
				fmt.Println("\nNo history.")
				return nil
			}

			fmt.Printf("\n%-12s %-12s %-20s %s\n", "Date", "Kind", "Category", "State")
			for _, u := range history {
				fmt.Printf("%-12s %-12s %-20s %s\n", u.Date, u.Kind, u.Category, u.State)
			}
			fmt.Println()
			return nil
		},
	}
}

// ToggleFlagCmd creates the toggleFlag command
func ToggleFlagCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "toggleFlag <member_id> <flag>",
		Short: "Toggle a named flag on a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := services.ToggleMemberFlag(app.Ctx, app.Database, app.Logger, args[0], args[1])
			if err != nil {
				return err
			}

			if set {
				fmt.Printf("\n✓ Flag %q set\n\n", args[1])
			} else {
				fmt.Printf("\n✓ Flag %q cleared\n\n", args[1])
			}
			return nil
		},
	}
}

// ToggleDontAskCmd creates the toggleDontAsk command
func ToggleDontAskCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "toggleDontAsk <member_id>",
		Short: "Toggle a member's prayer opt-out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dontAsk, err := services.ToggleDontAsk(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			if dontAsk {
				fmt.Printf("\n✓ Member opted out of prayer rotation\n\n")
			} else {
				fmt.Printf("\n✓ Member back in prayer rotation\n\n")
			}
			return nil
		},
	}
}

// SetSkipUntilCmd creates the setSkipUntil command
func SetSkipUntilCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setSkipUntil <member_id> [date]",
		Short: "Skip a member in the rotation until a date (no date clears it)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := ""
			if len(args) > 1 {
				date = args[1]
			}

			member, err := services.SetSkipUntil(app.Ctx, app.Database, app.Logger, args[0], date)
			if err != nil {
				return err
			}

			if member.SkipUntil != "" {
				fmt.Printf("\n✓ %s skipped until %s\n\n", member.FullName(), displayDate(member.SkipUntil))
			} else {
				fmt.Printf("\n✓ Skip cleared for %s\n\n", member.FullName())
			}
			return nil
		},
	}
}

// RetireMemberCmd creates the retireMember command
func RetireMemberCmd(app *AppContext) *cobra.Command {
	var reactivate bool

	cmd := &cobra.Command{
		Use:   "retireMember <member_id>",
		Short: "Mark a member inactive (or reactivate them)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			member, err := services.SetMemberActive(app.Ctx, app.Database, app.Logger, args[0], reactivate)
			if err != nil {
				return err
			}

			if member.Active {
				fmt.Printf("\n✓ %s is active again\n\n", member.FullName())
			} else {
				fmt.Printf("\n✓ %s retired\n\n", member.FullName())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&reactivate, "reactivate", false, "Reactivate instead of retiring")

	return cmd
}

// displayDate renders an ISO date for people, falling back to the raw string
func displayDate(iso string) string {
	t, err := time.Parse(model.DateFormat, iso)
	if err != nil {
		return iso
	}
	return t.Format(model.DisplayDateFormat)
}
