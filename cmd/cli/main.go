package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ntc490/mls3/cmd/cli/commands"
	"github.com/ntc490/mls3/internal/config"
	"github.com/ntc490/mls3/pkg/core/lifecycle"
	"github.com/ntc490/mls3/pkg/csvdb"
	"github.com/ntc490/mls3/pkg/postgres"
	"github.com/ntc490/mls3/pkg/sms"
	"github.com/ntc490/mls3/pkg/templates"
	"github.com/ntc490/mls3/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	app     *commands.AppContext
	pgDB    *postgres.DB
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mls3",
		Short: "MLS3 - Manage prayer rotations and member appointments",
		Long: `A CLI tool for managing a congregation's prayer rotation, appointments,
member roster, and calendar mirroring.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.Logger != nil {
				app.Logger.Sync()
			}
			if pgDB != nil {
				pgDB.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment config suffix (e.g. test)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose console logging")

	app = &commands.AppContext{}

	// Roster
	rootCmd.AddCommand(commands.AddMemberCmd(app))
	rootCmd.AddCommand(commands.FindMemberCmd(app))
	rootCmd.AddCommand(commands.MemberHistoryCmd(app))
	rootCmd.AddCommand(commands.ToggleFlagCmd(app))
	rootCmd.AddCommand(commands.ToggleDontAskCmd(app))
	rootCmd.AddCommand(commands.SetSkipUntilCmd(app))
	rootCmd.AddCommand(commands.RetireMemberCmd(app))
	rootCmd.AddCommand(commands.ImportMembersCmd(app))

	// Prayer rotation
	rootCmd.AddCommand(commands.CreatePrayerCmd(app))
	rootCmd.AddCommand(commands.SetPrayerTypeCmd(app))
	rootCmd.AddCommand(commands.NextCandidatesCmd(app))
	rootCmd.AddCommand(commands.AssignMemberCmd(app))
	rootCmd.AddCommand(commands.SyncPrayerDatesCmd(app))

	// Appointments
	rootCmd.AddCommand(commands.ScheduleAppointmentCmd(app))
	rootCmd.AddCommand(commands.UpdateAppointmentCmd(app))
	rootCmd.AddCommand(commands.SuggestTimeCmd(app))

	// Lifecycle
	rootCmd.AddCommand(commands.InviteCmd(app))
	rootCmd.AddCommand(commands.AcceptCmd(app))
	rootCmd.AddCommand(commands.DeclineCmd(app))
	rootCmd.AddCommand(commands.RemindCmd(app))
	rootCmd.AddCommand(commands.CompleteCmd(app))
	rootCmd.AddCommand(commands.CancelCmd(app))
	rootCmd.AddCommand(commands.AbandonCmd(app))
	rootCmd.AddCommand(commands.DeleteUnitCmd(app))

	// Day sheet and calendar
	rootCmd.AddCommand(commands.AgendaCmd(app))
	rootCmd.AddCommand(commands.PushCalendarCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, storage, and messaging
func initApp() error {
	app.Ctx = context.Background()

	cfg, err := config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Cfg = cfg

	app.Logger, err = logging.InitLogger(cfg.DataDir, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application",
		zap.String("backend", cfg.Backend),
		zap.String("data_dir", cfg.DataDir))

	switch cfg.Backend {
	case "postgres":
		app.Logger.Info("Connecting to postgres")
		pgDB, err = postgres.NewDB(app.Ctx, cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := pgDB.RunMigrations(app.Ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		app.Database = pgDB
	default:
		app.Database = csvdb.NewDB(cfg.DataDir)
	}
	app.Logger.Debug("Storage initialized")

	app.Machine = lifecycle.NewMachine()
	app.SMS = sms.NewHandler(cfg.DebugSMS)

	templatePath := filepath.Join(cfg.DataDir, "message_templates.yaml")
	store, err := templates.Load(templatePath)
	if err != nil {
		return fmt.Errorf("failed to load message templates: %w", err)
	}
	app.Templates = store
	app.Expander = templates.NewExpander(store)

	app.Logger.Debug("Application initialized")
	return nil
}
