package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ntc490/mls3/internal/config"
	"github.com/ntc490/mls3/pkg/clients/calendarclient"
	"github.com/ntc490/mls3/pkg/core/lifecycle"
	"github.com/ntc490/mls3/pkg/db"
	"github.com/ntc490/mls3/pkg/sms"
	"github.com/ntc490/mls3/pkg/templates"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg       *config.Config
	Database  db.Database
	Machine   *lifecycle.Machine
	SMS       *sms.Handler
	Templates *templates.Store
	Expander  *templates.Expander
	Logger    *zap.Logger
	Ctx       context.Context

	// calendar is built on first use so commands that never touch Google
	// don't trigger the OAuth flow
	calendar *calendarclient.Client
}

// Calendar returns the Google Calendar client, running the OAuth flow on
// first use
func (app *AppContext) Calendar() (*calendarclient.Client, error) {
	if app.calendar != nil {
		return app.calendar, nil
	}

	oauthCfg, err := config.LoadOAuthClient()
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	client, err := calendarclient.NewClient(app.Ctx, oauthCfg, app.Cfg.Calendars)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}

	app.calendar = client
	return client, nil
}

// Location resolves the configured timezone, defaulting to local time
func (app *AppContext) Location() *time.Location {
	if app.Cfg.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(app.Cfg.Timezone)
	if err != nil {
		app.Logger.Warn("Invalid timezone in config, using local",
			zap.String("timezone", app.Cfg.Timezone),
			zap.Error(err))
		return time.Local
	}
	return loc
}
