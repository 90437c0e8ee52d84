package calendarclient

import (
	"context"
	"fmt"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/ntc490/mls3/internal/config"
	"github.com/ntc490/mls3/pkg/utils"
)

// DefaultCalendarID is used when no calendar is mapped for a conductor
const DefaultCalendarID = "primary"

// Client wraps the Google Calendar API client
type Client struct {
	service   *calendar.Service
	calendars map[string]string
}

// NewClient creates a new Calendar client using OAuth credentials and performs
// the OAuth flow if needed. Tokens are persisted to disk and reused.
// calendars maps a conductor name to the calendar ID their events go on.
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig, calendars map[string]string) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	token, err := utils.GetTokenWithFlow(ctx, oauthConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth token: %w", err)
	}

	httpClient := oauthConfig.Client(ctx, token)

	service, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &Client{
		service:   service,
		calendars: calendars,
	}, nil
}

// CalendarFor returns the calendar ID mapped to the given conductor,
// falling back to the default calendar when no mapping exists
func (c *Client) CalendarFor(conductor string) string {
	if id, ok := c.calendars[conductor]; ok && id != "" {
		return id
	}
	if id, ok := c.calendars["default"]; ok && id != "" {
		return id
	}
	return DefaultCalendarID
}
