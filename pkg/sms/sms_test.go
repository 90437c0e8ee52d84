package sms

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentURL_EscapesBody(t *testing.T) {
	got := IntentURL("5551234", "Hi John, opening prayer this Sunday?")

	assert.True(t, strings.HasPrefix(got, "sms:5551234?body="))
	assert.NotContains(t, got, " ")
	assert.Contains(t, got, "opening+prayer")
}

func TestPreviewMessage_PartCount(t *testing.T) {
	short := PreviewMessage("5551234", strings.Repeat("a", 80))
	assert.Equal(t, 80, short.Length)
	assert.Equal(t, 1, short.EstimatedParts)

	long := PreviewMessage("5551234", strings.Repeat("a", 200))
	assert.Equal(t, 2, long.EstimatedParts)
}

func TestSend_DebugModeDoesNotLaunch(t *testing.T) {
	h := NewHandler(true)

	err := h.Send(context.Background(), "5551234", "hello")
	require.NoError(t, err)
}
