package sms

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"time"
)

const launchTimeout = 5 * time.Second

// Handler drafts SMS messages and opens them in the phone's native
// messaging app via an Android intent (termux-open-url). The user presses
// send themselves; nothing is transmitted by this process.
type Handler struct {
	// Debug skips launching the intent and prints the draft instead
	Debug bool
}

// NewHandler creates an SMS handler
func NewHandler(debug bool) *Handler {
	return &Handler{Debug: debug}
}

// IntentURL builds the sms: intent URL with a pre-filled body
func IntentURL(phone, message string) string {
	return fmt.Sprintf("sms:%s?body=%s", phone, url.QueryEscape(message))
}

// Send opens the SMS app with the message pre-filled for the given number
func (h *Handler) Send(ctx context.Context, phone, message string) error {
	if h.Debug {
		fmt.Println("--- SMS draft (debug mode, not launched) ---")
		fmt.Printf("To: %s\n", phone)
		fmt.Printf("Message: %s\n", message)
		fmt.Printf("Length: %d characters\n", len(message))
		fmt.Println("--------------------------------------------")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, launchTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "termux-open-url", IntentURL(phone, message))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to launch SMS intent for %s: %w", phone, err)
	}
	return nil
}

// Preview describes a drafted message without sending it
type Preview struct {
	To             string
	Message        string
	Length         int
	EstimatedParts int
}

// PreviewMessage reports the draft and its estimated SMS part count
func PreviewMessage(phone, message string) Preview {
	return Preview{
		To:             phone,
		Message:        message,
		Length:         len(message),
		EstimatedParts: len(message)/160 + 1,
	}
}
