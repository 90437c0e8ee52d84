package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ntc490/mls3/pkg/core/model"
	"github.com/ntc490/mls3/pkg/db"
	"github.com/ntc490/mls3/pkg/templates"
)

// MessageDraft is a composed message ready to hand to the SMS sender
type MessageDraft struct {
	Unit   *model.Unit
	Member *model.Member
	Phone  string
	Body   string
}

// ComposeMessage expands the named message template for a unit's member.
// Prayer units use the "prayer" activity; appointments use their type name
// (lowercased, spaces to underscores) and fall back to a generic
// "appointment" activity when the type has no templates of its own.
func ComposeMessage(ctx context.Context, database db.Database, logger *zap.Logger, expander *templates.Expander, store *templates.Store, unitID, messageName string) (*MessageDraft, error) {
	unit, err := database.GetUnitByID(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unit: %w", err)
	}
	if !unit.HasMember() {
		return nil, fmt.Errorf("unit %s has no member to message", unitID)
	}

	member, err := database.GetMemberByID(ctx, unit.MemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member: %w", err)
	}
	if member.Phone == "" {
		return nil, fmt.Errorf("%s has no phone number on record", member.FullName())
	}

	var tmpl string
	if unit.Kind == model.KindPrayer {
		tmpl = store.Get("prayer", messageName)
	} else {
		activity := strings.ReplaceAll(strings.ToLower(unit.Category), " ", "_")
		tmpl = store.Get(activity, messageName)
		if tmpl == "" {
			tmpl = store.Get("appointment", messageName)
		}
	}
	if tmpl == "" {
		return nil, fmt.Errorf("no %q template for this unit", messageName)
	}

	body := expander.Expand(tmpl, member, unit, nil)

	logger.Debug("Message composed",
		zap.String("unit_id", unitID),
		zap.String("message", messageName),
		zap.String("member", member.FullName()),
		zap.Int("length", len(body)))

	return &MessageDraft{Unit: unit, Member: member, Phone: member.Phone, Body: body}, nil
}
