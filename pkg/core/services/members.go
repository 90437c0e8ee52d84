package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ntc490/mls3/pkg/core/model"
	"github.com/ntc490/mls3/pkg/core/selector"
	"github.com/ntc490/mls3/pkg/db"
)

// AddMember adds a new member to the roster. A missing ID is generated and
// new members start active.
func AddMember(ctx context.Context, database db.Database, logger *zap.Logger, member model.Member) (*model.Member, error) {
	if member.FirstName == "" || member.LastName == "" {
		return nil, fmt.Errorf("member needs a first and last name")
	}
	if !member.Gender.IsValid() {
		return nil, fmt.Errorf("invalid gender %q", member.Gender)
	}
	for _, dateField := range []string{member.Birthday, member.RecommendExpiration, member.SkipUntil} {
		if dateField == "" {
			continue
		}
		if _, err := time.Parse(model.DateFormat, dateField); err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", dateField, err)
		}
	}

	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	member.Active = true

	if err := database.InsertMember(ctx, &member); err != nil {
		return nil, fmt.Errorf("failed to insert member: %w", err)
	}

	logger.Info("Member added",
		zap.String("member_id", member.ID),
		zap.String("name", member.FullName()))

	return &member, nil
}

// SearchMembers finds roster members matching a free-text query, optionally
// restricted to one gender. An empty query lists active members.
func SearchMembers(ctx context.Context, database db.Database, logger *zap.Logger, query string, gender model.Gender, limit int) ([]model.Member, error) {
	members, err := database.GetMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}

	matches := selector.FuzzySearch(members, query, gender, limit)

	logger.Debug("Member search",
		zap.String("query", query),
		zap.Int("matches", len(matches)))

	return matches, nil
}

// ToggleMemberFlag flips a named flag on a member and returns the new value
func ToggleMemberFlag(ctx context.Context, database db.Database, logger *zap.Logger, memberID, flag string) (bool, error) {
	member, err := database.GetMemberByID(ctx, memberID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch member: %w", err)
	}

	member.ToggleFlag(flag)
	if err := database.UpdateMember(ctx, member); err != nil {
		return false, fmt.Errorf("failed to persist member: %w", err)
	}

	set := member.HasFlag(flag)
	logger.Info("Member flag toggled",
		zap.String("member_id", memberID),
		zap.String("flag", flag),
		zap.Bool("set", set))

	return set, nil
}

// ToggleDontAsk flips the member's prayer opt-out and returns the new value.
// An opted-out member never appears in the rotation until toggled back.
func ToggleDontAsk(ctx context.Context, database db.Database, logger *zap.Logger, memberID string) (bool, error) {
	member, err := database.GetMemberByID(ctx, memberID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch member: %w", err)
	}

	member.DontAskPrayer = !member.DontAskPrayer
	if err := database.UpdateMember(ctx, member); err != nil {
		return false, fmt.Errorf("failed to persist member: %w", err)
	}

	logger.Info("Member prayer opt-out toggled",
		zap.String("member_id", memberID),
		zap.Bool("dont_ask", member.DontAskPrayer))

	return member.DontAskPrayer, nil
}

// SetSkipUntil sets the member's temporary opt-out date. An empty date
// clears the opt-out and returns them to the rotation.
func SetSkipUntil(ctx context.Context, database db.Database, logger *zap.Logger, memberID, date string) (*model.Member, error) {
	if date != "" {
		if _, err := time.Parse(model.DateFormat, date); err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", date, err)
		}
	}

	member, err := database.GetMemberByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member: %w", err)
	}

	member.SkipUntil = date
	if err := database.UpdateMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to persist member: %w", err)
	}

	logger.Info("Member skip date set",
		zap.String("member_id", memberID),
		zap.String("skip_until", date))

	return member, nil
}

// SetMemberActive activates or retires a roster member
func SetMemberActive(ctx context.Context, database db.Database, logger *zap.Logger, memberID string, active bool) (*model.Member, error) {
	member, err := database.GetMemberByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member: %w", err)
	}

	member.Active = active
	if err := database.UpdateMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to persist member: %w", err)
	}

	logger.Info("Member status changed",
		zap.String("member_id", memberID),
		zap.Bool("active", active))

	return member, nil
}
