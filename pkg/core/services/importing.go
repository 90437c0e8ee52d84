package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ntc490/mls3/pkg/core/model"
	"github.com/ntc490/mls3/pkg/db"
)

// ImportStats summarizes an import run
type ImportStats struct {
	Added     int
	Updated   int
	Unchanged int
}

// ImportMembers merges an external member list into the roster. Incoming
// records are matched by ID when present, otherwise by full name
// (case-insensitive). Matches only fill fields the roster record leaves
// empty; existing data is never overwritten. Unmatched records are added as
// new members.
func ImportMembers(ctx context.Context, database db.Database, logger *zap.Logger, incoming []model.Member) (*ImportStats, error) {
	existing, err := database.GetMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}

	byID := make(map[string]*model.Member, len(existing))
	byName := make(map[string]*model.Member, len(existing))
	for i := range existing {
		byID[existing[i].ID] = &existing[i]
		byName[strings.ToLower(existing[i].FullName())] = &existing[i]
	}

	today := time.Now().Format(model.DateFormat)
	stats := &ImportStats{}

	for _, rec := range incoming {
		var match *model.Member
		if rec.ID != "" {
			match = byID[rec.ID]
		}
		if match == nil {
			match = byName[strings.ToLower(rec.FullName())]
		}

		if match == nil {
			member := rec
			if member.ID == "" {
				member.ID = uuid.New().String()
			}
			member.Active = true
			if err := database.InsertMember(ctx, &member); err != nil {
				return nil, fmt.Errorf("failed to insert %s: %w", member.FullName(), err)
			}
			byID[member.ID] = &member
			byName[strings.ToLower(member.FullName())] = &member
			stats.Added++
			logger.Debug("Member imported",
				zap.String("member_id", member.ID),
				zap.String("name", member.FullName()))
			continue
		}

		if mergeMemberFields(match, &rec) {
			if err := database.UpdateMember(ctx, match); err != nil {
				return nil, fmt.Errorf("failed to update %s: %w", match.FullName(), err)
			}
			stats.Updated++
			logger.Debug("Member merged",
				zap.String("member_id", match.ID),
				zap.String("name", match.FullName()))
		} else {
			stats.Unchanged++
		}
	}

	logger.Info("Member import finished",
		zap.String("date", today),
		zap.Int("added", stats.Added),
		zap.Int("updated", stats.Updated),
		zap.Int("unchanged", stats.Unchanged))

	return stats, nil
}

// mergeMemberFields copies incoming values into empty fields only and
// reports whether anything changed
func mergeMemberFields(dst, src *model.Member) bool {
	changed := false
	fill := func(dstField *string, srcVal string) {
		if *dstField == "" && srcVal != "" {
			*dstField = srcVal
			changed = true
		}
	}

	fill(&dst.AKA, src.AKA)
	fill(&dst.Phone, src.Phone)
	fill(&dst.Birthday, src.Birthday)
	fill(&dst.RecommendExpiration, src.RecommendExpiration)
	fill(&dst.Notes, src.Notes)
	if dst.Gender == "" && src.Gender != "" {
		dst.Gender = src.Gender
		changed = true
	}

	return changed
}
