package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/ntc490/mls3/pkg/core/model"
	"github.com/ntc490/mls3/pkg/db"
)

// SyncUpdate is one member whose rotation marker lags their completed
// assignments
type SyncUpdate struct {
	MemberID string
	Name     string
	From     string // "" when the member had no last prayer date
	To       string
}

// SyncResult reports a rotation date reconciliation run
type SyncResult struct {
	Checked int
	Updates []SyncUpdate
	DryRun  bool
}

// SyncPrayerDates reconciles every member's last prayer date against their
// completed prayer assignments. Markers only move forward; a marker already
// ahead of the assignment record is left alone. With dryRun set, the updates
// are reported but not written.
func SyncPrayerDates(ctx context.Context, database db.Database, logger *zap.Logger, dryRun bool) (*SyncResult, error) {
	members, err := database.GetMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}

	units, err := database.GetUnits(ctx, model.KindPrayer)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prayer assignments: %w", err)
	}

	// Latest completed assignment date per member
	latest := make(map[string]string)
	for _, u := range units {
		if u.State != model.StateCompleted || !u.HasMember() {
			continue
		}
		if u.Date > latest[u.MemberID] {
			latest[u.MemberID] = u.Date
		}
	}

	result := &SyncResult{Checked: len(members), DryRun: dryRun}
	for i := range members {
		member := &members[i]
		want, ok := latest[member.ID]
		if !ok || member.LastPrayerDate >= want {
			continue
		}

		update := SyncUpdate{
			MemberID: member.ID,
			Name:     member.FullName(),
			From:     member.LastPrayerDate,
			To:       want,
		}
		result.Updates = append(result.Updates, update)

		if dryRun {
			continue
		}

		member.LastPrayerDate = want
		if err := database.UpdateMember(ctx, member); err != nil {
			return nil, fmt.Errorf("failed to update %s: %w", member.FullName(), err)
		}
		logger.Info("Rotation date synced",
			zap.String("member_id", member.ID),
			zap.String("from", update.From),
			zap.String("to", update.To))
	}

	sort.Slice(result.Updates, func(i, j int) bool {
		return result.Updates[i].Name < result.Updates[j].Name
	})

	logger.Info("Prayer date sync finished",
		zap.Int("checked", result.Checked),
		zap.Int("updates", len(result.Updates)),
		zap.Bool("dry_run", dryRun))

	return result, nil
}
