package selector

import (
	"sort"
	"time"

	"github.com/ntc490/mls3/pkg/core/model"
)

// EligibleMembers returns every member who may receive a new prayer
// assignment: active, matching gender, not opted out permanently, and not
// skipping past today. The result is unranked; callers that only need the
// eligibility rules (e.g. search surfaces) build on this.
func EligibleMembers(roster []model.Member, gender model.Gender, today time.Time) []model.Member {
	todayStr := today.Format(model.DateFormat)

	var eligible []model.Member
	for _, m := range roster {
		if !m.Active {
			continue
		}
		if m.Gender != gender {
			continue
		}
		if m.DontAskPrayer {
			continue
		}
		// A skip date of today still excludes; it must be strictly past
		if m.SkipUntil != "" && m.SkipUntil >= todayStr {
			continue
		}
		eligible = append(eligible, m)
	}
	return eligible
}

// SelectCandidates returns up to limit members ranked for rotation fairness:
// never-assigned members first, then ascending last prayer date, ties broken
// by member id so repeated calls are reproducible. Members in excludeIDs
// (currently holding a non-terminal assignment) are filtered out, never
// substituted for; an empty result is a valid outcome. A non-positive limit
// yields no candidates.
func SelectCandidates(roster []model.Member, gender model.Gender, excludeIDs map[string]bool, limit int, today time.Time) []model.Member {
	if limit <= 0 {
		return nil
	}

	eligible := EligibleMembers(roster, gender, today)

	filtered := eligible[:0:0]
	for _, m := range eligible {
		if excludeIDs[m.ID] {
			continue
		}
		filtered = append(filtered, m)
	}

	sort.Slice(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if a.LastPrayerDate != b.LastPrayerDate {
			// Empty sorts first: never-assigned members have the strongest
			// fairness claim. ISO dates compare correctly as strings.
			if a.LastPrayerDate == "" {
				return true
			}
			if b.LastPrayerDate == "" {
				return false
			}
			return a.LastPrayerDate < b.LastPrayerDate
		}
		return a.ID < b.ID
	})

	if limit < len(filtered) {
		filtered = filtered[:limit]
	}
	return filtered
}

// Candidate pairs a ranked member with display context
type Candidate struct {
	Member model.Member
	// LastPrayerDisplay is the stored date or "Never"
	LastPrayerDisplay string
	// Priority is 1-based rank, 1 = strongest claim
	Priority int
}

// CandidatesWithContext returns ranked candidates decorated for display
func CandidatesWithContext(roster []model.Member, gender model.Gender, excludeIDs map[string]bool, limit int, today time.Time) []Candidate {
	members := SelectCandidates(roster, gender, excludeIDs, limit, today)

	candidates := make([]Candidate, 0, len(members))
	for i, m := range members {
		display := m.LastPrayerDate
		if display == "" {
			display = "Never"
		}
		candidates = append(candidates, Candidate{
			Member:            m,
			LastPrayerDisplay: display,
			Priority:          i + 1,
		})
	}
	return candidates
}
