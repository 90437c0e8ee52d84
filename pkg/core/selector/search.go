package selector

import (
	"sort"
	"strings"

	"github.com/ntc490/mls3/pkg/core/model"
)

// FuzzySearch finds active members by name, ignoring the rotation ranking.
// Full-name substring matches rank above first-name prefix matches, which
// rank above last-name prefix matches. A gender of "" matches all members.
// An empty query returns active members of the gender, unranked. A
// non-positive limit yields no matches.
func FuzzySearch(roster []model.Member, query string, gender model.Gender, limit int) []model.Member {
	if limit <= 0 {
		return nil
	}

	query = strings.ToLower(strings.TrimSpace(query))

	if query == "" {
		var active []model.Member
		for _, m := range roster {
			if !m.Active {
				continue
			}
			if gender != "" && m.Gender != gender {
				continue
			}
			active = append(active, m)
		}
		if limit < len(active) {
			active = active[:limit]
		}
		return active
	}

	type match struct {
		member   model.Member
		priority int
	}
	var matches []match

	for _, m := range roster {
		if !m.Active {
			continue
		}
		if gender != "" && m.Gender != gender {
			continue
		}

		fullName := strings.ToLower(m.FullName())
		switch {
		case strings.Contains(fullName, query):
			matches = append(matches, match{m, 0})
		case strings.HasPrefix(strings.ToLower(m.FirstName), query):
			matches = append(matches, match{m, 1})
		case strings.HasPrefix(strings.ToLower(m.LastName), query):
			matches = append(matches, match{m, 2})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		if a.member.LastName != b.member.LastName {
			return a.member.LastName < b.member.LastName
		}
		return a.member.FirstName < b.member.FirstName
	})

	if limit < len(matches) {
		matches = matches[:limit]
	}

	result := make([]model.Member, 0, len(matches))
	for _, mt := range matches {
		result = append(result, mt.member)
	}
	return result
}
