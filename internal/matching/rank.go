package matching

import (
	"sort"
	"time"
)

const (
	// DefaultMinScore is the quality floor below which candidates are
	// dropped from the ranked list.
	DefaultMinScore = 60
	// DefaultMaxResults caps on-demand generation.
	DefaultMaxResults = 10
	// DefaultBatchMaxResults caps the scheduled refresh path.
	DefaultBatchMaxResults = 5
)

// Rank scores every candidate against the requester, drops those under
// minScore, sorts descending by total and truncates to maxResults. The
// sort is stable: candidates with equal totals keep their input order
// (which for vector-query hits is descending similarity).
func Rank(requester ProfileSnapshot, candidates []MatchCandidate, minScore, maxResults int, now time.Time) []ScoredCandidate {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		breakdown := Score(c.Similarity, requester, c.Profile, c.Trust, now)
		if breakdown.Total < minScore {
			continue
		}
		scored = append(scored, ScoredCandidate{MatchCandidate: c, Breakdown: breakdown})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Breakdown.Total > scored[j].Breakdown.Total
	})

	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}
	return scored
}
