package matching

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AudienceTiers is the ordinal ladder of audience-size buckets. The
// position in this slice is what size compatibility scores against.
var AudienceTiers = []string{"<1K", "1K-10K", "10K-50K", "50K+"}

// ProfileSnapshot is an immutable view of a profile's matchable
// attributes. Tag/offer/want sets are expected to already be
// normalized (NormalizeSet); comparisons are case-insensitive anyway.
type ProfileSnapshot struct {
	ProductType  *string
	IndustryTags []string
	AudienceSize string
	WhatIOffer   []string
	WhatIWant    []string
}

// TrustSnapshot carries the candidate-side trust signals. Every field
// is optional; absent data contributes nothing to the trust sub-score.
type TrustSnapshot struct {
	CreatedAt     *time.Time
	IsVerified    *bool
	ReferralCount *int
	LastActiveAt  *time.Time
}

// MatchCandidate pairs one nearest-neighbor hit with the candidate's
// profile and trust signals. Ephemeral; never persisted directly.
type MatchCandidate struct {
	UserID     uuid.UUID
	ProfileID  uuid.UUID
	Similarity float64
	Profile    ProfileSnapshot
	Trust      TrustSnapshot
}

// ScoredCandidate is a MatchCandidate plus its score breakdown.
type ScoredCandidate struct {
	MatchCandidate
	Breakdown ScoreBreakdown
}

// NormalizeSet trims entries, drops empties and deduplicates
// case-insensitively, keeping the first-seen casing and order.
func NormalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(strings.ToLower(v))
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}

func tierIndex(size string) int {
	size = strings.TrimSpace(size)
	if size == "" {
		return -1
	}
	for i, tier := range AudienceTiers {
		if strings.EqualFold(size, tier) {
			return i
		}
	}
	return -1
}
