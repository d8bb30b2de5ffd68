package matching

import (
	"math"
	"time"
)

// Scoring weights. They sum to 1.00 across the four included
// sub-scores; trust is computed for observability but stays out of the
// total until it has proven signal.
const (
	weightSimilarity = 0.50
	weightTagOverlap = 0.25
	weightSizeCompat = 0.15
	weightOfferAlign = 0.10
)

// Neutral defaults: absent data is penalized less than an active
// mismatch.
const (
	neutralTagOverlap = 60
	neutralSizeCompat = 70
	offerNoOverlap    = 40
)

// ScoreBreakdown is the persisted scoring output. Every field is an
// integer in [0,100].
type ScoreBreakdown struct {
	Total             int `json:"total"`
	Similarity        int `json:"similarity"`
	TagOverlap        int `json:"tag_overlap"`
	SizeCompatibility int `json:"size_compatibility"`
	OfferAlignment    int `json:"offer_alignment"`
	Trust             int `json:"trust"`
}

// Score converts a raw vector similarity plus two profile snapshots
// into a weighted breakdown. Pure and deterministic; now is only used
// for the trust sub-score.
//
// The total is rounded once from the unrounded weighted sum, not from
// the pre-rounded sub-scores, so rounding error does not compound.
func Score(similarity float64, requester, candidate ProfileSnapshot, trust TrustSnapshot, now time.Time) ScoreBreakdown {
	sim := clamp01(similarity) * 100
	tags := tagOverlapScore(requester.IndustryTags, candidate.IndustryTags)
	size := sizeCompatibilityScore(requester.AudienceSize, candidate.AudienceSize)
	offer := offerAlignmentScore(requester.WhatIWant, candidate.WhatIOffer)
	trustScore := trustScoreOf(trust, now)

	total := sim*weightSimilarity + tags*weightTagOverlap + size*weightSizeCompat + offer*weightOfferAlign

	return ScoreBreakdown{
		Total:             roundScore(total),
		Similarity:        roundScore(sim),
		TagOverlap:        roundScore(tags),
		SizeCompatibility: roundScore(size),
		OfferAlignment:    roundScore(offer),
		Trust:             roundScore(trustScore),
	}
}

// tagOverlapScore is symmetric: |intersection| over the larger set.
// If either side has no tags the result is a neutral 60.
func tagOverlapScore(requesterTags, candidateTags []string) float64 {
	a := lowerSet(requesterTags)
	b := lowerSet(candidateTags)
	if len(a) == 0 || len(b) == 0 {
		return neutralTagOverlap
	}
	shared := 0
	for tag := range a {
		if _, ok := b[tag]; ok {
			shared++
		}
	}
	denom := len(a)
	if len(b) > denom {
		denom = len(b)
	}
	return float64(shared) / float64(denom) * 100
}

// sizeCompatibilityScore penalizes ordinal tier distance but caps the
// penalty at 50 rather than scaling it linearly to zero.
func sizeCompatibilityScore(requesterSize, candidateSize string) float64 {
	a := tierIndex(requesterSize)
	b := tierIndex(candidateSize)
	if a < 0 || b < 0 {
		return neutralSizeCompat
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	switch diff {
	case 0:
		return 100
	case 1:
		return 75
	default:
		return 50
	}
}

// offerAlignmentScore is asymmetric: the denominator is the
// requester's want-count, so a candidate satisfying every want scores
// 100 no matter how much else they offer. No wants means nothing to
// satisfy (100); wants with no matching offers is 40, not 0 — a manual
// collaboration may still work.
func offerAlignmentScore(requesterWants, candidateOffers []string) float64 {
	wants := lowerSet(requesterWants)
	if len(wants) == 0 {
		return 100
	}
	offers := lowerSet(candidateOffers)
	if len(offers) == 0 {
		return offerNoOverlap
	}
	overlap := 0
	for want := range wants {
		if _, ok := offers[want]; ok {
			overlap++
		}
	}
	if overlap == 0 {
		return offerNoOverlap
	}
	return float64(overlap) / float64(len(wants)) * 100
}

func trustScoreOf(trust TrustSnapshot, now time.Time) float64 {
	score := 0.0

	if trust.CreatedAt != nil {
		ageDays := math.Floor(now.Sub(*trust.CreatedAt).Hours() / 24)
		if ageDays < 0 {
			ageDays = 0
		}
		score += math.Min(ageDays, 30)
	}

	if trust.IsVerified != nil && *trust.IsVerified {
		score += 20
	}

	if trust.ReferralCount != nil && *trust.ReferralCount > 0 {
		score += math.Min(float64(*trust.ReferralCount)*10, 50)
	}

	if trust.LastActiveAt != nil {
		daysSinceActive := math.Floor(now.Sub(*trust.LastActiveAt).Hours() / 24)
		if daysSinceActive <= 7 {
			score += 20
		}
	}

	return math.Min(score, 100)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func roundScore(v float64) int {
	i := int(math.Round(v))
	if i < 0 {
		return 0
	}
	if i > 100 {
		return 100
	}
	return i
}
