package matching

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

var rankNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// candidateWithSim builds a candidate whose score is driven purely by
// similarity (empty sets all land on neutral defaults).
func candidateWithSim(sim float64) MatchCandidate {
	return MatchCandidate{
		UserID:     uuid.New(),
		ProfileID:  uuid.New(),
		Similarity: sim,
	}
}

func TestRankSortsDescendingByTotal(t *testing.T) {
	requester := ProfileSnapshot{}
	candidates := []MatchCandidate{
		candidateWithSim(0.70),
		candidateWithSim(0.95),
		candidateWithSim(0.85),
	}

	got := Rank(requester, candidates, 0, 10, rankNow)
	if len(got) != 3 {
		t.Fatalf("len=%d, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Breakdown.Total > got[i-1].Breakdown.Total {
			t.Fatalf("not sorted descending at %d: %d > %d", i, got[i].Breakdown.Total, got[i-1].Breakdown.Total)
		}
	}
	if got[0].Similarity != 0.95 {
		t.Fatalf("top candidate similarity=%v, want 0.95", got[0].Similarity)
	}
}

func TestRankStableUnderEqualTotals(t *testing.T) {
	requester := ProfileSnapshot{}
	a := candidateWithSim(0.9)
	b := candidateWithSim(0.9)
	c := candidateWithSim(0.9)

	got := Rank(requester, []MatchCandidate{a, b, c}, 0, 10, rankNow)
	if len(got) != 3 {
		t.Fatalf("len=%d, want 3", len(got))
	}
	wantOrder := []uuid.UUID{a.UserID, b.UserID, c.UserID}
	for i, sc := range got {
		if sc.UserID != wantOrder[i] {
			t.Fatalf("order not stable: position %d has %s, want %s", i, sc.UserID, wantOrder[i])
		}
	}
}

func TestRankFiltersBelowMinScore(t *testing.T) {
	requester := ProfileSnapshot{}
	candidates := []MatchCandidate{
		candidateWithSim(0.95), // well above the floor
		candidateWithSim(0.10), // well below
	}

	got := Rank(requester, candidates, DefaultMinScore, 10, rankNow)
	if len(got) != 1 {
		t.Fatalf("len=%d, want 1", len(got))
	}
	for _, sc := range got {
		if sc.Breakdown.Total < DefaultMinScore {
			t.Fatalf("candidate with total %d survived minScore %d", sc.Breakdown.Total, DefaultMinScore)
		}
	}
}

func TestRankTruncatesToMaxResults(t *testing.T) {
	requester := ProfileSnapshot{}
	candidates := make([]MatchCandidate, 0, 20)
	for i := 0; i < 20; i++ {
		candidates = append(candidates, candidateWithSim(0.9))
	}

	for _, cap := range []int{DefaultBatchMaxResults, DefaultMaxResults} {
		got := Rank(requester, candidates, 0, cap, rankNow)
		if len(got) != cap {
			t.Fatalf("len=%d, want %d", len(got), cap)
		}
	}
}

func TestRankEmptyInput(t *testing.T) {
	got := Rank(ProfileSnapshot{}, nil, DefaultMinScore, DefaultMaxResults, rankNow)
	if len(got) != 0 {
		t.Fatalf("len=%d, want 0", len(got))
	}
}
