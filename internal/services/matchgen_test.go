package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pairforge/pairforge-backend/internal/clients/pinecone"
	"github.com/pairforge/pairforge-backend/internal/pkg/apierr"
	"github.com/pairforge/pairforge-backend/internal/types"
)

type matchGenFixture struct {
	svc       *matchGenerationService
	userRepo  *fakeUserRepo
	profiles  *fakeProfileRepo
	matches   *fakeMatchRepo
	vectors   *fakeVectorStore
	explainer *fakeExplainer
	requester uuid.UUID
}

func newMatchGenFixture(t *testing.T) *matchGenFixture {
	log := testLogger(t)
	requester := uuid.New()

	requesterProfile := testProfile(requester)

	userRepo := &fakeUserRepo{users: map[uuid.UUID]*types.User{}}
	profileRepo := &fakeProfileRepo{profiles: map[uuid.UUID]*types.Profile{requester: requesterProfile}}
	matchRepo := &fakeMatchRepo{}
	vectors := &fakeVectorStore{}
	explainer := &fakeExplainer{reasons: DefaultFallbackReasons}

	assembler := NewCandidateAssembler(nil, log, userRepo, profileRepo, matchRepo)
	svc := NewMatchGenerationService(
		nil, log, DefaultMatchGenConfig(),
		userRepo, profileRepo, matchRepo,
		assembler, vectors, explainer,
	).(*matchGenerationService)

	return &matchGenFixture{
		svc:       svc,
		userRepo:  userRepo,
		profiles:  profileRepo,
		matches:   matchRepo,
		vectors:   vectors,
		explainer: explainer,
		requester: requester,
	}
}

func (f *matchGenFixture) addCandidate(score float64) *types.User {
	partner := testUser(uuid.New(), true)
	f.userRepo.users[partner.ID] = partner
	f.profiles.profiles[partner.ID] = testProfile(partner.ID)
	f.vectors.hits = append(f.vectors.hits, pinecone.SimilarityHit{UserID: partner.ID, Score: score})
	return partner
}

func TestGenerateForUserHappyPath(t *testing.T) {
	f := newMatchGenFixture(t)
	partner := f.addCandidate(0.92)

	results, err := f.svc.GenerateForUser(context.Background(), f.requester, f.svc.OnDemandOptions())
	if err != nil {
		t.Fatalf("GenerateForUser returned error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Partner.ID != partner.ID {
		t.Errorf("partner = %s, want %s", results[0].Partner.ID, partner.ID)
	}
	if results[0].Reasons == nil {
		t.Errorf("expected reasons attached to result")
	}
	if f.explainer.calls != 1 {
		t.Errorf("explainer calls = %d, want 1", f.explainer.calls)
	}
	if len(f.matches.upserted) != 1 {
		t.Fatalf("expected 1 upserted row, got %d", len(f.matches.upserted))
	}
	row := f.matches.upserted[0]
	if row.Status != types.MatchStatusSuggested {
		t.Errorf("status = %q, want suggested", row.Status)
	}
	if row.UserID != f.requester || row.PartnerID != partner.ID {
		t.Errorf("row keys = (%s, %s), want (%s, %s)", row.UserID, row.PartnerID, f.requester, partner.ID)
	}
	if row.MatchScore != results[0].Score {
		t.Errorf("row score = %d, result score = %d", row.MatchScore, results[0].Score)
	}
}

func TestGenerateForUserCooldown(t *testing.T) {
	f := newMatchGenFixture(t)
	f.addCandidate(0.9)
	f.matches.createdSince = 1

	_, err := f.svc.GenerateForUser(context.Background(), f.requester, f.svc.OnDemandOptions())
	if apierr.StatusOf(err) != 429 {
		t.Fatalf("expected 429, got %v (status %d)", err, apierr.StatusOf(err))
	}
	if len(f.matches.upserted) != 0 {
		t.Errorf("cooldown rejection must not write rows")
	}
}

func TestGenerateForUserMissingProfile(t *testing.T) {
	f := newMatchGenFixture(t)
	delete(f.profiles.profiles, f.requester)

	_, err := f.svc.GenerateForUser(context.Background(), f.requester, f.svc.OnDemandOptions())
	if apierr.StatusOf(err) != 400 {
		t.Fatalf("expected 400, got %v (status %d)", err, apierr.StatusOf(err))
	}
}

func TestGenerateForUserMissingEmbedding(t *testing.T) {
	f := newMatchGenFixture(t)
	f.profiles.profiles[f.requester].EmbeddingID = ""

	_, err := f.svc.GenerateForUser(context.Background(), f.requester, f.svc.OnDemandOptions())
	if apierr.StatusOf(err) != 409 {
		t.Fatalf("expected 409, got %v (status %d)", err, apierr.StatusOf(err))
	}
}

func TestGenerateForUserUnconfiguredVectors(t *testing.T) {
	f := newMatchGenFixture(t)
	f.svc.vectors = nil

	_, err := f.svc.GenerateForUser(context.Background(), f.requester, f.svc.OnDemandOptions())
	if apierr.StatusOf(err) != 503 {
		t.Fatalf("expected 503, got %v (status %d)", err, apierr.StatusOf(err))
	}
}

func TestGenerateForUserNoHits(t *testing.T) {
	f := newMatchGenFixture(t)

	results, err := f.svc.GenerateForUser(context.Background(), f.requester, f.svc.OnDemandOptions())
	if err != nil {
		t.Fatalf("GenerateForUser returned error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestGenerateForUserCapsResults(t *testing.T) {
	f := newMatchGenFixture(t)
	for i := 0; i < 15; i++ {
		f.addCandidate(0.95 - float64(i)*0.001)
	}

	opts := f.svc.OnDemandOptions()
	results, err := f.svc.GenerateForUser(context.Background(), f.requester, opts)
	if err != nil {
		t.Fatalf("GenerateForUser returned error: %v", err)
	}
	if len(results) != opts.MaxResults {
		t.Fatalf("expected %d results, got %d", opts.MaxResults, len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Score < results[i].Score {
			t.Fatalf("results not sorted descending at index %d", i)
		}
	}
}

func TestGenerateForUserSkipsUpsertForExistingSuggested(t *testing.T) {
	f := newMatchGenFixture(t)
	partner := f.addCandidate(0.92)
	f.matches.matches = []*types.Match{
		{ID: uuid.New(), UserID: f.requester, PartnerID: partner.ID, Status: types.MatchStatusSuggested},
	}

	results, err := f.svc.GenerateForUser(context.Background(), f.requester, f.svc.OnDemandOptions())
	if err != nil {
		t.Fatalf("GenerateForUser returned error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("existing suggested partner should still be returned, got %d results", len(results))
	}
	if len(f.matches.upserted) != 0 {
		t.Errorf("on-demand run must not rewrite existing suggested rows, upserted %d", len(f.matches.upserted))
	}
}

func TestGenerateForUserRefreshesExistingSuggested(t *testing.T) {
	f := newMatchGenFixture(t)
	partner := f.addCandidate(0.92)
	f.matches.matches = []*types.Match{
		{ID: uuid.New(), UserID: f.requester, PartnerID: partner.ID, Status: types.MatchStatusSuggested},
	}

	opts := f.svc.BatchOptions()
	opts.Cooldown = 0
	if _, err := f.svc.GenerateForUser(context.Background(), f.requester, opts); err != nil {
		t.Fatalf("GenerateForUser returned error: %v", err)
	}
	if len(f.matches.upserted) != 1 {
		t.Fatalf("batch run should refresh existing suggested rows, upserted %d", len(f.matches.upserted))
	}
}

func TestGenerateForUserExcludesContactedPartner(t *testing.T) {
	f := newMatchGenFixture(t)
	partner := f.addCandidate(0.92)
	f.matches.matches = []*types.Match{
		{ID: uuid.New(), UserID: f.requester, PartnerID: partner.ID, Status: types.MatchStatusContacted},
	}

	results, err := f.svc.GenerateForUser(context.Background(), f.requester, f.svc.OnDemandOptions())
	if err != nil {
		t.Fatalf("GenerateForUser returned error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("contacted partner must not be re-suggested, got %d results", len(results))
	}
}

func TestRefreshAllIsolatesPerUserFailures(t *testing.T) {
	f := newMatchGenFixture(t)

	now := time.Now().UTC()
	ready := testUser(uuid.New(), true)
	ready.LastActiveAt = timePtr(now)
	noEmbedding := testUser(uuid.New(), true)
	noEmbedding.LastActiveAt = timePtr(now)
	stale := testUser(uuid.New(), true)
	stale.LastActiveAt = timePtr(now.Add(-90 * 24 * time.Hour))

	f.userRepo.users[ready.ID] = ready
	f.userRepo.users[noEmbedding.ID] = noEmbedding
	f.userRepo.users[stale.ID] = stale

	f.profiles.profiles[ready.ID] = testProfile(ready.ID)
	brokenProfile := testProfile(noEmbedding.ID)
	brokenProfile.EmbeddingID = ""
	f.profiles.profiles[noEmbedding.ID] = brokenProfile

	summary, err := f.svc.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("RefreshAll returned error: %v", err)
	}
	// The stale user is filtered by the active window before processing.
	if summary.Processed != 2 {
		t.Errorf("processed = %d, want 2", summary.Processed)
	}
	if summary.Succeeded != 1 {
		t.Errorf("succeeded = %d, want 1", summary.Succeeded)
	}
	if summary.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", summary.Skipped)
	}
	if summary.Failed != 0 {
		t.Errorf("failed = %d, want 0", summary.Failed)
	}
}
