package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pairforge/pairforge-backend/internal/pkg/apierr"
	"github.com/pairforge/pairforge-backend/internal/types"
)

func TestMatchListJoinsPartnerRows(t *testing.T) {
	log := testLogger(t)
	owner := uuid.New()
	partnerA := testUser(uuid.New(), true)
	partnerB := testUser(uuid.New(), true)
	gone := uuid.New()

	matchRepo := &fakeMatchRepo{matches: []*types.Match{
		{ID: uuid.New(), UserID: owner, PartnerID: partnerA.ID, MatchScore: 90, Status: types.MatchStatusSuggested},
		{ID: uuid.New(), UserID: owner, PartnerID: partnerB.ID, MatchScore: 70, Status: types.MatchStatusSuggested},
		{ID: uuid.New(), UserID: owner, PartnerID: gone, MatchScore: 65, Status: types.MatchStatusSuggested},
	}}
	userRepo := &fakeUserRepo{users: map[uuid.UUID]*types.User{partnerA.ID: partnerA, partnerB.ID: partnerB}}
	profileRepo := &fakeProfileRepo{profiles: map[uuid.UUID]*types.Profile{
		partnerA.ID: testProfile(partnerA.ID),
		partnerB.ID: testProfile(partnerB.ID),
	}}

	svc := NewMatchService(nil, log, matchRepo, userRepo, profileRepo)
	views, err := svc.List(context.Background(), owner, MatchListQuery{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	// The partner without user and profile rows is dropped.
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	for _, v := range views {
		if v.Partner == nil || v.PartnerProfile == nil {
			t.Fatalf("view missing joined rows")
		}
	}
}

func TestMatchListFiltersByCategoryAndActivity(t *testing.T) {
	log := testLogger(t)
	owner := uuid.New()

	active := testUser(uuid.New(), true)
	stale := testUser(uuid.New(), true)
	stale.LastActiveAt = timePtr(time.Now().UTC().Add(-30 * 24 * time.Hour))

	activeProfile := testProfile(active.ID)
	staleProfile := testProfile(stale.ID)
	staleProfile.ProductType = strPtr("podcast")

	matchRepo := &fakeMatchRepo{matches: []*types.Match{
		{ID: uuid.New(), UserID: owner, PartnerID: active.ID, MatchScore: 80, Status: types.MatchStatusSuggested},
		{ID: uuid.New(), UserID: owner, PartnerID: stale.ID, MatchScore: 85, Status: types.MatchStatusSuggested},
	}}
	userRepo := &fakeUserRepo{users: map[uuid.UUID]*types.User{active.ID: active, stale.ID: stale}}
	profileRepo := &fakeProfileRepo{profiles: map[uuid.UUID]*types.Profile{
		active.ID: activeProfile,
		stale.ID:  staleProfile,
	}}
	svc := NewMatchService(nil, log, matchRepo, userRepo, profileRepo)

	byCategory, err := svc.List(context.Background(), owner, MatchListQuery{Category: "Newsletter"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].Partner.ID != active.ID {
		t.Errorf("category filter should match case-insensitively, got %d views", len(byCategory))
	}

	byActivity, err := svc.List(context.Background(), owner, MatchListQuery{ActiveThisWeek: true})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(byActivity) != 1 || byActivity[0].Partner.ID != active.ID {
		t.Errorf("activity filter should drop stale partners, got %d views", len(byActivity))
	}
}

func TestMatchGetEnforcesParticipants(t *testing.T) {
	log := testLogger(t)
	owner := testUser(uuid.New(), true)
	partner := testUser(uuid.New(), true)
	match := &types.Match{ID: uuid.New(), UserID: owner.ID, PartnerID: partner.ID, MatchScore: 77, Status: types.MatchStatusSuggested}

	svc := NewMatchService(nil, log,
		&fakeMatchRepo{matches: []*types.Match{match}},
		&fakeUserRepo{users: map[uuid.UUID]*types.User{owner.ID: owner, partner.ID: partner}},
		&fakeProfileRepo{profiles: map[uuid.UUID]*types.Profile{
			owner.ID:   testProfile(owner.ID),
			partner.ID: testProfile(partner.ID),
		}})

	view, err := svc.Get(context.Background(), owner.ID, match.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if view.Partner.ID != partner.ID {
		t.Errorf("partner = %s, want %s", view.Partner.ID, partner.ID)
	}

	// The partner sees the owner as their counterpart.
	mirror, err := svc.Get(context.Background(), partner.ID, match.ID)
	if err != nil {
		t.Fatalf("partner Get returned error: %v", err)
	}
	if mirror.Partner.ID != owner.ID {
		t.Errorf("mirror partner = %s, want %s", mirror.Partner.ID, owner.ID)
	}

	if _, err := svc.Get(context.Background(), uuid.New(), match.ID); apierr.StatusOf(err) != 403 {
		t.Errorf("foreign user: expected 403, got %v", err)
	}
	if _, err := svc.Get(context.Background(), owner.ID, uuid.New()); apierr.StatusOf(err) != 404 {
		t.Errorf("unknown match: expected 404, got %v", err)
	}
}
