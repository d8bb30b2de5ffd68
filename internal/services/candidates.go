package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pairforge/pairforge-backend/internal/clients/pinecone"
	"github.com/pairforge/pairforge-backend/internal/matching"
	"github.com/pairforge/pairforge-backend/internal/pkg/logger"
	"github.com/pairforge/pairforge-backend/internal/repos"
	"github.com/pairforge/pairforge-backend/internal/types"
)

// CandidateSet is the output of candidate assembly: scored-candidate
// inputs in similarity order plus the partner rows needed to render
// them later.
type CandidateSet struct {
	Candidates []matching.MatchCandidate
	// Partners and Profiles are keyed by partner user id and cover
	// every entry in Candidates.
	Partners map[uuid.UUID]*types.User
	Profiles map[uuid.UUID]*types.Profile
	// AlreadySuggested holds partner ids the requester already has a
	// suggested match row for.
	AlreadySuggested map[uuid.UUID]struct{}
}

// CandidateAssembler joins similarity hits against relational rows and
// drops candidates that cannot be suggested.
type CandidateAssembler interface {
	Assemble(ctx context.Context, requesterID uuid.UUID, hits []pinecone.SimilarityHit) (*CandidateSet, error)
}

type candidateAssembler struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	profileRepo repos.ProfileRepo
	matchRepo   repos.MatchRepo
}

func NewCandidateAssembler(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, profileRepo repos.ProfileRepo, matchRepo repos.MatchRepo) CandidateAssembler {
	return &candidateAssembler{db: db, log: log, userRepo: userRepo, profileRepo: profileRepo, matchRepo: matchRepo}
}

func (ca *candidateAssembler) Assemble(ctx context.Context, requesterID uuid.UUID, hits []pinecone.SimilarityHit) (*CandidateSet, error) {
	set := &CandidateSet{
		Partners:         make(map[uuid.UUID]*types.User),
		Profiles:         make(map[uuid.UUID]*types.Profile),
		AlreadySuggested: make(map[uuid.UUID]struct{}),
	}
	if len(hits) == 0 {
		return set, nil
	}

	existing, err := ca.matchRepo.ListByUserID(ctx, nil, requesterID, repos.MatchListFilter{})
	if err != nil {
		return nil, err
	}
	blocked := make(map[uuid.UUID]struct{})
	for _, m := range existing {
		if m.Status == types.MatchStatusSuggested {
			set.AlreadySuggested[m.PartnerID] = struct{}{}
		} else {
			blocked[m.PartnerID] = struct{}{}
		}
	}

	candidateIDs := make([]uuid.UUID, 0, len(hits))
	seen := make(map[uuid.UUID]struct{}, len(hits))
	for _, hit := range hits {
		if hit.UserID == requesterID {
			continue
		}
		if _, ok := seen[hit.UserID]; ok {
			continue
		}
		seen[hit.UserID] = struct{}{}
		candidateIDs = append(candidateIDs, hit.UserID)
	}
	if len(candidateIDs) == 0 {
		return set, nil
	}

	users, err := ca.userRepo.GetByIDs(ctx, nil, candidateIDs)
	if err != nil {
		return nil, err
	}
	profiles, err := ca.profileRepo.GetByUserIDs(ctx, nil, candidateIDs)
	if err != nil {
		return nil, err
	}

	userByID := make(map[uuid.UUID]*types.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}
	profileByUserID := make(map[uuid.UUID]*types.Profile, len(profiles))
	for _, p := range profiles {
		profileByUserID[p.UserID] = p
	}

	added := make(map[uuid.UUID]struct{}, len(hits))
	for _, hit := range hits {
		if hit.UserID == requesterID {
			continue
		}
		if _, ok := added[hit.UserID]; ok {
			continue
		}
		if _, ok := blocked[hit.UserID]; ok {
			continue
		}
		partner := userByID[hit.UserID]
		profile := profileByUserID[hit.UserID]
		if partner == nil || profile == nil {
			continue
		}
		if !partner.OnboardingCompleted {
			continue
		}
		added[hit.UserID] = struct{}{}

		set.Candidates = append(set.Candidates, matching.MatchCandidate{
			UserID:     hit.UserID,
			ProfileID:  profile.ID,
			Similarity: hit.Score,
			Profile:    profileSnapshot(profile),
			Trust:      trustSnapshot(partner),
		})
		set.Partners[hit.UserID] = partner
		set.Profiles[hit.UserID] = profile
	}

	return set, nil
}
