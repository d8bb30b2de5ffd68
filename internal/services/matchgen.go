package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pairforge/pairforge-backend/internal/clients/pinecone"
	"github.com/pairforge/pairforge-backend/internal/matching"
	"github.com/pairforge/pairforge-backend/internal/pkg/apierr"
	"github.com/pairforge/pairforge-backend/internal/pkg/logger"
	"github.com/pairforge/pairforge-backend/internal/repos"
	"github.com/pairforge/pairforge-backend/internal/types"
)

const explanationConcurrency = 4

// MatchGenConfig carries the tunables of the generation pipeline. Use
// DefaultMatchGenConfig unless an env override applies.
type MatchGenConfig struct {
	TopK              int
	MinScore          int
	OnDemandMax       int
	BatchMax          int
	OnDemandCooldown  time.Duration
	BatchCooldown     time.Duration
	BatchActiveWindow time.Duration
}

func DefaultMatchGenConfig() MatchGenConfig {
	return MatchGenConfig{
		TopK:              50,
		MinScore:          matching.DefaultMinScore,
		OnDemandMax:       matching.DefaultMaxResults,
		BatchMax:          matching.DefaultBatchMaxResults,
		OnDemandCooldown:  5 * time.Minute,
		BatchCooldown:     24 * time.Hour,
		BatchActiveWindow: 30 * 24 * time.Hour,
	}
}

// GenerateOptions select between the on-demand and scheduled shapes of
// a single generation run.
type GenerateOptions struct {
	MinScore   int
	MaxResults int
	// Cooldown rejects the run when any match row for the user was
	// created inside the window. Zero disables the check.
	Cooldown time.Duration
	// RefreshExisting re-upserts partners that already have a suggested
	// row instead of leaving those rows untouched.
	RefreshExisting bool
}

// GeneratedMatch is one pipeline result, fully joined for rendering.
type GeneratedMatch struct {
	Partner        *types.User
	PartnerProfile *types.Profile
	Score          int
	Breakdown      matching.ScoreBreakdown
	Reasons        *types.MatchReasons
}

// RefreshSummary reports a scheduled refresh run.
type RefreshSummary struct {
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

type MatchGenerationService interface {
	// GenerateForUser runs the full pipeline for one user: cooldown
	// check, vector query, candidate assembly, scoring, explanation, and
	// persistence of suggested rows.
	GenerateForUser(ctx context.Context, userID uuid.UUID, opts GenerateOptions) ([]*GeneratedMatch, error)
	// OnDemandOptions and BatchOptions are the two configured shapes of
	// GenerateOptions.
	OnDemandOptions() GenerateOptions
	BatchOptions() GenerateOptions
	// RefreshAll regenerates suggestions for every recently active
	// onboarded user. Failures are isolated per user.
	RefreshAll(ctx context.Context) (RefreshSummary, error)
}

type matchGenerationService struct {
	db          *gorm.DB
	log         *logger.Logger
	cfg         MatchGenConfig
	userRepo    repos.UserRepo
	profileRepo repos.ProfileRepo
	matchRepo   repos.MatchRepo
	assembler   CandidateAssembler
	vectors     pinecone.VectorStore
	explainer   ExplanationService
	now         func() time.Time
}

func NewMatchGenerationService(
	db *gorm.DB,
	log *logger.Logger,
	cfg MatchGenConfig,
	userRepo repos.UserRepo,
	profileRepo repos.ProfileRepo,
	matchRepo repos.MatchRepo,
	assembler CandidateAssembler,
	vectors pinecone.VectorStore,
	explainer ExplanationService,
) MatchGenerationService {
	return &matchGenerationService{
		db:          db,
		log:         log,
		cfg:         cfg,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		matchRepo:   matchRepo,
		assembler:   assembler,
		vectors:     vectors,
		explainer:   explainer,
		now:         time.Now,
	}
}

func (ms *matchGenerationService) OnDemandOptions() GenerateOptions {
	return GenerateOptions{
		MinScore:   ms.cfg.MinScore,
		MaxResults: ms.cfg.OnDemandMax,
		Cooldown:   ms.cfg.OnDemandCooldown,
	}
}

func (ms *matchGenerationService) BatchOptions() GenerateOptions {
	return GenerateOptions{
		MinScore:        ms.cfg.MinScore,
		MaxResults:      ms.cfg.BatchMax,
		Cooldown:        ms.cfg.BatchCooldown,
		RefreshExisting: true,
	}
}

func (ms *matchGenerationService) GenerateForUser(ctx context.Context, userID uuid.UUID, opts GenerateOptions) ([]*GeneratedMatch, error) {
	if ms.vectors == nil {
		return nil, apierr.Misconfigured("vector_index_unconfigured", fmt.Errorf("vector index is not configured"))
	}

	now := ms.now().UTC()

	if opts.Cooldown > 0 {
		count, err := ms.matchRepo.CountCreatedSince(ctx, nil, userID, now.Add(-opts.Cooldown))
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, apierr.RateLimited("generation_cooldown", fmt.Errorf("matches were generated within the last %s", opts.Cooldown))
		}
	}

	profile, err := ms.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apierr.BadRequest("profile_missing", fmt.Errorf("user %s has no profile; complete onboarding first", userID))
	}
	if profile.EmbeddingID == "" {
		return nil, apierr.Conflict("embedding_missing", fmt.Errorf("profile %s has no stored embedding", profile.ID))
	}

	hits, err := ms.vectors.QuerySimilar(ctx, profile.EmbeddingID, ms.cfg.TopK, userID)
	if err != nil {
		return nil, fmt.Errorf("query similar profiles: %w", err)
	}
	if len(hits) == 0 {
		return []*GeneratedMatch{}, nil
	}

	set, err := ms.assembler.Assemble(ctx, userID, hits)
	if err != nil {
		return nil, err
	}
	if len(set.Candidates) == 0 {
		return []*GeneratedMatch{}, nil
	}

	ranked := matching.Rank(profileSnapshot(profile), set.Candidates, opts.MinScore, opts.MaxResults, now)
	if len(ranked) == 0 {
		return []*GeneratedMatch{}, nil
	}

	reasons := make([]*types.MatchReasons, len(ranked))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(explanationConcurrency)
	for i, cand := range ranked {
		i, cand := i, cand
		group.Go(func() error {
			partnerName := ""
			if partner := set.Partners[cand.UserID]; partner != nil {
				partnerName = partner.Name
			}
			reasons[i] = ms.explainer.Explain(groupCtx, profile, set.Profiles[cand.UserID], partnerName, cand.Breakdown.Total)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	results := make([]*GeneratedMatch, 0, len(ranked))
	rows := make([]*types.Match, 0, len(ranked))
	for i, cand := range ranked {
		results = append(results, &GeneratedMatch{
			Partner:        set.Partners[cand.UserID],
			PartnerProfile: set.Profiles[cand.UserID],
			Score:          cand.Breakdown.Total,
			Breakdown:      cand.Breakdown,
			Reasons:        reasons[i],
		})

		if !opts.RefreshExisting {
			if _, ok := set.AlreadySuggested[cand.UserID]; ok {
				continue
			}
		}
		rows = append(rows, &types.Match{
			UserID:          userID,
			PartnerID:       cand.UserID,
			MatchScore:      cand.Breakdown.Total,
			MatchReasons:    encodeMatchReasons(reasons[i]),
			Status:          types.MatchStatusSuggested,
			LastInteraction: &now,
		})
	}

	if err := ms.matchRepo.UpsertSuggested(ctx, nil, rows); err != nil {
		return nil, err
	}

	ms.log.Info("match generation complete",
		"user_id", userID,
		"candidates", len(set.Candidates),
		"returned", len(results),
		"upserted", len(rows))
	return results, nil
}

func (ms *matchGenerationService) RefreshAll(ctx context.Context) (RefreshSummary, error) {
	var summary RefreshSummary

	activeSince := ms.now().UTC().Add(-ms.cfg.BatchActiveWindow)
	users, err := ms.userRepo.ListActiveOnboarded(ctx, nil, activeSince)
	if err != nil {
		return summary, err
	}

	opts := ms.BatchOptions()
	for _, user := range users {
		summary.Processed++
		switch err := ms.refreshOne(ctx, user.ID, opts); {
		case err == nil:
			summary.Succeeded++
		case apierr.StatusOf(err) == 429 || apierr.StatusOf(err) == 400 || apierr.StatusOf(err) == 409:
			// Not eligible right now: recent run, incomplete profile, or
			// missing embedding.
			summary.Skipped++
		default:
			summary.Failed++
			ms.log.Error("scheduled match refresh failed for user", "user_id", user.ID, "error", err)
		}
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
	}

	ms.log.Info("scheduled match refresh complete",
		"processed", summary.Processed,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"skipped", summary.Skipped)
	return summary, nil
}

func (ms *matchGenerationService) refreshOne(ctx context.Context, userID uuid.UUID, opts GenerateOptions) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during match refresh: %v", r)
		}
	}()
	_, err = ms.GenerateForUser(ctx, userID, opts)
	return err
}

func encodeMatchReasons(reasons *types.MatchReasons) datatypes.JSON {
	if reasons == nil {
		return nil
	}
	raw, err := json.Marshal(reasons)
	if err != nil {
		return nil
	}
	return raw
}
