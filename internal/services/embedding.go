package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pairforge/pairforge-backend/internal/clients/openai"
	"github.com/pairforge/pairforge-backend/internal/clients/pinecone"
	"github.com/pairforge/pairforge-backend/internal/pkg/apierr"
	"github.com/pairforge/pairforge-backend/internal/pkg/logger"
	"github.com/pairforge/pairforge-backend/internal/repos"
	"github.com/pairforge/pairforge-backend/internal/types"
)

// EmbeddingService turns a profile into a stored vector so the match
// pipeline can query for similar profiles.
type EmbeddingService interface {
	// GenerateForProfile embeds text describing the caller's profile,
	// stores the vector under the profile's id, and records that id on
	// the profile row. When text is empty a canonical rendering of the
	// profile fields is used instead.
	GenerateForProfile(ctx context.Context, userID uuid.UUID, text string) (string, error)
}

type embeddingService struct {
	db          *gorm.DB
	log         *logger.Logger
	profileRepo repos.ProfileRepo
	ai          openai.Client
	vectors     pinecone.VectorStore
}

func NewEmbeddingService(db *gorm.DB, log *logger.Logger, profileRepo repos.ProfileRepo, ai openai.Client, vectors pinecone.VectorStore) EmbeddingService {
	return &embeddingService{db: db, log: log, profileRepo: profileRepo, ai: ai, vectors: vectors}
}

func (es *embeddingService) GenerateForProfile(ctx context.Context, userID uuid.UUID, text string) (string, error) {
	if es.ai == nil || es.vectors == nil {
		return "", apierr.Misconfigured("embedding_unconfigured", fmt.Errorf("embedding dependencies are not configured"))
	}

	profile, err := es.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return "", err
	}
	if profile == nil {
		return "", apierr.BadRequest("profile_missing", fmt.Errorf("user %s has no profile to embed", userID))
	}

	text = strings.TrimSpace(text)
	if text == "" {
		text = embeddingText(profile)
	}
	if n := utf8.RuneCountInString(text); n < 20 || n > 4000 {
		return "", apierr.BadRequest("invalid_embedding_text", fmt.Errorf("embedding text must be 20 to 4000 characters"))
	}

	vectors, err := es.ai.Embed(ctx, []string{text})
	if err != nil {
		return "", fmt.Errorf("embed profile text: %w", err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return "", fmt.Errorf("embedding response contained no vector")
	}

	embeddingID := profile.ID.String()
	if err := es.vectors.UpsertProfileVector(ctx, embeddingID, vectors[0], userID, profile.ID); err != nil {
		return "", fmt.Errorf("store profile vector: %w", err)
	}
	if err := es.profileRepo.SetEmbeddingID(ctx, nil, profile.ID, userID, embeddingID); err != nil {
		return "", err
	}

	es.log.Info("profile embedding stored", "user_id", userID, "profile_id", profile.ID, "embedding_id", embeddingID)
	return embeddingID, nil
}

// embeddingText renders the matchable profile fields into one block of
// text. Field order is fixed so unchanged profiles embed identically.
func embeddingText(p *types.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s\n", p.ProductName)
	if p.ProductType != nil && *p.ProductType != "" {
		fmt.Fprintf(&b, "Category: %s\n", *p.ProductType)
	}
	fmt.Fprintf(&b, "Description: %s\n", p.ProductDescription)
	fmt.Fprintf(&b, "Audience size: %s\n", p.AudienceSize)
	if tags := decodeStringSlice(p.IndustryTags); len(tags) > 0 {
		fmt.Fprintf(&b, "Industries: %s\n", strings.Join(tags, ", "))
	}
	if offers := decodeStringSlice(p.WhatIOffer); len(offers) > 0 {
		fmt.Fprintf(&b, "Offers: %s\n", strings.Join(offers, ", "))
	}
	if wants := decodeStringSlice(p.WhatIWant); len(wants) > 0 {
		fmt.Fprintf(&b, "Looking for: %s\n", strings.Join(wants, ", "))
	}
	return strings.TrimSpace(b.String())
}
