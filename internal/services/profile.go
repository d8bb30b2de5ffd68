package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pairforge/pairforge-backend/internal/matching"
	"github.com/pairforge/pairforge-backend/internal/pkg/apierr"
	"github.com/pairforge/pairforge-backend/internal/pkg/logger"
	"github.com/pairforge/pairforge-backend/internal/repos"
	"github.com/pairforge/pairforge-backend/internal/types"
)

// ProfileInput carries the fields a user may write on their own profile.
type ProfileInput struct {
	ProductName        string   `json:"productName"`
	ProductType        *string  `json:"productType"`
	ProductDescription string   `json:"productDescription"`
	WebsiteURL         *string  `json:"websiteUrl"`
	AudienceSize       string   `json:"audienceSize"`
	IndustryTags       []string `json:"industryTags"`
	WhatIOffer         []string `json:"whatIOffer"`
	WhatIWant          []string `json:"whatIWant"`
}

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
	Upsert(ctx context.Context, userID uuid.UUID, input ProfileInput) (*types.Profile, error)
}

type profileService struct {
	db          *gorm.DB
	log         *logger.Logger
	profileRepo repos.ProfileRepo
	userRepo    repos.UserRepo
}

func NewProfileService(db *gorm.DB, log *logger.Logger, profileRepo repos.ProfileRepo, userRepo repos.UserRepo) ProfileService {
	return &profileService{db: db, log: log, profileRepo: profileRepo, userRepo: userRepo}
}

func (ps *profileService) Get(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	return ps.profileRepo.GetByUserID(ctx, nil, userID)
}

func (ps *profileService) Upsert(ctx context.Context, userID uuid.UUID, input ProfileInput) (*types.Profile, error) {
	if err := validateProfileInput(&input); err != nil {
		return nil, err
	}

	existing, err := ps.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	profile := &types.Profile{
		UserID:             userID,
		ProductName:        strings.TrimSpace(input.ProductName),
		ProductType:        input.ProductType,
		ProductDescription: strings.TrimSpace(input.ProductDescription),
		WebsiteURL:         input.WebsiteURL,
		AudienceSize:       input.AudienceSize,
		IndustryTags:       encodeStringSlice(matching.NormalizeSet(input.IndustryTags)),
		WhatIOffer:         encodeStringSlice(matching.NormalizeSet(input.WhatIOffer)),
		WhatIWant:          encodeStringSlice(matching.NormalizeSet(input.WhatIWant)),
	}
	if existing != nil {
		profile.ID = existing.ID
		profile.EmbeddingID = existing.EmbeddingID
		profile.CreatedAt = existing.CreatedAt
	}

	if err := ps.profileRepo.Upsert(ctx, nil, profile); err != nil {
		return nil, err
	}
	if err := ps.userRepo.SetOnboardingCompleted(ctx, nil, userID, true); err != nil {
		return nil, err
	}
	return profile, nil
}

func validateProfileInput(input *ProfileInput) error {
	name := strings.TrimSpace(input.ProductName)
	if n := utf8.RuneCountInString(name); n < 2 || n > 120 {
		return apierr.BadRequest("invalid_product_name", fmt.Errorf("product name must be 2 to 120 characters"))
	}
	desc := strings.TrimSpace(input.ProductDescription)
	if n := utf8.RuneCountInString(desc); n < 50 || n > 2000 {
		return apierr.BadRequest("invalid_product_description", fmt.Errorf("product description must be 50 to 2000 characters"))
	}
	if !validTier(input.AudienceSize) {
		return apierr.BadRequest("invalid_audience_size", fmt.Errorf("audience size must be one of %v", matching.AudienceTiers))
	}
	if input.WebsiteURL != nil && *input.WebsiteURL != "" {
		if len(*input.WebsiteURL) > 200 {
			return apierr.BadRequest("invalid_website_url", fmt.Errorf("website url must be under 200 characters"))
		}
		parsed, err := url.Parse(*input.WebsiteURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return apierr.BadRequest("invalid_website_url", fmt.Errorf("website url is not a valid absolute url"))
		}
	}
	if err := validateEntrySet("industry_tags", input.IndustryTags, 40); err != nil {
		return err
	}
	if err := validateEntrySet("what_i_offer", input.WhatIOffer, 120); err != nil {
		return err
	}
	if err := validateEntrySet("what_i_want", input.WhatIWant, 120); err != nil {
		return err
	}
	return nil
}

func validateEntrySet(field string, values []string, maxLen int) error {
	normalized := matching.NormalizeSet(values)
	if len(normalized) == 0 {
		return apierr.BadRequest("invalid_"+field, fmt.Errorf("%s requires at least one entry", field))
	}
	for _, v := range normalized {
		if n := utf8.RuneCountInString(v); n < 2 || n > maxLen {
			return apierr.BadRequest("invalid_"+field, fmt.Errorf("%s entries must be 2 to %d characters", field, maxLen))
		}
	}
	return nil
}

func validTier(size string) bool {
	for _, tier := range matching.AudienceTiers {
		if strings.EqualFold(size, tier) {
			return true
		}
	}
	return false
}
