package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pairforge/pairforge-backend/internal/clients/openai"
	"github.com/pairforge/pairforge-backend/internal/pkg/apierr"
	"github.com/pairforge/pairforge-backend/internal/pkg/logger"
)

const maxAnalysisTags = 8

// ProfileAnalysisInput is the raw product pitch to analyze. ProductType
// is optional.
type ProfileAnalysisInput struct {
	ProductName        string `json:"productName"`
	ProductDescription string `json:"productDescription"`
	ProductType        string `json:"productType"`
}

// ProfileAnalysis is the extracted matching metadata for a pitch.
type ProfileAnalysis struct {
	Tags    []string `json:"tags"`
	Summary string   `json:"summary"`
}

// ProfileAnalysisService extracts industry tags and a positioning
// summary from a product pitch, used to pre-fill onboarding.
type ProfileAnalysisService interface {
	Analyze(ctx context.Context, input ProfileAnalysisInput) (*ProfileAnalysis, error)
}

const analysisSystemPrompt = "You are an expert growth strategist that understands startup positioning, audience alignment, and collaborative partnerships."

var analysisSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"tags": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"summary": map[string]any{"type": "string"},
	},
	"required":             []string{"tags", "summary"},
	"additionalProperties": false,
}

type profileAnalysisService struct {
	log *logger.Logger
	ai  openai.Client
}

func NewProfileAnalysisService(log *logger.Logger, ai openai.Client) ProfileAnalysisService {
	return &profileAnalysisService{log: log, ai: ai}
}

func (pas *profileAnalysisService) Analyze(ctx context.Context, input ProfileAnalysisInput) (*ProfileAnalysis, error) {
	if err := validateAnalysisInput(&input); err != nil {
		return nil, err
	}
	if pas.ai == nil {
		return nil, apierr.Misconfigured("ai_unconfigured", fmt.Errorf("ai client is not configured"))
	}

	raw, err := pas.ai.GenerateJSON(ctx, analysisSystemPrompt, analysisPrompt(input), "profile_analysis", analysisSchema)
	if err != nil {
		pas.log.Error("profile analysis failed", "error", err)
		return nil, err
	}

	tags := stringSliceValue(raw["tags"])
	if len(tags) > maxAnalysisTags {
		tags = tags[:maxAnalysisTags]
	}
	return &ProfileAnalysis{
		Tags:    tags,
		Summary: stringValue(raw["summary"]),
	}, nil
}

func validateAnalysisInput(input *ProfileAnalysisInput) error {
	input.ProductName = strings.TrimSpace(input.ProductName)
	input.ProductDescription = strings.TrimSpace(input.ProductDescription)
	input.ProductType = strings.TrimSpace(input.ProductType)

	if n := utf8.RuneCountInString(input.ProductName); n < 2 || n > 120 {
		return apierr.BadRequest("invalid_product_name", fmt.Errorf("product name must be 2 to 120 characters"))
	}
	if n := utf8.RuneCountInString(input.ProductDescription); n < 50 || n > 2000 {
		return apierr.BadRequest("invalid_product_description", fmt.Errorf("product description must be 50 to 2000 characters"))
	}
	if input.ProductType != "" {
		if n := utf8.RuneCountInString(input.ProductType); n < 2 || n > 40 {
			return apierr.BadRequest("invalid_product_type", fmt.Errorf("product type must be 2 to 40 characters"))
		}
	}
	return nil
}

func analysisPrompt(input ProfileAnalysisInput) string {
	productType := input.ProductType
	if productType == "" {
		productType = "Unknown"
	}
	var b strings.Builder
	b.WriteString("Analyze the following founder profile and extract:\n")
	b.WriteString("1. 6-8 concise industry or audience tags that will help match them with complementary products.\n")
	b.WriteString("2. A short summary highlighting their differentiation and ideal partner.\n\n")
	b.WriteString("Profile:\n")
	fmt.Fprintf(&b, "Name: %s\n", input.ProductName)
	fmt.Fprintf(&b, "Type: %s\n", productType)
	fmt.Fprintf(&b, "Description: %s\n", input.ProductDescription)
	return b.String()
}
