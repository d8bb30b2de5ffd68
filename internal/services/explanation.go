package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/pairforge/pairforge-backend/internal/clients/openai"
	"github.com/pairforge/pairforge-backend/internal/pkg/logger"
	"github.com/pairforge/pairforge-backend/internal/types"
)

// ExplanationService produces human-readable reasoning for a scored
// match. It never fails the match pipeline: any generation error falls
// back to a static explanation.
type ExplanationService interface {
	Explain(ctx context.Context, requester *types.Profile, partner *types.Profile, partnerName string, score int) *types.MatchReasons
}

// DefaultFallbackReasons is used when explanation generation is
// unavailable or returns something unusable.
var DefaultFallbackReasons = types.MatchReasons{
	Reasons: []string{
		"Strong overlap in target audiences and product themes",
		"Complementary offers that can create mutual value",
	},
	CollaborationIdeas: []string{
		"Co-host a webinar highlighting both products",
		"Run a joint email sequence introducing each product to existing audiences",
	},
	PotentialValue: "High potential reach through combined communities",
}

const explanationSystemPrompt = "You are an expert at pairing founders for growth collaborations. Explain why matches work based on their real products and audiences."

var explanationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"reasons": map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "string"},
			"minItems": 2,
			"maxItems": 4,
		},
		"collaboration_ideas": map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "string"},
			"minItems": 2,
			"maxItems": 3,
		},
		"potential_value": map[string]any{"type": "string"},
	},
	"required":             []string{"reasons", "collaboration_ideas", "potential_value"},
	"additionalProperties": false,
}

type explanationService struct {
	log      *logger.Logger
	ai       openai.Client
	fallback types.MatchReasons
}

func NewExplanationService(log *logger.Logger, ai openai.Client) ExplanationService {
	return &explanationService{log: log, ai: ai, fallback: DefaultFallbackReasons}
}

func (es *explanationService) Explain(ctx context.Context, requester *types.Profile, partner *types.Profile, partnerName string, score int) *types.MatchReasons {
	if es.ai == nil {
		fallback := es.fallback
		return &fallback
	}

	prompt := explanationPrompt(requester, partner, partnerName, score)
	raw, err := es.ai.GenerateJSON(ctx, explanationSystemPrompt, prompt, "match_explanation", explanationSchema)
	if err != nil {
		es.log.Warn("match explanation generation failed", "partner_name", partnerName, "error", err)
		fallback := es.fallback
		return &fallback
	}

	reasons := &types.MatchReasons{
		Reasons:            stringSliceValue(raw["reasons"]),
		CollaborationIdeas: stringSliceValue(raw["collaboration_ideas"]),
		PotentialValue:     stringValue(raw["potential_value"]),
	}
	if len(reasons.Reasons) < 2 || len(reasons.Reasons) > 4 ||
		len(reasons.CollaborationIdeas) < 2 || len(reasons.CollaborationIdeas) > 3 ||
		reasons.PotentialValue == "" {
		es.log.Warn("match explanation outside expected shape", "partner_name", partnerName)
		fallback := es.fallback
		return &fallback
	}
	return reasons
}

func explanationPrompt(requester *types.Profile, partner *types.Profile, partnerName string, score int) string {
	if partnerName == "" {
		partnerName = "Unknown"
	}
	var b strings.Builder
	b.WriteString("Explain why these two founders are a strong match.\n\n")
	b.WriteString("FOUNDER A:\n")
	writeProfileBlock(&b, requester)
	fmt.Fprintf(&b, "\nFOUNDER B:\nName: %s\n", partnerName)
	writeProfileBlock(&b, partner)
	fmt.Fprintf(&b, "\nMatch score: %d\n\n", score)
	b.WriteString("Provide 3-4 reasons grounded in their real products and audiences, plus 2-3 concrete collaboration ideas.")
	return b.String()
}

func writeProfileBlock(b *strings.Builder, p *types.Profile) {
	productType := "Unknown"
	if p.ProductType != nil && *p.ProductType != "" {
		productType = *p.ProductType
	}
	fmt.Fprintf(b, "Product: %s\n", p.ProductName)
	fmt.Fprintf(b, "Type: %s\n", productType)
	fmt.Fprintf(b, "Audience size: %s\n", p.AudienceSize)
	fmt.Fprintf(b, "Description: %s\n", p.ProductDescription)
	fmt.Fprintf(b, "Tags: %s\n", strings.Join(decodeStringSlice(p.IndustryTags), ", "))
	fmt.Fprintf(b, "Offers: %s\n", strings.Join(decodeStringSlice(p.WhatIOffer), ", "))
	fmt.Fprintf(b, "Wants: %s\n", strings.Join(decodeStringSlice(p.WhatIWant), ", "))
}

func stringValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func stringSliceValue(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := stringValue(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
