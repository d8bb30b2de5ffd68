package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pairforge/pairforge-backend/internal/clients/openai"
	"github.com/pairforge/pairforge-backend/internal/pkg/apierr"
	"github.com/pairforge/pairforge-backend/internal/pkg/logger"
	"github.com/pairforge/pairforge-backend/internal/repos"
	"github.com/pairforge/pairforge-backend/internal/types"
)

const (
	defaultOutreachTone = "friendly"
	defaultCallToAction = "Explore a quick co-marketing collaboration"

	minCallToActionLength = 6
	maxCallToActionLength = 200
)

// OutreachTones are the voices a draft can be written in.
var OutreachTones = []string{"friendly", "professional", "bold", "warm"}

// OutreachInput selects the match to write for and how the draft
// should sound. Tone and CallToAction are optional.
type OutreachInput struct {
	MatchID      uuid.UUID `json:"matchId"`
	Tone         string    `json:"tone"`
	CallToAction string    `json:"callToAction"`
}

// OutreachDraft is a ready-to-send first message for a match.
type OutreachDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// OutreachService drafts the first outreach message for a match,
// introducing the sender's product and proposing a collaboration.
type OutreachService interface {
	Draft(ctx context.Context, userID uuid.UUID, input OutreachInput) (*OutreachDraft, error)
}

const outreachSystemPrompt = "You are an outreach assistant helping founders propose partnerships. Write compelling, value-oriented messages that lead to collaboration."

var outreachSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"subject": map[string]any{"type": "string"},
		"body":    map[string]any{"type": "string"},
	},
	"required":             []string{"subject", "body"},
	"additionalProperties": false,
}

type outreachService struct {
	db          *gorm.DB
	log         *logger.Logger
	ai          openai.Client
	matchRepo   repos.MatchRepo
	profileRepo repos.ProfileRepo
}

func NewOutreachService(db *gorm.DB, log *logger.Logger, ai openai.Client, matchRepo repos.MatchRepo, profileRepo repos.ProfileRepo) OutreachService {
	return &outreachService{
		db:          db,
		log:         log,
		ai:          ai,
		matchRepo:   matchRepo,
		profileRepo: profileRepo,
	}
}

func (osv *outreachService) Draft(ctx context.Context, userID uuid.UUID, input OutreachInput) (*OutreachDraft, error) {
	tone, callToAction, err := normalizeOutreachInput(input)
	if err != nil {
		return nil, err
	}
	if osv.ai == nil {
		return nil, apierr.Misconfigured("ai_unconfigured", fmt.Errorf("ai client is not configured"))
	}

	match, err := osv.matchRepo.GetByID(ctx, nil, input.MatchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, apierr.NotFound("match_not_found", fmt.Errorf("no match with id %s", input.MatchID))
	}
	if match.UserID != userID && match.PartnerID != userID {
		return nil, apierr.Forbidden("match_not_owned", fmt.Errorf("user %s is not a participant of match %s", userID, input.MatchID))
	}

	// The draft is written from the viewer to the other participant.
	partnerID := match.PartnerID
	if userID == match.PartnerID {
		partnerID = match.UserID
	}
	partnerProfile, err := osv.profileRepo.GetByUserID(ctx, nil, partnerID)
	if err != nil {
		return nil, err
	}
	if partnerProfile == nil {
		return nil, apierr.Conflict("partner_profile_missing", fmt.Errorf("partner %s has no profile", partnerID))
	}
	senderProfile, err := osv.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if senderProfile == nil {
		return nil, apierr.BadRequest("profile_missing", fmt.Errorf("user %s has no profile; complete onboarding first", userID))
	}

	prompt := outreachPrompt(senderProfile, partnerProfile, decodeMatchReasonsValue(match.MatchReasons), tone, callToAction)
	raw, err := osv.ai.GenerateJSON(ctx, outreachSystemPrompt, prompt, "message_suggestion", outreachSchema)
	if err != nil {
		osv.log.Error("outreach draft generation failed", "match_id", input.MatchID.String(), "error", err)
		return nil, err
	}

	draft := &OutreachDraft{
		Subject: stringValue(raw["subject"]),
		Body:    stringValue(raw["body"]),
	}
	if draft.Subject == "" {
		draft.Subject = fmt.Sprintf("PairForge partnership idea with %s", partnerProfile.ProductName)
	}
	if draft.Body == "" {
		draft.Body = "Hi there!"
	}
	return draft, nil
}

func normalizeOutreachInput(input OutreachInput) (tone string, callToAction string, err error) {
	tone = strings.TrimSpace(input.Tone)
	if tone == "" {
		tone = defaultOutreachTone
	}
	valid := false
	for _, t := range OutreachTones {
		if strings.EqualFold(tone, t) {
			tone = t
			valid = true
			break
		}
	}
	if !valid {
		return "", "", apierr.BadRequest("invalid_tone", fmt.Errorf("tone must be one of %s", strings.Join(OutreachTones, ", ")))
	}

	callToAction = strings.TrimSpace(input.CallToAction)
	if callToAction == "" {
		callToAction = defaultCallToAction
	} else if n := utf8.RuneCountInString(callToAction); n < minCallToActionLength || n > maxCallToActionLength {
		return "", "", apierr.BadRequest("invalid_call_to_action", fmt.Errorf("call to action must be %d to %d characters", minCallToActionLength, maxCallToActionLength))
	}
	return tone, callToAction, nil
}

func decodeMatchReasonsValue(raw []byte) *types.MatchReasons {
	if len(raw) == 0 {
		return nil
	}
	var reasons types.MatchReasons
	if err := json.Unmarshal(raw, &reasons); err != nil {
		return nil
	}
	return &reasons
}

func outreachPrompt(sender *types.Profile, partner *types.Profile, reasons *types.MatchReasons, tone string, callToAction string) string {
	var b strings.Builder
	b.WriteString("You are the outreach assistant for a founder seeking a partnership.\n\n")
	fmt.Fprintf(&b, "Write the first outreach message introducing their product and proposing a collaboration with the partner. Keep it under 180 words, adopt a %s tone, and include a clear, specific call-to-action: %q.\n\n", tone, callToAction)
	b.WriteString("Sender product:\n")
	writeOutreachBlock(&b, sender)
	b.WriteString("\nPartner product:\n")
	writeOutreachBlock(&b, partner)
	b.WriteString("\nMatching rationale:\n")
	if reasons != nil {
		b.WriteString(strings.Join(reasons.Reasons, "\n"))
	}
	b.WriteString("\nCollaboration ideas:\n")
	if reasons != nil {
		b.WriteString(strings.Join(reasons.CollaborationIdeas, "\n"))
	}
	b.WriteString("\n\nReturn JSON with a subject line and the email body. Keep the body conversational, value-oriented, and end with the specified call-to-action.")
	return b.String()
}

func writeOutreachBlock(b *strings.Builder, p *types.Profile) {
	productType := "Unknown"
	if p.ProductType != nil && *p.ProductType != "" {
		productType = *p.ProductType
	}
	fmt.Fprintf(b, "- Name: %s\n", p.ProductName)
	fmt.Fprintf(b, "- Type: %s\n", productType)
	fmt.Fprintf(b, "- Audience: %s\n", p.AudienceSize)
	fmt.Fprintf(b, "- Offers: %s\n", strings.Join(decodeStringSlice(p.WhatIOffer), ", "))
	fmt.Fprintf(b, "- Needs: %s\n", strings.Join(decodeStringSlice(p.WhatIWant), ", "))
	fmt.Fprintf(b, "- Summary: %s\n", p.ProductDescription)
}
