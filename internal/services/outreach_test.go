package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/pairforge/pairforge-backend/internal/pkg/apierr"
	"github.com/pairforge/pairforge-backend/internal/types"
)

type outreachFixture struct {
	owner   *types.User
	partner *types.User
	match   *types.Match
	ai      *fakeOpenAI
	svc     OutreachService

	profiles *fakeProfileRepo
}

func newOutreachFixture(t *testing.T, response map[string]any) *outreachFixture {
	t.Helper()
	log := testLogger(t)

	owner := testUser(uuid.New(), true)
	partner := testUser(uuid.New(), true)
	reasons := types.MatchReasons{
		Reasons:            []string{"Shared developer audience", "Complementary formats"},
		CollaborationIdeas: []string{"Cross-post a feature", "Bundle a launch promo"},
		PotentialValue:     "Warm intro to adjacent communities",
	}
	match := &types.Match{
		ID:           uuid.New(),
		UserID:       owner.ID,
		PartnerID:    partner.ID,
		MatchScore:   82,
		MatchReasons: encodeMatchReasons(&reasons),
		Status:       types.MatchStatusSuggested,
	}

	profiles := &fakeProfileRepo{profiles: map[uuid.UUID]*types.Profile{
		owner.ID:   testProfile(owner.ID),
		partner.ID: testProfile(partner.ID),
	}}
	profiles.profiles[partner.ID].ProductName = "Partner Digest"

	ai := &fakeOpenAI{response: response}
	svc := NewOutreachService(nil, log, ai,
		&fakeMatchRepo{matches: []*types.Match{match}}, profiles)

	return &outreachFixture{owner: owner, partner: partner, match: match, ai: ai, svc: svc, profiles: profiles}
}

func TestOutreachDraftHappyPath(t *testing.T) {
	fx := newOutreachFixture(t, map[string]any{
		"subject": "Quick partnership idea",
		"body":    "Hi, I run Product and think our audiences overlap.",
	})

	draft, err := fx.svc.Draft(context.Background(), fx.owner.ID, OutreachInput{MatchID: fx.match.ID})
	if err != nil {
		t.Fatalf("Draft returned error: %v", err)
	}
	if draft.Subject != "Quick partnership idea" {
		t.Errorf("subject = %q", draft.Subject)
	}
	if !strings.Contains(draft.Body, "audiences overlap") {
		t.Errorf("body = %q", draft.Body)
	}
}

func TestOutreachDraftPartnerSide(t *testing.T) {
	fx := newOutreachFixture(t, map[string]any{"subject": "s", "body": "b"})

	// The partner drafts toward the row's owner.
	if _, err := fx.svc.Draft(context.Background(), fx.partner.ID, OutreachInput{MatchID: fx.match.ID}); err != nil {
		t.Fatalf("Draft returned error for partner participant: %v", err)
	}
}

func TestOutreachDraftFillsMissingFields(t *testing.T) {
	fx := newOutreachFixture(t, map[string]any{"subject": "", "body": ""})

	draft, err := fx.svc.Draft(context.Background(), fx.owner.ID, OutreachInput{MatchID: fx.match.ID})
	if err != nil {
		t.Fatalf("Draft returned error: %v", err)
	}
	if draft.Subject != "PairForge partnership idea with Partner Digest" {
		t.Errorf("subject fallback = %q", draft.Subject)
	}
	if draft.Body != "Hi there!" {
		t.Errorf("body fallback = %q", draft.Body)
	}
}

func TestOutreachDraftValidation(t *testing.T) {
	fx := newOutreachFixture(t, map[string]any{"subject": "s", "body": "b"})

	_, err := fx.svc.Draft(context.Background(), fx.owner.ID, OutreachInput{MatchID: fx.match.ID, Tone: "sarcastic"})
	if apierr.CodeOf(err) != "invalid_tone" {
		t.Errorf("tone code = %q, want invalid_tone", apierr.CodeOf(err))
	}

	_, err = fx.svc.Draft(context.Background(), fx.owner.ID, OutreachInput{MatchID: fx.match.ID, CallToAction: "hey"})
	if apierr.CodeOf(err) != "invalid_call_to_action" {
		t.Errorf("cta code = %q, want invalid_call_to_action", apierr.CodeOf(err))
	}
}

func TestOutreachDraftAuthorization(t *testing.T) {
	fx := newOutreachFixture(t, map[string]any{"subject": "s", "body": "b"})

	if _, err := fx.svc.Draft(context.Background(), uuid.New(), OutreachInput{MatchID: fx.match.ID}); apierr.StatusOf(err) != 403 {
		t.Errorf("expected 403 for foreign user, got %v", err)
	}
	if _, err := fx.svc.Draft(context.Background(), fx.owner.ID, OutreachInput{MatchID: uuid.New()}); apierr.StatusOf(err) != 404 {
		t.Errorf("expected 404 for unknown match, got %v", err)
	}
}

func TestOutreachDraftMissingProfiles(t *testing.T) {
	fx := newOutreachFixture(t, map[string]any{"subject": "s", "body": "b"})

	delete(fx.profiles.profiles, fx.partner.ID)
	_, err := fx.svc.Draft(context.Background(), fx.owner.ID, OutreachInput{MatchID: fx.match.ID})
	if apierr.StatusOf(err) != 409 || apierr.CodeOf(err) != "partner_profile_missing" {
		t.Errorf("expected 409 partner_profile_missing, got %v", err)
	}

	fx = newOutreachFixture(t, map[string]any{"subject": "s", "body": "b"})
	delete(fx.profiles.profiles, fx.owner.ID)
	_, err = fx.svc.Draft(context.Background(), fx.owner.ID, OutreachInput{MatchID: fx.match.ID})
	if apierr.StatusOf(err) != 400 || apierr.CodeOf(err) != "profile_missing" {
		t.Errorf("expected 400 profile_missing, got %v", err)
	}
}

func TestOutreachDraftUnconfiguredAI(t *testing.T) {
	log := testLogger(t)
	svc := NewOutreachService(nil, log, nil, &fakeMatchRepo{}, &fakeProfileRepo{})

	_, err := svc.Draft(context.Background(), uuid.New(), OutreachInput{MatchID: uuid.New()})
	if apierr.StatusOf(err) != 503 {
		t.Fatalf("expected 503, got %v (status %d)", err, apierr.StatusOf(err))
	}
}

func TestOutreachDraftGenerationErrorPropagates(t *testing.T) {
	fx := newOutreachFixture(t, nil)
	genErr := errors.New("upstream timeout")
	fx.ai.err = genErr

	if _, err := fx.svc.Draft(context.Background(), fx.owner.ID, OutreachInput{MatchID: fx.match.ID}); !errors.Is(err, genErr) {
		t.Fatalf("expected generation error to propagate, got %v", err)
	}
}

func TestOutreachPromptContents(t *testing.T) {
	sender := testProfile(uuid.New())
	partner := testProfile(uuid.New())
	partner.ProductName = "Partner Digest"
	reasons := &types.MatchReasons{
		Reasons:            []string{"Shared developer audience"},
		CollaborationIdeas: []string{"Bundle a launch promo"},
	}

	prompt := outreachPrompt(sender, partner, reasons, "bold", "Book a 20 minute intro call")
	for _, want := range []string{
		"bold tone",
		"Book a 20 minute intro call",
		"Partner Digest",
		"Shared developer audience",
		"Bundle a launch promo",
		"under 180 words",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
