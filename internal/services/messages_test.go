package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/pairforge/pairforge-backend/internal/pkg/apierr"
	"github.com/pairforge/pairforge-backend/internal/types"
)

func TestSendMessageMarksContacted(t *testing.T) {
	log := testLogger(t)
	owner := uuid.New()
	partner := uuid.New()
	match := &types.Match{ID: uuid.New(), UserID: owner, PartnerID: partner, Status: types.MatchStatusSuggested}

	matchRepo := &fakeMatchRepo{matches: []*types.Match{match}}
	messageRepo := &fakeMessageRepo{}
	svc := NewMessageService(nil, log, matchRepo, messageRepo)

	message, err := svc.Send(context.Background(), owner, match.ID, "  Hey, love your newsletter.  ")
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if message.Body != "Hey, love your newsletter." {
		t.Errorf("body = %q, want trimmed", message.Body)
	}
	if message.SenderID != owner {
		t.Errorf("sender = %s, want %s", message.SenderID, owner)
	}
	if len(matchRepo.contacted) != 1 || matchRepo.contacted[0] != match.ID {
		t.Errorf("expected MarkContacted for %s, got %v", match.ID, matchRepo.contacted)
	}
}

func TestSendMessageByPartnerIsAllowed(t *testing.T) {
	log := testLogger(t)
	owner := uuid.New()
	partner := uuid.New()
	match := &types.Match{ID: uuid.New(), UserID: owner, PartnerID: partner, Status: types.MatchStatusContacted}

	svc := NewMessageService(nil, log, &fakeMatchRepo{matches: []*types.Match{match}}, &fakeMessageRepo{})
	if _, err := svc.Send(context.Background(), partner, match.ID, "Thanks for reaching out"); err != nil {
		t.Fatalf("partner send returned error: %v", err)
	}
}

func TestSendMessageRejectsOutsider(t *testing.T) {
	log := testLogger(t)
	match := &types.Match{ID: uuid.New(), UserID: uuid.New(), PartnerID: uuid.New()}

	svc := NewMessageService(nil, log, &fakeMatchRepo{matches: []*types.Match{match}}, &fakeMessageRepo{})
	_, err := svc.Send(context.Background(), uuid.New(), match.ID, "hello")
	if apierr.StatusOf(err) != 403 {
		t.Fatalf("expected 403, got %v (status %d)", err, apierr.StatusOf(err))
	}
}

func TestSendMessageUnknownMatch(t *testing.T) {
	log := testLogger(t)
	svc := NewMessageService(nil, log, &fakeMatchRepo{}, &fakeMessageRepo{})

	_, err := svc.Send(context.Background(), uuid.New(), uuid.New(), "hello")
	if apierr.StatusOf(err) != 404 {
		t.Fatalf("expected 404, got %v (status %d)", err, apierr.StatusOf(err))
	}
}

func TestSendMessageValidation(t *testing.T) {
	log := testLogger(t)
	owner := uuid.New()
	match := &types.Match{ID: uuid.New(), UserID: owner, PartnerID: uuid.New()}
	svc := NewMessageService(nil, log, &fakeMatchRepo{matches: []*types.Match{match}}, &fakeMessageRepo{})

	if _, err := svc.Send(context.Background(), owner, match.ID, "   "); apierr.StatusOf(err) != 400 {
		t.Errorf("blank body: expected 400, got %v", err)
	}
	long := strings.Repeat("a", maxMessageLength+1)
	if _, err := svc.Send(context.Background(), owner, match.ID, long); apierr.StatusOf(err) != 400 {
		t.Errorf("oversized body: expected 400, got %v", err)
	}
}

func TestListMessagesRequiresParticipant(t *testing.T) {
	log := testLogger(t)
	owner := uuid.New()
	match := &types.Match{ID: uuid.New(), UserID: owner, PartnerID: uuid.New()}
	messageRepo := &fakeMessageRepo{messages: []*types.Message{
		{ID: uuid.New(), MatchID: match.ID, SenderID: owner, Body: "first"},
	}}
	svc := NewMessageService(nil, log, &fakeMatchRepo{matches: []*types.Match{match}}, messageRepo)

	messages, err := svc.List(context.Background(), owner, match.ID)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}

	if _, err := svc.List(context.Background(), uuid.New(), match.ID); apierr.StatusOf(err) != 403 {
		t.Errorf("outsider list: expected 403, got %v", err)
	}
}
