package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pairforge/pairforge-backend/internal/pkg/apierr"
	"github.com/pairforge/pairforge-backend/internal/pkg/logger"
	"github.com/pairforge/pairforge-backend/internal/repos"
	"github.com/pairforge/pairforge-backend/internal/types"
)

const maxMessageLength = 4000

type MessageService interface {
	// Send stores a message on the match thread. The first message on a
	// suggested match promotes it to contacted.
	Send(ctx context.Context, userID, matchID uuid.UUID, body string) (*types.Message, error)
	List(ctx context.Context, userID, matchID uuid.UUID) ([]*types.Message, error)
}

type messageService struct {
	db          *gorm.DB
	log         *logger.Logger
	matchRepo   repos.MatchRepo
	messageRepo repos.MessageRepo
	now         func() time.Time
}

func NewMessageService(db *gorm.DB, log *logger.Logger, matchRepo repos.MatchRepo, messageRepo repos.MessageRepo) MessageService {
	return &messageService{
		db:          db,
		log:         log,
		matchRepo:   matchRepo,
		messageRepo: messageRepo,
		now:         time.Now,
	}
}

func (ms *messageService) Send(ctx context.Context, userID, matchID uuid.UUID, body string) (*types.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apierr.BadRequest("empty_message", fmt.Errorf("message body is empty"))
	}
	if utf8.RuneCountInString(body) > maxMessageLength {
		return nil, apierr.BadRequest("message_too_long", fmt.Errorf("message body exceeds %d characters", maxMessageLength))
	}

	if _, err := ms.authorize(ctx, userID, matchID); err != nil {
		return nil, err
	}

	message, err := ms.messageRepo.Create(ctx, nil, &types.Message{
		MatchID:  matchID,
		SenderID: userID,
		Body:     body,
	})
	if err != nil {
		return nil, err
	}
	if err := ms.matchRepo.MarkContacted(ctx, nil, matchID, ms.now().UTC()); err != nil {
		return nil, err
	}
	return message, nil
}

func (ms *messageService) List(ctx context.Context, userID, matchID uuid.UUID) ([]*types.Message, error) {
	if _, err := ms.authorize(ctx, userID, matchID); err != nil {
		return nil, err
	}
	return ms.messageRepo.ListByMatchID(ctx, nil, matchID)
}

func (ms *messageService) authorize(ctx context.Context, userID, matchID uuid.UUID) (*types.Match, error) {
	match, err := ms.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, apierr.NotFound("match_not_found", fmt.Errorf("no match with id %s", matchID))
	}
	if match.UserID != userID && match.PartnerID != userID {
		return nil, apierr.Forbidden("match_not_owned", fmt.Errorf("user %s is not a participant of match %s", userID, matchID))
	}
	return match, nil
}
