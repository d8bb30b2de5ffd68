package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pairforge/pairforge-backend/internal/pkg/logger"
	"github.com/pairforge/pairforge-backend/internal/types"
)

// MatchListFilter narrows ListByUserID. Zero values mean "no filter".
type MatchListFilter struct {
	Status   string
	MinScore int
	// Sort is one of "score" (default), "date", "activity".
	Sort string
}

type MatchRepo interface {
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, filter MatchListFilter) ([]*types.Match, error)
	GetByID(ctx context.Context, tx *gorm.DB, matchID uuid.UUID) (*types.Match, error)
	// CountCreatedSince backs the durable generation cooldown: any row
	// created inside the window means a generation ran recently.
	CountCreatedSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int64, error)
	// UpsertSuggested inserts or refreshes suggested rows keyed on the
	// (user_id, partner_id) unique pair. Races resolve last-writer-wins.
	UpsertSuggested(ctx context.Context, tx *gorm.DB, matches []*types.Match) error
	// MarkContacted promotes a suggested match to contacted. A match
	// already past suggested keeps its status; the interaction time
	// still advances.
	MarkContacted(ctx context.Context, tx *gorm.DB, matchID uuid.UUID, at time.Time) error
}

type matchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMatchRepo(db *gorm.DB, baseLog *logger.Logger) MatchRepo {
	return &matchRepo{db: db, log: baseLog.With("repo", "MatchRepo")}
}

func (mr *matchRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, filter MatchListFilter) ([]*types.Match, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.Match{}).
		Where("user_id = ?", userID)

	if filter.Status != "" && filter.Status != "all" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.MinScore > 0 {
		query = query.Where("match_score >= ?", filter.MinScore)
	}

	switch filter.Sort {
	case "date":
		query = query.Order("created_at DESC")
	case "activity":
		query = query.Order("last_interaction DESC NULLS LAST")
	default:
		query = query.Order("match_score DESC")
	}

	var results []*types.Match
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *matchRepo) GetByID(ctx context.Context, tx *gorm.DB, matchID uuid.UUID) (*types.Match, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.Match
	if err := transaction.WithContext(ctx).
		Where("id = ?", matchID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (mr *matchRepo) CountCreatedSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Match{}).
		Where("user_id = ?", userID).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (mr *matchRepo) UpsertSuggested(ctx context.Context, tx *gorm.DB, matches []*types.Match) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if len(matches) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, m := range matches {
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		if m.Status == "" {
			m.Status = types.MatchStatusSuggested
		}
		m.UpdatedAt = now
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "partner_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"match_score", "match_reasons", "status", "last_interaction", "updated_at",
			}),
		}).
		Create(&matches).Error
}

func (mr *matchRepo) MarkContacted(ctx context.Context, tx *gorm.DB, matchID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	// Promote only from suggested; contacted never regresses and later
	// statuses are owned by the relationship flow.
	if err := transaction.WithContext(ctx).
		Model(&types.Match{}).
		Where("id = ? AND status = ?", matchID, types.MatchStatusSuggested).
		Updates(map[string]interface{}{
			"status":       types.MatchStatusContacted,
			"contacted_at": at,
		}).Error; err != nil {
		return err
	}

	return transaction.WithContext(ctx).
		Model(&types.Match{}).
		Where("id = ?", matchID).
		Updates(map[string]interface{}{
			"last_interaction": at,
			"updated_at":       at,
		}).Error
}
