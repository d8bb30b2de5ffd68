package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	MatchStatusSuggested    = "suggested"
	MatchStatusContacted    = "contacted"
	MatchStatusInDiscussion = "in_discussion"
	MatchStatusPartnered    = "partnered"
	MatchStatusArchived     = "archived"
)

// Match is one ordered (user, partner) recommendation. Rows are
// upserted on the (user_id, partner_id) unique pair; any row whose
// status has moved past "suggested" is immutable to the ranking
// pipeline and blocks the pair from being re-suggested.
type Match struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_match_user_partner;column:user_id" json:"user_id"`
	PartnerID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_match_user_partner;column:partner_id" json:"partner_id"`
	MatchScore      int            `gorm:"not null;column:match_score" json:"match_score"`
	MatchReasons    datatypes.JSON `gorm:"type:jsonb;column:match_reasons" json:"match_reasons"` // MatchReasons | null
	Status          string         `gorm:"not null;default:'suggested';column:status" json:"status"`
	LastInteraction *time.Time     `gorm:"column:last_interaction" json:"last_interaction"`
	ContactedAt     *time.Time     `gorm:"column:contacted_at" json:"contacted_at"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Match) TableName() string { return "match" }

// MatchReasons is the structured explanation attached to a match.
// Validated at the generator boundary; opaque to scoring.
type MatchReasons struct {
	Reasons            []string `json:"reasons"`
	CollaborationIdeas []string `json:"collaboration_ideas"`
	PotentialValue     string   `json:"potential_value"`
}
