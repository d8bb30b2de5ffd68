package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Profile is a user's matchable product profile. At most one live row
// per user (unique user_id). The tag/offer/want arrays are stored
// case-insensitively deduplicated; see matching.NormalizeSet.
type Profile struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID             uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null;column:user_id" json:"user_id"`
	ProductName        string         `gorm:"not null;column:product_name" json:"product_name"`
	ProductType        *string        `gorm:"column:product_type" json:"product_type"`
	ProductDescription string         `gorm:"not null;column:product_description" json:"product_description"`
	WebsiteURL         *string        `gorm:"column:website_url" json:"website_url"`
	AudienceSize       string         `gorm:"column:audience_size" json:"audience_size"`
	IndustryTags       datatypes.JSON `gorm:"type:jsonb;column:industry_tags" json:"industry_tags"` // []string
	WhatIOffer         datatypes.JSON `gorm:"type:jsonb;column:what_i_offer" json:"what_i_offer"`   // []string
	WhatIWant          datatypes.JSON `gorm:"type:jsonb;column:what_i_want" json:"what_i_want"`     // []string
	EmbeddingID        string         `gorm:"column:embedding_id" json:"embedding_id"`
	CreatedAt          time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Profile) TableName() string { return "profile" }
