package types

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                  uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email               string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Name                string     `gorm:"column:name" json:"name"`
	AvatarURL           string     `gorm:"column:avatar_url" json:"avatar_url"`
	IsVerified          *bool      `gorm:"column:is_verified" json:"is_verified"`
	ReferralCount       *int       `gorm:"column:referral_count" json:"referral_count"`
	LastActiveAt        *time.Time `gorm:"column:last_active_at" json:"last_active_at"`
	OnboardingCompleted bool       `gorm:"not null;default:false;column:onboarding_completed" json:"onboarding_completed"`
	CreatedAt           time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string { return "user" }
