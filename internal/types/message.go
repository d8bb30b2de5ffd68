package types

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	MatchID   uuid.UUID `gorm:"type:uuid;not null;index;column:match_id" json:"match_id"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null;column:sender_id" json:"sender_id"`
	Body      string    `gorm:"not null;column:body" json:"body"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Message) TableName() string { return "message" }
