package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LikeModel rows are unique per (user_id, twit_id); the toggle relies on
// that index for its atomicity.
type LikeModel struct {
	ID     string `gorm:"type:uuid;primary_key" json:"id"`
	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_twit" json:"user_id"`
	TwitID string `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_twit;index" json:"twit_id"`

	CreatedAt time.Time `json:"created_at"`
}

func (LikeModel) TableName() string {
	return "likes"
}

func (l *LikeModel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}
