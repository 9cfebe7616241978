package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RetwitModel struct {
	ID     string `gorm:"type:uuid;primary_key" json:"id"`
	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_retwits_user_twit" json:"user_id"`
	TwitID string `gorm:"type:uuid;not null;uniqueIndex:idx_retwits_user_twit;index" json:"twit_id"`

	CreatedAt time.Time `json:"created_at"`
}

func (RetwitModel) TableName() string {
	return "retwits"
}

func (r *RetwitModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
