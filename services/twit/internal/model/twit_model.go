package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TwitModel struct {
	ID         string  `gorm:"type:uuid;primary_key" json:"id"`
	AuthorID   string  `gorm:"type:uuid;not null;index" json:"author_id"`
	Content    string  `gorm:"type:text;not null" json:"content"`
	Video      string  `gorm:"type:varchar(500)" json:"video"`
	IsTwit     bool    `gorm:"not null;index" json:"is_twit"`
	IsReply    bool    `gorm:"not null" json:"is_reply"`
	ReplyForID *string `gorm:"type:uuid;index" json:"reply_for_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Images  []TwitImageModel `gorm:"foreignKey:TwitID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Replies []TwitModel      `gorm:"foreignKey:ReplyForID;constraint:OnDelete:CASCADE" json:"replies,omitempty"`
	Likes   []LikeModel      `gorm:"foreignKey:TwitID;constraint:OnDelete:CASCADE" json:"likes,omitempty"`
	Retwits []RetwitModel    `gorm:"foreignKey:TwitID;constraint:OnDelete:CASCADE" json:"retwits,omitempty"`
}

func (TwitModel) TableName() string {
	return "twits"
}

func (t *TwitModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

type TwitImageModel struct {
	ID       string `gorm:"type:uuid;primary_key" json:"id"`
	TwitID   string `gorm:"type:uuid;not null;index" json:"twit_id"`
	ImageURL string `gorm:"type:varchar(500);not null" json:"image_url"`
	Order    int    `gorm:"default:0;index" json:"order"`

	CreatedAt time.Time `json:"created_at"`
}

func (TwitImageModel) TableName() string {
	return "twit_images"
}

func (i *TwitImageModel) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
