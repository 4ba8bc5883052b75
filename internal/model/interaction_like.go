package model

import (
	"time"
)

type InteractionLike struct {
	UserID        uint64    `gorm:"primaryKey" json:"userId"`
	InteractionID uint64    `gorm:"primaryKey;index:idx_interaction_id" json:"interactionId"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (InteractionLike) TableName() string {
	return "interaction_likes"
}
