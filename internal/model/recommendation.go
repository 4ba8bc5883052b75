package model

import (
	"time"
)

// Recommendation 推荐归因边：recipient 因 recommender 的分享收下了 thing
type Recommendation struct {
	ID            uint64    `gorm:"primaryKey"`
	RecommenderID uint64    `gorm:"not null;index:idx_recommender_id" json:"recommenderId"`
	RecipientID   uint64    `gorm:"not null;uniqueIndex:idx_recipient_thing,priority:1" json:"recipientId"`
	ThingID       uint64    `gorm:"not null;uniqueIndex:idx_recipient_thing,priority:2" json:"thingId"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}
