package es

import "time"

// ThingES 写入 ES 的完整文档
type ThingES struct {
	ID               uint64    `json:"id"`
	Title            string    `json:"title"`
	Category         string    `json:"category"`
	Description      string    `json:"description"`
	ImageURL         string    `json:"image_url"`
	Tags             []string  `json:"tags"`
	CreatorID        uint64    `json:"creator_id"`
	InteractionCount int       `json:"interaction_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
