package model

import (
	"time"
)

// Thing 可被推荐的实体（书、电影、地点、音乐等）
type Thing struct {
	ID          uint64         `gorm:"primaryKey"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Category    string         `gorm:"type:varchar(20);not null;index:idx_category" json:"category"`
	Description string         `gorm:"type:varchar(2000)" json:"description"`
	ImageURL    string         `gorm:"type:varchar(512)" json:"imageUrl"`
	Source      string         `gorm:"type:varchar(50);uniqueIndex:idx_source,priority:1" json:"source"`    // 元数据来源（openlibrary/tmdb/link/manual）
	SourceID    string         `gorm:"type:varchar(128);uniqueIndex:idx_source,priority:2" json:"sourceId"` // 来源侧 ID，(source, source_id) 去重
	Metadata    *ThingMetadata `gorm:"type:json;serializer:json" json:"metadata"`
	CreatorID   uint64         `gorm:"not null;index:idx_creator_id" json:"creatorId"`
	IsDeleted   bool           `gorm:"type:tinyint(1);not null;default:0" json:"isDeleted"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`

	// 关联关系
	Tags []Tag `gorm:"many2many:thing_tags;"`
}

func (Thing) TableName() string {
	return "things"
}

// ThingMetadata 来源相关的扩展元数据，按类别稀疏填充
type ThingMetadata struct {
	Author     string  `json:"author,omitempty"`
	Year       int     `json:"year,omitempty"`
	Director   string  `json:"director,omitempty"`
	Artist     string  `json:"artist,omitempty"`
	Address    string  `json:"address,omitempty"`
	Latitude   float64 `json:"latitude,omitempty"`
	Longitude  float64 `json:"longitude,omitempty"`
	PriceLevel int     `json:"priceLevel,omitempty"`
	URL        string  `json:"url,omitempty"`
	SiteName   string  `json:"siteName,omitempty"`
}
