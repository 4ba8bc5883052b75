package dto

import "Rex/internal/model"

// ThingDTO Thing 详情
type ThingDTO struct {
	ID          uint64               `json:"id"`
	Title       string               `json:"title"`
	Category    string               `json:"category"`
	Description string               `json:"description"`
	ImageURL    string               `json:"image_url"`
	Source      string               `json:"source"`
	SourceID    string               `json:"source_id"`
	Metadata    *model.ThingMetadata `json:"metadata,omitempty"`
	Tags        []string             `json:"tags"`
	CreatorID   uint64               `json:"creator_id"`
	CreatedAt   string               `json:"created_at"`
}

// ThingBaseDTO Thing - 新增或修改
type ThingBaseDTO struct {
	Title       string               `json:"title" binding:"required" validate:"min=1,max=255"`
	Category    string               `json:"category" binding:"required"`
	Description string               `json:"description" validate:"max=2000"`
	ImageURL    string               `json:"image_url" validate:"max=512"`
	Source      string               `json:"source" validate:"max=50"`
	SourceID    string               `json:"source_id" validate:"max=128"`
	Metadata    *model.ThingMetadata `json:"metadata,omitempty"`
	Tags        []string             `json:"tags" validate:"max=10"`
}

// ThingFromLinkDTO 由链接创建 Thing
type ThingFromLinkDTO struct {
	URL string `json:"url" binding:"required" validate:"url"`
}

// ThingSearchDTO 站内搜索
type ThingSearchDTO struct {
	Keyword  string `json:"keyword" form:"keyword" binding:"required" validate:"min=1,max=100"`
	Category string `json:"category" form:"category"`
	From     int    `json:"from" form:"from"`
	Size     int    `json:"size" form:"size"`
}

// ThingPageDTO 最新 Thing 翻页
type ThingPageDTO struct {
	List    []*ThingDTO `json:"list"`
	Cursor  string      `json:"cursor"`
	HasMore bool        `json:"has_more"`
}

// MetadataSearchDTO 外部元数据源检索
type MetadataSearchDTO struct {
	Query    string `json:"query" form:"query" binding:"required" validate:"min=1,max=200"`
	Category string `json:"category" form:"category" binding:"required"`
}
