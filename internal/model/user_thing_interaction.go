package model

import (
	"time"
)

// UserThingInteraction 一个用户对一个 Thing 的状态。
// (user_id, thing_id) 每人每物至多一条为准；库层不设唯一约束，
// 调用方先查再决定建还是改（与历史数据兼容）。
type UserThingInteraction struct {
	ID           uint64             `gorm:"primaryKey"`
	UserID       uint64             `gorm:"not null;index:idx_user_thing,priority:1" json:"userId"`
	UserName     string             `gorm:"type:varchar(50)" json:"userName"` // 冗余展示名，改名后不回填
	ThingID      uint64             `gorm:"not null;index:idx_user_thing,priority:2;index:idx_thing_id" json:"thingId"`
	State        string             `gorm:"type:varchar(20);not null" json:"state"`              // bucketList / inProgress / completed
	Visibility   string             `gorm:"type:varchar(20);not null;default:'friends'" json:"visibility"` // public / friends / private
	Rating       int                `gorm:"not null;default:0" json:"rating"`                    // 0 表示未评分
	Content      string             `gorm:"type:varchar(2000)" json:"content"`                   // 公开的"感想"
	Photos       *InteractionPhotos `gorm:"type:json;serializer:json" json:"photos"`
	Notes        string             `gorm:"type:varchar(2000)" json:"notes"` // 仅本人可见的私密笔记
	LikesCount   int                `gorm:"not null;default:0" json:"likesCount"`
	CommentCount int                `gorm:"not null;default:0" json:"commentCount"`
	Date         time.Time          `gorm:"not null;index:idx_date" json:"date"` // 最近一次状态变更时间
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`

	Thing Thing `gorm:"foreignKey:ThingID;references:ID"`
}

func (UserThingInteraction) TableName() string {
	return "user_thing_interactions"
}

// InteractionPhotos 附着的照片对象名列表
type InteractionPhotos []string
