package model

type ThingTag struct {
	ThingID uint64 `gorm:"primaryKey" json:"thingId"`
	TagID   uint64 `gorm:"primaryKey;index:idx_tag_id" json:"tagId"`
}

func (ThingTag) TableName() string {
	return "thing_tags"
}
