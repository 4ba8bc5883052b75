package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 通知类型
const (
	NotifyTypeRecommendation int8 = 1 // 有人通过你的分享收下了推荐
	NotifyTypeComment        int8 = 2 // 你的 Thing 收到评论
	NotifyTypeMention        int8 = 3 // 评论中被 @
	NotifyTypeLike           int8 = 4 // 互动被点赞
	NotifyTypeFollow         int8 = 5 // 被关注
)

// Notification 收件箱通知文档
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"`
	SenderID   uint64             `bson:"sender_id" json:"senderId"` // 动作发起者ID
	Type       int8               `bson:"type" json:"type"`
	ThingID    uint64             `bson:"thing_id,omitempty" json:"thingId"` // 关联 Thing
	Content    string             `bson:"content" json:"content"`            // 文案预览或评论片段
	Payload    map[string]any     `bson:"payload,omitempty" json:"payload"`  // 额外元数据（如 Thing 标题快照）
	IsRead     bool               `bson:"is_read" json:"isRead"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
