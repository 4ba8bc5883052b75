package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment Thing 下的评论文档
type Comment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ThingID     uint64             `bson:"thing_id" json:"thingId"`
	AuthorID    uint64             `bson:"author_id" json:"authorId"`
	AuthorName  string             `bson:"author_name" json:"authorName"` // 冗余展示名，改名后不回填
	Content     string             `bson:"content" json:"content"`
	TaggedUsers []string           `bson:"tagged_users,omitempty" json:"taggedUsers"` // @提及的用户名
	LikedBy     []uint64           `bson:"liked_by,omitempty" json:"likedBy"`
	RootID      string             `bson:"root_id,omitempty" json:"rootId"`     // 空串表示一级评论
	ParentID    string             `bson:"parent_id,omitempty" json:"parentId"` // 空串表示直接评论 Thing
	VoiceURL    string             `bson:"voice_url,omitempty" json:"voiceUrl"`
	VoiceSecs   float64            `bson:"voice_secs,omitempty" json:"voiceSecs"`
	IsDeleted   bool               `bson:"is_deleted" json:"isDeleted"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}
