package kafka

import "time"

// 领域事件类型
const (
	EventInteractionCreated = "interaction.created"
	EventInteractionUpdated = "interaction.updated"
	EventInteractionDeleted = "interaction.deleted"
	EventCommentCreated     = "comment.created"
	EventMentionCreated     = "mention.created"
	EventLikeCreated        = "like.created"
	EventFollowCreated      = "follow.created"
	EventShareAccepted      = "share.accepted"
	EventThingUpserted      = "thing.upserted"
	EventThingDeleted       = "thing.deleted"
)

// Event 应用自产的领域事件，写入单一事件主题，按消费者各取所需
type Event struct {
	Type          string    `json:"type"`
	ActorID       uint64    `json:"actor_id"`
	ActorName     string    `json:"actor_name,omitempty"`
	ThingID       uint64    `json:"thing_id,omitempty"`
	ThingTitle    string    `json:"thing_title,omitempty"`
	ThingVersion  int64     `json:"thing_version,omitempty"`
	InteractionID uint64    `json:"interaction_id,omitempty"`
	CommentID     string    `json:"comment_id,omitempty"`
	ReceiverIDs   []uint64  `json:"receiver_ids,omitempty"`
	Content       string    `json:"content,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
