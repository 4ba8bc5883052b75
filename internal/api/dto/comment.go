package dto

// CommentDTO 评论视图
type CommentDTO struct {
	ID           string        `json:"id"`
	ThingID      uint64        `json:"thing_id"`
	AuthorID     uint64        `json:"author_id"`
	AuthorName   string        `json:"author_name"`
	AvatarURL    string        `json:"avatar_url,omitempty"`
	Content      string        `json:"content"`
	TaggedUsers  []string      `json:"tagged_users"`
	LikeCount    int           `json:"like_count"`
	HasLiked     bool          `json:"has_liked"`
	RootID       string        `json:"root_id,omitempty"`
	ParentID     string        `json:"parent_id,omitempty"`
	VoiceURL     string        `json:"voice_url,omitempty"`
	VoiceSecs    int           `json:"voice_secs,omitempty"`
	ReplyCount   int           `json:"reply_count"`
	Replies      []*CommentDTO `json:"replies,omitempty"`
	CreatedAt    string        `json:"created_at"`
}

// CommentListDTO 一级评论分页，Total 为该 Thing 的评论总数
type CommentListDTO struct {
	List  []*CommentDTO `json:"list"`
	Total int64         `json:"total"`
}

// CreateCommentDTO 发表评论
type CreateCommentDTO struct {
	ThingID   uint64 `json:"thing_id" binding:"required"`
	Content   string `json:"content" validate:"max=1000"`
	RootID    string `json:"root_id"`
	ParentID  string `json:"parent_id"`
	VoiceURL  string `json:"voice_url"`
	VoiceSecs int    `json:"voice_secs"`
}

// CommentQueryDTO 评论列表查询
type CommentQueryDTO struct {
	ThingID uint64 `json:"thing_id" form:"thing_id" binding:"required"`
	Limit   int64  `json:"limit" form:"limit"`
	Offset  int64  `json:"offset" form:"offset"`
}
