package dto

// NotificationDTO 收件箱通知
type NotificationDTO struct {
	ID         string         `json:"id"`
	SenderID   uint64         `json:"sender_id"`
	SenderName string         `json:"sender_name"`
	AvatarURL  string         `json:"avatar_url,omitempty"`
	Type       int8           `json:"type"`
	ThingID    uint64         `json:"thing_id,omitempty"`
	Content    string         `json:"content"`
	Payload    map[string]any `json:"payload,omitempty"`
	IsRead     bool           `json:"is_read"`
	CreatedAt  string         `json:"created_at"`
}

// NotificationPageDTO 通知分页
type NotificationPageDTO struct {
	List        []*NotificationDTO `json:"list"`
	UnreadCount int64              `json:"unread_count"`
}
