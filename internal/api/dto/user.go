package dto

import "time"

type UserDTO struct {
	UserID    *uint64    `json:"user_id,omitempty"`
	Username  *string    `json:"username,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	Nickname  *string    `json:"nickname,omitempty"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	Bio       *string    `json:"bio,omitempty" validate:"omitempty,max=200"`
	CreatedAt *time.Time `json:"created_at,omitempty"`

	FollowerCount  *int64 `json:"follower_count,omitempty"`
	FollowingCount *int64 `json:"following_count,omitempty"`
	IsFollowing    *bool  `json:"is_following,omitempty"`
}

type SearchUserDTO struct {
	Keyword string `json:"keyword" form:"keyword" binding:"required" validate:"min=1,max=50"`
	Limit   int    `json:"limit" form:"limit"`
	Offset  int    `json:"offset" form:"offset"`
}
