package dto

// InteractionDTO 一条互动的完整视图
type InteractionDTO struct {
	ID           uint64   `json:"id"`
	UserID       uint64   `json:"user_id"`
	UserName     string   `json:"user_name"`
	AvatarURL    string   `json:"avatar_url,omitempty"`
	ThingID      uint64   `json:"thing_id"`
	State        string   `json:"state"`
	Visibility   string   `json:"visibility"`
	Rating       int      `json:"rating"`
	Content      string   `json:"content"`
	Photos       []string `json:"photos"`
	Notes        string   `json:"notes,omitempty"` // 仅本人请求时回填
	LikesCount   int      `json:"likes_count"`
	CommentCount int      `json:"comment_count"`
	HasLiked     bool     `json:"has_liked"`
	Date         string   `json:"date"`
}

// CreateInteractionDTO 新建互动
type CreateInteractionDTO struct {
	ThingID    uint64   `json:"thing_id"`
	Thing      *ThingBaseDTO `json:"thing,omitempty"` // thing_id 为 0 时内联建 Thing
	State      string   `json:"state" binding:"required"`
	Visibility string   `json:"visibility"`
	Rating     int      `json:"rating"`
	Content    string   `json:"content" validate:"max=2000"`
	Photos     []string `json:"photos" validate:"max=9"`
	Notes      string   `json:"notes" validate:"max=2000"`
}

// UpdateInteractionDTO 部分更新；nil 字段不触碰
type UpdateInteractionDTO struct {
	State      *string   `json:"state"`
	Visibility *string   `json:"visibility"`
	Rating     *int      `json:"rating"`
	Content    *string   `json:"content" validate:"omitempty,max=2000"`
	Photos     *[]string `json:"photos" validate:"omitempty,max=9"`
	Notes      *string   `json:"notes" validate:"omitempty,max=2000"`
}

// MutationResultDTO 乐观写入的结果回执
type MutationResultDTO struct {
	Status      string          `json:"status"` // pending / committed / rolledBack
	Interaction *InteractionDTO `json:"interaction,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// LibraryQueryDTO 个人库列表查询
type LibraryQueryDTO struct {
	State  string `json:"state" form:"state"`
	Limit  int    `json:"limit" form:"limit"`
	Offset int    `json:"offset" form:"offset"`
}
