package dto

// FeedThingDTO 信息流里一个聚合后的 Thing 卡片
type FeedThingDTO struct {
	Thing            *ThingDTO         `json:"thing"`
	Interactions     []*InteractionDTO `json:"interactions"`
	Completed        []*InteractionDTO `json:"completed"`
	Saved            []*InteractionDTO `json:"saved"`
	MyInteraction    *InteractionDTO   `json:"my_interaction,omitempty"`
	AvgRating        *float64          `json:"avg_rating,omitempty"` // 缺失表示无有效评分
	MostRecentUpdate string            `json:"most_recent_update"`
}

// FeedPageDTO 信息流分页
type FeedPageDTO struct {
	List    []*FeedThingDTO `json:"list"`
	Cursor  string          `json:"cursor"`
	HasMore bool            `json:"has_more"`
}

// FeedQueryDTO 拉取信息流
type FeedQueryDTO struct {
	Cursor string `json:"cursor" form:"cursor"`
	Size   int    `json:"size" form:"size"`
}
