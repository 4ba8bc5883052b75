package dto

// CreateShareDTO 生成分享深链；phone 非空时给未注册用户发短信邀请
type CreateShareDTO struct {
	ThingID uint64 `json:"thing_id" binding:"required"`
	Phone   string `json:"phone" validate:"omitempty,len=11"`
}

// ShareLinkDTO 分享深链
type ShareLinkDTO struct {
	Code string `json:"code"`
	URL  string `json:"url"`
}

// ShareResolveDTO 打开深链后的落地数据
type ShareResolveDTO struct {
	Thing           *ThingDTO `json:"thing"`
	RecommenderID   uint64    `json:"recommender_id"`
	RecommenderName string    `json:"recommender_name"`
}

// ShareRefDTO 定位一条分享：短信深链带 code，站内深链带 thing_id + from
type ShareRefDTO struct {
	Code    string `json:"code" form:"code"`
	ThingID uint64 `json:"thing_id" form:"thing_id"`
	From    uint64 `json:"from" form:"from"`
}
