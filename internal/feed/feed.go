package feed

import (
	"Rex/internal/model"
	"time"
)

// FeedThing 聚合后的单个 Thing 视图，不落库
type FeedThing struct {
	Thing            *model.Thing                  `json:"thing"`
	Interactions     []*model.UserThingInteraction `json:"interactions"`
	Completed        []*model.UserThingInteraction `json:"completed"`
	Saved            []*model.UserThingInteraction `json:"saved"`
	MyInteraction    *model.UserThingInteraction   `json:"myInteraction,omitempty"`
	AvgRating        *float64                      `json:"avgRating,omitempty"` // nil 表示无有效评分，调用方不得渲染 0.0
	MostRecentUpdate time.Time                     `json:"mostRecentUpdate"`
}

// FollowingSet 观察者关注的用户 ID 集合
type FollowingSet map[uint64]struct{}

// NewFollowingSet 由 ID 列表构造集合
func NewFollowingSet(ids []uint64) FollowingSet {
	set := make(FollowingSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains 是否关注了该用户
func (s FollowingSet) Contains(id uint64) bool {
	_, ok := s[id]
	return ok
}
