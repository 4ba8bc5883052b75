package feed

import (
	"Rex/internal/model"
	"Rex/internal/pkg/consts"
	"sort"
)

// FilterVisible 在聚合前裁掉观察者无权看到的互动。
// private 仅本人可见；friends 对本人和关注了作者的用户可见；public 对所有已登录用户可见。
// 必须先过滤再聚合，避免均分和人员列表哪怕短暂地泄露不可见条目。
func FilterVisible(interactions []*model.UserThingInteraction, viewerID uint64, following FollowingSet) []*model.UserThingInteraction {
	visible := make([]*model.UserThingInteraction, 0, len(interactions))
	for _, it := range interactions {
		if it == nil {
			continue
		}
		if it.UserID == viewerID {
			visible = append(visible, it)
			continue
		}
		switch it.Visibility {
		case consts.VisibilityPublic:
			visible = append(visible, it)
		case consts.VisibilityFriends:
			if following.Contains(it.UserID) {
				visible = append(visible, it)
			}
		}
	}
	return visible
}

// Aggregate 将平铺的互动记录按 thingID 聚合为 FeedThing 视图。
// 分组顺序为 thingID 在输入中首次出现的顺序；输出按 MostRecentUpdate
// 降序稳定排序，时间相同的条目保持插入序，渲染间不会跳动。
// 没有任何互动的 Thing 不会出现（聚合由互动驱动，而非 Thing 驱动）。
func Aggregate(interactions []*model.UserThingInteraction, things map[uint64]*model.Thing, viewerID uint64, following FollowingSet) []*FeedThing {
	groups := make(map[uint64]*FeedThing)
	order := make([]uint64, 0)

	for _, it := range interactions {
		if it == nil {
			continue
		}
		// Thing 已删除或查不到时整组丢弃，下游不会拿到 Thing 为 nil 的条目
		if things[it.ThingID] == nil {
			continue
		}
		entry, ok := groups[it.ThingID]
		if !ok {
			entry = &FeedThing{
				Thing: things[it.ThingID],
			}
			groups[it.ThingID] = entry
			order = append(order, it.ThingID)
		}

		entry.Interactions = append(entry.Interactions, it)

		switch it.State {
		case consts.StateCompleted:
			entry.Completed = append(entry.Completed, it)
		case consts.StateBucketList:
			entry.Saved = append(entry.Saved, it)
		}

		if it.UserID == viewerID {
			entry.MyInteraction = it
		}

		if it.Date.After(entry.MostRecentUpdate) {
			entry.MostRecentUpdate = it.Date
		}
	}

	result := make([]*FeedThing, 0, len(order))
	for _, thingID := range order {
		entry := groups[thingID]
		entry.AvgRating = avgRating(entry.Interactions, viewerID, following)
		result = append(result, entry)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].MostRecentUpdate.After(result[j].MostRecentUpdate)
	})

	return result
}

// avgRating 只对 已完成 && 有评分 && 作者属于 {本人}∪关注集 的互动求算术平均。
// 无合格评分时返回 nil 而非 0。
func avgRating(interactions []*model.UserThingInteraction, viewerID uint64, following FollowingSet) *float64 {
	var sum, count int
	for _, it := range interactions {
		if it.State != consts.StateCompleted || it.Rating <= 0 {
			continue
		}
		if it.UserID != viewerID && !following.Contains(it.UserID) {
			continue
		}
		sum += it.Rating
		count++
	}
	if count == 0 {
		return nil
	}
	avg := float64(sum) / float64(count)
	return &avg
}
