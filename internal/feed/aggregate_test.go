package feed

import (
	"Rex/internal/model"
	"Rex/internal/pkg/consts"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interaction(id, userID, thingID uint64, state string, rating int, date time.Time) *model.UserThingInteraction {
	return &model.UserThingInteraction{
		ID:         id,
		UserID:     userID,
		ThingID:    thingID,
		State:      state,
		Visibility: consts.VisibilityFriends,
		Rating:     rating,
		Date:       date,
	}
}

func TestFilterVisible(t *testing.T) {
	viewer := uint64(1)
	following := NewFollowingSet([]uint64{2})
	base := time.Now()

	mine := interaction(10, viewer, 100, consts.StateCompleted, 5, base)
	mine.Visibility = consts.VisibilityPrivate

	friendsOnly := interaction(11, 2, 100, consts.StateCompleted, 4, base)

	strangerFriends := interaction(12, 3, 100, consts.StateCompleted, 1, base)

	strangerPublic := interaction(13, 3, 101, consts.StateCompleted, 2, base)
	strangerPublic.Visibility = consts.VisibilityPublic

	strangerPrivate := interaction(14, 4, 101, consts.StateCompleted, 3, base)
	strangerPrivate.Visibility = consts.VisibilityPrivate

	visible := FilterVisible([]*model.UserThingInteraction{
		mine, friendsOnly, strangerFriends, strangerPublic, strangerPrivate, nil,
	}, viewer, following)

	ids := make([]uint64, 0, len(visible))
	for _, it := range visible {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []uint64{10, 11, 13}, ids)
}

func TestAggregateGroupsAndPartitions(t *testing.T) {
	viewer := uint64(1)
	following := NewFollowingSet([]uint64{2, 3})
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := []*model.UserThingInteraction{
		interaction(1, 2, 100, consts.StateCompleted, 4, base),
		interaction(2, 3, 100, consts.StateBucketList, 0, base.Add(time.Hour)),
		interaction(3, viewer, 100, consts.StateInProgress, 0, base.Add(2*time.Hour)),
		interaction(4, 2, 200, consts.StateCompleted, 5, base.Add(3*time.Hour)),
	}
	things := map[uint64]*model.Thing{
		100: {ID: 100, Title: "Dune"},
		200: {ID: 200, Title: "Arrival"},
	}

	result := Aggregate(rows, things, viewer, following)
	require.Len(t, result, 2)

	// 最近更新的 Thing 排在前面
	assert.Equal(t, "Arrival", result[0].Thing.Title)
	assert.Equal(t, "Dune", result[1].Thing.Title)

	dune := result[1]
	assert.Len(t, dune.Interactions, 3)
	assert.Len(t, dune.Completed, 1)
	assert.Len(t, dune.Saved, 1)
	require.NotNil(t, dune.MyInteraction)
	assert.Equal(t, uint64(3), dune.MyInteraction.ID)
	assert.Equal(t, base.Add(2*time.Hour), dune.MostRecentUpdate)

	require.NotNil(t, dune.AvgRating)
	assert.Equal(t, 4.0, *dune.AvgRating)
}

func TestAggregateAvgRatingNilWhenNoQualifyingRatings(t *testing.T) {
	viewer := uint64(1)
	base := time.Now()

	rows := []*model.UserThingInteraction{
		// 未完成，评分不计
		interaction(1, viewer, 100, consts.StateInProgress, 5, base),
		// 完成但未评分
		interaction(2, viewer, 100, consts.StateCompleted, 0, base),
	}

	result := Aggregate(rows, map[uint64]*model.Thing{100: {ID: 100}}, viewer, nil)
	require.Len(t, result, 1)
	assert.Nil(t, result[0].AvgRating, "no qualifying ratings must yield nil, never 0")
}

func TestAggregateAvgRatingExcludesNonFollowed(t *testing.T) {
	viewer := uint64(1)
	following := NewFollowingSet([]uint64{2})
	base := time.Now()

	pub := interaction(1, 9, 100, consts.StateCompleted, 1, base)
	pub.Visibility = consts.VisibilityPublic

	rows := []*model.UserThingInteraction{
		pub,
		interaction(2, 2, 100, consts.StateCompleted, 5, base),
	}

	// 公开互动可见，但其评分不进入好友均分
	result := Aggregate(FilterVisible(rows, viewer, following), map[uint64]*model.Thing{100: {ID: 100}}, viewer, following)
	require.Len(t, result, 1)
	assert.Len(t, result[0].Interactions, 2)
	require.NotNil(t, result[0].AvgRating)
	assert.Equal(t, 5.0, *result[0].AvgRating)
}

func TestAggregateAvgRatingWithinScale(t *testing.T) {
	viewer := uint64(1)
	following := NewFollowingSet([]uint64{2, 3, 4})
	base := time.Now()

	rows := []*model.UserThingInteraction{
		interaction(1, 2, 100, consts.StateCompleted, 1, base),
		interaction(2, 3, 100, consts.StateCompleted, 5, base),
		interaction(3, 4, 100, consts.StateCompleted, 3, base),
	}

	result := Aggregate(rows, map[uint64]*model.Thing{100: {ID: 100}}, viewer, following)
	require.Len(t, result, 1)
	require.NotNil(t, result[0].AvgRating)
	assert.GreaterOrEqual(t, *result[0].AvgRating, float64(consts.RatingMin))
	assert.LessOrEqual(t, *result[0].AvgRating, float64(consts.RatingMax))
	assert.Equal(t, 3.0, *result[0].AvgRating)
}

func TestAggregateEmptyInput(t *testing.T) {
	result := Aggregate(nil, nil, 1, nil)
	assert.Empty(t, result)
}

func TestAggregateStableOrderOnEqualTimestamps(t *testing.T) {
	viewer := uint64(1)
	base := time.Now()

	rows := []*model.UserThingInteraction{
		interaction(1, viewer, 300, consts.StateBucketList, 0, base),
		interaction(2, viewer, 100, consts.StateBucketList, 0, base),
		interaction(3, viewer, 200, consts.StateBucketList, 0, base),
	}
	things := map[uint64]*model.Thing{
		100: {ID: 100}, 200: {ID: 200}, 300: {ID: 300},
	}

	first := Aggregate(rows, things, viewer, nil)
	second := Aggregate(rows, things, viewer, nil)

	require.Len(t, first, 3)
	for i := range first {
		assert.Equal(t, first[i].Thing.ID, second[i].Thing.ID)
	}
	// 时间相同保持首次出现顺序
	assert.Equal(t, uint64(300), first[0].Thing.ID)
	assert.Equal(t, uint64(100), first[1].Thing.ID)
	assert.Equal(t, uint64(200), first[2].Thing.ID)
}

func TestAggregateDropsUnresolvableThings(t *testing.T) {
	viewer := uint64(1)
	base := time.Now()

	// 200 对应的 Thing 已被删除，快照里查不到
	rows := []*model.UserThingInteraction{
		interaction(1, viewer, 100, consts.StateCompleted, 5, base),
		interaction(2, viewer, 200, consts.StateBucketList, 0, base),
		interaction(3, 2, 200, consts.StateCompleted, 4, base),
	}
	things := map[uint64]*model.Thing{100: {ID: 100}}

	result := Aggregate(rows, things, viewer, NewFollowingSet([]uint64{2}))

	require.Len(t, result, 1)
	for _, ft := range result {
		require.NotNil(t, ft.Thing)
	}
	assert.Equal(t, uint64(100), result[0].Thing.ID)
}
