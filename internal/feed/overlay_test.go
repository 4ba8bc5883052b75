package feed

import (
	"Rex/internal/model"
	"Rex/internal/pkg/consts"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlayAddAndGet(t *testing.T) {
	store := NewOverlayStore()

	it := interaction(1, 10, 100, consts.StateBucketList, 0, time.Now())
	store.Add(it)

	got := store.GetByThingID(10, 100)
	require.NotNil(t, got)
	assert.Equal(t, consts.StateBucketList, got.State)

	// 返回的是副本，改动不回写覆盖层
	got.State = consts.StateCompleted
	again := store.GetByThingID(10, 100)
	assert.Equal(t, consts.StateBucketList, again.State)

	assert.Nil(t, store.GetByThingID(10, 999))
	assert.Nil(t, store.GetByThingID(99, 100))
}

func TestOverlayAddLastWriteWins(t *testing.T) {
	store := NewOverlayStore()

	store.Add(interaction(1, 10, 100, consts.StateBucketList, 0, time.Now()))
	store.Add(interaction(1, 10, 100, consts.StateCompleted, 4, time.Now()))

	got := store.GetByThingID(10, 100)
	require.NotNil(t, got)
	assert.Equal(t, consts.StateCompleted, got.State)
	assert.Equal(t, 4, got.Rating)
}

func TestOverlayUpdateShallowMerge(t *testing.T) {
	store := NewOverlayStore()

	it := interaction(1, 10, 100, consts.StateBucketList, 0, time.Now())
	it.Content = "want to read"
	store.Add(it)

	state := consts.StateCompleted
	rating := 5
	store.Update(1, InteractionPatch{State: &state, Rating: &rating})

	got := store.GetByThingID(10, 100)
	require.NotNil(t, got)
	assert.Equal(t, consts.StateCompleted, got.State)
	assert.Equal(t, 5, got.Rating)
	assert.Equal(t, "want to read", got.Content, "untouched fields survive the patch")
}

func TestOverlayUpdateEmptyPatchIsNoop(t *testing.T) {
	store := NewOverlayStore()

	it := interaction(1, 10, 100, consts.StateInProgress, 0, time.Now())
	store.Add(it)
	before := store.GetByThingID(10, 100)

	store.Update(1, InteractionPatch{})

	after := store.GetByThingID(10, 100)
	assert.Equal(t, before.State, after.State)
	assert.Equal(t, before.Rating, after.Rating)
	assert.Equal(t, before.Content, after.Content)
}

func TestOverlayUpdateUnknownIDIsNoop(t *testing.T) {
	store := NewOverlayStore()

	state := consts.StateCompleted
	store.Update(42, InteractionPatch{State: &state})

	overrides, tombstones := store.Snapshot(10)
	assert.Empty(t, overrides)
	assert.Empty(t, tombstones)
}

func TestOverlayRemoveLeavesTombstone(t *testing.T) {
	store := NewOverlayStore()

	store.Add(interaction(1, 10, 100, consts.StateCompleted, 4, time.Now()))
	store.Remove(1)

	assert.Nil(t, store.GetByThingID(10, 100))

	_, tombstones := store.Snapshot(10)
	_, dead := tombstones[100]
	assert.True(t, dead)
}

func TestOverlayRestoreRollsBack(t *testing.T) {
	store := NewOverlayStore()

	prev := interaction(1, 10, 100, consts.StateBucketList, 0, time.Now())
	store.Add(prev)

	state := consts.StateCompleted
	store.Update(1, InteractionPatch{State: &state})
	store.Restore(10, 100, prev)

	got := store.GetByThingID(10, 100)
	require.NotNil(t, got)
	assert.Equal(t, consts.StateBucketList, got.State)

	// 之前没有条目时，回滚等于整条撤销
	store.Add(interaction(2, 10, 200, consts.StateInProgress, 0, time.Now()))
	store.Restore(10, 200, nil)
	assert.Nil(t, store.GetByThingID(10, 200))
}

func TestOverlaySweep(t *testing.T) {
	store := NewOverlayStore()

	store.Add(interaction(1, 10, 100, consts.StateCompleted, 3, time.Now()))
	store.Add(interaction(2, 10, 200, consts.StateBucketList, 0, time.Now()))
	store.Remove(2)

	assert.Equal(t, 0, store.Sweep(time.Now().Add(-time.Minute)))
	assert.Equal(t, 2, store.Sweep(time.Now().Add(time.Minute)))

	overrides, tombstones := store.Snapshot(10)
	assert.Empty(t, overrides)
	assert.Empty(t, tombstones)
}

func TestMergeOverlayReplacesServerRow(t *testing.T) {
	store := NewOverlayStore()
	viewer := uint64(10)
	base := time.Now()

	// 服务端缓存里还是 bucketList，本地已改为 completed
	serverRow := interaction(1, viewer, 100, consts.StateBucketList, 0, base)
	local := interaction(1, viewer, 100, consts.StateCompleted, 5, base.Add(time.Minute))
	store.Add(local)

	merged := MergeOverlay([]*model.UserThingInteraction{serverRow}, store, viewer)
	require.Len(t, merged, 1)
	assert.Equal(t, consts.StateCompleted, merged[0].State)
	assert.Equal(t, 5, merged[0].Rating)
}

func TestMergeOverlayAppendsMissingRow(t *testing.T) {
	store := NewOverlayStore()
	viewer := uint64(10)
	base := time.Now()

	// Dune 场景：本地刚加入 bucketList，取回的陈旧负载里还没有这条
	otherUser := interaction(2, 20, 300, consts.StateCompleted, 4, base)
	store.Add(interaction(1, viewer, 100, consts.StateBucketList, 0, base))

	merged := MergeOverlay([]*model.UserThingInteraction{otherUser}, store, viewer)
	require.Len(t, merged, 2)

	var found bool
	for _, row := range merged {
		if row.UserID == viewer && row.ThingID == 100 {
			found = true
			assert.Equal(t, consts.StateBucketList, row.State)
		}
	}
	assert.True(t, found, "local bucketList row must survive a stale fetch")
}

func TestMergeOverlaySuppressesTombstonedRow(t *testing.T) {
	store := NewOverlayStore()
	viewer := uint64(10)
	base := time.Now()

	serverRow := interaction(1, viewer, 100, consts.StateCompleted, 4, base)
	store.Add(serverRow)
	store.Remove(1)

	merged := MergeOverlay([]*model.UserThingInteraction{serverRow}, store, viewer)
	assert.Empty(t, merged, "deleted interaction must vanish even while the stale payload still carries it")
}

func TestMergeOverlayIgnoresOtherUsers(t *testing.T) {
	store := NewOverlayStore()
	viewer := uint64(10)
	base := time.Now()

	otherRow := interaction(5, 20, 100, consts.StateCompleted, 2, base)
	store.Add(interaction(1, viewer, 100, consts.StateBucketList, 0, base))

	merged := MergeOverlay([]*model.UserThingInteraction{otherRow}, store, viewer)
	require.Len(t, merged, 2)
	assert.Equal(t, uint64(20), merged[0].UserID)
	assert.Equal(t, consts.StateCompleted, merged[0].State)
}

func TestMergeOverlayThenAggregatePrecedence(t *testing.T) {
	store := NewOverlayStore()
	viewer := uint64(10)
	base := time.Now()

	// 服务端说 bucketList，覆盖层说 completed：聚合结果按 completed 分桶
	serverRow := interaction(1, viewer, 100, consts.StateBucketList, 0, base)
	store.Add(interaction(1, viewer, 100, consts.StateCompleted, 4, base.Add(time.Minute)))

	merged := MergeOverlay([]*model.UserThingInteraction{serverRow}, store, viewer)
	result := Aggregate(merged, map[uint64]*model.Thing{100: {ID: 100}}, viewer, nil)

	require.Len(t, result, 1)
	assert.Len(t, result[0].Completed, 1)
	assert.Empty(t, result[0].Saved)
	require.NotNil(t, result[0].MyInteraction)
	assert.Equal(t, consts.StateCompleted, result[0].MyInteraction.State)
	require.NotNil(t, result[0].AvgRating)
	assert.Equal(t, 4.0, *result[0].AvgRating)
}

func TestMergeOverlayAppendOrderDeterministic(t *testing.T) {
	store := NewOverlayStore()
	viewer := uint64(10)
	base := time.Now()

	// 八条同一时间戳的本地新增行，服务端负载一条都还没有
	thingIDs := []uint64{800, 300, 600, 100, 700, 200, 500, 400}
	for i, thingID := range thingIDs {
		store.Add(interaction(uint64(i+1), viewer, thingID, consts.StateBucketList, 0, base))
	}

	first := MergeOverlay(nil, store, viewer)
	second := MergeOverlay(nil, store, viewer)
	require.Len(t, first, len(thingIDs))
	require.Len(t, second, len(thingIDs))

	// 补入的行按 thingID 升序，两次合并顺序一致
	for i, row := range first {
		assert.Equal(t, uint64((i+1)*100), row.ThingID)
		assert.Equal(t, row.ThingID, second[i].ThingID)
	}

	// 经过聚合后位置同样不跳动
	things := make(map[uint64]*model.Thing, len(thingIDs))
	for _, thingID := range thingIDs {
		things[thingID] = &model.Thing{ID: thingID}
	}
	firstAgg := Aggregate(first, things, viewer, nil)
	secondAgg := Aggregate(second, things, viewer, nil)
	require.Len(t, firstAgg, len(thingIDs))
	for i := range firstAgg {
		assert.Equal(t, firstAgg[i].Thing.ID, secondAgg[i].Thing.ID)
	}
}

func TestCloneInteractionDetachesPhotos(t *testing.T) {
	photos := model.InteractionPhotos{"a.jpg", "b.jpg"}
	original := interaction(1, 10, 100, consts.StateCompleted, 5, time.Now())
	original.Photos = &photos

	clone := CloneInteraction(original)
	require.NotNil(t, clone.Photos)

	// 原值的 Photos 被原地改写，克隆出的回滚快照不受影响
	(*original.Photos)[0] = "tampered.jpg"
	assert.Equal(t, "a.jpg", (*clone.Photos)[0])

	assert.Nil(t, CloneInteraction(nil))
}
