package service

import (
	"Rex/internal/feed"
	"Rex/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedThing(thingID uint64, update time.Time) *feed.FeedThing {
	return &feed.FeedThing{
		Thing:            &model.Thing{ID: thingID},
		MostRecentUpdate: update,
	}
}

func TestPageByCursorFirstPage(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	feedThings := []*feed.FeedThing{
		feedThing(1, base),
		feedThing(2, base.Add(-time.Minute)),
		feedThing(3, base.Add(-2*time.Minute)),
	}

	page, hasMore := pageByCursor(feedThings, 0, 0, 2)
	require.Len(t, page, 2)
	assert.True(t, hasMore)
	assert.Equal(t, uint64(1), page[0].Thing.ID)
	assert.Equal(t, uint64(2), page[1].Thing.ID)
}

func TestPageByCursorResumesAfterExactMatch(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	feedThings := []*feed.FeedThing{
		feedThing(1, base),
		feedThing(2, base.Add(-time.Minute)),
		feedThing(3, base.Add(-2*time.Minute)),
	}

	page, hasMore := pageByCursor(feedThings, base.Add(-time.Minute).UnixMilli(), 2, 2)
	require.Len(t, page, 1)
	assert.False(t, hasMore)
	assert.Equal(t, uint64(3), page[0].Thing.ID)
}

// 游标条目在两次拉取之间被更新或删除时，从第一个更旧的条目续读
func TestPageByCursorFallsBackOnMissingAnchor(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	feedThings := []*feed.FeedThing{
		feedThing(1, base),
		feedThing(3, base.Add(-2*time.Minute)),
	}

	page, hasMore := pageByCursor(feedThings, base.Add(-time.Minute).UnixMilli(), 2, 2)
	require.Len(t, page, 1)
	assert.False(t, hasMore)
	assert.Equal(t, uint64(3), page[0].Thing.ID)
}

func TestPageByCursorTieOnTimestamp(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	feedThings := []*feed.FeedThing{
		feedThing(1, base),
		feedThing(2, base),
		feedThing(3, base),
	}

	page, hasMore := pageByCursor(feedThings, base.UnixMilli(), 2, 2)
	require.Len(t, page, 1)
	assert.False(t, hasMore)
	assert.Equal(t, uint64(3), page[0].Thing.ID)
}

func TestPageByCursorExhausted(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	feedThings := []*feed.FeedThing{feedThing(1, base)}

	page, hasMore := pageByCursor(feedThings, base.UnixMilli(), 1, 20)
	assert.Empty(t, page)
	assert.False(t, hasMore)
}

func TestCollectThingsSkipsDeletedPreload(t *testing.T) {
	svc := &FeedServiceImpl{}

	live := &model.UserThingInteraction{ID: 1, UserID: 10, ThingID: 100}
	live.Thing = model.Thing{ID: 100, Title: "live"}
	deleted := &model.UserThingInteraction{ID: 2, UserID: 10, ThingID: 200}
	deleted.Thing = model.Thing{ID: 200, Title: "gone", IsDeleted: true}

	// 两条都带预载 Thing，不会触发回库；已软删的那条不进快照
	things, err := svc.collectThings(context.Background(), []*model.UserThingInteraction{live, deleted})
	require.NoError(t, err)
	require.Len(t, things, 1)
	require.NotNil(t, things[100])
	assert.Equal(t, "live", things[100].Title)
	assert.Nil(t, things[200])
}
