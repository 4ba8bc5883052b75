package job

import (
	"Rex/internal/pkg/consts"
	"Rex/internal/pkg/redis"
	"Rex/internal/service"
	"context"
	log "log/slog"
	"strconv"
	"time"
)

// FeedSnapshotJob 周期性为脏用户重建信息流缓存，避免首次拉取时全量回源
type FeedSnapshotJob struct {
	feedSvc service.FeedService
}

func NewFeedSnapshotJob(feedSvc service.FeedService) *FeedSnapshotJob {
	return &FeedSnapshotJob{feedSvc: feedSvc}
}

func (s *FeedSnapshotJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*55)
	defer cancel()

	// 原子取走当前脏集合，期间新增的脏标记落到下一轮
	processingKey := consts.FeedDirtyKey + ":processing"
	if err := redis.Rename(ctx, consts.FeedDirtyKey, processingKey); err != nil {
		// 没有脏用户时 Rename 直接报错，属正常
		return
	}
	defer func() {
		_ = redis.DeleteKey(ctx, processingKey)
	}()

	ids, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.Error("load dirty feed users failed", "err", err)
		return
	}

	for _, raw := range ids {
		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			continue
		}
		if err = s.feedSvc.RebuildFeedCache(ctx, userID); err != nil {
			log.WarnContext(ctx, "rebuild feed cache failed", "userID", userID, "err", err)
		}
	}
}
