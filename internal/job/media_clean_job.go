package job

import (
	"Rex/internal/api/dto"
	"Rex/internal/pkg/consts"
	"Rex/internal/pkg/minio"
	"Rex/internal/pkg/redis"
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
)

// mediaTempMaxAge 超过一天仍未被业务引用的暂存对象视为垃圾
const mediaTempMaxAge = time.Hour * 24

// MediaCleanupJob 清理暂存桶里没被任何互动引用的上传
type MediaCleanupJob struct{}

func NewMediaCleanupJob() *MediaCleanupJob {
	return &MediaCleanupJob{}
}

func (s *MediaCleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute*10)
	defer cancel()

	entries, err := redis.HGetAll(ctx, consts.MediaTempKey)
	if err != nil {
		log.Error("load temp media records failed", "err", err)
		return
	}

	cutoff := time.Now().Add(-mediaTempMaxAge).Unix()
	removed := 0
	for objectName, raw := range entries {
		var meta dto.MediaTempMetadata
		if err = json.Unmarshal([]byte(raw), &meta); err != nil {
			// 记录损坏，直接摘掉
			_ = redis.HDel(ctx, consts.MediaTempKey, objectName)
			continue
		}
		if meta.CreatedAt > cutoff {
			continue
		}

		if err = minio.DeleteTemp(ctx, objectName); err != nil {
			log.WarnContext(ctx, "delete temp media failed", "objectName", objectName, "err", err)
			continue
		}
		_ = redis.HDel(ctx, consts.MediaTempKey, objectName)
		removed++
	}

	if removed > 0 {
		log.Info("media cleanup finished", "removed", removed)
	}
}
