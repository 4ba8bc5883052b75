package job

import (
	"Rex/internal/feed"
	log "log/slog"
	"time"
)

// overlayEntryTTL 覆盖层条目的存活期，数据库与缓存早该在此之前收敛
const overlayEntryTTL = time.Minute * 15

// OverlaySweepJob 清理过期的乐观更新覆盖层条目
type OverlaySweepJob struct {
	overlay *feed.OverlayStore
}

func NewOverlaySweepJob(overlay *feed.OverlayStore) *OverlaySweepJob {
	return &OverlaySweepJob{overlay: overlay}
}

func (s *OverlaySweepJob) Run() {
	if n := s.overlay.Sweep(time.Now().Add(-overlayEntryTTL)); n > 0 {
		log.Info("overlay sweep finished", "swept", n)
	}
}
