package cron

import (
	"Rex/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine          *cron.Cron
	feedSnapshotJob *job.FeedSnapshotJob
	mediaCleanupJob *job.MediaCleanupJob
	overlaySweepJob *job.OverlaySweepJob
}

func NewCronManager(
	feedSnapshotJob *job.FeedSnapshotJob,
	mediaCleanupJob *job.MediaCleanupJob,
	overlaySweepJob *job.OverlaySweepJob,
) *Manager {
	return &Manager{
		engine:          cron.New(cron.WithSeconds()),
		feedSnapshotJob: feedSnapshotJob,
		mediaCleanupJob: mediaCleanupJob,
		overlaySweepJob: overlaySweepJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob("0 * * * * *", s.feedSnapshotJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("@daily", s.mediaCleanupJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("0 */5 * * * *", s.overlaySweepJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("cron engine started")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("cron engine stopped")
	s.engine.Stop()
}
