package workers

import (
	"context"
	"time"

	"wellness-engagement-system/services"
	"wellness-engagement-system/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LeaderboardSnapshotWorker periodically persists the global ranking so the
// next read can report rank movement. Without a snapshot every entry shows
// as "new".
type LeaderboardSnapshotWorker struct {
	leaderboard *services.LeaderboardService
	interval    time.Duration
}

func NewLeaderboardSnapshotWorker(db *gorm.DB, interval time.Duration) *LeaderboardSnapshotWorker {
	return &LeaderboardSnapshotWorker{
		leaderboard: services.NewLeaderboardService(db),
		interval:    interval,
	}
}

func (w *LeaderboardSnapshotWorker) Start(ctx context.Context) {
	utils.Logger.Info("starting leaderboard snapshot worker", zap.Duration("interval", w.interval))
	go w.run(ctx)
}

func (w *LeaderboardSnapshotWorker) run(ctx context.Context) {
	// Take an initial snapshot so rank movement has a baseline immediately
	if err := w.leaderboard.Snapshot(time.Now()); err != nil {
		utils.Logger.Warn("initial leaderboard snapshot failed", zap.Error(err))
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.leaderboard.Snapshot(time.Now()); err != nil {
				utils.Logger.Error("leaderboard snapshot failed", zap.Error(err))
			}
		case <-ctx.Done():
			utils.Logger.Info("leaderboard snapshot worker stopped")
			return
		}
	}
}
