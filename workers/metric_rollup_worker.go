package workers

import (
	"context"
	"time"

	"wellness-engagement-system/services"
	"wellness-engagement-system/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MetricRollupClient aggregates raw health metrics into per-department
// organizational rows. Re-running a window overwrites the previous
// aggregate, so overlap between ticks is harmless.
type MetricRollupClient struct {
	Metrics *services.MetricsService
}

func NewMetricRollupClient(db *gorm.DB) *MetricRollupClient {
	return &MetricRollupClient{Metrics: services.NewMetricsService(db)}
}

// PollRollups rolls up today and yesterday on every tick — yesterday again
// because late submissions keep arriving after midnight.
func PollRollups(ctx context.Context, client *MetricRollupClient, pollInterval time.Duration) {
	utils.Logger.Info("starting organizational metric rollup", zap.Duration("interval", pollInterval))

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			utils.Logger.Info("metric rollup stopped")
			return
		case <-ticker.C:
			now := time.Now()
			total := 0
			for _, day := range []time.Time{now, now.AddDate(0, 0, -1)} {
				count, err := client.Metrics.RollupDay(day)
				if err != nil {
					utils.Logger.Error("metric rollup failed",
						zap.Time("day", day),
						zap.Error(err),
					)
					continue
				}
				total += count
			}
			if total > 0 {
				utils.Logger.Info("organizational metrics rolled up", zap.Int("aggregates", total))
			}
		}
	}
}
