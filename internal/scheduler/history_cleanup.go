package scheduler

import (
	"context"
	"time"

	historyservice "roadsaver_backend/internal/history/service"
	"roadsaver_backend/platform/logger"
)

const defaultHistoryCleanupInterval = time.Hour

// HistoryPruner trims the history tables.
type HistoryPruner interface {
	Prune(ctx context.Context) (historyservice.PruneResult, error)
}

// HistoryCleanup periodically prunes both history tables.
type HistoryCleanup struct {
	pruner   HistoryPruner
	log      *logger.Logger
	interval time.Duration
}

func NewHistoryCleanup(pruner HistoryPruner, log *logger.Logger, interval time.Duration) *HistoryCleanup {
	if interval <= 0 {
		interval = defaultHistoryCleanupInterval
	}
	return &HistoryCleanup{pruner: pruner, log: log, interval: interval}
}

// Run prunes once immediately and then on every interval until ctx ends.
func (c *HistoryCleanup) Run(ctx context.Context) {
	if c == nil || c.pruner == nil {
		return
	}

	c.cleanup(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

func (c *HistoryCleanup) cleanup(ctx context.Context) {
	res, err := c.pruner.Prune(ctx)
	if err != nil {
		c.log.Warn("history cleanup failed", "error", err)
		return
	}
	if res.UserRows > 0 || res.EmployeeRows > 0 {
		c.log.Info("history cleanup removed rows", "userRows", res.UserRows, "employeeRows", res.EmployeeRows)
	}
}
