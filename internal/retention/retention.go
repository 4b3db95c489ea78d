// Package retention prunes old audit log rows on a schedule.
package retention

import (
	"context"
	"log/slog"
	"time"

	"github.com/eci-arep/secureweb/internal/metrics"
	"github.com/eci-arep/secureweb/internal/repo"
	"github.com/robfig/cron/v3"
)

// Run starts a cron that removes audit entries older than retentionDays every
// night at 03:00 server time. It returns the started cron so callers can Stop it.
func Run(auditRepo *repo.AuditRepo, retentionDays int) *cron.Cron {
	c := cron.New()

	job := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cutoff := time.Now().AddDate(0, 0, -retentionDays)
		n, err := auditRepo.PruneOlderThan(ctx, cutoff)
		if err != nil {
			slog.Error("retention: prune audit log", "error", err)
			return
		}
		metrics.AddAuditPruned(n)
		if n > 0 {
			slog.Info("retention: pruned audit log", "rows", n, "cutoff", cutoff)
		}
	}

	if _, err := c.AddFunc("0 3 * * *", job); err != nil {
		// The expression is a constant; this only fires if it is edited badly.
		slog.Error("retention: add cron job", "error", err)
		return c
	}

	c.Start()
	return c
}
