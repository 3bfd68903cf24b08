package audit

import (
	"context"

	"go-reports/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// RegisterRetentionJob schedules the daily audit-log prune on the fx lifecycle
func RegisterRetentionJob(lc fx.Lifecycle, svc AuditService, cfg *config.Config, log *zap.Logger) {
	scheduler := cron.New()

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_, err := scheduler.AddFunc("@daily", func() {
				deleted, err := svc.Prune(context.Background(), cfg.AuditRetentionDays)
				if err != nil {
					log.Warn("audit retention prune failed", zap.Error(err))
					return
				}
				if deleted > 0 {
					log.Info("pruned audit entries", zap.Int64("deleted", deleted))
				}
			})
			if err != nil {
				return err
			}
			scheduler.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			scheduler.Stop()
			return nil
		},
	})
}
