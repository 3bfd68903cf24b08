package audit

import (
	"context"
	"time"

	"go-reports/pkg/utils"

	"go.uber.org/zap"
)

type AuditService interface {
	LogChange(ctx context.Context, action string, collection string, entityID string, changes map[string]Change) error
	ListChanges(ctx context.Context, entityID string, limit int64) ([]AuditLog, error)
	Prune(ctx context.Context, retentionDays int) (int64, error)
}

type AuditServiceImpl struct {
	Repo AuditRepository
	Log  *zap.Logger
}

func NewAuditService(repo AuditRepository, log *zap.Logger) AuditService {
	return &AuditServiceImpl{
		Repo: repo,
		Log:  log,
	}
}

func (s *AuditServiceImpl) LogChange(ctx context.Context, action string, collection string, entityID string, changes map[string]Change) error {
	entry := &AuditLog{
		Action:     action,
		Collection: collection,
		EntityID:   entityID,
		Changes:    changes,
	}

	if claims, ok := ctx.Value(utils.UserClaimsKey).(*utils.UserClaims); ok {
		entry.UserID = claims.UserID
	}

	if err := s.Repo.Create(ctx, entry); err != nil {
		// Audit writes never fail the business operation
		s.Log.Warn("failed to write audit entry", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}

func (s *AuditServiceImpl) ListChanges(ctx context.Context, entityID string, limit int64) ([]AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.Repo.List(ctx, entityID, limit)
}

func (s *AuditServiceImpl) Prune(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return s.Repo.DeleteOlderThan(ctx, cutoff)
}
