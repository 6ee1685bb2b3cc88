package service

import (
	"context"

	"go.uber.org/zap"

	"talentdesk/internal/core/auth"
	"talentdesk/internal/domain"
	"talentdesk/pkg/apperrors"
	"talentdesk/pkg/utils"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 1000
)

type AuditService struct {
	repo domain.AuditRepository
	log  *zap.Logger
	now  Clock
}

func NewAuditService(repo domain.AuditRepository, l *zap.Logger, now Clock) *AuditService {
	return &AuditService{repo: repo, log: l, now: now}
}

// Record 尽力而为，失败不影响主操作
func (s *AuditService) Record(ctx context.Context, actor auth.Principal, action string, rt domain.ResourceType, resourceID string, details map[string]any) {
	l := &domain.AuditLog{
		ID:           utils.NewID(),
		UserID:       actor.ID,
		Action:       action,
		ResourceType: rt,
		ResourceID:   resourceID,
		Details:      details,
		IPAddress:    clientIPFrom(ctx),
		Timestamp:    s.now(),
	}
	if err := s.repo.Create(context.WithoutCancel(ctx), l); err != nil {
		sideEffectFailures.WithLabelValues("audit").Inc()
		s.log.Warn("audit record dropped",
			zap.String("action", action), zap.String("resource", resourceID), zap.Error(err))
	}
}

func (s *AuditService) List(ctx context.Context, actor auth.Principal, f domain.AuditFilter) ([]domain.AuditLog, error) {
	if !auth.CanViewAuditLogs(actor.Role) {
		return nil, apperrors.Forbidden("audit log requires viewAuditLogs")
	}
	if f.Limit <= 0 {
		f.Limit = defaultAuditLimit
	}
	if f.Limit > maxAuditLimit {
		f.Limit = maxAuditLimit
	}
	out, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, storeErr(err, "audit log")
	}
	if out == nil {
		out = []domain.AuditLog{}
	}
	return out, nil
}
