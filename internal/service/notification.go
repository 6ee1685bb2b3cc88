package service

import (
	"context"

	"go.uber.org/zap"

	"talentdesk/internal/core/auth"
	"talentdesk/internal/domain"
	"talentdesk/pkg/apperrors"
	"talentdesk/pkg/utils"
)

// Notifier 通知出口；失败只记日志
type Notifier interface {
	Notify(ctx context.Context, userID, typ, title, message string)
}

type NotificationService struct {
	repo domain.NotificationRepository
	log  *zap.Logger
	now  Clock
}

func NewNotificationService(repo domain.NotificationRepository, l *zap.Logger, now Clock) *NotificationService {
	return &NotificationService{repo: repo, log: l, now: now}
}

func (s *NotificationService) Notify(ctx context.Context, userID, typ, title, message string) {
	n := &domain.Notification{
		ID:        utils.NewID(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		CreatedAt: s.now(),
	}
	// 请求已结束也要写完
	if err := s.repo.Create(context.WithoutCancel(ctx), n); err != nil {
		sideEffectFailures.WithLabelValues("notification").Inc()
		s.log.Warn("notification dropped",
			zap.String("user", userID), zap.String("type", typ), zap.Error(err))
	}
}

func (s *NotificationService) List(ctx context.Context, p auth.Principal) ([]domain.Notification, error) {
	out, err := s.repo.ListByUser(ctx, p.ID)
	if err != nil {
		return nil, storeErr(err, "notification")
	}
	if out == nil {
		out = []domain.Notification{}
	}
	return out, nil
}

// own 只能操作自己的通知；别人的按不存在处理
func (s *NotificationService) own(ctx context.Context, p auth.Principal, id string) error {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storeErr(err, "notification")
	}
	if n == nil || n.UserID != p.ID {
		return apperrors.NotFound("notification not found")
	}
	return nil
}

func (s *NotificationService) MarkRead(ctx context.Context, p auth.Principal, id string) error {
	if err := s.own(ctx, p, id); err != nil {
		return err
	}
	return storeErr(s.repo.MarkRead(ctx, id), "notification")
}

func (s *NotificationService) MarkAllRead(ctx context.Context, p auth.Principal) error {
	return storeErr(s.repo.MarkAllRead(ctx, p.ID), "notification")
}

func (s *NotificationService) Delete(ctx context.Context, p auth.Principal, id string) error {
	if err := s.own(ctx, p, id); err != nil {
		return err
	}
	return storeErr(s.repo.Delete(ctx, id), "notification")
}
