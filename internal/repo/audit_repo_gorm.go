package repo

import (
	"context"

	"gorm.io/gorm"

	"talentdesk/internal/domain"
)

type AuditRepo struct{ db *gorm.DB }

func NewAuditRepo(db *gorm.DB) *AuditRepo { return &AuditRepo{db: db} }

func (r *AuditRepo) Create(ctx context.Context, l *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *AuditRepo) List(ctx context.Context, f domain.AuditFilter) ([]domain.AuditLog, error) {
	q := r.db.WithContext(ctx).Model(&domain.AuditLog{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.ResourceType != "" {
		q = q.Where("resource_type = ?", f.ResourceType)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []domain.AuditLog
	err := q.Order("occurred_at DESC, id DESC").Find(&out).Error
	return out, err
}
