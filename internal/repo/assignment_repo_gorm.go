package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"talentdesk/internal/domain"
)

type AssignmentRepo struct{ db *gorm.DB }

func NewAssignmentRepo(db *gorm.DB) *AssignmentRepo { return &AssignmentRepo{db: db} }

func (r *AssignmentRepo) List(ctx context.Context) ([]domain.ClientAssignment, error) {
	var out []domain.ClientAssignment
	if err := r.db.WithContext(ctx).Order("client_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AssignmentRepo) FindByClientID(ctx context.Context, clientID string) (*domain.ClientAssignment, error) {
	var a domain.ClientAssignment
	err := r.db.WithContext(ctx).First(&a, "client_id = ?", clientID).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Upsert 单条 INSERT ... ON CONFLICT，整体替换列表
func (r *AssignmentRepo) Upsert(ctx context.Context, a *domain.ClientAssignment) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "client_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"candidate_ids", "updated_at", "updated_by"}),
	}).Create(a).Error
}
