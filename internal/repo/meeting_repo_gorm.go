package repo

import (
	"context"

	"gorm.io/gorm"

	"talentdesk/internal/domain"
)

type MeetingRepo struct{ db *gorm.DB }

func NewMeetingRepo(db *gorm.DB) *MeetingRepo { return &MeetingRepo{db: db} }

func (r *MeetingRepo) List(ctx context.Context, f domain.MeetingFilter) ([]domain.Meeting, error) {
	q := r.db.WithContext(ctx).Model(&domain.Meeting{})
	if f.ClientID != "" {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.CandidateID != "" {
		q = q.Where("candidate_id = ?", f.CandidateID)
	}
	var out []domain.Meeting
	if err := q.Order("scheduled_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MeetingRepo) FindByID(ctx context.Context, id string) (*domain.Meeting, error) {
	var m domain.Meeting
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MeetingRepo) Create(ctx context.Context, m *domain.Meeting) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MeetingRepo) Update(ctx context.Context, m *domain.Meeting) error {
	res := r.db.WithContext(ctx).Model(&domain.Meeting{}).
		Where("id = ?", m.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
