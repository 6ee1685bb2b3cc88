package repo

import (
	"gorm.io/gorm"

	"talentdesk/internal/domain"
)

// NewGormStore 关系库实现
func NewGormStore(db *gorm.DB) domain.Store {
	return domain.Store{
		Users:         NewUserRepo(db),
		Candidates:    NewCandidateRepo(db),
		Assignments:   NewAssignmentRepo(db),
		Meetings:      NewMeetingRepo(db),
		Notifications: NewNotificationRepo(db),
		Audit:         NewAuditRepo(db),
	}
}
