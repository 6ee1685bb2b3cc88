package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already in use")
	ErrLastAdmin      = errors.New("cannot remove the last admin")
)

// 约定：FindXxx 查不到返回 (nil, nil)；写操作针对不存在的 id 返回 ErrNotFound

type UserRepository interface {
	List(ctx context.Context, role Role) ([]User, error) // role 为空表示全部
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	CountByRole(ctx context.Context, role Role) (int64, error)
	Create(ctx context.Context, u *User) error
	// Update 会拒绝把最后一个 admin 降级（ErrLastAdmin）
	Update(ctx context.Context, u *User) error
	// Delete 级联删除该用户的分配、会议、通知；最后一个 admin 返回 ErrLastAdmin
	Delete(ctx context.Context, id string) error
}

type CandidateRepository interface {
	// List 按 sort_order, created_at, id 升序
	List(ctx context.Context) ([]Candidate, error)
	FindByID(ctx context.Context, id string) (*Candidate, error)
	// Create 原子地分配 SortOrder（高水位 + 1，不复用）
	Create(ctx context.Context, c *Candidate) error
	Update(ctx context.Context, c *Candidate) error
	// Delete 级联：从所有分配中移除，并删除相关会议
	Delete(ctx context.Context, id string) error
	// Reorder ids 依次得到 0..n-1，未列出的按原顺序排在后面
	Reorder(ctx context.Context, ids []string) error
}

type AssignmentRepository interface {
	List(ctx context.Context) ([]ClientAssignment, error)
	FindByClientID(ctx context.Context, clientID string) (*ClientAssignment, error)
	// Upsert 按 clientId 整体替换
	Upsert(ctx context.Context, a *ClientAssignment) error
}

type MeetingFilter struct {
	ClientID    string
	CandidateID string
}

type MeetingRepository interface {
	List(ctx context.Context, f MeetingFilter) ([]Meeting, error)
	FindByID(ctx context.Context, id string) (*Meeting, error)
	Create(ctx context.Context, m *Meeting) error
	Update(ctx context.Context, m *Meeting) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	// ListByUser 新的在前
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
	FindByID(ctx context.Context, id string) (*Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string) error
}

type AuditFilter struct {
	UserID       string
	ResourceType ResourceType
	Limit        int
}

type AuditRepository interface {
	Create(ctx context.Context, l *AuditLog) error
	// List 新的在前
	List(ctx context.Context, f AuditFilter) ([]AuditLog, error)
}

// Store 一组仓储；gorm 与 JSON 文件两种实现
type Store struct {
	Users         UserRepository
	Candidates    CandidateRepository
	Assignments   AssignmentRepository
	Meetings      MeetingRepository
	Notifications NotificationRepository
	Audit         AuditRepository
}
