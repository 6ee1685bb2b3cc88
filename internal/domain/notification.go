package domain

import "time"

// 通知类型
const (
	NotifyAssignmentUpdated = "assignment_updated"
	NotifyMeetingScheduled  = "meeting_scheduled"
	NotifyMeetingUpdated    = "meeting_updated"
)

type Notification struct {
	ID        string    `gorm:"primaryKey;size:32" json:"id"`
	UserID    string    `gorm:"size:32;not null;index" json:"userId"`
	Type      string    `gorm:"size:32;not null" json:"type"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Read      bool      `gorm:"column:is_read;not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (Notification) TableName() string { return "notifications" }
