package domain

import (
	"time"

	"gorm.io/datatypes"
)

type ResourceType string

const (
	ResourceCandidate  ResourceType = "candidate"
	ResourceUser       ResourceType = "user"
	ResourceAssignment ResourceType = "assignment"
	ResourceMeeting    ResourceType = "meeting"
)

type AuditLog struct {
	ID           string            `gorm:"primaryKey;size:32" json:"id"`
	UserID       string            `gorm:"size:32;not null;index" json:"userId"`
	Action       string            `gorm:"size:64;not null" json:"action"`
	ResourceType ResourceType      `gorm:"size:32;not null" json:"resourceType"`
	ResourceID   string            `gorm:"size:32" json:"resourceId"`
	Details      datatypes.JSONMap `json:"details,omitempty"`
	IPAddress    string            `gorm:"size:64" json:"ipAddress,omitempty"`
	Timestamp    time.Time         `gorm:"column:occurred_at;not null;index" json:"timestamp"`
}

func (AuditLog) TableName() string { return "audit_logs" }
