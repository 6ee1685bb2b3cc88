package domain

import (
	"time"

	"gorm.io/datatypes"
)

type MeetingStatus string

const (
	MeetingScheduled MeetingStatus = "scheduled"
	MeetingCompleted MeetingStatus = "completed"
	MeetingCancelled MeetingStatus = "cancelled"
)

type MeetingType string

const (
	MeetingStandard MeetingType = "standard"
	MeetingTeams    MeetingType = "teams"
)

type Meeting struct {
	ID           string                      `gorm:"primaryKey;size:32" json:"id"`
	CandidateID  string                      `gorm:"size:32;not null;index" json:"candidateId"`
	ClientID     string                      `gorm:"size:32;not null;index" json:"clientId"`
	ScheduledAt  time.Time                   `gorm:"not null" json:"scheduledAt"`
	Status       MeetingStatus               `gorm:"size:16;not null" json:"status"`
	Notes        string                      `gorm:"type:text" json:"notes,omitempty"`
	Participants datatypes.JSONSlice[string] `json:"participants,omitempty"`
	MeetingType  MeetingType                 `gorm:"size:16" json:"meetingType,omitempty"`
	CreatedAt    time.Time                   `json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`
}

func (Meeting) TableName() string { return "meetings" }
