package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ClientAssignment 每个 client 一条；CandidateIDs 的顺序即 client 看到的顺序
type ClientAssignment struct {
	ClientID     string                      `gorm:"primaryKey;size:32" json:"clientId"`
	CandidateIDs datatypes.JSONSlice[string] `json:"candidateIds"`
	UpdatedAt    time.Time                   `gorm:"autoUpdateTime:false" json:"updatedAt"`
	UpdatedBy    string                      `gorm:"size:32" json:"updatedBy"`
}

func (ClientAssignment) TableName() string { return "client_assignments" }

// Without 去掉某个候选人，返回是否有变化
func (a *ClientAssignment) Without(candidateID string) bool {
	out := make(datatypes.JSONSlice[string], 0, len(a.CandidateIDs))
	for _, id := range a.CandidateIDs {
		if id != candidateID {
			out = append(out, id)
		}
	}
	changed := len(out) != len(a.CandidateIDs)
	a.CandidateIDs = out
	return changed
}

func (a *ClientAssignment) Contains(candidateID string) bool {
	for _, id := range a.CandidateIDs {
		if id == candidateID {
			return true
		}
	}
	return false
}
