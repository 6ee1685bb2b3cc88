package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Availability string

const (
	AvailabilityImmediate    Availability = "immediate"
	AvailabilityTwoWeeks     Availability = "two_weeks"
	AvailabilityNegotiable   Availability = "negotiable"
	AvailabilitySpecificDate Availability = "specific_date"
	AvailabilityHired        Availability = "hired"
)

// Rankings 内部评分，只给员工看
type Rankings struct {
	Personality     int    `json:"personality" validate:"min=1,max=5"`
	Accent          int    `json:"accent" validate:"min=1,max=5"`
	Professionalism int    `json:"professionalism" validate:"min=1,max=5"`
	Technical       int    `json:"technical" validate:"min=1,max=5"`
	Likeability     int    `json:"likeability" validate:"min=1,max=5"`
	Notes           string `json:"notes,omitempty" validate:"max=2000"`
}

type Candidate struct {
	ID    string `gorm:"primaryKey;size:32" json:"id"`
	Name  string `gorm:"size:128;not null" json:"name" validate:"required,max=128"`
	Email string `gorm:"size:191;not null" json:"email" validate:"required,email"`
	Phone string `gorm:"size:64" json:"phone" validate:"max=64"`
	Title string `gorm:"size:128;not null" json:"title" validate:"required,max=128"`

	Experience int                         `gorm:"not null;default:0" json:"experience" validate:"min=0,max=80"`
	Skills     datatypes.JSONSlice[string] `json:"skills"`
	Bio        string                      `gorm:"type:text" json:"bio"`
	Location   string                      `gorm:"size:128" json:"location"`

	Availability Availability `gorm:"size:32;not null" json:"availability" validate:"required,oneof=immediate two_weeks negotiable specific_date hired"`
	// YYYY-MM-DD，仅 specific_date 时有意义
	JoiningDate string `gorm:"size:10" json:"joiningDate,omitempty" validate:"required_if=Availability specific_date,omitempty,datetime=2006-01-02"`

	ImageURL          string                      `gorm:"size:512" json:"imageUrl,omitempty"`
	ResumeURL         string                      `gorm:"size:512" json:"resumeUrl,omitempty"`
	RecordingURL      string                      `gorm:"size:512" json:"recordingUrl,omitempty"`
	HiringCompanyLogo string                      `gorm:"size:512" json:"hiringCompanyLogo,omitempty"`
	Hobbies           datatypes.JSONSlice[string] `json:"hobbies,omitempty"`

	SortOrder int       `gorm:"not null;default:0;index" json:"sortOrder"`
	Rankings  *Rankings `gorm:"serializer:json;type:text" json:"rankings,omitempty" validate:"omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Candidate) TableName() string { return "candidates" }

// Normalize 空切片代替 nil；非 specific_date 清掉入职日期
func (c *Candidate) Normalize() {
	if c.Skills == nil {
		c.Skills = datatypes.JSONSlice[string]{}
	}
	if c.Hobbies == nil {
		c.Hobbies = datatypes.JSONSlice[string]{}
	}
	if c.Availability != AvailabilitySpecificDate {
		c.JoiningDate = ""
	}
}
