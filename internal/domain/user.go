package domain

import "time"

// Role 账号角色
type Role string

const (
	RoleAdmin           Role = "admin"
	RoleCustomerService Role = "customer_service"
	RoleClient          Role = "client"
)

// Roles 全部合法角色
var Roles = []Role{RoleAdmin, RoleCustomerService, RoleClient}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCustomerService, RoleClient:
		return true
	}
	return false
}

// ParseRole 非法值返回 false
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

type User struct {
	ID           string `gorm:"primaryKey;size:32" json:"id"`
	Email        string `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Name         string `gorm:"size:128;not null" json:"name"`
	PasswordHash string `gorm:"size:100" json:"-"`
	Role         Role   `gorm:"size:32;not null;index" json:"role"`

	// 仅 client 使用的问卷字段
	HiringNeeds    string `gorm:"type:text" json:"hiringNeeds,omitempty"`
	TargetEmployee string `gorm:"type:text" json:"targetEmployee,omitempty"`
	SoftwareStack  string `gorm:"type:text" json:"softwareStack,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// ClearQuestionnaire 非 client 不保留问卷
func (u *User) ClearQuestionnaire() {
	u.HiringNeeds, u.TargetEmployee, u.SoftwareStack = "", "", ""
}
