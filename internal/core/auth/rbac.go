package auth

import "talentdesk/internal/domain"

// Permission 角色能力集合；全系统唯一的授权来源
type Permission struct {
	ViewCandidates   bool `json:"viewCandidates"`
	ViewFullPII      bool `json:"viewFullPII"`
	ManageCandidates bool `json:"manageCandidates"`
	DownloadResumes  bool `json:"downloadResumes"`
	ScheduleMeetings bool `json:"scheduleMeetings"`
	ViewAllMeetings  bool `json:"viewAllMeetings"`
	ViewAuditLogs    bool `json:"viewAuditLogs"`

	// 账号管理
	ListUsers            bool `json:"listUsers"`
	ManageClientAccounts bool `json:"manageClientAccounts"`
	ManageStaffAccounts  bool `json:"manageStaffAccounts"`
	DeleteUsers          bool `json:"deleteUsers"`
}

// staffPermission customer_service 的能力；admin 在此基础上可管理员工账号和删除账号
var staffPermission = Permission{
	ViewCandidates:       true,
	ViewFullPII:          true,
	ManageCandidates:     true,
	DownloadResumes:      true,
	ScheduleMeetings:     true,
	ViewAllMeetings:      true,
	ViewAuditLogs:        true,
	ListUsers:            true,
	ManageClientAccounts: true,
}

func adminPermission() Permission {
	p := staffPermission
	p.ManageStaffAccounts = true
	p.DeleteUsers = true
	return p
}

var rolePermissions = map[domain.Role]Permission{
	domain.RoleAdmin:           adminPermission(),
	domain.RoleCustomerService: staffPermission,
	domain.RoleClient: {
		ViewCandidates:   true,
		ScheduleMeetings: true,
	},
}

// PermissionsFor 未知角色返回全 false 的 Permission 和 ok=false
func PermissionsFor(role domain.Role) (Permission, bool) {
	p, ok := rolePermissions[role]
	return p, ok
}

func CanViewCandidates(role domain.Role) bool {
	p, _ := PermissionsFor(role)
	return p.ViewCandidates
}

func CanViewPII(role domain.Role) bool {
	p, _ := PermissionsFor(role)
	return p.ViewFullPII
}

func CanManageCandidates(role domain.Role) bool {
	p, _ := PermissionsFor(role)
	return p.ManageCandidates
}

func CanDownloadResumes(role domain.Role) bool {
	p, _ := PermissionsFor(role)
	return p.DownloadResumes
}

func CanScheduleMeetings(role domain.Role) bool {
	p, _ := PermissionsFor(role)
	return p.ScheduleMeetings
}

func CanViewAllMeetings(role domain.Role) bool {
	p, _ := PermissionsFor(role)
	return p.ViewAllMeetings
}

func CanViewAuditLogs(role domain.Role) bool {
	p, _ := PermissionsFor(role)
	return p.ViewAuditLogs
}

// CanManageUser 创建/编辑账号：manageStaffAccounts 不受限；只有 manageClientAccounts 时
// 目标必须是 client，且不能改成别的角色。创建时 current 传空。
func CanManageUser(actor, current, next domain.Role) bool {
	p, _ := PermissionsFor(actor)
	switch {
	case p.ManageStaffAccounts:
		return true
	case p.ManageClientAccounts:
		if current != "" && current != domain.RoleClient {
			return false
		}
		return next == "" || next == domain.RoleClient
	}
	return false
}

func CanDeleteUsers(actor domain.Role) bool {
	p, _ := PermissionsFor(actor)
	return p.DeleteUsers
}

func CanListUsers(actor domain.Role) bool {
	p, _ := PermissionsFor(actor)
	return p.ListUsers
}
