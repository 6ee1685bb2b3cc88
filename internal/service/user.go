package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"talentdesk/internal/core/auth"
	"talentdesk/internal/core/validate"
	"talentdesk/internal/domain"
	"talentdesk/pkg/apperrors"
	"talentdesk/pkg/utils"
)

type UserInput struct {
	Name     string      `json:"name" validate:"required,max=128"`
	Email    string      `json:"email" validate:"required,email,max=191"`
	Role     domain.Role `json:"role" validate:"required,oneof=admin customer_service client"`
	Password string      `json:"password" validate:"omitempty,min=8,max=72"`

	HiringNeeds    string `json:"hiringNeeds"`
	TargetEmployee string `json:"targetEmployee"`
	SoftwareStack  string `json:"softwareStack"`
}

type UserPatch struct {
	Name     *string      `json:"name" validate:"omitempty,max=128"`
	Email    *string      `json:"email" validate:"omitempty,email,max=191"`
	Role     *domain.Role `json:"role" validate:"omitempty,oneof=admin customer_service client"`
	Password *string      `json:"password" validate:"omitempty,min=8,max=72"`

	HiringNeeds    *string `json:"hiringNeeds"`
	TargetEmployee *string `json:"targetEmployee"`
	SoftwareStack  *string `json:"softwareStack"`
}

type UserService struct {
	repo  domain.UserRepository
	v     *validate.Validator
	audit *AuditService
	log   *zap.Logger
}

func NewUserService(repo domain.UserRepository, v *validate.Validator, a *AuditService, l *zap.Logger) *UserService {
	return &UserService{repo: repo, v: v, audit: a, log: l}
}

func normEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// List role 为空返回全部
func (s *UserService) List(ctx context.Context, actor auth.Principal, role domain.Role) ([]domain.User, error) {
	if !auth.CanListUsers(actor.Role) {
		return nil, apperrors.Forbidden("listing users requires a staff role")
	}
	if role != "" && !role.Valid() {
		return nil, apperrors.Validation("invalid role filter")
	}
	out, err := s.repo.List(ctx, role)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	if out == nil {
		out = []domain.User{}
	}
	return out, nil
}

// Get 员工可查任意账号，其他人只能查自己
func (s *UserService) Get(ctx context.Context, actor auth.Principal, id string) (*domain.User, error) {
	if actor.ID != id && !auth.CanListUsers(actor.Role) {
		return nil, apperrors.Forbidden("cannot read another user")
	}
	return s.load(ctx, id)
}

func (s *UserService) Create(ctx context.Context, actor auth.Principal, in UserInput) (*domain.User, error) {
	if !auth.CanListUsers(actor.Role) {
		return nil, apperrors.Forbidden("creating users requires a staff role")
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normEmail(in.Email)
	if err := s.v.Struct(in); err != nil {
		return nil, err
	}
	if !auth.CanManageUser(actor.Role, "", in.Role) {
		return nil, apperrors.Forbidden("customer service can only create client users")
	}

	u := &domain.User{
		ID:             utils.NewID(),
		Email:          in.Email,
		Name:           in.Name,
		Role:           in.Role,
		HiringNeeds:    in.HiringNeeds,
		TargetEmployee: in.TargetEmployee,
		SoftwareStack:  in.SoftwareStack,
	}
	if u.Role != domain.RoleClient {
		u.ClearQuestionnaire()
	}
	if in.Password != "" {
		h, err := utils.HashPassword(in.Password)
		if err != nil {
			return nil, apperrors.Internal("hash password failed", err)
		}
		u.PasswordHash = h
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, storeErr(err, "user")
	}
	s.audit.Record(ctx, actor, "user.create", domain.ResourceUser, u.ID, map[string]any{"role": string(u.Role)})
	return u, nil
}

func (s *UserService) Update(ctx context.Context, actor auth.Principal, id string, p UserPatch) (*domain.User, error) {
	if !auth.CanListUsers(actor.Role) {
		return nil, apperrors.Forbidden("editing users requires a staff role")
	}
	if p.Email != nil {
		e := normEmail(*p.Email)
		p.Email = &e
	}
	if err := s.v.Struct(p); err != nil {
		return nil, err
	}
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next := u.Role
	if p.Role != nil {
		next = *p.Role
	}
	if !auth.CanManageUser(actor.Role, u.Role, next) {
		return nil, apperrors.Forbidden("customer service can only edit client users")
	}

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, apperrors.Validation("name cannot be empty")
		}
		u.Name = name
	}
	setIf(&u.Email, p.Email)
	u.Role = next
	if u.Role == domain.RoleClient {
		setIf(&u.HiringNeeds, p.HiringNeeds)
		setIf(&u.TargetEmployee, p.TargetEmployee)
		setIf(&u.SoftwareStack, p.SoftwareStack)
	} else {
		u.ClearQuestionnaire()
	}
	if p.Password != nil {
		h, err := utils.HashPassword(*p.Password)
		if err != nil {
			return nil, apperrors.Internal("hash password failed", err)
		}
		u.PasswordHash = h
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, storeErr(err, "user")
	}
	s.audit.Record(ctx, actor, "user.update", domain.ResourceUser, u.ID, map[string]any{"role": string(u.Role)})
	return u, nil
}

// Delete 仅 admin；最后一个 admin 不可删，级联由存储完成
func (s *UserService) Delete(ctx context.Context, actor auth.Principal, id string) error {
	if !auth.CanDeleteUsers(actor.Role) {
		return apperrors.Forbidden("only admins can delete users")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err, "user")
	}
	s.audit.Record(ctx, actor, "user.delete", domain.ResourceUser, id, nil)
	return nil
}

// SeedAdmin 没有任何 admin 时创建一个；已有则什么都不做
func (s *UserService) SeedAdmin(ctx context.Context, email, name, password string) (bool, error) {
	n, err := s.repo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, storeErr(err, "user")
	}
	if n > 0 {
		return false, nil
	}
	in := UserInput{Name: name, Email: normEmail(email), Role: domain.RoleAdmin, Password: password}
	if err := s.v.Struct(in); err != nil {
		return false, err
	}
	h, err := utils.HashPassword(password)
	if err != nil {
		return false, apperrors.Internal("hash password failed", err)
	}
	u := &domain.User{ID: utils.NewID(), Email: in.Email, Name: in.Name, Role: domain.RoleAdmin, PasswordHash: h}
	if err := s.repo.Create(ctx, u); err != nil {
		return false, storeErr(err, "user")
	}
	s.log.Info("seeded admin account", zap.String("email", u.Email))
	return true, nil
}

func (s *UserService) load(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	if u == nil {
		return nil, apperrors.NotFound("user not found")
	}
	return u, nil
}
