package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"talentdesk/internal/core/auth"
	"talentdesk/internal/core/validate"
	"talentdesk/internal/domain"
	"talentdesk/pkg/apperrors"
	"talentdesk/pkg/utils"
)

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput 自助注册；角色固定为 client
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=191"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=128"`

	HiringNeeds    string `json:"hiringNeeds"`
	TargetEmployee string `json:"targetEmployee"`
	SoftwareStack  string `json:"softwareStack"`
}

type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

type AuthService struct {
	users domain.UserRepository
	jwt   *auth.JWTer
	v     *validate.Validator
	log   *zap.Logger
	now   Clock
}

func NewAuthService(users domain.UserRepository, j *auth.JWTer, v *validate.Validator, l *zap.Logger, now Clock) *AuthService {
	return &AuthService{users: users, jwt: j, v: v, log: l, now: now}
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = normEmail(in.Email)
	if err := s.v.Struct(in); err != nil {
		return nil, err
	}
	u, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	// 账号不存在与密码错误同一个提示
	if u == nil || !utils.CheckPassword(in.Password, u.PasswordHash) {
		return nil, apperrors.Unauthorized("invalid credentials")
	}
	return s.issue(u)
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Email = normEmail(in.Email)
	if err := s.v.Struct(in); err != nil {
		return nil, err
	}
	h, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.Internal("hash password failed", err)
	}
	u := &domain.User{
		ID:             utils.NewID(),
		Email:          in.Email,
		Name:           in.Name,
		Role:           domain.RoleClient,
		PasswordHash:   h,
		HiringNeeds:    in.HiringNeeds,
		TargetEmployee: in.TargetEmployee,
		SoftwareStack:  in.SoftwareStack,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, storeErr(err, "user")
	}
	s.log.Info("client registered", zap.String("user", u.ID))
	return s.issue(u)
}

// Me 以存储中的最新数据为准
func (s *AuthService) Me(ctx context.Context, p auth.Principal) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, p.ID)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	if u == nil {
		return nil, apperrors.NotFound("user not found")
	}
	return u, nil
}

func (s *AuthService) issue(u *domain.User) (*Session, error) {
	tok, err := s.jwt.Issue(auth.Principal{ID: u.ID, Role: u.Role, Email: u.Email, Name: u.Name})
	if err != nil {
		return nil, apperrors.Internal("issue token failed", err)
	}
	return &Session{Token: tok, ExpiresAt: s.now().Add(s.jwt.TTL), User: u}, nil
}
