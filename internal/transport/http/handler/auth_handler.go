package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talentdesk/internal/domain"
	"talentdesk/internal/service"
	httpez "talentdesk/internal/transport/http/ez"
)

// AuthHandler 登录 / 注册 / 当前用户
type AuthHandler struct{ svc *service.AuthService }

func NewAuthHandler(s *service.AuthService) *AuthHandler { return &AuthHandler{svc: s} }

// Priority 认证路由先挂
func (h *AuthHandler) Priority() int { return 10 }

func (h *AuthHandler) MountPublic(g *gin.RouterGroup) {
	ez := httpez.New(g)

	httpez.RegisterAction(ez, httpez.Action[service.LoginInput, *service.Session]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *service.LoginInput) (*service.Session, error) {
			return h.svc.Login(c.Request.Context(), *in)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[service.RegisterInput, *service.Session]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.RegisterInput) (*service.Session, error) {
			return h.svc.Register(c.Request.Context(), *in)
		},
	})
}

func (h *AuthHandler) MountAPI(g *gin.RouterGroup) {
	httpez.RegisterAction(httpez.New(g), httpez.Action[noInput, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *noInput) (*domain.User, error) {
			return h.svc.Me(c.Request.Context(), httpez.Principal(c))
		},
	})
}
