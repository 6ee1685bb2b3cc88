package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talentdesk/internal/domain"
	"talentdesk/internal/service"
	httpez "talentdesk/internal/transport/http/ez"
)

// UserHandler 管理端用户管理
type UserHandler struct{ svc *service.UserService }

func NewUserHandler(s *service.UserService) *UserHandler { return &UserHandler{svc: s} }

type userListQuery struct {
	Role domain.Role `form:"role"`
}

func (h *UserHandler) MountAdmin(g *gin.RouterGroup) {
	ez := httpez.New(g)

	httpez.RegisterAction(ez, httpez.Action[userListQuery, []domain.User]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *userListQuery) ([]domain.User, error) {
			return h.svc.List(c.Request.Context(), httpez.Principal(c), in.Role)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[noInput, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *noInput) (*domain.User, error) {
			return h.svc.Get(c.Request.Context(), httpez.Principal(c), param(c))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[service.UserInput, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.UserInput) (*domain.User, error) {
			return h.svc.Create(c.Request.Context(), httpez.Principal(c), *in)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[service.UserPatch, *domain.User]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *service.UserPatch) (*domain.User, error) {
			return h.svc.Update(c.Request.Context(), httpez.Principal(c), param(c), *in)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[noInput, idOut]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *noInput) (idOut, error) {
			id := param(c)
			return idOut{ID: id}, h.svc.Delete(c.Request.Context(), httpez.Principal(c), id)
		},
	})
}
