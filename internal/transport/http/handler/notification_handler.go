package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talentdesk/internal/domain"
	"talentdesk/internal/service"
	httpez "talentdesk/internal/transport/http/ez"
)

// NotificationHandler 只操作当前用户自己的通知
type NotificationHandler struct{ svc *service.NotificationService }

func NewNotificationHandler(s *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: s}
}

func (h *NotificationHandler) MountAPI(g *gin.RouterGroup) {
	ez := httpez.New(g)

	httpez.RegisterAction(ez, httpez.Action[noInput, []domain.Notification]{
		Method: http.MethodGet,
		Path:   "/notifications",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *noInput) ([]domain.Notification, error) {
			return h.svc.List(c.Request.Context(), httpez.Principal(c))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[noInput, okOut]{
		Method: http.MethodPost,
		Path:   "/notifications/read-all",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *noInput) (okOut, error) {
			return done(), h.svc.MarkAllRead(c.Request.Context(), httpez.Principal(c))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[noInput, okOut]{
		Method: http.MethodPost,
		Path:   "/notifications/:id/read",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *noInput) (okOut, error) {
			return done(), h.svc.MarkRead(c.Request.Context(), httpez.Principal(c), param(c))
		},
	})

	httpez.RegisterAction(ez, httpez.Action[noInput, idOut]{
		Method: http.MethodDelete,
		Path:   "/notifications/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *noInput) (idOut, error) {
			id := param(c)
			return idOut{ID: id}, h.svc.Delete(c.Request.Context(), httpez.Principal(c), id)
		},
	})
}
