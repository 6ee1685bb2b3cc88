package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talentdesk/internal/domain"
	"talentdesk/internal/service"
	httpez "talentdesk/internal/transport/http/ez"
)

type AuditHandler struct{ svc *service.AuditService }

func NewAuditHandler(s *service.AuditService) *AuditHandler { return &AuditHandler{svc: s} }

type auditQuery struct {
	UserID       string              `form:"userId"`
	ResourceType domain.ResourceType `form:"resourceType"`
	Limit        int                 `form:"limit"`
}

func (h *AuditHandler) MountAdmin(g *gin.RouterGroup) {
	httpez.RegisterAction(httpez.New(g), httpez.Action[auditQuery, []domain.AuditLog]{
		Method: http.MethodGet,
		Path:   "/audit",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *auditQuery) ([]domain.AuditLog, error) {
			return h.svc.List(c.Request.Context(), httpez.Principal(c), domain.AuditFilter{
				UserID:       in.UserID,
				ResourceType: in.ResourceType,
				Limit:        in.Limit,
			})
		},
	})
}
