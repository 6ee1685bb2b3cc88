package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talentdesk/internal/domain"
	"talentdesk/internal/service"
	httpez "talentdesk/internal/transport/http/ez"
)

// AssignmentHandler 员工编辑 client 的候选人列表；client 只读自己的
type AssignmentHandler struct{ svc *service.AssignmentService }

func NewAssignmentHandler(s *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{svc: s}
}

type assignmentQuery struct {
	ClientID string `form:"clientId"`
}

type setAssignmentIn struct {
	ClientID     string   `json:"clientId"`
	CandidateIDs []string `json:"candidateIds"`
}

func (h *AssignmentHandler) MountAdmin(g *gin.RouterGroup) {
	ez := httpez.New(g)

	// 带 clientId 时返回单条，否则返回全部
	httpez.RegisterAction(ez, httpez.Action[assignmentQuery, any]{
		Method: http.MethodGet,
		Path:   "/assignments",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *assignmentQuery) (any, error) {
			p := httpez.Principal(c)
			if in.ClientID != "" {
				return h.svc.GetAssignment(c.Request.Context(), p, in.ClientID)
			}
			return h.svc.ListAssignments(c.Request.Context(), p)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[setAssignmentIn, *domain.ClientAssignment]{
		Method: http.MethodPost,
		Path:   "/assignments",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *setAssignmentIn) (*domain.ClientAssignment, error) {
			return h.svc.SetAssignment(c.Request.Context(), httpez.Principal(c), in.ClientID, in.CandidateIDs)
		},
	})
}

func (h *AssignmentHandler) MountAPI(g *gin.RouterGroup) {
	httpez.RegisterAction(httpez.New(g), httpez.Action[noInput, *domain.ClientAssignment]{
		Method: http.MethodGet,
		Path:   "/assignments/me",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *noInput) (*domain.ClientAssignment, error) {
			p := httpez.Principal(c)
			return h.svc.GetAssignment(c.Request.Context(), p, p.ID)
		},
	})
}
