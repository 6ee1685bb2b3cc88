package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talentdesk/internal/domain"
	"talentdesk/internal/service"
	httpez "talentdesk/internal/transport/http/ez"
)

type MeetingHandler struct{ svc *service.MeetingService }

func NewMeetingHandler(s *service.MeetingService) *MeetingHandler { return &MeetingHandler{svc: s} }

type meetingQuery struct {
	ClientID string `form:"clientId"`
}

func (h *MeetingHandler) MountAPI(g *gin.RouterGroup) {
	ez := httpez.New(g)

	httpez.RegisterAction(ez, httpez.Action[meetingQuery, []domain.Meeting]{
		Method: http.MethodGet,
		Path:   "/meetings",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *meetingQuery) ([]domain.Meeting, error) {
			return h.svc.List(c.Request.Context(), httpez.Principal(c), in.ClientID)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[service.MeetingInput, *domain.Meeting]{
		Method: http.MethodPost,
		Path:   "/meetings",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.MeetingInput) (*domain.Meeting, error) {
			return h.svc.Create(c.Request.Context(), httpez.Principal(c), *in)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[service.MeetingStatusInput, *domain.Meeting]{
		Method: http.MethodPatch,
		Path:   "/meetings/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *service.MeetingStatusInput) (*domain.Meeting, error) {
			return h.svc.UpdateStatus(c.Request.Context(), httpez.Principal(c), param(c), *in)
		},
	})
}
