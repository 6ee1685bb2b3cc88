package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talentdesk/internal/domain"
	"talentdesk/internal/service"
	httpez "talentdesk/internal/transport/http/ez"
)

type CandidateHandler struct{ svc *service.CandidateService }

func NewCandidateHandler(s *service.CandidateService) *CandidateHandler {
	return &CandidateHandler{svc: s}
}

// rankings 为 null 时清空评分
type rankingsIn struct {
	Rankings *domain.Rankings `json:"rankings"`
}

type reorderIn struct {
	CandidateIDs []string `json:"candidateIds"`
}

// MountAPI 所有角色读候选人，按权限裁剪
func (h *CandidateHandler) MountAPI(g *gin.RouterGroup) {
	ez := httpez.New(g)
	h.mountRead(ez)
}

func (h *CandidateHandler) mountRead(ez httpez.EZ) {
	httpez.RegisterAction(ez, httpez.Action[noInput, []service.CandidateView]{
		Method: http.MethodGet,
		Path:   "/candidates",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *noInput) ([]service.CandidateView, error) {
			return h.svc.List(c.Request.Context(), httpez.Principal(c))
		},
	})
	httpez.RegisterAction(ez, httpez.Action[noInput, *service.CandidateView]{
		Method: http.MethodGet,
		Path:   "/candidates/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *noInput) (*service.CandidateView, error) {
			return h.svc.Get(c.Request.Context(), httpez.Principal(c), param(c))
		},
	})
}

func (h *CandidateHandler) MountAdmin(g *gin.RouterGroup) {
	ez := httpez.New(g)
	h.mountRead(ez)

	httpez.RegisterAction(ez, httpez.Action[service.CandidateInput, *service.CandidateView]{
		Method: http.MethodPost,
		Path:   "/candidates",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.CandidateInput) (*service.CandidateView, error) {
			return h.svc.Create(c.Request.Context(), httpez.Principal(c), *in)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[service.CandidatePatch, *service.CandidateView]{
		Method: http.MethodPut,
		Path:   "/candidates/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *service.CandidatePatch) (*service.CandidateView, error) {
			return h.svc.Update(c.Request.Context(), httpez.Principal(c), param(c), *in)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[rankingsIn, *service.CandidateView]{
		Method: http.MethodPut,
		Path:   "/candidates/:id/rankings",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *rankingsIn) (*service.CandidateView, error) {
			return h.svc.UpdateRankings(c.Request.Context(), httpez.Principal(c), param(c), in.Rankings)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[noInput, idOut]{
		Method: http.MethodDelete,
		Path:   "/candidates/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *noInput) (idOut, error) {
			id := param(c)
			return idOut{ID: id}, h.svc.Delete(c.Request.Context(), httpez.Principal(c), id)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[reorderIn, okOut]{
		Method: http.MethodPost,
		Path:   "/candidates/reorder",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *reorderIn) (okOut, error) {
			if err := h.svc.Reorder(c.Request.Context(), httpez.Principal(c), in.CandidateIDs); err != nil {
				return okOut{}, err
			}
			return done(), nil
		},
	})
}
