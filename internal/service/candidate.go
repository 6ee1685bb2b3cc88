package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"talentdesk/internal/core/auth"
	"talentdesk/internal/core/validate"
	"talentdesk/internal/domain"
	"talentdesk/pkg/apperrors"
	"talentdesk/pkg/utils"
)

// CandidateInput 创建候选人；SortOrder 由存储分配
type CandidateInput struct {
	Name              string              `json:"name"`
	Email             string              `json:"email"`
	Phone             string              `json:"phone"`
	Title             string              `json:"title"`
	Experience        int                 `json:"experience"`
	Skills            []string            `json:"skills"`
	Bio               string              `json:"bio"`
	Location          string              `json:"location"`
	Availability      domain.Availability `json:"availability"`
	JoiningDate       string              `json:"joiningDate"`
	ImageURL          string              `json:"imageUrl"`
	ResumeURL         string              `json:"resumeUrl"`
	RecordingURL      string              `json:"recordingUrl"`
	HiringCompanyLogo string              `json:"hiringCompanyLogo"`
	Hobbies           []string            `json:"hobbies"`
	Rankings          *domain.Rankings    `json:"rankings"`
}

// CandidatePatch 部分更新；nil 表示不改
type CandidatePatch struct {
	Name              *string              `json:"name"`
	Email             *string              `json:"email"`
	Phone             *string              `json:"phone"`
	Title             *string              `json:"title"`
	Experience        *int                 `json:"experience"`
	Skills            *[]string            `json:"skills"`
	Bio               *string              `json:"bio"`
	Location          *string              `json:"location"`
	Availability      *domain.Availability `json:"availability"`
	JoiningDate       *string              `json:"joiningDate"`
	ImageURL          *string              `json:"imageUrl"`
	ResumeURL         *string              `json:"resumeUrl"`
	RecordingURL      *string              `json:"recordingUrl"`
	HiringCompanyLogo *string              `json:"hiringCompanyLogo"`
	Hobbies           *[]string            `json:"hobbies"`
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (p CandidatePatch) apply(c *domain.Candidate) {
	setIf(&c.Name, p.Name)
	setIf(&c.Email, p.Email)
	setIf(&c.Phone, p.Phone)
	setIf(&c.Title, p.Title)
	setIf(&c.Experience, p.Experience)
	setIf(&c.Bio, p.Bio)
	setIf(&c.Location, p.Location)
	setIf(&c.Availability, p.Availability)
	setIf(&c.JoiningDate, p.JoiningDate)
	setIf(&c.ImageURL, p.ImageURL)
	setIf(&c.ResumeURL, p.ResumeURL)
	setIf(&c.RecordingURL, p.RecordingURL)
	setIf(&c.HiringCompanyLogo, p.HiringCompanyLogo)
	if p.Skills != nil {
		c.Skills = *p.Skills
	}
	if p.Hobbies != nil {
		c.Hobbies = *p.Hobbies
	}
}

type CandidateService struct {
	repo  domain.CandidateRepository
	vis   *Visibility
	v     *validate.Validator
	audit *AuditService
	log   *zap.Logger
}

func NewCandidateService(repo domain.CandidateRepository, vis *Visibility, v *validate.Validator, a *AuditService, l *zap.Logger) *CandidateService {
	return &CandidateService{repo: repo, vis: vis, v: v, audit: a, log: l}
}

func (s *CandidateService) List(ctx context.Context, p auth.Principal) ([]CandidateView, error) {
	return s.vis.Resolve(ctx, p)
}

func (s *CandidateService) Get(ctx context.Context, p auth.Principal, id string) (*CandidateView, error) {
	return s.vis.ResolveOne(ctx, p, id)
}

func (s *CandidateService) requireManage(actor auth.Principal) error {
	if !auth.CanManageCandidates(actor.Role) {
		return apperrors.Forbidden("requires manageCandidates")
	}
	return nil
}

func (s *CandidateService) Create(ctx context.Context, actor auth.Principal, in CandidateInput) (*CandidateView, error) {
	if err := s.requireManage(actor); err != nil {
		return nil, err
	}
	c := &domain.Candidate{
		ID:                utils.NewID(),
		Name:              strings.TrimSpace(in.Name),
		Email:             strings.TrimSpace(in.Email),
		Phone:             strings.TrimSpace(in.Phone),
		Title:             strings.TrimSpace(in.Title),
		Experience:        in.Experience,
		Skills:            in.Skills,
		Bio:               in.Bio,
		Location:          in.Location,
		Availability:      in.Availability,
		JoiningDate:       in.JoiningDate,
		ImageURL:          in.ImageURL,
		ResumeURL:         in.ResumeURL,
		RecordingURL:      in.RecordingURL,
		HiringCompanyLogo: in.HiringCompanyLogo,
		Hobbies:           in.Hobbies,
		Rankings:          in.Rankings,
	}
	if c.Availability == "" {
		c.Availability = domain.AvailabilityImmediate
	}
	c.Normalize()
	if err := s.v.Struct(c); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, storeErr(err, "candidate")
	}
	s.audit.Record(ctx, actor, "candidate.create", domain.ResourceCandidate, c.ID, map[string]any{"name": c.Name})
	v := newView(c, actor.Permissions())
	return &v, nil
}

func (s *CandidateService) Update(ctx context.Context, actor auth.Principal, id string, p CandidatePatch) (*CandidateView, error) {
	if err := s.requireManage(actor); err != nil {
		return nil, err
	}
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	p.apply(c)
	c.Normalize()
	if err := s.v.Struct(c); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, storeErr(err, "candidate")
	}
	s.audit.Record(ctx, actor, "candidate.update", domain.ResourceCandidate, c.ID, nil)
	v := newView(c, actor.Permissions())
	return &v, nil
}

// UpdateRankings r 为 nil 时清空评分
func (s *CandidateService) UpdateRankings(ctx context.Context, actor auth.Principal, id string, r *domain.Rankings) (*CandidateView, error) {
	if err := s.requireManage(actor); err != nil {
		return nil, err
	}
	if r != nil {
		if err := s.v.Struct(r); err != nil {
			return nil, err
		}
	}
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Rankings = r
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, storeErr(err, "candidate")
	}
	s.audit.Record(ctx, actor, "candidate.rankings", domain.ResourceCandidate, c.ID, nil)
	v := newView(c, actor.Permissions())
	return &v, nil
}

// Delete 级联由存储完成：从所有分配中移除并删除相关会议
func (s *CandidateService) Delete(ctx context.Context, actor auth.Principal, id string) error {
	if err := s.requireManage(actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err, "candidate")
	}
	s.audit.Record(ctx, actor, "candidate.delete", domain.ResourceCandidate, id, nil)
	return nil
}

// Reorder ids 按位置写 sortOrder 0..n-1
func (s *CandidateService) Reorder(ctx context.Context, actor auth.Principal, ids []string) error {
	if err := s.requireManage(actor); err != nil {
		return err
	}
	if len(ids) == 0 {
		return apperrors.Validation("ids is required")
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return apperrors.Validation("candidate listed twice: " + id)
		}
		seen[id] = true
	}
	if err := s.repo.Reorder(ctx, ids); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperrors.Validation(err.Error())
		}
		return storeErr(err, "candidate")
	}
	s.audit.Record(ctx, actor, "candidate.reorder", domain.ResourceCandidate, "", map[string]any{"count": len(ids)})
	return nil
}

func (s *CandidateService) load(ctx context.Context, id string) (*domain.Candidate, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "candidate")
	}
	if c == nil {
		return nil, apperrors.NotFound("candidate not found")
	}
	return c, nil
}
