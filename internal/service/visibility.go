package service

import (
	"context"
	"time"

	"talentdesk/internal/core/auth"
	"talentdesk/internal/domain"
	"talentdesk/pkg/apperrors"
)

// CandidateView 对外输出的候选人。
// 联系方式和内部评分只在 Restricted 里，客户视图从不设置它，序列化时整组字段消失。
type CandidateView struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	Title             string              `json:"title"`
	Experience        int                 `json:"experience"`
	Skills            []string            `json:"skills"`
	Bio               string              `json:"bio"`
	Location          string              `json:"location"`
	Availability      domain.Availability `json:"availability"`
	JoiningDate       string              `json:"joiningDate,omitempty"`
	ImageURL          string              `json:"imageUrl,omitempty"`
	RecordingURL      string              `json:"recordingUrl,omitempty"`
	HiringCompanyLogo string              `json:"hiringCompanyLogo,omitempty"`
	Hobbies           []string            `json:"hobbies,omitempty"`
	SortOrder         int                 `json:"sortOrder"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`

	// 仅 downloadResumes
	ResumeURL string `json:"resumeUrl,omitempty"`

	*Restricted
}

// Restricted 仅 viewFullPII 角色可见
type Restricted struct {
	Email    string           `json:"email"`
	Phone    string           `json:"phone"`
	Rankings *domain.Rankings `json:"rankings,omitempty"`
}

func newView(c *domain.Candidate, perm auth.Permission) CandidateView {
	v := CandidateView{
		ID:                c.ID,
		Name:              c.Name,
		Title:             c.Title,
		Experience:        c.Experience,
		Skills:            nonNil(c.Skills),
		Bio:               c.Bio,
		Location:          c.Location,
		Availability:      c.Availability,
		JoiningDate:       c.JoiningDate,
		ImageURL:          c.ImageURL,
		RecordingURL:      c.RecordingURL,
		HiringCompanyLogo: c.HiringCompanyLogo,
		Hobbies:           c.Hobbies,
		SortOrder:         c.SortOrder,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
	if perm.DownloadResumes {
		v.ResumeURL = c.ResumeURL
	}
	if perm.ViewFullPII {
		v.Restricted = &Restricted{Email: c.Email, Phone: c.Phone}
		if c.Rankings != nil {
			r := *c.Rankings
			v.Restricted.Rankings = &r
		}
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Visibility 决定某个主体能看到哪些候选人、按什么顺序、带哪些字段
type Visibility struct {
	candidates  domain.CandidateRepository
	assignments domain.AssignmentRepository
}

func NewVisibility(c domain.CandidateRepository, a domain.AssignmentRepository) *Visibility {
	return &Visibility{candidates: c, assignments: a}
}

// Resolve
//   - 无 viewCandidates：空
//   - viewFullPII：全部候选人，按 sortOrder，不脱敏
//   - 其余（client）：按自己的分配顺序，丢弃已删除的 id，脱敏；没有分配或分配为空时返回空
func (v *Visibility) Resolve(ctx context.Context, p auth.Principal) ([]CandidateView, error) {
	perm := p.Permissions()
	if !perm.ViewCandidates {
		return []CandidateView{}, nil
	}

	if perm.ViewFullPII {
		all, err := v.candidates.List(ctx)
		if err != nil {
			return nil, storeErr(err, "candidate")
		}
		out := make([]CandidateView, 0, len(all))
		for i := range all {
			out = append(out, newView(&all[i], perm))
		}
		candidateViews.WithLabelValues("staff").Observe(float64(len(out)))
		return out, nil
	}

	a, err := v.assignments.FindByClientID(ctx, p.ID)
	if err != nil {
		return nil, storeErr(err, "assignment")
	}
	if a == nil || len(a.CandidateIDs) == 0 {
		candidateViews.WithLabelValues("client").Observe(0)
		return []CandidateView{}, nil
	}
	all, err := v.candidates.List(ctx)
	if err != nil {
		return nil, storeErr(err, "candidate")
	}
	byID := make(map[string]*domain.Candidate, len(all))
	for i := range all {
		byID[all[i].ID] = &all[i]
	}
	out := make([]CandidateView, 0, len(a.CandidateIDs))
	for _, id := range a.CandidateIDs {
		if c, ok := byID[id]; ok {
			out = append(out, newView(c, perm))
		}
	}
	candidateViews.WithLabelValues("client").Observe(float64(len(out)))
	return out, nil
}

// ResolveOne 不可见与不存在一律 NotFound
func (v *Visibility) ResolveOne(ctx context.Context, p auth.Principal, id string) (*CandidateView, error) {
	perm := p.Permissions()
	if !perm.ViewCandidates {
		return nil, apperrors.NotFound("candidate not found")
	}
	if !perm.ViewFullPII {
		ok, err := v.Visible(ctx, p, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperrors.NotFound("candidate not found")
		}
	}
	c, err := v.candidates.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "candidate")
	}
	if c == nil {
		return nil, apperrors.NotFound("candidate not found")
	}
	view := newView(c, perm)
	return &view, nil
}

// Visible 主体当前能否看到该候选人（不检查候选人是否存在）
func (v *Visibility) Visible(ctx context.Context, p auth.Principal, candidateID string) (bool, error) {
	perm := p.Permissions()
	if !perm.ViewCandidates {
		return false, nil
	}
	if perm.ViewFullPII {
		return true, nil
	}
	a, err := v.assignments.FindByClientID(ctx, p.ID)
	if err != nil {
		return false, storeErr(err, "assignment")
	}
	return a != nil && a.Contains(candidateID), nil
}
