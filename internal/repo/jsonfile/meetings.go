package jsonfile

import (
	"context"
	"sort"

	"talentdesk/internal/domain"
)

type meetingRepo struct{ s *Store }

func (r *meetingRepo) List(_ context.Context, f domain.MeetingFilter) ([]domain.Meeting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ms, err := load[domain.Meeting](r.s, fileMeetings)
	if err != nil {
		return nil, err
	}
	out := filter(ms, func(m *domain.Meeting) bool {
		return (f.ClientID == "" || m.ClientID == f.ClientID) &&
			(f.CandidateID == "" || m.CandidateID == f.CandidateID)
	})
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ScheduledAt.Before(out[j].ScheduledAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *meetingRepo) FindByID(_ context.Context, id string) (*domain.Meeting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ms, err := load[domain.Meeting](r.s, fileMeetings)
	if err != nil {
		return nil, err
	}
	if i := indexOf(ms, func(m *domain.Meeting) bool { return m.ID == id }); i >= 0 {
		m := ms[i]
		return &m, nil
	}
	return nil, nil
}

func (r *meetingRepo) Create(_ context.Context, m *domain.Meeting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ms, err := load[domain.Meeting](r.s, fileMeetings)
	if err != nil {
		return err
	}
	now := r.s.now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	return save(r.s, fileMeetings, append(ms, *m))
}

func (r *meetingRepo) Update(_ context.Context, m *domain.Meeting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ms, err := load[domain.Meeting](r.s, fileMeetings)
	if err != nil {
		return err
	}
	i := indexOf(ms, func(x *domain.Meeting) bool { return x.ID == m.ID })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.CreatedAt = ms[i].CreatedAt
	m.UpdatedAt = r.s.now()
	ms[i] = *m
	return save(r.s, fileMeetings, ms)
}
