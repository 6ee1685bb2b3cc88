package jsonfile

import (
	"context"
	"sort"

	"talentdesk/internal/domain"
)

type assignmentRepo struct{ s *Store }

func (r *assignmentRepo) List(_ context.Context) ([]domain.ClientAssignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	as, err := load[domain.ClientAssignment](r.s, fileAssignments)
	if err != nil {
		return nil, err
	}
	sort.Slice(as, func(i, j int) bool { return as[i].ClientID < as[j].ClientID })
	return as, nil
}

func (r *assignmentRepo) FindByClientID(_ context.Context, clientID string) (*domain.ClientAssignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	as, err := load[domain.ClientAssignment](r.s, fileAssignments)
	if err != nil {
		return nil, err
	}
	if i := indexOf(as, func(a *domain.ClientAssignment) bool { return a.ClientID == clientID }); i >= 0 {
		a := as[i]
		return &a, nil
	}
	return nil, nil
}

func (r *assignmentRepo) Upsert(_ context.Context, a *domain.ClientAssignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	as, err := load[domain.ClientAssignment](r.s, fileAssignments)
	if err != nil {
		return err
	}
	if i := indexOf(as, func(x *domain.ClientAssignment) bool { return x.ClientID == a.ClientID }); i >= 0 {
		as[i] = *a
	} else {
		as = append(as, *a)
	}
	return save(r.s, fileAssignments, as)
}
