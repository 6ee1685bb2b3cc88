package jsonfile

import (
	"context"
	"fmt"
	"sort"

	"talentdesk/internal/domain"
)

type candidateRepo struct{ s *Store }

type counterRecord struct {
	Name string `json:"name"`
	Seq  int64  `json:"seq"`
}

const sortOrderCounter = "candidate_sort_order"

func sortCandidates(cs []domain.Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func (r *candidateRepo) List(_ context.Context) ([]domain.Candidate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cs, err := load[domain.Candidate](r.s, fileCandidates)
	if err != nil {
		return nil, err
	}
	sortCandidates(cs)
	return cs, nil
}

func (r *candidateRepo) FindByID(_ context.Context, id string) (*domain.Candidate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cs, err := load[domain.Candidate](r.s, fileCandidates)
	if err != nil {
		return nil, err
	}
	if i := indexOf(cs, func(c *domain.Candidate) bool { return c.ID == id }); i >= 0 {
		c := cs[i]
		return &c, nil
	}
	return nil, nil
}

func (r *candidateRepo) Create(_ context.Context, c *domain.Candidate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cs, err := load[domain.Candidate](r.s, fileCandidates)
	if err != nil {
		return err
	}
	counters, err := load[counterRecord](r.s, fileCounters)
	if err != nil {
		return err
	}
	next := int64(-1)
	for _, x := range cs {
		if int64(x.SortOrder) > next {
			next = int64(x.SortOrder)
		}
	}
	ci := indexOf(counters, func(x *counterRecord) bool { return x.Name == sortOrderCounter })
	if ci >= 0 && counters[ci].Seq > next {
		next = counters[ci].Seq
	}
	next++
	if ci >= 0 {
		counters[ci].Seq = next
	} else {
		counters = append(counters, counterRecord{Name: sortOrderCounter, Seq: next})
	}

	now := r.s.now()
	c.SortOrder = int(next)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if err := save(r.s, fileCounters, counters); err != nil {
		return err
	}
	return save(r.s, fileCandidates, append(cs, *c))
}

func (r *candidateRepo) Update(_ context.Context, c *domain.Candidate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cs, err := load[domain.Candidate](r.s, fileCandidates)
	if err != nil {
		return err
	}
	i := indexOf(cs, func(x *domain.Candidate) bool { return x.ID == c.ID })
	if i < 0 {
		return domain.ErrNotFound
	}
	c.SortOrder, c.CreatedAt = cs[i].SortOrder, cs[i].CreatedAt
	c.UpdatedAt = r.s.now()
	cs[i] = *c
	return save(r.s, fileCandidates, cs)
}

func (r *candidateRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cs, err := load[domain.Candidate](r.s, fileCandidates)
	if err != nil {
		return err
	}
	i := indexOf(cs, func(x *domain.Candidate) bool { return x.ID == id })
	if i < 0 {
		return domain.ErrNotFound
	}
	as, err := load[domain.ClientAssignment](r.s, fileAssignments)
	if err != nil {
		return err
	}
	ms, err := load[domain.Meeting](r.s, fileMeetings)
	if err != nil {
		return err
	}
	for k := range as {
		as[k].Without(id)
	}
	if err := save(r.s, fileAssignments, as); err != nil {
		return err
	}
	if err := save(r.s, fileMeetings, filter(ms, func(m *domain.Meeting) bool { return m.CandidateID != id })); err != nil {
		return err
	}
	return save(r.s, fileCandidates, append(cs[:i:i], cs[i+1:]...))
}

func (r *candidateRepo) Reorder(_ context.Context, ids []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cs, err := load[domain.Candidate](r.s, fileCandidates)
	if err != nil {
		return err
	}
	sortCandidates(cs)
	pos := make(map[string]int, len(cs))
	for i, c := range cs {
		pos[c.ID] = i
	}
	seen := make(map[string]bool, len(ids))
	next := 0
	for _, id := range ids {
		i, ok := pos[id]
		if !ok {
			return fmt.Errorf("candidate %q: %w", id, domain.ErrNotFound)
		}
		if seen[id] {
			return fmt.Errorf("candidate %q listed twice", id)
		}
		seen[id] = true
		cs[i].SortOrder = next
		next++
	}
	for i := range cs {
		if !seen[cs[i].ID] {
			cs[i].SortOrder = next
			next++
		}
	}
	sortCandidates(cs)
	return save(r.s, fileCandidates, cs)
}
