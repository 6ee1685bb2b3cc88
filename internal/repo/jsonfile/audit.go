package jsonfile

import (
	"context"
	"sort"

	"talentdesk/internal/domain"
)

type auditRepo struct{ s *Store }

func (r *auditRepo) Create(_ context.Context, l *domain.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ls, err := load[domain.AuditLog](r.s, fileAudit)
	if err != nil {
		return err
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = r.s.now()
	}
	return save(r.s, fileAudit, append(ls, *l))
}

func (r *auditRepo) List(_ context.Context, f domain.AuditFilter) ([]domain.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ls, err := load[domain.AuditLog](r.s, fileAudit)
	if err != nil {
		return nil, err
	}
	out := filter(ls, func(l *domain.AuditLog) bool {
		return (f.UserID == "" || l.UserID == f.UserID) &&
			(f.ResourceType == "" || l.ResourceType == f.ResourceType)
	})
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}
