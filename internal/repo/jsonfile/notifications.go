package jsonfile

import (
	"context"
	"sort"

	"talentdesk/internal/domain"
)

type notificationRepo struct{ s *Store }

func (r *notificationRepo) Create(_ context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ns, err := load[domain.Notification](r.s, fileNotifications)
	if err != nil {
		return err
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.s.now()
	}
	return save(r.s, fileNotifications, append(ns, *n))
}

func (r *notificationRepo) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ns, err := load[domain.Notification](r.s, fileNotifications)
	if err != nil {
		return nil, err
	}
	out := filter(ns, func(n *domain.Notification) bool { return n.UserID == userID })
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *notificationRepo) FindByID(_ context.Context, id string) (*domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ns, err := load[domain.Notification](r.s, fileNotifications)
	if err != nil {
		return nil, err
	}
	if i := indexOf(ns, func(n *domain.Notification) bool { return n.ID == id }); i >= 0 {
		n := ns[i]
		return &n, nil
	}
	return nil, nil
}

func (r *notificationRepo) MarkRead(_ context.Context, id string) error {
	return r.mutate(func(ns []domain.Notification) ([]domain.Notification, error) {
		i := indexOf(ns, func(n *domain.Notification) bool { return n.ID == id })
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		ns[i].Read = true
		return ns, nil
	})
}

func (r *notificationRepo) MarkAllRead(_ context.Context, userID string) error {
	return r.mutate(func(ns []domain.Notification) ([]domain.Notification, error) {
		for i := range ns {
			if ns[i].UserID == userID {
				ns[i].Read = true
			}
		}
		return ns, nil
	})
}

func (r *notificationRepo) Delete(_ context.Context, id string) error {
	return r.mutate(func(ns []domain.Notification) ([]domain.Notification, error) {
		i := indexOf(ns, func(n *domain.Notification) bool { return n.ID == id })
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		return append(ns[:i:i], ns[i+1:]...), nil
	})
}

func (r *notificationRepo) mutate(fn func([]domain.Notification) ([]domain.Notification, error)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ns, err := load[domain.Notification](r.s, fileNotifications)
	if err != nil {
		return err
	}
	ns, err = fn(ns)
	if err != nil {
		return err
	}
	return save(r.s, fileNotifications, ns)
}
