package jsonfile

import (
	"context"
	"strings"

	"talentdesk/internal/domain"
)

// userRecord domain.User 的 PasswordHash 不参与 JSON，这里单独落盘
type userRecord struct {
	domain.User
	PasswordHash string `json:"passwordHash,omitempty"`
}

func (r userRecord) user() domain.User {
	u := r.User
	u.PasswordHash = r.PasswordHash
	return u
}

func toRecord(u domain.User) userRecord { return userRecord{User: u, PasswordHash: u.PasswordHash} }

type userRepo struct{ s *Store }

func (r *userRepo) List(_ context.Context, role domain.Role) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recs, err := load[userRecord](r.s, fileUsers)
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(recs))
	for _, rec := range recs {
		if role == "" || rec.Role == role {
			out = append(out, rec.user())
		}
	}
	return out, nil
}

func (r *userRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u *userRecord) bool { return u.ID == id })
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *userRecord) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userRepo) find(match func(*userRecord) bool) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recs, err := load[userRecord](r.s, fileUsers)
	if err != nil {
		return nil, err
	}
	if i := indexOf(recs, match); i >= 0 {
		u := recs[i].user()
		return &u, nil
	}
	return nil, nil
}

func (r *userRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recs, err := load[userRecord](r.s, fileUsers)
	if err != nil {
		return 0, err
	}
	var n int64
	for _, rec := range recs {
		if rec.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *userRepo) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recs, err := load[userRecord](r.s, fileUsers)
	if err != nil {
		return err
	}
	if indexOf(recs, func(x *userRecord) bool { return strings.EqualFold(x.Email, u.Email) }) >= 0 {
		return domain.ErrDuplicateEmail
	}
	now := r.s.now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return save(r.s, fileUsers, append(recs, toRecord(*u)))
}

func (r *userRepo) Update(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recs, err := load[userRecord](r.s, fileUsers)
	if err != nil {
		return err
	}
	i := indexOf(recs, func(x *userRecord) bool { return x.ID == u.ID })
	if i < 0 {
		return domain.ErrNotFound
	}
	if indexOf(recs, func(x *userRecord) bool { return x.ID != u.ID && strings.EqualFold(x.Email, u.Email) }) >= 0 {
		return domain.ErrDuplicateEmail
	}
	if recs[i].Role == domain.RoleAdmin && u.Role != domain.RoleAdmin && !otherAdmin(recs, u.ID) {
		return domain.ErrLastAdmin
	}
	u.CreatedAt = recs[i].CreatedAt
	u.UpdatedAt = r.s.now()
	recs[i] = toRecord(*u)
	return save(r.s, fileUsers, recs)
}

// Delete 先写依赖集合，最后写 users.json
func (r *userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recs, err := load[userRecord](r.s, fileUsers)
	if err != nil {
		return err
	}
	i := indexOf(recs, func(x *userRecord) bool { return x.ID == id })
	if i < 0 {
		return domain.ErrNotFound
	}
	if recs[i].Role == domain.RoleAdmin && !otherAdmin(recs, id) {
		return domain.ErrLastAdmin
	}

	as, err := load[domain.ClientAssignment](r.s, fileAssignments)
	if err != nil {
		return err
	}
	ms, err := load[domain.Meeting](r.s, fileMeetings)
	if err != nil {
		return err
	}
	ns, err := load[domain.Notification](r.s, fileNotifications)
	if err != nil {
		return err
	}
	if err := save(r.s, fileAssignments, filter(as, func(a *domain.ClientAssignment) bool { return a.ClientID != id })); err != nil {
		return err
	}
	if err := save(r.s, fileMeetings, filter(ms, func(m *domain.Meeting) bool { return m.ClientID != id })); err != nil {
		return err
	}
	if err := save(r.s, fileNotifications, filter(ns, func(n *domain.Notification) bool { return n.UserID != id })); err != nil {
		return err
	}
	return save(r.s, fileUsers, append(recs[:i:i], recs[i+1:]...))
}

func otherAdmin(recs []userRecord, exceptID string) bool {
	for _, rec := range recs {
		if rec.Role == domain.RoleAdmin && rec.ID != exceptID {
			return true
		}
	}
	return false
}

func filter[T any](items []T, keep func(*T) bool) []T {
	out := make([]T, 0, len(items))
	for i := range items {
		if keep(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}
