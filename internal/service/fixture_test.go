package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"talentdesk/internal/core/auth"
	"talentdesk/internal/core/validate"
	"talentdesk/internal/domain"
	"talentdesk/internal/repo/jsonfile"
	"talentdesk/pkg/apperrors"
)

var fixedNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store       domain.Store
	vis         *Visibility
	notify      *NotificationService
	audit       *AuditService
	assignments *AssignmentService
	candidates  *CandidateService
	users       *UserService
	meetings    *MeetingService
	auth        *AuthService

	admin, cs, client auth.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	js, err := jsonfile.Open(t.TempDir())
	require.NoError(t, err)
	st := js.Repos()
	return newFixtureWith(t, st, nil)
}

// newFixtureWith n 为空时使用真实的 NotificationService
func newFixtureWith(t *testing.T, st domain.Store, n Notifier) *fixture {
	t.Helper()
	l := zap.NewNop()
	now := func() time.Time { return fixedNow }
	v := validate.New()

	f := &fixture{store: st}
	f.vis = NewVisibility(st.Candidates, st.Assignments)
	f.notify = NewNotificationService(st.Notifications, l, now)
	f.audit = NewAuditService(st.Audit, l, now)
	if n == nil {
		n = f.notify
	}
	f.assignments = NewAssignmentService(st, n, f.audit, l, now)
	f.candidates = NewCandidateService(st.Candidates, f.vis, v, f.audit, l)
	f.users = NewUserService(st.Users, v, f.audit, l)
	f.meetings = NewMeetingService(st, f.vis, n, f.audit, v, l)
	f.auth = NewAuthService(st.Users, &auth.JWTer{Secret: []byte("test-secret"), Issuer: "talentdesk", TTL: time.Hour}, v, l, now)

	ctx := context.Background()
	f.admin = f.seedUser(t, ctx, "admin@example.com", domain.RoleAdmin)
	f.cs = f.seedUser(t, ctx, "cs@example.com", domain.RoleCustomerService)
	f.client = f.seedUser(t, ctx, "client@example.com", domain.RoleClient)
	return f
}

func (f *fixture) seedUser(t *testing.T, ctx context.Context, email string, role domain.Role) auth.Principal {
	t.Helper()
	u := &domain.User{ID: "u-" + string(role), Email: email, Name: string(role), Role: role}
	require.NoError(t, f.store.Users.Create(ctx, u))
	return auth.Principal{ID: u.ID, Role: u.Role, Email: u.Email, Name: u.Name}
}

func (f *fixture) addClient(t *testing.T, id string) auth.Principal {
	t.Helper()
	u := &domain.User{ID: id, Email: id + "@example.com", Name: id, Role: domain.RoleClient}
	require.NoError(t, f.store.Users.Create(context.Background(), u))
	return auth.Principal{ID: u.ID, Role: u.Role}
}

func (f *fixture) addCandidate(t *testing.T, name string) *CandidateView {
	t.Helper()
	v, err := f.candidates.Create(context.Background(), f.admin, CandidateInput{
		Name:         name,
		Email:        name + "@mail.test",
		Phone:        "+1-555-0100",
		Title:        "Support Engineer",
		Availability: domain.AvailabilityImmediate,
		Rankings:     &domain.Rankings{Personality: 4, Accent: 4, Professionalism: 5, Technical: 3, Likeability: 4, Notes: "internal"},
	})
	require.NoError(t, err)
	return v
}

func viewIDs(vs []CandidateView) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.ID
	}
	return out
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	ae, ok := apperrors.As(err)
	require.True(t, ok, "want AppError, got %v", err)
	require.Equal(t, code, ae.Code, ae.Message)
}

// recordingNotifier 记录 Notify 调用
type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingNotifier) Notify(_ context.Context, userID, typ, _, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, userID+":"+typ)
}

// failingNotifications 所有写入都失败的通知仓储
type failingNotifications struct{ domain.NotificationRepository }

func (failingNotifications) Create(context.Context, *domain.Notification) error {
	return errors.New("disk full")
}

type failingAudit struct{ domain.AuditRepository }

func (failingAudit) Create(context.Context, *domain.AuditLog) error { return errors.New("disk full") }
