// Package storetest 两种存储实现共用的行为测试。
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentdesk/internal/domain"
	"talentdesk/pkg/utils"
)

// Factory 每个子测试拿到一个空的 Store
type Factory func(t *testing.T) domain.Store

// Run 跑全部用例
func Run(t *testing.T, newStore Factory) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("last admin", func(t *testing.T) { testLastAdmin(t, newStore(t)) })
	t.Run("user delete cascades", func(t *testing.T) { testUserCascade(t, newStore(t)) })
	t.Run("candidate sort order", func(t *testing.T) { testSortOrder(t, newStore(t)) })
	t.Run("candidate update", func(t *testing.T) { testCandidateUpdate(t, newStore(t)) })
	t.Run("candidate reorder", func(t *testing.T) { testReorder(t, newStore(t)) })
	t.Run("candidate delete cascades", func(t *testing.T) { testCandidateCascade(t, newStore(t)) })
	t.Run("assignments", func(t *testing.T) { testAssignments(t, newStore(t)) })
	t.Run("meetings", func(t *testing.T) { testMeetings(t, newStore(t)) })
	t.Run("notifications", func(t *testing.T) { testNotifications(t, newStore(t)) })
	t.Run("audit", func(t *testing.T) { testAudit(t, newStore(t)) })
}

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func mkUser(t *testing.T, s domain.Store, email string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{ID: utils.NewID(), Email: email, Name: email, Role: role, PasswordHash: "x"}
	require.NoError(t, s.Users.Create(context.Background(), u))
	return u
}

func mkCandidate(t *testing.T, s domain.Store, name string) *domain.Candidate {
	t.Helper()
	c := &domain.Candidate{
		ID:           utils.NewID(),
		Name:         name,
		Email:        name + "@example.com",
		Title:        "Engineer",
		Availability: domain.AvailabilityImmediate,
	}
	c.Normalize()
	require.NoError(t, s.Candidates.Create(context.Background(), c))
	return c
}

func names(cs []domain.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func testUsers(t *testing.T, s domain.Store) {
	ctx := context.Background()
	admin := mkUser(t, s, "root@example.com", domain.RoleAdmin)
	mkUser(t, s, "cs@example.com", domain.RoleCustomerService)
	client := mkUser(t, s, "acme@example.com", domain.RoleClient)

	got, err := s.Users.FindByEmail(ctx, "acme@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, client.ID, got.ID)
	assert.Equal(t, "x", got.PasswordHash)

	missing, err := s.Users.FindByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	dup := &domain.User{ID: utils.NewID(), Email: "acme@example.com", Name: "dup", Role: domain.RoleClient}
	assert.ErrorIs(t, s.Users.Create(ctx, dup), domain.ErrDuplicateEmail)

	clients, err := s.Users.List(ctx, domain.RoleClient)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	all, err := s.Users.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	n, err := s.Users.CountByRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	client.Name = "Acme Corp"
	client.HiringNeeds = "two support agents"
	require.NoError(t, s.Users.Update(ctx, client))
	got, err = s.Users.FindByID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.Name)
	assert.Equal(t, "two support agents", got.HiringNeeds)

	client.Email = admin.Email
	assert.ErrorIs(t, s.Users.Update(ctx, client), domain.ErrDuplicateEmail)

	ghost := &domain.User{ID: "ghost", Email: "ghost@example.com", Role: domain.RoleClient}
	assert.ErrorIs(t, s.Users.Update(ctx, ghost), domain.ErrNotFound)
	assert.ErrorIs(t, s.Users.Delete(ctx, "ghost"), domain.ErrNotFound)
}

func testLastAdmin(t *testing.T, s domain.Store) {
	ctx := context.Background()
	a1 := mkUser(t, s, "a1@example.com", domain.RoleAdmin)

	assert.ErrorIs(t, s.Users.Delete(ctx, a1.ID), domain.ErrLastAdmin)
	a1.Role = domain.RoleClient
	assert.ErrorIs(t, s.Users.Update(ctx, a1), domain.ErrLastAdmin)
	a1.Role = domain.RoleAdmin

	a2 := mkUser(t, s, "a2@example.com", domain.RoleAdmin)
	require.NoError(t, s.Users.Delete(ctx, a1.ID))
	assert.ErrorIs(t, s.Users.Delete(ctx, a2.ID), domain.ErrLastAdmin)

	n, err := s.Users.CountByRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func testUserCascade(t *testing.T, s domain.Store) {
	ctx := context.Background()
	mkUser(t, s, "root@example.com", domain.RoleAdmin)
	client := mkUser(t, s, "acme@example.com", domain.RoleClient)
	other := mkUser(t, s, "other@example.com", domain.RoleClient)
	c := mkCandidate(t, s, "alice")

	for _, uid := range []string{client.ID, other.ID} {
		require.NoError(t, s.Assignments.Upsert(ctx, &domain.ClientAssignment{ClientID: uid, CandidateIDs: []string{c.ID}, UpdatedAt: base}))
		require.NoError(t, s.Meetings.Create(ctx, &domain.Meeting{ID: utils.NewID(), CandidateID: c.ID, ClientID: uid, ScheduledAt: base, Status: domain.MeetingScheduled}))
		require.NoError(t, s.Notifications.Create(ctx, &domain.Notification{ID: utils.NewID(), UserID: uid, Type: domain.NotifyAssignmentUpdated, Title: "t"}))
	}

	require.NoError(t, s.Users.Delete(ctx, client.ID))

	a, err := s.Assignments.FindByClientID(ctx, client.ID)
	require.NoError(t, err)
	assert.Nil(t, a)
	ms, err := s.Meetings.List(ctx, domain.MeetingFilter{ClientID: client.ID})
	require.NoError(t, err)
	assert.Empty(t, ms)
	ns, err := s.Notifications.ListByUser(ctx, client.ID)
	require.NoError(t, err)
	assert.Empty(t, ns)

	a, err = s.Assignments.FindByClientID(ctx, other.ID)
	require.NoError(t, err)
	require.NotNil(t, a)
	ms, err = s.Meetings.List(ctx, domain.MeetingFilter{})
	require.NoError(t, err)
	assert.Len(t, ms, 1)
}

func testSortOrder(t *testing.T, s domain.Store) {
	ctx := context.Background()
	a := mkCandidate(t, s, "a")
	b := mkCandidate(t, s, "b")
	c := mkCandidate(t, s, "c")
	assert.Equal(t, []int{0, 1, 2}, []int{a.SortOrder, b.SortOrder, c.SortOrder})

	// 删除最大的之后也不复用
	require.NoError(t, s.Candidates.Delete(ctx, c.ID))
	d := mkCandidate(t, s, "d")
	assert.Equal(t, 3, d.SortOrder)

	list, err := s.Candidates.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "d"}, names(list))
}

func testCandidateUpdate(t *testing.T, s domain.Store) {
	ctx := context.Background()
	mkCandidate(t, s, "a")
	b := mkCandidate(t, s, "b")

	upd := *b
	upd.Title = "Senior Engineer"
	upd.SortOrder = 99
	upd.Skills = []string{"go", "sql"}
	upd.Rankings = &domain.Rankings{Personality: 5, Accent: 4, Professionalism: 5, Technical: 3, Likeability: 4, Notes: "strong"}
	require.NoError(t, s.Candidates.Update(ctx, &upd))

	got, err := s.Candidates.FindByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Senior Engineer", got.Title)
	assert.Equal(t, 1, got.SortOrder)
	assert.Equal(t, []string{"go", "sql"}, []string(got.Skills))
	require.NotNil(t, got.Rankings)
	assert.Equal(t, "strong", got.Rankings.Notes)

	ghost := upd
	ghost.ID = "ghost"
	assert.ErrorIs(t, s.Candidates.Update(ctx, &ghost), domain.ErrNotFound)
}

func testReorder(t *testing.T, s domain.Store) {
	ctx := context.Background()
	a := mkCandidate(t, s, "a")
	b := mkCandidate(t, s, "b")
	c := mkCandidate(t, s, "c")

	require.NoError(t, s.Candidates.Reorder(ctx, []string{c.ID, a.ID, b.ID}))
	list, err := s.Candidates.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, names(list))
	for i, x := range list {
		assert.Equal(t, i, x.SortOrder)
	}

	// 部分列表：未列出的保持相对顺序排在后面
	require.NoError(t, s.Candidates.Reorder(ctx, []string{b.ID}))
	list, err = s.Candidates.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, names(list))

	assert.ErrorIs(t, s.Candidates.Reorder(ctx, []string{"ghost"}), domain.ErrNotFound)
	assert.Error(t, s.Candidates.Reorder(ctx, []string{a.ID, a.ID}))

	// 高水位之后继续分配
	d := mkCandidate(t, s, "d")
	assert.Equal(t, 3, d.SortOrder)
}

func testCandidateCascade(t *testing.T, s domain.Store) {
	ctx := context.Background()
	client := mkUser(t, s, "acme@example.com", domain.RoleClient)
	a := mkCandidate(t, s, "a")
	b := mkCandidate(t, s, "b")
	require.NoError(t, s.Assignments.Upsert(ctx, &domain.ClientAssignment{ClientID: client.ID, CandidateIDs: []string{b.ID, a.ID}, UpdatedAt: base}))
	require.NoError(t, s.Meetings.Create(ctx, &domain.Meeting{ID: utils.NewID(), CandidateID: a.ID, ClientID: client.ID, ScheduledAt: base, Status: domain.MeetingScheduled}))

	require.NoError(t, s.Candidates.Delete(ctx, a.ID))

	got, err := s.Assignments.FindByClientID(ctx, client.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{b.ID}, []string(got.CandidateIDs))
	ms, err := s.Meetings.List(ctx, domain.MeetingFilter{CandidateID: a.ID})
	require.NoError(t, err)
	assert.Empty(t, ms)

	assert.ErrorIs(t, s.Candidates.Delete(ctx, a.ID), domain.ErrNotFound)
}

func testAssignments(t *testing.T, s domain.Store) {
	ctx := context.Background()
	none, err := s.Assignments.FindByClientID(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, s.Assignments.Upsert(ctx, &domain.ClientAssignment{ClientID: "c1", CandidateIDs: []string{"x", "y"}, UpdatedAt: base, UpdatedBy: "admin"}))
	require.NoError(t, s.Assignments.Upsert(ctx, &domain.ClientAssignment{ClientID: "c1", CandidateIDs: []string{"y"}, UpdatedAt: base.Add(time.Hour), UpdatedBy: "cs"}))
	require.NoError(t, s.Assignments.Upsert(ctx, &domain.ClientAssignment{ClientID: "c0", CandidateIDs: []string{}, UpdatedAt: base, UpdatedBy: "admin"}))

	got, err := s.Assignments.FindByClientID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"y"}, []string(got.CandidateIDs))
	assert.Equal(t, "cs", got.UpdatedBy)
	assert.True(t, got.UpdatedAt.Equal(base.Add(time.Hour)))

	all, err := s.Assignments.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "c0", all[0].ClientID)
	assert.Empty(t, all[0].CandidateIDs)
}

func testMeetings(t *testing.T, s domain.Store) {
	ctx := context.Background()
	late := &domain.Meeting{ID: utils.NewID(), CandidateID: "cand", ClientID: "c1", ScheduledAt: base.Add(48 * time.Hour), Status: domain.MeetingScheduled, MeetingType: domain.MeetingTeams, Participants: []string{"p1"}}
	early := &domain.Meeting{ID: utils.NewID(), CandidateID: "cand", ClientID: "c2", ScheduledAt: base, Status: domain.MeetingScheduled}
	require.NoError(t, s.Meetings.Create(ctx, late))
	require.NoError(t, s.Meetings.Create(ctx, early))

	all, err := s.Meetings.List(ctx, domain.MeetingFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, early.ID, all[0].ID)

	mine, err := s.Meetings.List(ctx, domain.MeetingFilter{ClientID: "c1"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, []string{"p1"}, []string(mine[0].Participants))

	late.Status = domain.MeetingCompleted
	late.Notes = "went well"
	require.NoError(t, s.Meetings.Update(ctx, late))
	got, err := s.Meetings.FindByID(ctx, late.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.MeetingCompleted, got.Status)
	assert.Equal(t, "went well", got.Notes)

	ghost := *late
	ghost.ID = "ghost"
	assert.ErrorIs(t, s.Meetings.Update(ctx, &ghost), domain.ErrNotFound)
}

func testNotifications(t *testing.T, s domain.Store) {
	ctx := context.Background()
	older := &domain.Notification{ID: utils.NewID(), UserID: "u1", Type: domain.NotifyAssignmentUpdated, Title: "old", CreatedAt: base}
	newer := &domain.Notification{ID: utils.NewID(), UserID: "u1", Type: domain.NotifyMeetingScheduled, Title: "new", CreatedAt: base.Add(time.Minute)}
	foreign := &domain.Notification{ID: utils.NewID(), UserID: "u2", Type: domain.NotifyMeetingScheduled, Title: "x", CreatedAt: base}
	for _, n := range []*domain.Notification{older, newer, foreign} {
		require.NoError(t, s.Notifications.Create(ctx, n))
	}

	list, err := s.Notifications.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Title)
	assert.False(t, list[0].Read)

	require.NoError(t, s.Notifications.MarkRead(ctx, older.ID))
	got, err := s.Notifications.FindByID(ctx, older.ID)
	require.NoError(t, err)
	assert.True(t, got.Read)
	// 重复标记不算错误
	require.NoError(t, s.Notifications.MarkRead(ctx, older.ID))
	assert.ErrorIs(t, s.Notifications.MarkRead(ctx, "ghost"), domain.ErrNotFound)

	require.NoError(t, s.Notifications.MarkAllRead(ctx, "u1"))
	list, err = s.Notifications.ListByUser(ctx, "u1")
	require.NoError(t, err)
	for _, n := range list {
		assert.True(t, n.Read)
	}
	got, err = s.Notifications.FindByID(ctx, foreign.ID)
	require.NoError(t, err)
	assert.False(t, got.Read)

	require.NoError(t, s.Notifications.Delete(ctx, newer.ID))
	assert.ErrorIs(t, s.Notifications.Delete(ctx, newer.ID), domain.ErrNotFound)
	list, err = s.Notifications.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func testAudit(t *testing.T, s domain.Store) {
	ctx := context.Background()
	steps := []string{"first", "second", "third"}
	for i, rt := range []domain.ResourceType{domain.ResourceCandidate, domain.ResourceAssignment, domain.ResourceAssignment} {
		require.NoError(t, s.Audit.Create(ctx, &domain.AuditLog{
			ID:           utils.NewID(),
			UserID:       "admin",
			Action:       "update",
			ResourceType: rt,
			ResourceID:   "r",
			Details:      map[string]any{"step": steps[i]},
			Timestamp:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	all, err := s.Audit.List(ctx, domain.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].Timestamp.After(all[1].Timestamp))

	limited, err := s.Audit.List(ctx, domain.AuditFilter{ResourceType: domain.ResourceAssignment, Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "third", limited[0].Details["step"])

	none, err := s.Audit.List(ctx, domain.AuditFilter{UserID: "someone"})
	require.NoError(t, err)
	assert.Empty(t, none)
}
