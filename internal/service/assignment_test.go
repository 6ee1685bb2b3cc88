package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentdesk/internal/domain"
	"talentdesk/internal/repo/jsonfile"
	"talentdesk/pkg/apperrors"
)

func TestAssignAndRemoveEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addCandidate(t, "A")
	b := f.addCandidate(t, "B")
	assert.Equal(t, 0, a.SortOrder)
	assert.Equal(t, 1, b.SortOrder)

	x := f.addClient(t, "client-x")
	got, err := f.assignments.SetAssignment(ctx, f.admin, x.ID, []string{b.ID, a.ID})
	require.NoError(t, err)
	assert.Equal(t, f.admin.ID, got.UpdatedBy)
	assert.True(t, got.UpdatedAt.Equal(fixedNow))

	view, err := f.vis.Resolve(ctx, x)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID, a.ID}, viewIDs(view))
	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "@mail.test")

	_, err = f.assignments.SetAssignment(ctx, f.admin, x.ID, []string{b.ID})
	require.NoError(t, err)
	view, err = f.vis.Resolve(ctx, x)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, viewIDs(view))

	// 候选人本身没有被删除
	all, err := f.vis.Resolve(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestClientCannotSetAssignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addCandidate(t, "a")
	b := f.addCandidate(t, "b")
	_, err := f.assignments.SetAssignment(ctx, f.admin, f.client.ID, []string{a.ID})
	require.NoError(t, err)

	_, err = f.assignments.SetAssignment(ctx, f.client, f.client.ID, []string{a.ID, b.ID})
	requireCode(t, err, apperrors.CodeForbidden)

	stored, err := f.store.Assignments.FindByClientID(ctx, f.client.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, []string(stored.CandidateIDs))

	other := f.addClient(t, "other")
	_, err = f.assignments.SetAssignment(ctx, f.client, other.ID, []string{a.ID})
	requireCode(t, err, apperrors.CodeForbidden)
	none, err := f.store.Assignments.FindByClientID(ctx, other.ID)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestSetAssignmentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addCandidate(t, "a")

	_, err := f.assignments.SetAssignment(ctx, f.cs, "  ", []string{a.ID})
	requireCode(t, err, apperrors.CodeValidationFailed)

	_, err = f.assignments.SetAssignment(ctx, f.cs, f.client.ID, nil)
	requireCode(t, err, apperrors.CodeValidationFailed)

	_, err = f.assignments.SetAssignment(ctx, f.cs, "nobody", []string{a.ID})
	requireCode(t, err, apperrors.CodeNotFound)

	_, err = f.assignments.SetAssignment(ctx, f.cs, f.cs.ID, []string{a.ID})
	requireCode(t, err, apperrors.CodeValidationFailed)

	_, err = f.assignments.SetAssignment(ctx, f.cs, f.client.ID, []string{a.ID, "ghost"})
	requireCode(t, err, apperrors.CodeValidationFailed)
	ae, _ := apperrors.As(err)
	assert.Equal(t, map[string]any{"unknown": []string{"ghost"}}, ae.Details)
}

func TestSetAssignmentDeduplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addCandidate(t, "a")
	b := f.addCandidate(t, "b")

	got, err := f.assignments.SetAssignment(ctx, f.cs, f.client.ID, []string{b.ID, a.ID, b.ID, a.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID, a.ID}, []string(got.CandidateIDs))

	// 重复提交同一个请求结果不变
	again, err := f.assignments.SetAssignment(ctx, f.cs, f.client.ID, []string{b.ID, a.ID, b.ID, a.ID})
	require.NoError(t, err)
	assert.Equal(t, got.CandidateIDs, again.CandidateIDs)
	all, err := f.assignments.ListAssignments(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSetAssignmentNotifiesClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addCandidate(t, "a")

	_, err := f.assignments.SetAssignment(ctx, f.admin, f.client.ID, []string{a.ID})
	require.NoError(t, err)

	ns, err := f.notify.List(ctx, f.client)
	require.NoError(t, err)
	require.Len(t, ns, 1)
	assert.Equal(t, domain.NotifyAssignmentUpdated, ns[0].Type)
	assert.Contains(t, ns[0].Message, "1 candidate")

	logs, err := f.audit.List(ctx, f.admin, domain.AuditFilter{ResourceType: domain.ResourceAssignment})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, f.client.ID, logs[0].ResourceID)
}

func TestSideEffectFailuresDoNotFailAssignment(t *testing.T) {
	js, err := jsonfile.Open(t.TempDir())
	require.NoError(t, err)
	st := js.Repos()
	st.Notifications = failingNotifications{st.Notifications}
	st.Audit = failingAudit{st.Audit}
	f := newFixtureWith(t, st, nil)
	ctx := context.Background()
	a := f.addCandidate(t, "a")

	got, err := f.assignments.SetAssignment(ctx, f.admin, f.client.ID, []string{a.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, []string(got.CandidateIDs))

	stored, err := f.store.Assignments.FindByClientID(ctx, f.client.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestGetAssignmentScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := f.addClient(t, "other")

	mine, err := f.assignments.GetAssignment(ctx, f.client, f.client.ID)
	require.NoError(t, err)
	assert.Equal(t, f.client.ID, mine.ClientID)
	assert.NotNil(t, mine.CandidateIDs)
	assert.Empty(t, mine.CandidateIDs)

	_, err = f.assignments.GetAssignment(ctx, f.client, other.ID)
	requireCode(t, err, apperrors.CodeForbidden)

	_, err = f.assignments.ListAssignments(ctx, f.client)
	requireCode(t, err, apperrors.CodeForbidden)
}

func TestNotifierReceivesAssignment(t *testing.T) {
	js, err := jsonfile.Open(t.TempDir())
	require.NoError(t, err)
	rec := &recordingNotifier{}
	f := newFixtureWith(t, js.Repos(), rec)

	_, err = f.assignments.SetAssignment(context.Background(), f.cs, f.client.ID, []string{})
	require.NoError(t, err)
	assert.Equal(t, []string{f.client.ID + ":" + domain.NotifyAssignmentUpdated}, rec.calls)
}
