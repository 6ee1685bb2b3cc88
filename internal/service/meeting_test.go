package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentdesk/internal/domain"
	"talentdesk/pkg/apperrors"
)

func TestClientSchedulesOnlyVisibleCandidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addCandidate(t, "a")
	b := f.addCandidate(t, "b")
	_, err := f.assignments.SetAssignment(ctx, f.admin, f.client.ID, []string{a.ID})
	require.NoError(t, err)
	when := fixedNow.Add(24 * time.Hour)

	_, err = f.meetings.Create(ctx, f.client, MeetingInput{CandidateID: b.ID, ScheduledAt: when})
	requireCode(t, err, apperrors.CodeNotFound)

	other := f.addClient(t, "other")
	_, err = f.meetings.Create(ctx, f.client, MeetingInput{CandidateID: a.ID, ClientID: other.ID, ScheduledAt: when})
	requireCode(t, err, apperrors.CodeForbidden)

	m, err := f.meetings.Create(ctx, f.client, MeetingInput{CandidateID: a.ID, ScheduledAt: when, Participants: []string{f.cs.ID}})
	require.NoError(t, err)
	assert.Equal(t, f.client.ID, m.ClientID)
	assert.Equal(t, domain.MeetingScheduled, m.Status)
	assert.Equal(t, domain.MeetingStandard, m.MeetingType)

	// 操作者本人不收通知，参与者收
	ns, err := f.notify.List(ctx, f.cs)
	require.NoError(t, err)
	require.Len(t, ns, 1)
	assert.Equal(t, domain.NotifyMeetingScheduled, ns[0].Type)
	mine, err := f.notify.List(ctx, f.client)
	require.NoError(t, err)
	for _, n := range mine {
		assert.NotEqual(t, domain.NotifyMeetingScheduled, n.Type)
	}
}

func TestParticipantsMustBeStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addCandidate(t, "a")
	_, err := f.assignments.SetAssignment(ctx, f.admin, f.client.ID, []string{a.ID})
	require.NoError(t, err)
	other := f.addClient(t, "other")
	when := fixedNow.Add(24 * time.Hour)

	_, err = f.meetings.Create(ctx, f.client, MeetingInput{CandidateID: a.ID, ScheduledAt: when, Participants: []string{other.ID}})
	requireCode(t, err, apperrors.CodeValidationFailed)

	// 不存在的 id 与非员工 id 报同一个错误
	_, ghostErr := f.meetings.Create(ctx, f.client, MeetingInput{CandidateID: a.ID, ScheduledAt: when, Participants: []string{"ghost"}})
	requireCode(t, ghostErr, apperrors.CodeValidationFailed)
	ae, _ := apperrors.As(err)
	ge, _ := apperrors.As(ghostErr)
	assert.Equal(t, ae.Message, ge.Message)

	_, err = f.meetings.Create(ctx, f.cs, MeetingInput{CandidateID: a.ID, ClientID: f.client.ID, ScheduledAt: when, Participants: []string{f.admin.ID, other.ID}})
	requireCode(t, err, apperrors.CodeValidationFailed)

	ns, err := f.notify.List(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, ns)

	list, err := f.meetings.List(ctx, f.admin, "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStaffSchedulesForClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addCandidate(t, "a")
	when := fixedNow.Add(time.Hour)

	_, err := f.meetings.Create(ctx, f.cs, MeetingInput{CandidateID: a.ID, ScheduledAt: when})
	requireCode(t, err, apperrors.CodeValidationFailed)
	_, err = f.meetings.Create(ctx, f.cs, MeetingInput{CandidateID: a.ID, ClientID: f.admin.ID, ScheduledAt: when})
	requireCode(t, err, apperrors.CodeValidationFailed)
	_, err = f.meetings.Create(ctx, f.cs, MeetingInput{CandidateID: "ghost", ClientID: f.client.ID, ScheduledAt: when})
	requireCode(t, err, apperrors.CodeNotFound)
	_, err = f.meetings.Create(ctx, f.cs, MeetingInput{CandidateID: a.ID, ClientID: f.client.ID, ScheduledAt: when, Participants: []string{"ghost"}})
	requireCode(t, err, apperrors.CodeValidationFailed)
	_, err = f.meetings.Create(ctx, f.cs, MeetingInput{CandidateID: a.ID, ClientID: f.client.ID})
	requireCode(t, err, apperrors.CodeValidationFailed)

	m, err := f.meetings.Create(ctx, f.cs, MeetingInput{CandidateID: a.ID, ClientID: f.client.ID, ScheduledAt: when, MeetingType: domain.MeetingTeams})
	require.NoError(t, err)
	assert.Equal(t, domain.MeetingTeams, m.MeetingType)

	ns, err := f.notify.List(ctx, f.client)
	require.NoError(t, err)
	require.NotEmpty(t, ns)
	assert.Equal(t, domain.NotifyMeetingScheduled, ns[0].Type)
}

func TestMeetingListScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addCandidate(t, "a")
	other := f.addClient(t, "other")
	for _, c := range []string{f.client.ID, other.ID} {
		_, err := f.meetings.Create(ctx, f.admin, MeetingInput{CandidateID: a.ID, ClientID: c, ScheduledAt: fixedNow})
		require.NoError(t, err)
	}

	all, err := f.meetings.List(ctx, f.cs, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	filtered, err := f.meetings.List(ctx, f.admin, other.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, other.ID, filtered[0].ClientID)

	mine, err := f.meetings.List(ctx, f.client, "")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.client.ID, mine[0].ClientID)
	_, err = f.meetings.List(ctx, f.client, other.ID)
	requireCode(t, err, apperrors.CodeForbidden)
}

func TestMeetingStatusRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addCandidate(t, "a")
	other := f.addClient(t, "other")
	m, err := f.meetings.Create(ctx, f.admin, MeetingInput{CandidateID: a.ID, ClientID: f.client.ID, ScheduledAt: fixedNow})
	require.NoError(t, err)

	_, err = f.meetings.UpdateStatus(ctx, f.client, m.ID, MeetingStatusInput{Status: domain.MeetingCompleted})
	requireCode(t, err, apperrors.CodeForbidden)
	_, err = f.meetings.UpdateStatus(ctx, other, m.ID, MeetingStatusInput{Status: domain.MeetingCancelled})
	requireCode(t, err, apperrors.CodeNotFound)
	_, err = f.meetings.UpdateStatus(ctx, f.admin, m.ID, MeetingStatusInput{Status: "postponed"})
	requireCode(t, err, apperrors.CodeValidationFailed)

	got, err := f.meetings.UpdateStatus(ctx, f.client, m.ID, MeetingStatusInput{Status: domain.MeetingCancelled, Notes: ptr("conflict")})
	require.NoError(t, err)
	assert.Equal(t, domain.MeetingCancelled, got.Status)
	assert.Equal(t, "conflict", got.Notes)

	got, err = f.meetings.UpdateStatus(ctx, f.cs, m.ID, MeetingStatusInput{Status: domain.MeetingCompleted})
	require.NoError(t, err)
	assert.Equal(t, domain.MeetingCompleted, got.Status)
	assert.Equal(t, "conflict", got.Notes)

	ns, err := f.notify.List(ctx, f.client)
	require.NoError(t, err)
	var updates int
	for _, n := range ns {
		if n.Type == domain.NotifyMeetingUpdated {
			updates++
		}
	}
	assert.Equal(t, 1, updates)
}
