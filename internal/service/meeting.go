package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"talentdesk/internal/core/auth"
	"talentdesk/internal/core/validate"
	"talentdesk/internal/domain"
	"talentdesk/pkg/apperrors"
	"talentdesk/pkg/utils"
)

type MeetingInput struct {
	CandidateID  string             `json:"candidateId" validate:"required"`
	ClientID     string             `json:"clientId"`
	ScheduledAt  time.Time          `json:"scheduledAt" validate:"required"`
	Notes        string             `json:"notes" validate:"max=4000"`
	Participants []string           `json:"participants"`
	MeetingType  domain.MeetingType `json:"meetingType" validate:"omitempty,oneof=standard teams"`
}

type MeetingStatusInput struct {
	Status domain.MeetingStatus `json:"status" validate:"required,oneof=scheduled completed cancelled"`
	Notes  *string              `json:"notes" validate:"omitempty,max=4000"`
}

type MeetingService struct {
	meetings   domain.MeetingRepository
	candidates domain.CandidateRepository
	users      domain.UserRepository
	vis        *Visibility
	notifier   Notifier
	audit      *AuditService
	v          *validate.Validator
	log        *zap.Logger
}

func NewMeetingService(st domain.Store, vis *Visibility, n Notifier, a *AuditService, v *validate.Validator, l *zap.Logger) *MeetingService {
	return &MeetingService{
		meetings:   st.Meetings,
		candidates: st.Candidates,
		users:      st.Users,
		vis:        vis,
		notifier:   n,
		audit:      a,
		v:          v,
		log:        l,
	}
}

// Create client 只能给自己约、且只能约自己看得到的候选人；员工可替任意 client 约
func (s *MeetingService) Create(ctx context.Context, actor auth.Principal, in MeetingInput) (*domain.Meeting, error) {
	if !auth.CanScheduleMeetings(actor.Role) {
		return nil, apperrors.Forbidden("scheduling requires scheduleMeetings")
	}
	if err := s.v.Struct(in); err != nil {
		return nil, err
	}
	clientID := strings.TrimSpace(in.ClientID)

	if auth.CanViewAllMeetings(actor.Role) {
		if clientID == "" {
			return nil, apperrors.Validation("clientId is required")
		}
		client, err := s.users.FindByID(ctx, clientID)
		if err != nil {
			return nil, storeErr(err, "user")
		}
		if client == nil {
			return nil, apperrors.NotFound("client not found")
		}
		if client.Role != domain.RoleClient {
			return nil, apperrors.Validation(fmt.Sprintf("user %s is not a client", clientID))
		}
	} else {
		if clientID != "" && clientID != actor.ID {
			return nil, apperrors.Forbidden("clients can only schedule their own meetings")
		}
		clientID = actor.ID
		ok, err := s.vis.Visible(ctx, actor, in.CandidateID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperrors.NotFound("candidate not found")
		}
	}

	cand, err := s.candidates.FindByID(ctx, in.CandidateID)
	if err != nil {
		return nil, storeErr(err, "candidate")
	}
	if cand == nil {
		return nil, apperrors.NotFound("candidate not found")
	}
	participants, err := s.checkParticipants(ctx, in.Participants)
	if err != nil {
		return nil, err
	}

	m := &domain.Meeting{
		ID:           utils.NewID(),
		CandidateID:  cand.ID,
		ClientID:     clientID,
		ScheduledAt:  in.ScheduledAt.UTC(),
		Status:       domain.MeetingScheduled,
		Notes:        in.Notes,
		Participants: participants,
		MeetingType:  in.MeetingType,
	}
	if m.MeetingType == "" {
		m.MeetingType = domain.MeetingStandard
	}
	if err := s.meetings.Create(ctx, m); err != nil {
		return nil, storeErr(err, "meeting")
	}

	msg := fmt.Sprintf("Meeting with %s scheduled for %s.", cand.Name, m.ScheduledAt.Format(time.RFC1123))
	for _, uid := range recipients(actor.ID, m) {
		s.notifier.Notify(ctx, uid, domain.NotifyMeetingScheduled, "Meeting scheduled", msg)
	}
	s.audit.Record(ctx, actor, "meeting.create", domain.ResourceMeeting, m.ID, map[string]any{
		"candidateId": m.CandidateID,
		"clientId":    m.ClientID,
	})
	return m, nil
}

// List 有 viewAllMeetings 的可按 clientId 过滤或看全部；其他人只看自己的
func (s *MeetingService) List(ctx context.Context, actor auth.Principal, clientID string) ([]domain.Meeting, error) {
	f := domain.MeetingFilter{ClientID: clientID}
	if !auth.CanViewAllMeetings(actor.Role) {
		if clientID != "" && clientID != actor.ID {
			return nil, apperrors.Forbidden("cannot list another client's meetings")
		}
		f.ClientID = actor.ID
	}
	out, err := s.meetings.List(ctx, f)
	if err != nil {
		return nil, storeErr(err, "meeting")
	}
	if out == nil {
		out = []domain.Meeting{}
	}
	return out, nil
}

// UpdateStatus client 只能取消自己的会议
func (s *MeetingService) UpdateStatus(ctx context.Context, actor auth.Principal, id string, in MeetingStatusInput) (*domain.Meeting, error) {
	if err := s.v.Struct(in); err != nil {
		return nil, err
	}
	m, err := s.meetings.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "meeting")
	}
	staff := auth.CanViewAllMeetings(actor.Role)
	if m == nil || (!staff && m.ClientID != actor.ID) {
		return nil, apperrors.NotFound("meeting not found")
	}
	if !staff && in.Status != domain.MeetingCancelled {
		return nil, apperrors.Forbidden("clients can only cancel meetings")
	}

	prev := m.Status
	m.Status = in.Status
	setIf(&m.Notes, in.Notes)
	if err := s.meetings.Update(ctx, m); err != nil {
		return nil, storeErr(err, "meeting")
	}

	if prev != m.Status {
		msg := fmt.Sprintf("Meeting on %s is now %s.", m.ScheduledAt.Format(time.RFC1123), m.Status)
		for _, uid := range recipients(actor.ID, m) {
			s.notifier.Notify(ctx, uid, domain.NotifyMeetingUpdated, "Meeting updated", msg)
		}
	}
	s.audit.Record(ctx, actor, "meeting.status", domain.ResourceMeeting, m.ID, map[string]any{
		"from": string(prev),
		"to":   string(m.Status),
	})
	return m, nil
}

// checkParticipants 参与者只能是员工账号；不存在与非员工同样报错，不暴露账号是否存在
func (s *MeetingService) checkParticipants(ctx context.Context, ids []string) ([]string, error) {
	ids = dedupe(ids)
	var invalid []string
	for _, id := range ids {
		u, err := s.users.FindByID(ctx, id)
		if err != nil {
			return nil, storeErr(err, "user")
		}
		if u == nil || !auth.CanViewAllMeetings(u.Role) {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) > 0 {
		return nil, apperrors.Validation("participants must be staff accounts").
			WithDetails(map[string]any{"invalid": invalid})
	}
	return ids, nil
}

// recipients client 与参与者，去掉操作者本人
func recipients(actorID string, m *domain.Meeting) []string {
	out := make([]string, 0, len(m.Participants)+1)
	seen := map[string]bool{actorID: true}
	for _, id := range append([]string{m.ClientID}, m.Participants...) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
