package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"talentdesk/internal/core/auth"
	"talentdesk/internal/domain"
	"talentdesk/pkg/apperrors"
)

// AssignmentService 维护每个 client 可见的候选人列表（有序、整体替换）
type AssignmentService struct {
	assignments domain.AssignmentRepository
	candidates  domain.CandidateRepository
	users       domain.UserRepository
	notifier    Notifier
	audit       *AuditService
	log         *zap.Logger
	now         Clock
}

func NewAssignmentService(st domain.Store, n Notifier, a *AuditService, l *zap.Logger, now Clock) *AssignmentService {
	return &AssignmentService{
		assignments: st.Assignments,
		candidates:  st.Candidates,
		users:       st.Users,
		notifier:    n,
		audit:       a,
		log:         l,
		now:         now,
	}
}

// SetAssignment 整体替换 client 的候选人列表。
// 重复 id 去重（保留第一次出现的位置）；未知 id 拒绝。
// 排序、移除单个候选人都通过这里完成。
func (s *AssignmentService) SetAssignment(ctx context.Context, actor auth.Principal, clientID string, candidateIDs []string) (*domain.ClientAssignment, error) {
	if !auth.CanManageCandidates(actor.Role) {
		return nil, apperrors.Forbidden("managing assignments requires manageCandidates")
	}
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, apperrors.Validation("clientId is required")
	}
	if candidateIDs == nil {
		return nil, apperrors.Validation("candidateIds is required")
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

	ids := dedupe(candidateIDs)
	if err := s.checkCandidates(ctx, ids); err != nil {
		return nil, err
	}

	a := &domain.ClientAssignment{
		ClientID:     clientID,
		CandidateIDs: ids,
		UpdatedAt:    s.now(),
		UpdatedBy:    actor.ID,
	}
	if err := s.assignments.Upsert(ctx, a); err != nil {
		assignmentWrites.WithLabelValues("error").Inc()
		return nil, storeErr(err, "assignment")
	}
	assignmentWrites.WithLabelValues("ok").Inc()

	s.notifier.Notify(ctx, clientID, domain.NotifyAssignmentUpdated,
		"Your candidate list was updated",
		fmt.Sprintf("You now have %d candidate(s) available to review.", len(ids)))
	s.audit.Record(ctx, actor, "assignment.set", domain.ResourceAssignment, clientID, map[string]any{
		"candidateIds": []string(ids),
		"count":        len(ids),
	})
	s.log.Info("assignment updated",
		zap.String("client", clientID), zap.String("by", actor.ID), zap.Int("count", len(ids)))
	return a, nil
}

// GetAssignment 员工可查任意 client；client 只能查自己。没有记录时返回空列表。
func (s *AssignmentService) GetAssignment(ctx context.Context, actor auth.Principal, clientID string) (*domain.ClientAssignment, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, apperrors.Validation("clientId is required")
	}
	if !auth.CanManageCandidates(actor.Role) && actor.ID != clientID {
		return nil, apperrors.Forbidden("cannot read another client's assignment")
	}
	a, err := s.assignments.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, storeErr(err, "assignment")
	}
	if a == nil {
		return &domain.ClientAssignment{ClientID: clientID, CandidateIDs: []string{}}, nil
	}
	return a, nil
}

func (s *AssignmentService) ListAssignments(ctx context.Context, actor auth.Principal) ([]domain.ClientAssignment, error) {
	if !auth.CanManageCandidates(actor.Role) {
		return nil, apperrors.Forbidden("listing assignments requires manageCandidates")
	}
	out, err := s.assignments.List(ctx)
	if err != nil {
		return nil, storeErr(err, "assignment")
	}
	if out == nil {
		out = []domain.ClientAssignment{}
	}
	return out, nil
}

func (s *AssignmentService) checkCandidates(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	all, err := s.candidates.List(ctx)
	if err != nil {
		return storeErr(err, "candidate")
	}
	known := make(map[string]bool, len(all))
	for _, c := range all {
		known[c.ID] = true
	}
	var unknown []string
	for _, id := range ids {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return apperrors.Validation("unknown candidate ids").
			WithDetails(map[string]any{"unknown": unknown})
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
