package service

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"clubverse-backend/internal/domain"
	"clubverse-backend/internal/logger"
	"clubverse-backend/internal/repository"
	"clubverse-backend/internal/security"
)

type governanceService struct {
	rosterRepo repository.RosterRepository
	actionRepo repository.PendingActionRepository
	userRepo   repository.UserRepository
	emailSvc   EmailService
	baseURL    string
}

func NewGovernanceService(
	rosterRepo repository.RosterRepository,
	actionRepo repository.PendingActionRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
	baseURL string,
) GovernanceService {
	return &governanceService{
		rosterRepo: rosterRepo,
		actionRepo: actionRepo,
		userRepo:   userRepo,
		emailSvc:   emailSvc,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (s *governanceService) ListMembers(ctx context.Context, clubID, requesterID int64) ([]domain.ClubMember, error) {
	if err := s.requireClubOrAdmin(ctx, clubID, requesterID); err != nil {
		return nil, err
	}
	return s.rosterRepo.ListMembers(ctx, clubID)
}

func (s *governanceService) MyClubs(ctx context.Context, userID int64) ([]domain.ClubMember, error) {
	return s.rosterRepo.ListClubsByUser(ctx, userID, true)
}

func (s *governanceService) MemberStats(ctx context.Context, clubID, requesterID int64) (*domain.MemberStats, error) {
	members, err := s.ListMembers(ctx, clubID, requesterID)
	if err != nil {
		return nil, err
	}

	stats := &domain.MemberStats{ByRole: map[string]int32{}}
	monthly := map[string]int32{}
	var active []domain.ClubMember
	for _, m := range members {
		stats.Total++
		if m.IsActive {
			stats.Active++
			stats.ByRole[string(m.Role)]++
			active = append(active, m)
		} else {
			stats.Inactive++
		}
		monthly[m.JoinedAt.Format("2006-01")]++
	}
	if stats.Total > 0 {
		stats.RetentionRate = float64(stats.Active) / float64(stats.Total)
	}

	sort.Slice(active, func(i, j int) bool { return active[i].JoinedAt.After(active[j].JoinedAt) })
	if len(active) > 5 {
		active = active[:5]
	}
	stats.RecentJoins = active

	// Joins per month, last six months oldest first.
	now := time.Now()
	for i := 5; i >= 0; i-- {
		month := now.AddDate(0, -i, 0).Format("2006-01")
		stats.GrowthTrend = append(stats.GrowthTrend, domain.MonthCount{Month: month, Count: monthly[month]})
	}

	return stats, nil
}

func (s *governanceService) ExportMembersCSV(ctx context.Context, clubID, requesterID int64, w io.Writer) error {
	members, err := s.ListMembers(ctx, clubID, requesterID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"email", "full_name", "phone_number", "school", "major", "year", "role", "status", "joined_at", "out_date"}); err != nil {
		return err
	}
	for _, m := range members {
		status := "active"
		outDate := ""
		if !m.IsActive {
			status = "removed"
			if m.OutDate != nil {
				outDate = m.OutDate.Format(time.RFC3339)
			}
		}
		record := []string{
			m.Email, m.FullName, m.PhoneNumber, m.School, m.Major,
			strconv.Itoa(int(m.Year)), string(m.Role), status,
			m.JoinedAt.Format(time.RFC3339), outDate,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *governanceService) ProposeRemoveMember(ctx context.Context, clubID, initiatorID, targetUserID int64, reason string) (*domain.PendingAction, error) {
	if n := utf8.RuneCountInString(reason); n < 10 || n > 500 {
		return nil, ErrInvalidReason
	}
	data := domain.ActionData{Remove: &domain.RemoveMemberData{Reason: reason}}
	return s.propose(ctx, clubID, initiatorID, targetUserID, domain.ActionRemoveMember, data)
}

func (s *governanceService) ProposeUpdateRole(ctx context.Context, clubID, initiatorID, targetUserID int64, newRole domain.MemberRole) (*domain.PendingAction, error) {
	if !newRole.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidTransition, newRole)
	}
	member, err := s.rosterRepo.GetActiveMember(ctx, clubID, targetUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	data := domain.ActionData{Role: &domain.UpdateRoleData{NewRole: newRole, OldRole: member.Role}}
	return s.propose(ctx, clubID, initiatorID, targetUserID, domain.ActionUpdateRole, data)
}

func (s *governanceService) ProposeUpdateMember(ctx context.Context, clubID, initiatorID, targetUserID int64, data domain.UpdateMemberData) (*domain.PendingAction, error) {
	return s.propose(ctx, clubID, initiatorID, targetUserID, domain.ActionUpdateMember, domain.ActionData{Member: &data})
}

// propose runs the shared precondition chain and persists the action. All
// checks happen before anything is written, so a failed proposal leaves no
// partial state.
func (s *governanceService) propose(ctx context.Context, clubID, initiatorID, targetUserID int64, actionType domain.ActionType, data domain.ActionData) (*domain.PendingAction, error) {
	club, err := s.getClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	// Only the club account or one of its active admins may open a
	// proposal; anyone else gets no further than this.
	if err := s.requireClubOrAdmin(ctx, clubID, initiatorID); err != nil {
		return nil, err
	}
	if targetUserID == clubID {
		return nil, fmt.Errorf("%w: the club account cannot be targeted", ErrForbidden)
	}
	if _, err := s.rosterRepo.GetActiveMember(ctx, clubID, targetUserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	admins, err := s.rosterRepo.ListActiveAdmins(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if len(admins) == 0 {
		return nil, ErrNoApprovers
	}

	now := time.Now()
	action := &domain.PendingAction{
		ClubID:         clubID,
		ActionType:     actionType,
		TargetMemberID: targetUserID,
		InitiatedByID:  initiatorID,
		Data:           data,
		ExpiresAt:      now.Add(domain.PendingActionTTL),
		CreatedAt:      now,
	}
	if err := s.actionRepo.Create(ctx, action); err != nil {
		return nil, err
	}

	// Each admin gets a personal token, so an approval via the email link
	// is attributed to the admin the link was sent to. The tokens never
	// appear in the API response.
	grants := make([]domain.ApprovalGrant, 0, len(admins))
	for _, admin := range admins {
		token, err := security.GenerateApprovalToken()
		if err != nil {
			return nil, err
		}
		grants = append(grants, domain.ApprovalGrant{
			ActionID:    action.ID,
			AdminUserID: admin.UserID,
			Token:       token,
			CreatedAt:   now,
		})
	}
	if err := s.actionRepo.CreateGrants(ctx, grants); err != nil {
		return nil, err
	}

	summary := describeAction(action)
	for i, admin := range admins {
		link := fmt.Sprintf("%s/api/members/approve?token=%s", s.baseURL, grants[i].Token)
		if err := s.emailSvc.SendApprovalRequest(ctx, admin.Email, admin.FullName, club.FullName, summary, link); err != nil {
			logger.Error("failed to send approval request email",
				"club_id", clubID, "action_id", action.ID, "admin", admin.Email, "error", err)
		}
	}

	return action, nil
}

func (s *governanceService) ListPendingActions(ctx context.Context, clubID, requesterID int64) ([]domain.PendingAction, error) {
	if err := s.requireClubOrAdmin(ctx, clubID, requesterID); err != nil {
		return nil, err
	}
	return s.actionRepo.ListOpenByClub(ctx, clubID, time.Now())
}

func (s *governanceService) ApprovePendingAction(ctx context.Context, actionID, adminID int64) (*domain.PendingAction, error) {
	action, err := s.getAction(ctx, actionID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOpen(ctx, action); err != nil {
		return nil, err
	}
	if err := s.requireActiveAdmin(ctx, action.ClubID, adminID); err != nil {
		return nil, err
	}
	return s.completeAndExecute(ctx, action, adminID)
}

func (s *governanceService) ApprovePendingActionByToken(ctx context.Context, token string) (*domain.PendingAction, error) {
	if !security.ValidateApprovalToken(token) {
		return nil, ErrInvalidToken
	}
	grant, err := s.actionRepo.GetGrantByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActionNotFound
		}
		return nil, err
	}
	action, err := s.getAction(ctx, grant.ActionID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOpen(ctx, action); err != nil {
		return nil, err
	}

	// The token was issued to one specific admin; the approval only counts
	// while that admin is still an active admin of the club.
	if err := s.requireActiveAdmin(ctx, action.ClubID, grant.AdminUserID); err != nil {
		return nil, err
	}

	return s.completeAndExecute(ctx, action, grant.AdminUserID)
}

func (s *governanceService) RejectPendingAction(ctx context.Context, actionID, adminID int64, reason string) (*domain.PendingAction, error) {
	action, err := s.getAction(ctx, actionID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOpen(ctx, action); err != nil {
		return nil, err
	}
	if err := s.requireActiveAdmin(ctx, action.ClubID, adminID); err != nil {
		return nil, err
	}

	now := time.Now()
	ok, err := s.actionRepo.MarkRejected(ctx, action.ID, &adminID, now, reason)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyResolved
	}

	action.IsRejected = true
	action.RejectedBy = &adminID
	action.RejectedAt = &now
	action.RejectionReason = reason
	return action, nil
}

// completeAndExecute is the serialization point of the approval flow: the
// conditional update on the completed flag decides a single winner among
// concurrent approvers, and only the winner runs the execution handler.
func (s *governanceService) completeAndExecute(ctx context.Context, action *domain.PendingAction, approverID int64) (*domain.PendingAction, error) {
	now := time.Now()
	ok, err := s.actionRepo.MarkCompleted(ctx, action.ID, approverID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyResolved
	}

	action.IsCompleted = true
	action.ApprovedBy = &approverID
	action.ApprovedAt = &now

	if err := s.execute(ctx, action); err != nil {
		// The approval is committed; execution is retried by the
		// reconciliation sweep, so the error is reported but the
		// approval stands.
		logger.Error("pending action execution failed",
			"action_id", action.ID, "type", action.ActionType, "error", err)
		return action, err
	}

	execAt := time.Now()
	if err := s.actionRepo.MarkExecuted(ctx, action.ID, execAt); err != nil {
		logger.Error("failed to stamp execution time", "action_id", action.ID, "error", err)
	} else {
		action.ExecutedAt = &execAt
	}

	return action, nil
}

// execute applies the approved mutation. Handlers tolerate re-entry: if the
// target has since left the roster they fail with ErrMemberNotFound and
// change nothing.
func (s *governanceService) execute(ctx context.Context, action *domain.PendingAction) error {
	switch action.ActionType {
	case domain.ActionRemoveMember:
		return s.executeRemove(ctx, action)
	case domain.ActionUpdateRole:
		return s.executeRoleUpdate(ctx, action)
	case domain.ActionUpdateMember:
		return s.executeMemberUpdate(ctx, action)
	}
	return fmt.Errorf("unknown action type %q", action.ActionType)
}

func (s *governanceService) executeRemove(ctx context.Context, action *domain.PendingAction) error {
	member, err := s.rosterRepo.GetActiveMember(ctx, action.ClubID, action.TargetMemberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMemberNotFound
		}
		return err
	}

	reason := ""
	if action.Data.Remove != nil {
		reason = action.Data.Remove.Reason
	}
	removedBy := action.InitiatedByID
	if action.ApprovedBy != nil {
		removedBy = *action.ApprovedBy
	}

	ok, err := s.rosterRepo.DeactivateMember(ctx, action.ClubID, action.TargetMemberID, time.Now(), reason, removedBy)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMemberNotFound
	}

	if _, err := s.rosterRepo.RecountQuantity(ctx, action.ClubID); err != nil {
		logger.Error("failed to recount club quantity", "club_id", action.ClubID, "error", err)
	}

	if club, err := s.getClub(ctx, action.ClubID); err == nil {
		_ = s.emailSvc.SendMemberRemoved(ctx, member.Email, member.FullName, club.FullName, reason)
	}
	return nil
}

func (s *governanceService) executeRoleUpdate(ctx context.Context, action *domain.PendingAction) error {
	if action.Data.Role == nil {
		return fmt.Errorf("update_role action %d has no role payload", action.ID)
	}
	member, err := s.rosterRepo.GetActiveMember(ctx, action.ClubID, action.TargetMemberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMemberNotFound
		}
		return err
	}

	ok, err := s.rosterRepo.UpdateMemberRole(ctx, action.ClubID, action.TargetMemberID, action.Data.Role.NewRole)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMemberNotFound
	}

	if club, err := s.getClub(ctx, action.ClubID); err == nil {
		_ = s.emailSvc.SendRoleUpdated(ctx, member.Email, member.FullName, club.FullName, string(action.Data.Role.NewRole))
	}
	return nil
}

func (s *governanceService) executeMemberUpdate(ctx context.Context, action *domain.PendingAction) error {
	if action.Data.Member == nil {
		return fmt.Errorf("update_member action %d has no member payload", action.ID)
	}
	member, err := s.rosterRepo.GetActiveMember(ctx, action.ClubID, action.TargetMemberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMemberNotFound
		}
		return err
	}

	d := action.Data.Member
	if d.FullName != nil {
		member.FullName = *d.FullName
	}
	if d.PhoneNumber != nil {
		member.PhoneNumber = *d.PhoneNumber
	}
	if d.AvatarURL != nil {
		member.AvatarURL = *d.AvatarURL
	}
	if d.School != nil {
		member.School = *d.School
	}
	if d.Major != nil {
		member.Major = *d.Major
	}
	if d.Year != nil {
		member.Year = *d.Year
	}
	if d.Skills != nil {
		member.Skills = *d.Skills
	}
	if d.Interests != nil {
		member.Interests = *d.Interests
	}

	return s.rosterRepo.UpdateMember(ctx, member)
}

func (s *governanceService) ExpireOverdueActions(ctx context.Context) (int64, error) {
	return s.actionRepo.ExpireOverdue(ctx, time.Now())
}

// ReconcileUnexecutedActions resumes approved actions whose execution never
// finished (a crash between the approval commit and the handler). The claim
// is a conditional update, so each orphan is resumed at most once per sweep.
func (s *governanceService) ReconcileUnexecutedActions(ctx context.Context, grace time.Duration) (int, error) {
	now := time.Now()
	claimed, err := s.actionRepo.ClaimUnexecuted(ctx, now.Add(-grace), now)
	if err != nil {
		return 0, err
	}

	resumed := 0
	for i := range claimed {
		action := &claimed[i]
		if err := s.execute(ctx, action); err != nil {
			if errors.Is(err, ErrMemberNotFound) {
				// Target is already gone; nothing left to apply.
				resumed++
				continue
			}
			logger.Error("reconciliation failed for pending action",
				"action_id", action.ID, "type", action.ActionType, "error", err)
			continue
		}
		resumed++
	}
	return resumed, nil
}

func (s *governanceService) getClub(ctx context.Context, clubID int64) (*domain.User, error) {
	club, err := s.userRepo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	if club.Role != domain.RoleClub {
		return nil, ErrClubNotFound
	}
	return club, nil
}

func (s *governanceService) getAction(ctx context.Context, actionID int64) (*domain.PendingAction, error) {
	action, err := s.actionRepo.GetByID(ctx, actionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActionNotFound
		}
		return nil, err
	}
	return action, nil
}

// checkOpen enforces the precondition order shared by approve and reject:
// expiry is checked before terminal state, and a past-deadline action is
// flipped to rejected on the spot.
func (s *governanceService) checkOpen(ctx context.Context, action *domain.PendingAction) error {
	now := time.Now()
	if !action.IsResolved() && action.IsExpired(now) {
		ok, err := s.actionRepo.MarkRejected(ctx, action.ID, nil, now, "expired")
		if err != nil {
			return err
		}
		if !ok {
			// A concurrent caller closed the action between our read and
			// the flip; report the terminal state, not expiry.
			return ErrAlreadyResolved
		}
		action.IsRejected = true
		action.RejectedAt = &now
		action.RejectionReason = "expired"
		return ErrActionExpired
	}
	if action.IsResolved() {
		return ErrAlreadyResolved
	}
	return nil
}

func (s *governanceService) requireActiveAdmin(ctx context.Context, clubID, userID int64) error {
	member, err := s.rosterRepo.GetActiveMember(ctx, clubID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrForbidden
		}
		return err
	}
	if member.Role != domain.MemberRoleAdmin {
		return ErrForbidden
	}
	return nil
}

func (s *governanceService) requireClubOrAdmin(ctx context.Context, clubID, requesterID int64) error {
	if requesterID == clubID {
		return nil
	}
	return s.requireActiveAdmin(ctx, clubID, requesterID)
}

func describeAction(action *domain.PendingAction) string {
	switch action.ActionType {
	case domain.ActionRemoveMember:
		reason := ""
		if action.Data.Remove != nil {
			reason = action.Data.Remove.Reason
		}
		return fmt.Sprintf("Remove member #%d from the roster. Reason: %s", action.TargetMemberID, reason)
	case domain.ActionUpdateRole:
		if action.Data.Role != nil {
			return fmt.Sprintf("Change the role of member #%d from %s to %s.",
				action.TargetMemberID, action.Data.Role.OldRole, action.Data.Role.NewRole)
		}
	case domain.ActionUpdateMember:
		return fmt.Sprintf("Update the roster profile of member #%d.", action.TargetMemberID)
	}
	return fmt.Sprintf("%s for member #%d", action.ActionType, action.TargetMemberID)
}
