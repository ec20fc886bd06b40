package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"clubverse-backend/internal/domain"
	"clubverse-backend/internal/repository"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepo) List(ctx context.Context, role domain.Role, limit, offset int32) ([]domain.User, int32, error) {
	args := m.Called(ctx, role, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Get(1).(int32), args.Error(2)
}

func (m *MockUserRepo) SetVerified(ctx context.Context, id int64, verified, active bool) error {
	return m.Called(ctx, id, verified, active).Error(0)
}

func (m *MockUserRepo) SetActive(ctx context.Context, id int64, active bool, deletedAt *time.Time) error {
	return m.Called(ctx, id, active, deletedAt).Error(0)
}

type MockOTPRepo struct {
	mock.Mock
}

func (m *MockOTPRepo) Replace(ctx context.Context, otp *domain.OTP) error {
	return m.Called(ctx, otp).Error(0)
}

func (m *MockOTPRepo) GetLive(ctx context.Context, email, code string) (*domain.OTP, error) {
	args := m.Called(ctx, email, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OTP), args.Error(1)
}

func (m *MockOTPRepo) MarkUsed(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOTPRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOTPRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockRosterRepo struct {
	mock.Mock
}

func (m *MockRosterRepo) CreateRoster(ctx context.Context, clubID int64) error {
	return m.Called(ctx, clubID).Error(0)
}

func (m *MockRosterRepo) GetRoster(ctx context.Context, clubID int64) (*domain.Roster, error) {
	args := m.Called(ctx, clubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Roster), args.Error(1)
}

func (m *MockRosterRepo) RecountQuantity(ctx context.Context, clubID int64) (int32, error) {
	args := m.Called(ctx, clubID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockRosterRepo) AddMember(ctx context.Context, member *domain.ClubMember) error {
	return m.Called(ctx, member).Error(0)
}

func (m *MockRosterRepo) GetMember(ctx context.Context, clubID, userID int64) (*domain.ClubMember, error) {
	args := m.Called(ctx, clubID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClubMember), args.Error(1)
}

func (m *MockRosterRepo) GetActiveMember(ctx context.Context, clubID, userID int64) (*domain.ClubMember, error) {
	args := m.Called(ctx, clubID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClubMember), args.Error(1)
}

func (m *MockRosterRepo) ListMembers(ctx context.Context, clubID int64) ([]domain.ClubMember, error) {
	args := m.Called(ctx, clubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClubMember), args.Error(1)
}

func (m *MockRosterRepo) ListActiveAdmins(ctx context.Context, clubID int64) ([]domain.ClubMember, error) {
	args := m.Called(ctx, clubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClubMember), args.Error(1)
}

func (m *MockRosterRepo) ListClubsByUser(ctx context.Context, userID int64, activeOnly bool) ([]domain.ClubMember, error) {
	args := m.Called(ctx, userID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClubMember), args.Error(1)
}

func (m *MockRosterRepo) UpdateMember(ctx context.Context, member *domain.ClubMember) error {
	return m.Called(ctx, member).Error(0)
}

func (m *MockRosterRepo) DeactivateMember(ctx context.Context, clubID, userID int64, outDate time.Time, reason string, removedBy int64) (bool, error) {
	args := m.Called(ctx, clubID, userID, outDate, reason, removedBy)
	return args.Bool(0), args.Error(1)
}

func (m *MockRosterRepo) UpdateMemberRole(ctx context.Context, clubID, userID int64, role domain.MemberRole) (bool, error) {
	args := m.Called(ctx, clubID, userID, role)
	return args.Bool(0), args.Error(1)
}

type MockPendingActionRepo struct {
	mock.Mock
}

func (m *MockPendingActionRepo) Create(ctx context.Context, action *domain.PendingAction) error {
	return m.Called(ctx, action).Error(0)
}

func (m *MockPendingActionRepo) GetByID(ctx context.Context, id int64) (*domain.PendingAction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingAction), args.Error(1)
}

func (m *MockPendingActionRepo) CreateGrants(ctx context.Context, grants []domain.ApprovalGrant) error {
	return m.Called(ctx, grants).Error(0)
}

func (m *MockPendingActionRepo) GetGrantByToken(ctx context.Context, token string) (*domain.ApprovalGrant, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalGrant), args.Error(1)
}

func (m *MockPendingActionRepo) ListOpenByClub(ctx context.Context, clubID int64, now time.Time) ([]domain.PendingAction, error) {
	args := m.Called(ctx, clubID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingAction), args.Error(1)
}

func (m *MockPendingActionRepo) MarkCompleted(ctx context.Context, id, approvedBy int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, approvedBy, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockPendingActionRepo) MarkRejected(ctx context.Context, id int64, rejectedBy *int64, at time.Time, reason string) (bool, error) {
	args := m.Called(ctx, id, rejectedBy, at, reason)
	return args.Bool(0), args.Error(1)
}

func (m *MockPendingActionRepo) MarkExecuted(ctx context.Context, id int64, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockPendingActionRepo) ClaimUnexecuted(ctx context.Context, approvedBefore, at time.Time) ([]domain.PendingAction, error) {
	args := m.Called(ctx, approvedBefore, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingAction), args.Error(1)
}

func (m *MockPendingActionRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockApplicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) GetOpenByClubAndUser(ctx context.Context, clubID, userID int64) (*domain.Application, error) {
	args := m.Called(ctx, clubID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) ListByClub(ctx context.Context, clubID int64, status domain.ApplicationStatus) ([]domain.Application, error) {
	args := m.Called(ctx, clubID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) ListByUser(ctx context.Context, userID int64, status domain.ApplicationStatus) ([]domain.Application, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) Update(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockApplicationRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockEventRepo struct {
	mock.Mock
}

func (m *MockEventRepo) Create(ctx context.Context, event *domain.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepo) List(ctx context.Context, filter repository.EventFilter) ([]domain.Event, int32, error) {
	args := m.Called(ctx, filter)
	var events []domain.Event
	if args.Get(0) != nil {
		events = args.Get(0).([]domain.Event)
	}
	return events, args.Get(1).(int32), args.Error(2)
}

func (m *MockEventRepo) ListDeletedByClub(ctx context.Context, clubID int64) ([]domain.Event, error) {
	args := m.Called(ctx, clubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepo) Update(ctx context.Context, event *domain.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEventRepo) AddRegistration(ctx context.Context, reg *domain.EventRegistration) error {
	return m.Called(ctx, reg).Error(0)
}

func (m *MockEventRepo) GetRegistration(ctx context.Context, eventID, userID int64) (*domain.EventRegistration, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventRegistration), args.Error(1)
}

func (m *MockEventRepo) ListRegistrations(ctx context.Context, eventID int64) ([]domain.EventRegistration, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EventRegistration), args.Error(1)
}

func (m *MockEventRepo) ListEventsByParticipant(ctx context.Context, userID int64) ([]domain.Event, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepo) RemoveRegistration(ctx context.Context, eventID, userID int64) error {
	return m.Called(ctx, eventID, userID).Error(0)
}

func (m *MockEventRepo) SetCheckedIn(ctx context.Context, eventID, userID int64, checkedIn bool, at *time.Time) error {
	return m.Called(ctx, eventID, userID, checkedIn, at).Error(0)
}

func (m *MockEventRepo) AddCancellation(ctx context.Context, c *domain.EventCancellation) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockEventRepo) ListDueForReminder(ctx context.Context, cutoff time.Time) ([]domain.Event, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepo) MarkReminderSent(ctx context.Context, eventID int64) error {
	return m.Called(ctx, eventID).Error(0)
}

func (m *MockEventRepo) RollStatuses(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockPostRepo struct {
	mock.Mock
}

func (m *MockPostRepo) Create(ctx context.Context, post *domain.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockPostRepo) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *MockPostRepo) List(ctx context.Context, filter repository.PostFilter) ([]domain.Post, int32, error) {
	args := m.Called(ctx, filter)
	var posts []domain.Post
	if args.Get(0) != nil {
		posts = args.Get(0).([]domain.Post)
	}
	return posts, args.Get(1).(int32), args.Error(2)
}

func (m *MockPostRepo) ListDeletedByClub(ctx context.Context, clubID int64) ([]domain.Post, error) {
	args := m.Called(ctx, clubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Post), args.Error(1)
}

func (m *MockPostRepo) Update(ctx context.Context, post *domain.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockPostRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPostRepo) HardDelete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPostRepo) AddLike(ctx context.Context, postID, userID int64, at time.Time) (bool, error) {
	args := m.Called(ctx, postID, userID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepo) RemoveLike(ctx context.Context, postID, userID int64) (bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepo) HasLiked(ctx context.Context, postID, userID int64) (bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Error(1)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendOTP(ctx context.Context, email, fullName, code string) error {
	return m.Called(ctx, email, fullName, code).Error(0)
}

func (m *MockEmailService) SendApprovalRequest(ctx context.Context, adminEmail, adminName, clubName, actionSummary, approvalLink string) error {
	return m.Called(ctx, adminEmail, adminName, clubName, actionSummary, approvalLink).Error(0)
}

func (m *MockEmailService) SendMemberRemoved(ctx context.Context, email, fullName, clubName, reason string) error {
	return m.Called(ctx, email, fullName, clubName, reason).Error(0)
}

func (m *MockEmailService) SendRoleUpdated(ctx context.Context, email, fullName, clubName, newRole string) error {
	return m.Called(ctx, email, fullName, clubName, newRole).Error(0)
}

func (m *MockEmailService) SendApplicationReceived(ctx context.Context, email, fullName, clubName string) error {
	return m.Called(ctx, email, fullName, clubName).Error(0)
}

func (m *MockEmailService) SendInterviewScheduled(ctx context.Context, email, fullName, clubName string, date time.Time, location, note string) error {
	return m.Called(ctx, email, fullName, clubName, date, location, note).Error(0)
}

func (m *MockEmailService) SendApplicationRejected(ctx context.Context, email, fullName, clubName, reason string) error {
	return m.Called(ctx, email, fullName, clubName, reason).Error(0)
}

func (m *MockEmailService) SendApplicationAccepted(ctx context.Context, email, fullName, clubName string) error {
	return m.Called(ctx, email, fullName, clubName).Error(0)
}

func (m *MockEmailService) SendApplicationDeclined(ctx context.Context, email, fullName, clubName, reason string) error {
	return m.Called(ctx, email, fullName, clubName, reason).Error(0)
}

func (m *MockEmailService) SendEventRegistration(ctx context.Context, email, fullName, eventTitle string, eventTime time.Time, location string) error {
	return m.Called(ctx, email, fullName, eventTitle, eventTime, location).Error(0)
}

func (m *MockEmailService) SendEventReminder(ctx context.Context, email, fullName, eventTitle string, eventTime time.Time, location string) error {
	return m.Called(ctx, email, fullName, eventTitle, eventTime, location).Error(0)
}

func (m *MockEmailService) SendEventCancellation(ctx context.Context, email, fullName, eventTitle, reason string) error {
	return m.Called(ctx, email, fullName, eventTitle, reason).Error(0)
}
