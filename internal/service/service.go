package service

import (
	"context"
	"io"
	"time"

	"clubverse-backend/internal/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, password, fullName string, role domain.Role) (*domain.User, error)
	VerifyOTP(ctx context.Context, email, code string) (*domain.User, string, string, error) // user, access, refresh
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
}

type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) (*domain.User, error)
	SetAvatar(ctx context.Context, userID int64, avatarURL string) error
	Deactivate(ctx context.Context, callerID, userID int64) error
	Reactivate(ctx context.Context, callerID, userID int64) error
	ListClubs(ctx context.Context, limit, offset int32) ([]domain.User, int32, error)
}

// GovernanceService owns the roster and the dual-admin approval workflow:
// every destructive roster mutation goes through a pending action that a
// second admin must approve within 24 hours.
type GovernanceService interface {
	ListMembers(ctx context.Context, clubID, requesterID int64) ([]domain.ClubMember, error)
	MyClubs(ctx context.Context, userID int64) ([]domain.ClubMember, error)
	MemberStats(ctx context.Context, clubID, requesterID int64) (*domain.MemberStats, error)
	ExportMembersCSV(ctx context.Context, clubID, requesterID int64, w io.Writer) error

	ProposeRemoveMember(ctx context.Context, clubID, initiatorID, targetUserID int64, reason string) (*domain.PendingAction, error)
	ProposeUpdateRole(ctx context.Context, clubID, initiatorID, targetUserID int64, newRole domain.MemberRole) (*domain.PendingAction, error)
	ProposeUpdateMember(ctx context.Context, clubID, initiatorID, targetUserID int64, data domain.UpdateMemberData) (*domain.PendingAction, error)

	ListPendingActions(ctx context.Context, clubID, requesterID int64) ([]domain.PendingAction, error)
	ApprovePendingAction(ctx context.Context, actionID, adminID int64) (*domain.PendingAction, error)
	ApprovePendingActionByToken(ctx context.Context, token string) (*domain.PendingAction, error)
	RejectPendingAction(ctx context.Context, actionID, adminID int64, reason string) (*domain.PendingAction, error)

	// ExpireOverdueActions and ReconcileUnexecutedActions are the cron
	// entry points.
	ExpireOverdueActions(ctx context.Context) (int64, error)
	ReconcileUnexecutedActions(ctx context.Context, grace time.Duration) (int, error)
}

type ApplicationService interface {
	Create(ctx context.Context, clubID, userID int64, reason string) (*domain.Application, error)
	Get(ctx context.Context, appID, requesterID int64) (*domain.Application, error)
	ListByClub(ctx context.Context, clubID, requesterID int64, status domain.ApplicationStatus) ([]domain.Application, error)
	ListMine(ctx context.Context, userID int64, status domain.ApplicationStatus) ([]domain.Application, error)
	ScheduleInterview(ctx context.Context, appID, clubID int64, date time.Time, location, note string) (*domain.Application, error)
	Reject(ctx context.Context, appID, clubID int64, reason string) (*domain.Application, error)
	Finalize(ctx context.Context, appID, clubID int64, accepted bool, reason string) (*domain.Application, error)
	Cancel(ctx context.Context, appID, userID int64) error
}

type EventService interface {
	Create(ctx context.Context, clubID int64, event *domain.Event) (*domain.Event, error)
	Get(ctx context.Context, eventID int64, userID int64) (*domain.Event, bool, error) // event, registered
	List(ctx context.Context, clubID int64, kind string, limit, offset int32) ([]domain.Event, int32, error)
	Update(ctx context.Context, clubID int64, event *domain.Event) (*domain.Event, error)
	SoftDelete(ctx context.Context, eventID, clubID int64) error
	Restore(ctx context.Context, eventID, clubID int64) error
	HardDelete(ctx context.Context, eventID, clubID int64) error
	ListDeleted(ctx context.Context, clubID int64) ([]domain.Event, error)

	Register(ctx context.Context, eventID, userID int64) error
	CancelRegistration(ctx context.Context, eventID, userID int64, reason string) error
	ListParticipants(ctx context.Context, eventID, clubID int64) ([]domain.EventRegistration, error)
	SetCheckIn(ctx context.Context, eventID, clubID, userID int64, checkedIn bool) error
	MyEvents(ctx context.Context, userID int64) ([]domain.Event, error)

	SendReminders(ctx context.Context) (int, error)
	RollStatuses(ctx context.Context) (int64, error)
}

type PostService interface {
	Create(ctx context.Context, clubID int64, post *domain.Post) (*domain.Post, error)
	Get(ctx context.Context, postID, userID int64) (*domain.Post, error)
	List(ctx context.Context, clubID, userID int64, sortBy string, limit, offset int32) ([]domain.Post, int32, error)
	Update(ctx context.Context, clubID int64, post *domain.Post) (*domain.Post, error)
	Delete(ctx context.Context, postID, clubID int64) error
	Restore(ctx context.Context, postID, clubID int64) error
	HardDelete(ctx context.Context, postID, clubID int64) error
	ListDeleted(ctx context.Context, clubID int64) ([]domain.Post, error)
	Like(ctx context.Context, postID, userID int64) (int32, error)
	Unlike(ctx context.Context, postID, userID int64) (int32, error)
}

type UploadService interface {
	UploadImage(ctx context.Context, kind, filename, contentType string, size int64, body io.Reader) (string, error)
	DeleteImage(ctx context.Context, url string) error
}

type EmailService interface {
	SendOTP(ctx context.Context, email, fullName, code string) error

	// Governance notifications
	SendApprovalRequest(ctx context.Context, adminEmail, adminName, clubName, actionSummary, approvalLink string) error
	SendMemberRemoved(ctx context.Context, email, fullName, clubName, reason string) error
	SendRoleUpdated(ctx context.Context, email, fullName, clubName, newRole string) error

	// Application notifications
	SendApplicationReceived(ctx context.Context, email, fullName, clubName string) error
	SendInterviewScheduled(ctx context.Context, email, fullName, clubName string, date time.Time, location, note string) error
	SendApplicationRejected(ctx context.Context, email, fullName, clubName, reason string) error
	SendApplicationAccepted(ctx context.Context, email, fullName, clubName string) error
	SendApplicationDeclined(ctx context.Context, email, fullName, clubName, reason string) error

	// Event notifications
	SendEventRegistration(ctx context.Context, email, fullName, eventTitle string, eventTime time.Time, location string) error
	SendEventReminder(ctx context.Context, email, fullName, eventTitle string, eventTime time.Time, location string) error
	SendEventCancellation(ctx context.Context, email, fullName, eventTitle, reason string) error
}
