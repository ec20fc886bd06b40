package repository

import (
	"context"
	"time"

	"clubverse-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, role domain.Role, limit, offset int32) ([]domain.User, int32, error)
	SetVerified(ctx context.Context, id int64, verified, active bool) error
	SetActive(ctx context.Context, id int64, active bool, deletedAt *time.Time) error
}

type OTPRepository interface {
	Replace(ctx context.Context, otp *domain.OTP) error
	GetLive(ctx context.Context, email, code string) (*domain.OTP, error)
	MarkUsed(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type RosterRepository interface {
	CreateRoster(ctx context.Context, clubID int64) error
	GetRoster(ctx context.Context, clubID int64) (*domain.Roster, error)
	// RecountQuantity recomputes the active-member counter from the roster
	// rows and returns the new value.
	RecountQuantity(ctx context.Context, clubID int64) (int32, error)

	AddMember(ctx context.Context, member *domain.ClubMember) error
	GetMember(ctx context.Context, clubID, userID int64) (*domain.ClubMember, error)
	GetActiveMember(ctx context.Context, clubID, userID int64) (*domain.ClubMember, error)
	ListMembers(ctx context.Context, clubID int64) ([]domain.ClubMember, error)
	ListActiveAdmins(ctx context.Context, clubID int64) ([]domain.ClubMember, error)
	ListClubsByUser(ctx context.Context, userID int64, activeOnly bool) ([]domain.ClubMember, error)
	UpdateMember(ctx context.Context, member *domain.ClubMember) error
	// DeactivateMember flips an active entry to inactive with the removal
	// audit fields. Returns false when no active entry matched.
	DeactivateMember(ctx context.Context, clubID, userID int64, outDate time.Time, reason string, removedBy int64) (bool, error)
	// UpdateMemberRole overwrites the role of an active entry. Returns
	// false when no active entry matched.
	UpdateMemberRole(ctx context.Context, clubID, userID int64, role domain.MemberRole) (bool, error)
}

type PendingActionRepository interface {
	Create(ctx context.Context, action *domain.PendingAction) error
	GetByID(ctx context.Context, id int64) (*domain.PendingAction, error)
	// CreateGrants stores one approval token per admin for the action.
	CreateGrants(ctx context.Context, grants []domain.ApprovalGrant) error
	GetGrantByToken(ctx context.Context, token string) (*domain.ApprovalGrant, error)
	ListOpenByClub(ctx context.Context, clubID int64, now time.Time) ([]domain.PendingAction, error)
	// MarkCompleted is the serialization point for approval: a conditional
	// update that only succeeds while the action is non-terminal. The one
	// caller that observes true runs the execution handler.
	MarkCompleted(ctx context.Context, id, approvedBy int64, at time.Time) (bool, error)
	// MarkRejected terminates the action; rejectedBy is nil for lazy
	// expiry flips. Same compare-and-swap contract as MarkCompleted.
	MarkRejected(ctx context.Context, id int64, rejectedBy *int64, at time.Time, reason string) (bool, error)
	MarkExecuted(ctx context.Context, id int64, at time.Time) error
	// ClaimUnexecuted stamps ExecutedAt on completed-but-unexecuted
	// actions approved before the cutoff and returns the claimed rows, so
	// the reconciliation sweep resumes each at most once.
	ClaimUnexecuted(ctx context.Context, approvedBefore, at time.Time) ([]domain.PendingAction, error)
	// ExpireOverdue bulk-rejects non-terminal actions past their deadline.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id int64) (*domain.Application, error)
	GetOpenByClubAndUser(ctx context.Context, clubID, userID int64) (*domain.Application, error)
	ListByClub(ctx context.Context, clubID int64, status domain.ApplicationStatus) ([]domain.Application, error)
	ListByUser(ctx context.Context, userID int64, status domain.ApplicationStatus) ([]domain.Application, error)
	Update(ctx context.Context, app *domain.Application) error
	Delete(ctx context.Context, id int64) error
}

// EventFilter narrows event listings.
type EventFilter struct {
	ClubID int64  // 0 means all clubs
	Kind   string // "all", "upcoming", "past", "ongoing"
	Now    time.Time
	Limit  int32
	Offset int32
}

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	List(ctx context.Context, filter EventFilter) ([]domain.Event, int32, error)
	ListDeletedByClub(ctx context.Context, clubID int64) ([]domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id int64) error

	AddRegistration(ctx context.Context, reg *domain.EventRegistration) error
	GetRegistration(ctx context.Context, eventID, userID int64) (*domain.EventRegistration, error)
	ListRegistrations(ctx context.Context, eventID int64) ([]domain.EventRegistration, error)
	ListEventsByParticipant(ctx context.Context, userID int64) ([]domain.Event, error)
	RemoveRegistration(ctx context.Context, eventID, userID int64) error
	SetCheckedIn(ctx context.Context, eventID, userID int64, checkedIn bool, at *time.Time) error
	AddCancellation(ctx context.Context, c *domain.EventCancellation) error

	// ListDueForReminder returns active upcoming events starting before
	// the cutoff whose reminder has not been sent.
	ListDueForReminder(ctx context.Context, cutoff time.Time) ([]domain.Event, error)
	MarkReminderSent(ctx context.Context, eventID int64) error
	// RollStatuses advances upcoming events whose start time has passed to
	// ongoing, and stale ongoing events to completed. Returns the number
	// of rows touched.
	RollStatuses(ctx context.Context, now time.Time) (int64, error)
}

// PostFilter narrows post listings.
type PostFilter struct {
	ClubID int64  // 0 means all clubs
	SortBy string // "newest", "oldest", "popular"
	Limit  int32
	Offset int32
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	List(ctx context.Context, filter PostFilter) ([]domain.Post, int32, error)
	ListDeletedByClub(ctx context.Context, clubID int64) ([]domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	// Delete soft-deletes; HardDelete removes the row and its likes.
	Delete(ctx context.Context, id int64) error
	HardDelete(ctx context.Context, id int64) error

	// AddLike inserts the like and bumps the counter atomically; it
	// returns false when the user had already liked the post.
	AddLike(ctx context.Context, postID, userID int64, at time.Time) (bool, error)
	RemoveLike(ctx context.Context, postID, userID int64) (bool, error)
	HasLiked(ctx context.Context, postID, userID int64) (bool, error)
}
