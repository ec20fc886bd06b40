package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrEmailTaken         = errors.New("email already registered")
	ErrOTPInvalid         = errors.New("invalid or expired verification code")

	ErrUserNotFound        = errors.New("user not found")
	ErrClubNotFound        = errors.New("club not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrActionNotFound      = errors.New("pending action not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrEventNotFound       = errors.New("event not found")
	ErrPostNotFound        = errors.New("post not found")

	ErrForbidden = errors.New("not allowed")

	// Governance
	ErrAlreadyResolved = errors.New("pending action already resolved")
	ErrActionExpired   = errors.New("pending action has expired")
	ErrNoApprovers     = errors.New("club has no active admin to approve the action")
	ErrInvalidReason   = errors.New("reason must be between 10 and 500 characters")

	// Applications
	ErrDuplicateApplication = errors.New("an open application for this club already exists")
	ErrAlreadyMember        = errors.New("already an active member of this club")
	ErrInvalidTransition    = errors.New("operation not valid for current status")

	// Events
	ErrEventFull          = errors.New("event is full")
	ErrEventStarted       = errors.New("event has already started")
	ErrAlreadyRegistered  = errors.New("already registered for this event")
	ErrNotRegistered      = errors.New("not registered for this event")
	ErrAlreadyCheckedIn   = errors.New("participant has already checked in")
	ErrCancelWindowClosed = errors.New("registration can no longer be cancelled")

	// Posts
	ErrAlreadyLiked = errors.New("post already liked")
	ErrNotLiked     = errors.New("post not liked")

	// Upload
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds the size limit")
)
