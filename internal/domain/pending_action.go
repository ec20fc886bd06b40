package domain

import "time"

type ActionType string

const (
	ActionUpdateMember ActionType = "update_member"
	ActionRemoveMember ActionType = "remove_member"
	ActionUpdateRole   ActionType = "update_role"
)

func (t ActionType) Valid() bool {
	switch t {
	case ActionUpdateMember, ActionRemoveMember, ActionUpdateRole:
		return true
	}
	return false
}

// PendingActionTTL is the fixed approval window for a proposed roster
// mutation. Actions unresolved past this deadline are implicitly rejected.
const PendingActionTTL = 24 * time.Hour

// RemoveMemberData is the payload of a remove_member action.
type RemoveMemberData struct {
	Reason string `json:"reason"`
}

// UpdateRoleData is the payload of an update_role action.
type UpdateRoleData struct {
	NewRole MemberRole `json:"new_role"`
	OldRole MemberRole `json:"old_role"`
}

// UpdateMemberData is the payload of an update_member action: a partial
// roster-entry update where nil means "leave unchanged".
type UpdateMemberData struct {
	FullName    *string   `json:"full_name,omitempty"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	School      *string   `json:"school,omitempty"`
	Major       *string   `json:"major,omitempty"`
	Year        *int32    `json:"year,omitempty"`
	Skills      *[]string `json:"skills,omitempty"`
	Interests   *[]string `json:"interests,omitempty"`
}

// ActionData is a tagged union keyed by the action's type: exactly one
// variant is populated.
type ActionData struct {
	Remove *RemoveMemberData `json:"remove,omitempty"`
	Role   *UpdateRoleData   `json:"role,omitempty"`
	Member *UpdateMemberData `json:"member,omitempty"`
}

// Matches reports whether the populated variant corresponds to t.
func (d ActionData) Matches(t ActionType) bool {
	switch t {
	case ActionRemoveMember:
		return d.Remove != nil && d.Role == nil && d.Member == nil
	case ActionUpdateRole:
		return d.Role != nil && d.Remove == nil && d.Member == nil
	case ActionUpdateMember:
		return d.Member != nil && d.Remove == nil && d.Role == nil
	}
	return false
}

// PendingAction is a proposed roster mutation awaiting approval by a club
// admin. Once IsCompleted or IsRejected is set the record is immutable; at
// most one of the two ever becomes true.
type PendingAction struct {
	ID             int64      `json:"id"`
	ClubID         int64      `json:"club_id"`
	ActionType     ActionType `json:"action_type"`
	TargetMemberID int64      `json:"target_member_id"`
	InitiatedByID  int64      `json:"initiated_by_id"`
	Data           ActionData `json:"action_data"`

	IsCompleted bool       `json:"is_completed"`
	IsRejected  bool       `json:"is_rejected"`
	ApprovedBy  *int64     `json:"approved_by,omitempty"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`

	RejectedBy      *int64     `json:"rejected_by,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`

	// ExecutedAt is stamped after the execution handler has run. A
	// completed action with a nil ExecutedAt is picked up by the
	// reconciliation sweep.
	ExecutedAt *time.Time `json:"executed_at,omitempty"`

	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ApprovalGrant binds an email-link approval token to one specific admin,
// so the approval recorded via the link is attributed to the admin the link
// was sent to. Tokens are 64 lowercase hex characters and never shared
// between admins.
type ApprovalGrant struct {
	ID          int64     `json:"id"`
	ActionID    int64     `json:"action_id"`
	AdminUserID int64     `json:"admin_user_id"`
	Token       string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

func (a *PendingAction) IsResolved() bool {
	return a.IsCompleted || a.IsRejected
}

func (a *PendingAction) IsExpired(now time.Time) bool {
	return now.After(a.ExpiresAt)
}
