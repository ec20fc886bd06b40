package domain

import "time"

type MemberRole string

const (
	MemberRoleAdmin     MemberRole = "admin"
	MemberRoleModerator MemberRole = "moderator"
	MemberRoleMember    MemberRole = "member"
)

func (r MemberRole) Valid() bool {
	switch r {
	case MemberRoleAdmin, MemberRoleModerator, MemberRoleMember:
		return true
	}
	return false
}

// Roster is the per-club membership container. Quantity counts active
// members and is recomputed after every roster mutation.
type Roster struct {
	ClubID    int64     `json:"club_id"`
	Quantity  int32     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClubMember is one roster entry: a user who joined (and possibly left) a
// club, with a denormalized profile snapshot taken at join time. Entries are
// never deleted, only deactivated, so the full history stays per club.
type ClubMember struct {
	ID     int64 `json:"id"`
	ClubID int64 `json:"club_id"`
	UserID int64 `json:"user_id"`

	Email       string   `json:"email"`
	FullName    string   `json:"full_name"`
	PhoneNumber string   `json:"phone_number,omitempty"`
	AvatarURL   string   `json:"avatar_url,omitempty"`
	School      string   `json:"school,omitempty"`
	Major       string   `json:"major,omitempty"`
	Year        int32    `json:"year,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Interests   []string `json:"interests,omitempty"`

	Role     MemberRole `json:"role"`
	IsActive bool       `json:"is_active"`
	JoinedAt time.Time  `json:"joined_at"`

	OutDate      *time.Time `json:"out_date,omitempty"`
	RemoveReason string     `json:"remove_reason,omitempty"`
	RemovedBy    *int64     `json:"removed_by,omitempty"`
}

// MemberStats summarizes a club roster for the statistics endpoint.
type MemberStats struct {
	Total         int32            `json:"total"`
	Active        int32            `json:"active"`
	Inactive      int32            `json:"inactive"`
	ByRole        map[string]int32 `json:"by_role"`
	RecentJoins   []ClubMember     `json:"recent_joins"`
	GrowthTrend   []MonthCount     `json:"growth_trend"`
	RetentionRate float64          `json:"retention_rate"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int32  `json:"count"`
}
