package domain

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleClub    Role = "club"
	RoleAdmin   Role = "admin"
)

// User is the shared identity record. Club accounts live in the same
// directory as students, distinguished by Role, as do platform admins.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	PhoneNumber  string     `json:"phone_number,omitempty"`
	AvatarURL    string     `json:"avatar_url,omitempty"`
	Role         Role       `json:"role"`
	IsVerified   bool       `json:"is_verified"`
	IsActive     bool       `json:"is_active"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`

	// Student profile
	School    string   `json:"school,omitempty"`
	Major     string   `json:"major,omitempty"`
	Year      int32    `json:"year,omitempty"`
	Skills    []string `json:"skills,omitempty"`
	Interests []string `json:"interests,omitempty"`

	// Club profile
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description,omitempty"`
	SocialLinks []string `json:"social_links,omitempty"`
	Rating      float64  `json:"rating,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
