package domain

import "time"

type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

type Event struct {
	ID              int64    `json:"id"`
	ClubID          int64    `json:"club_id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Location        string   `json:"location"`
	Time            time.Time `json:"time"`
	MaxParticipants int32    `json:"max_participants"`
	Images          []string `json:"images,omitempty"`

	Status       EventStatus `json:"status"`
	IsActive     bool        `json:"is_active"`
	DeletedAt    *time.Time  `json:"deleted_at,omitempty"`
	ReminderSent bool        `json:"reminder_sent"`

	// JoinedCount is populated on reads for slot accounting.
	JoinedCount int32 `json:"joined_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *Event) AvailableSlots() int32 {
	return e.MaxParticipants - e.JoinedCount
}

func (e *Event) IsFull() bool {
	return e.JoinedCount >= e.MaxParticipants
}

// EventRegistration records a participant, with a contact snapshot for
// reminder emails.
type EventRegistration struct {
	ID          int64      `json:"id"`
	EventID     int64      `json:"event_id"`
	UserID      int64      `json:"user_id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	PhoneNumber string     `json:"phone_number,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
	CheckedIn   bool       `json:"checked_in"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
}

// EventCancellation keeps the audit trail of withdrawn registrations.
type EventCancellation struct {
	ID          int64     `json:"id"`
	EventID     int64     `json:"event_id"`
	UserID      int64     `json:"user_id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
}
