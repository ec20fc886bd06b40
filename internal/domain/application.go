package domain

import "time"

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved" // interview scheduled
	ApplicationStatusRejected ApplicationStatus = "rejected"
	ApplicationStatusAccepted ApplicationStatus = "accepted" // joined roster
	ApplicationStatusDeclined ApplicationStatus = "declined" // turned down after interview
)

// Application is a student's request to join a club, moving through the
// interview workflow: pending -> approved/rejected, approved -> accepted/declined.
type Application struct {
	ID     int64  `json:"id"`
	ClubID int64  `json:"club_id"`
	UserID int64  `json:"user_id"`
	Reason string `json:"reason"`

	Status      ApplicationStatus `json:"status"`
	SubmittedAt time.Time         `json:"submitted_at"`

	InterviewDate     *time.Time `json:"interview_date,omitempty"`
	InterviewLocation string     `json:"interview_location,omitempty"`
	InterviewNote     string     `json:"interview_note,omitempty"`

	RespondedAt     *time.Time `json:"responded_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
