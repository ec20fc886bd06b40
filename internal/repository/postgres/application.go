package postgres

import (
	"context"
	"database/sql"
	"time"

	"clubverse-backend/internal/domain"
	"clubverse-backend/internal/repository"
)

type applicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) repository.ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationColumns = `id, club_id, user_id, reason, status, submitted_at,
	interview_date, COALESCE(interview_location, ''), COALESCE(interview_note, ''),
	responded_at, COALESCE(rejection_reason, ''), created_at, updated_at`

func scanApplication(row interface{ Scan(...any) error }) (*domain.Application, error) {
	app := &domain.Application{}
	var interviewDate, respondedAt sql.NullTime
	err := row.Scan(
		&app.ID, &app.ClubID, &app.UserID, &app.Reason, &app.Status, &app.SubmittedAt,
		&interviewDate, &app.InterviewLocation, &app.InterviewNote,
		&respondedAt, &app.RejectionReason, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if interviewDate.Valid {
		app.InterviewDate = &interviewDate.Time
	}
	if respondedAt.Valid {
		app.RespondedAt = &respondedAt.Time
	}
	return app, nil
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	query := `INSERT INTO applications (club_id, user_id, reason, status, submitted_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id`
	now := time.Now()
	app.CreatedAt = now
	app.UpdatedAt = now
	return r.db.QueryRowContext(ctx, query,
		app.ClubID, app.UserID, app.Reason, app.Status, app.SubmittedAt, now,
	).Scan(&app.ID)
}

func (r *applicationRepository) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	return scanApplication(r.db.QueryRowContext(ctx, query, id))
}

// GetOpenByClubAndUser finds a pending or interview-stage application, used
// as the duplicate-submission guard.
func (r *applicationRepository) GetOpenByClubAndUser(ctx context.Context, clubID, userID int64) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications
	          WHERE club_id = $1 AND user_id = $2 AND status IN ($3, $4)`
	return scanApplication(r.db.QueryRowContext(ctx, query, clubID, userID,
		domain.ApplicationStatusPending, domain.ApplicationStatusApproved))
}

func (r *applicationRepository) ListByClub(ctx context.Context, clubID int64, status domain.ApplicationStatus) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE club_id = $1`
	args := []any{clubID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY submitted_at DESC`
	return r.queryApplications(ctx, query, args...)
}

func (r *applicationRepository) ListByUser(ctx context.Context, userID int64, status domain.ApplicationStatus) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE user_id = $1`
	args := []any{userID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY submitted_at DESC`
	return r.queryApplications(ctx, query, args...)
}

func (r *applicationRepository) queryApplications(ctx context.Context, query string, args ...any) ([]domain.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

func (r *applicationRepository) Update(ctx context.Context, app *domain.Application) error {
	query := `UPDATE applications SET status=$1, interview_date=$2, interview_location=$3,
	            interview_note=$4, responded_at=$5, rejection_reason=NULLIF($6, ''), updated_at=$7
	          WHERE id=$8`
	app.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		app.Status, app.InterviewDate, app.InterviewLocation,
		app.InterviewNote, app.RespondedAt, app.RejectionReason, app.UpdatedAt, app.ID,
	)
	return err
}

func (r *applicationRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	return err
}
