package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clubverse-backend/internal/domain"
	"clubverse-backend/internal/repository"

	"github.com/lib/pq"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `e.id, e.club_id, e.title, e.description, e.location, e.time, e.max_participants,
	e.images, e.status, e.is_active, e.deleted_at, e.reminder_sent,
	(SELECT COUNT(*) FROM event_registrations r WHERE r.event_id = e.id),
	e.created_at, e.updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var deletedAt sql.NullTime
	err := row.Scan(
		&e.ID, &e.ClubID, &e.Title, &e.Description, &e.Location, &e.Time, &e.MaxParticipants,
		pq.Array(&e.Images), &e.Status, &e.IsActive, &deletedAt, &e.ReminderSent,
		&e.JoinedCount, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		e.DeletedAt = &deletedAt.Time
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `INSERT INTO events (club_id, title, description, location, time, max_participants,
	            images, status, is_active, reminder_sent, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11) RETURNING id`
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	return r.db.QueryRowContext(ctx, query,
		e.ClubID, e.Title, e.Description, e.Location, e.Time, e.MaxParticipants,
		pq.Array(e.Images), e.Status, e.IsActive, e.ReminderSent, now,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.id = $1`
	return scanEvent(r.db.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) List(ctx context.Context, f repository.EventFilter) ([]domain.Event, int32, error) {
	where := `e.is_active = true`
	args := []any{}
	n := 0
	arg := func(v any) string {
		n++
		args = append(args, v)
		return fmt.Sprintf("$%d", n)
	}

	if f.ClubID != 0 {
		where += ` AND e.club_id = ` + arg(f.ClubID)
	}

	order := `e.time ASC`
	switch f.Kind {
	case "upcoming":
		where += ` AND e.time > ` + arg(f.Now) + ` AND e.status = ` + arg(domain.EventStatusUpcoming)
	case "past":
		where += ` AND e.time < ` + arg(f.Now) + ` AND e.status IN (` + arg(domain.EventStatusCompleted) + `, ` + arg(domain.EventStatusCancelled) + `)`
		order = `e.time DESC`
	case "ongoing":
		where += ` AND e.status = ` + arg(domain.EventStatusOngoing)
	}

	var total int32
	countQuery := `SELECT COUNT(*) FROM events e WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + eventColumns + ` FROM events e WHERE ` + where + ` ORDER BY ` + order
	if f.Limit > 0 {
		query += ` LIMIT ` + arg(f.Limit) + ` OFFSET ` + arg(f.Offset)
	}

	events, err := r.queryEvents(ctx, query, args...)
	return events, total, err
}

func (r *eventRepository) ListDeletedByClub(ctx context.Context, clubID int64) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e
	          WHERE e.club_id = $1 AND e.is_active = false ORDER BY e.deleted_at DESC`
	return r.queryEvents(ctx, query, clubID)
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `UPDATE events SET title=$1, description=$2, location=$3, time=$4, max_participants=$5,
	            images=$6, status=$7, is_active=$8, deleted_at=$9, reminder_sent=$10, updated_at=$11
	          WHERE id=$12`
	e.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		e.Title, e.Description, e.Location, e.Time, e.MaxParticipants,
		pq.Array(e.Images), e.Status, e.IsActive, e.DeletedAt, e.ReminderSent, e.UpdatedAt, e.ID,
	)
	return err
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}

func (r *eventRepository) AddRegistration(ctx context.Context, reg *domain.EventRegistration) error {
	query := `INSERT INTO event_registrations (event_id, user_id, email, full_name, phone_number, registered_at, checked_in)
	          VALUES ($1, $2, $3, $4, $5, $6, false) RETURNING id`
	if reg.RegisteredAt.IsZero() {
		reg.RegisteredAt = time.Now()
	}
	return r.db.QueryRowContext(ctx, query,
		reg.EventID, reg.UserID, reg.Email, reg.FullName, reg.PhoneNumber, reg.RegisteredAt,
	).Scan(&reg.ID)
}

func (r *eventRepository) GetRegistration(ctx context.Context, eventID, userID int64) (*domain.EventRegistration, error) {
	reg := &domain.EventRegistration{}
	var checkedInAt sql.NullTime
	query := `SELECT id, event_id, user_id, email, full_name, COALESCE(phone_number, ''), registered_at, checked_in, checked_in_at
	          FROM event_registrations WHERE event_id = $1 AND user_id = $2`
	err := r.db.QueryRowContext(ctx, query, eventID, userID).Scan(
		&reg.ID, &reg.EventID, &reg.UserID, &reg.Email, &reg.FullName, &reg.PhoneNumber,
		&reg.RegisteredAt, &reg.CheckedIn, &checkedInAt,
	)
	if err != nil {
		return nil, err
	}
	if checkedInAt.Valid {
		reg.CheckedInAt = &checkedInAt.Time
	}
	return reg, nil
}

func (r *eventRepository) ListRegistrations(ctx context.Context, eventID int64) ([]domain.EventRegistration, error) {
	query := `SELECT id, event_id, user_id, email, full_name, COALESCE(phone_number, ''), registered_at, checked_in, checked_in_at
	          FROM event_registrations WHERE event_id = $1 ORDER BY registered_at ASC`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []domain.EventRegistration
	for rows.Next() {
		var reg domain.EventRegistration
		var checkedInAt sql.NullTime
		if err := rows.Scan(
			&reg.ID, &reg.EventID, &reg.UserID, &reg.Email, &reg.FullName, &reg.PhoneNumber,
			&reg.RegisteredAt, &reg.CheckedIn, &checkedInAt,
		); err != nil {
			return nil, err
		}
		if checkedInAt.Valid {
			reg.CheckedInAt = &checkedInAt.Time
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *eventRepository) ListEventsByParticipant(ctx context.Context, userID int64) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e
	          JOIN event_registrations reg ON reg.event_id = e.id
	          WHERE reg.user_id = $1 AND e.is_active = true ORDER BY e.time ASC`
	return r.queryEvents(ctx, query, userID)
}

func (r *eventRepository) RemoveRegistration(ctx context.Context, eventID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM event_registrations WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	return err
}

func (r *eventRepository) SetCheckedIn(ctx context.Context, eventID, userID int64, checkedIn bool, at *time.Time) error {
	query := `UPDATE event_registrations SET checked_in = $1, checked_in_at = $2
	          WHERE event_id = $3 AND user_id = $4`
	_, err := r.db.ExecContext(ctx, query, checkedIn, at, eventID, userID)
	return err
}

func (r *eventRepository) AddCancellation(ctx context.Context, c *domain.EventCancellation) error {
	query := `INSERT INTO event_cancellations (event_id, user_id, email, full_name, reason, cancelled_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if c.CancelledAt.IsZero() {
		c.CancelledAt = time.Now()
	}
	return r.db.QueryRowContext(ctx, query,
		c.EventID, c.UserID, c.Email, c.FullName, c.Reason, c.CancelledAt,
	).Scan(&c.ID)
}

func (r *eventRepository) ListDueForReminder(ctx context.Context, cutoff time.Time) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e
	          WHERE e.is_active = true AND e.status = $1 AND e.reminder_sent = false AND e.time <= $2 AND e.time > NOW()`
	return r.queryEvents(ctx, query, domain.EventStatusUpcoming, cutoff)
}

func (r *eventRepository) MarkReminderSent(ctx context.Context, eventID int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE events SET reminder_sent = true WHERE id = $1`, eventID)
	return err
}

func (r *eventRepository) RollStatuses(ctx context.Context, now time.Time) (int64, error) {
	// Upcoming events past their start time become ongoing; ongoing events
	// that started more than a day ago are closed out.
	res, err := r.db.ExecContext(ctx, `UPDATE events SET status = $1, updated_at = $2
	          WHERE is_active = true AND status = $3 AND time <= $2`,
		domain.EventStatusOngoing, now, domain.EventStatusUpcoming)
	if err != nil {
		return 0, err
	}
	n1, _ := res.RowsAffected()

	res, err = r.db.ExecContext(ctx, `UPDATE events SET status = $1, updated_at = $2
	          WHERE is_active = true AND status = $3 AND time <= $4`,
		domain.EventStatusCompleted, now, domain.EventStatusOngoing, now.Add(-24*time.Hour))
	if err != nil {
		return n1, err
	}
	n2, _ := res.RowsAffected()
	return n1 + n2, nil
}
