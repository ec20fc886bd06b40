package postgres

import (
	"context"
	"database/sql"
	"time"

	"clubverse-backend/internal/domain"
	"clubverse-backend/internal/repository"

	"github.com/lib/pq"
)

type rosterRepository struct {
	db *sql.DB
}

func NewRosterRepository(db *sql.DB) repository.RosterRepository {
	return &rosterRepository{db: db}
}

func (r *rosterRepository) CreateRoster(ctx context.Context, clubID int64) error {
	query := `INSERT INTO club_rosters (club_id, quantity, created_at, updated_at)
	          VALUES ($1, 0, $2, $2) ON CONFLICT (club_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, clubID, time.Now())
	return err
}

func (r *rosterRepository) GetRoster(ctx context.Context, clubID int64) (*domain.Roster, error) {
	ros := &domain.Roster{}
	query := `SELECT club_id, quantity, created_at, updated_at FROM club_rosters WHERE club_id = $1`
	err := r.db.QueryRowContext(ctx, query, clubID).Scan(&ros.ClubID, &ros.Quantity, &ros.CreatedAt, &ros.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return ros, nil
}

func (r *rosterRepository) RecountQuantity(ctx context.Context, clubID int64) (int32, error) {
	query := `UPDATE club_rosters
	          SET quantity = (SELECT COUNT(*) FROM club_members WHERE club_id = $1 AND is_active = true),
	              updated_at = $2
	          WHERE club_id = $1
	          RETURNING quantity`
	var quantity int32
	err := r.db.QueryRowContext(ctx, query, clubID, time.Now()).Scan(&quantity)
	return quantity, err
}

const memberColumns = `id, club_id, user_id, email, full_name, COALESCE(phone_number, ''), COALESCE(avatar_url, ''),
	COALESCE(school, ''), COALESCE(major, ''), COALESCE(year, 0), skills, interests,
	role, is_active, joined_at, out_date, COALESCE(remove_reason, ''), removed_by`

func scanMember(row interface{ Scan(...any) error }) (*domain.ClubMember, error) {
	m := &domain.ClubMember{}
	var outDate sql.NullTime
	var removedBy sql.NullInt64
	err := row.Scan(
		&m.ID, &m.ClubID, &m.UserID, &m.Email, &m.FullName, &m.PhoneNumber, &m.AvatarURL,
		&m.School, &m.Major, &m.Year, pq.Array(&m.Skills), pq.Array(&m.Interests),
		&m.Role, &m.IsActive, &m.JoinedAt, &outDate, &m.RemoveReason, &removedBy,
	)
	if err != nil {
		return nil, err
	}
	if outDate.Valid {
		m.OutDate = &outDate.Time
	}
	if removedBy.Valid {
		m.RemovedBy = &removedBy.Int64
	}
	return m, nil
}

func (r *rosterRepository) AddMember(ctx context.Context, m *domain.ClubMember) error {
	query := `INSERT INTO club_members (club_id, user_id, email, full_name, phone_number, avatar_url,
	            school, major, year, skills, interests, role, is_active, joined_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	          RETURNING id`
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	return r.db.QueryRowContext(ctx, query,
		m.ClubID, m.UserID, m.Email, m.FullName, m.PhoneNumber, m.AvatarURL,
		m.School, m.Major, m.Year, pq.Array(m.Skills), pq.Array(m.Interests),
		m.Role, m.IsActive, m.JoinedAt,
	).Scan(&m.ID)
}

// GetMember returns the latest roster entry for the user, active or not.
func (r *rosterRepository) GetMember(ctx context.Context, clubID, userID int64) (*domain.ClubMember, error) {
	query := `SELECT ` + memberColumns + ` FROM club_members
	          WHERE club_id = $1 AND user_id = $2 ORDER BY joined_at DESC LIMIT 1`
	return scanMember(r.db.QueryRowContext(ctx, query, clubID, userID))
}

func (r *rosterRepository) GetActiveMember(ctx context.Context, clubID, userID int64) (*domain.ClubMember, error) {
	query := `SELECT ` + memberColumns + ` FROM club_members
	          WHERE club_id = $1 AND user_id = $2 AND is_active = true`
	return scanMember(r.db.QueryRowContext(ctx, query, clubID, userID))
}

func (r *rosterRepository) ListMembers(ctx context.Context, clubID int64) ([]domain.ClubMember, error) {
	query := `SELECT ` + memberColumns + ` FROM club_members WHERE club_id = $1 ORDER BY joined_at DESC`
	return r.queryMembers(ctx, query, clubID)
}

func (r *rosterRepository) ListActiveAdmins(ctx context.Context, clubID int64) ([]domain.ClubMember, error) {
	query := `SELECT ` + memberColumns + ` FROM club_members
	          WHERE club_id = $1 AND role = $2 AND is_active = true ORDER BY joined_at ASC`
	return r.queryMembers(ctx, query, clubID, domain.MemberRoleAdmin)
}

func (r *rosterRepository) ListClubsByUser(ctx context.Context, userID int64, activeOnly bool) ([]domain.ClubMember, error) {
	query := `SELECT ` + memberColumns + ` FROM club_members WHERE user_id = $1`
	if activeOnly {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY joined_at DESC`
	return r.queryMembers(ctx, query, userID)
}

func (r *rosterRepository) queryMembers(ctx context.Context, query string, args ...any) ([]domain.ClubMember, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.ClubMember
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (r *rosterRepository) UpdateMember(ctx context.Context, m *domain.ClubMember) error {
	query := `UPDATE club_members SET email=$1, full_name=$2, phone_number=$3, avatar_url=$4,
	            school=$5, major=$6, year=$7, skills=$8, interests=$9, role=$10
	          WHERE id=$11`
	_, err := r.db.ExecContext(ctx, query,
		m.Email, m.FullName, m.PhoneNumber, m.AvatarURL,
		m.School, m.Major, m.Year, pq.Array(m.Skills), pq.Array(m.Interests),
		m.Role, m.ID,
	)
	return err
}

func (r *rosterRepository) DeactivateMember(ctx context.Context, clubID, userID int64, outDate time.Time, reason string, removedBy int64) (bool, error) {
	query := `UPDATE club_members
	          SET is_active = false, out_date = $1, remove_reason = $2, removed_by = $3
	          WHERE club_id = $4 AND user_id = $5 AND is_active = true`
	res, err := r.db.ExecContext(ctx, query, outDate, reason, removedBy, clubID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *rosterRepository) UpdateMemberRole(ctx context.Context, clubID, userID int64, role domain.MemberRole) (bool, error) {
	query := `UPDATE club_members SET role = $1
	          WHERE club_id = $2 AND user_id = $3 AND is_active = true`
	res, err := r.db.ExecContext(ctx, query, role, clubID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
