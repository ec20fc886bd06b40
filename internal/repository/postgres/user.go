package postgres

import (
	"context"
	"database/sql"
	"time"

	"clubverse-backend/internal/domain"
	"clubverse-backend/internal/repository"

	"github.com/lib/pq"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, password_hash, full_name, COALESCE(phone_number, ''), COALESCE(avatar_url, ''),
	role, is_verified, is_active, deleted_at,
	COALESCE(school, ''), COALESCE(major, ''), COALESCE(year, 0), skills, interests,
	COALESCE(category, ''), COALESCE(description, ''), social_links, COALESCE(rating, 0),
	created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	var deletedAt sql.NullTime
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.PhoneNumber, &u.AvatarURL,
		&u.Role, &u.IsVerified, &u.IsActive, &deletedAt,
		&u.School, &u.Major, &u.Year, pq.Array(&u.Skills), pq.Array(&u.Interests),
		&u.Category, &u.Description, pq.Array(&u.SocialLinks), &u.Rating,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		u.DeletedAt = &deletedAt.Time
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (email, password_hash, full_name, phone_number, avatar_url, role,
	            is_verified, is_active, school, major, year, skills, interests,
	            category, description, social_links, rating, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)
	          RETURNING id`
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	return r.db.QueryRowContext(ctx, query,
		u.Email, u.PasswordHash, u.FullName, u.PhoneNumber, u.AvatarURL, u.Role,
		u.IsVerified, u.IsActive, u.School, u.Major, u.Year,
		pq.Array(u.Skills), pq.Array(u.Interests),
		u.Category, u.Description, pq.Array(u.SocialLinks), u.Rating, now,
	).Scan(&u.ID)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET email=$1, full_name=$2, phone_number=$3, avatar_url=$4,
	            school=$5, major=$6, year=$7, skills=$8, interests=$9,
	            category=$10, description=$11, social_links=$12, updated_at=$13
	          WHERE id=$14`
	u.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		u.Email, u.FullName, u.PhoneNumber, u.AvatarURL,
		u.School, u.Major, u.Year, pq.Array(u.Skills), pq.Array(u.Interests),
		u.Category, u.Description, pq.Array(u.SocialLinks), u.UpdatedAt, u.ID,
	)
	return err
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

func (r *userRepository) List(ctx context.Context, role domain.Role, limit, offset int32) ([]domain.User, int32, error) {
	args := []any{}
	where := ``
	if role != "" {
		where = ` WHERE role = $1`
		args = append(args, role)
	}

	var total int32
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + ` FROM users` + where + ` ORDER BY created_at DESC`
	if limit > 0 {
		args = append(args, limit, offset)
		if role != "" {
			query += ` LIMIT $2 OFFSET $3`
		} else {
			query += ` LIMIT $1 OFFSET $2`
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (r *userRepository) SetVerified(ctx context.Context, id int64, verified, active bool) error {
	query := `UPDATE users SET is_verified=$1, is_active=$2, updated_at=$3 WHERE id=$4`
	_, err := r.db.ExecContext(ctx, query, verified, active, time.Now(), id)
	return err
}

func (r *userRepository) SetActive(ctx context.Context, id int64, active bool, deletedAt *time.Time) error {
	query := `UPDATE users SET is_active=$1, deleted_at=$2, updated_at=$3 WHERE id=$4`
	_, err := r.db.ExecContext(ctx, query, active, deletedAt, time.Now(), id)
	return err
}
