package postgres

import (
	"context"
	"database/sql"
	"time"

	"clubverse-backend/internal/domain"
	"clubverse-backend/internal/repository"
)

type otpRepository struct {
	db *sql.DB
}

func NewOTPRepository(db *sql.DB) repository.OTPRepository {
	return &otpRepository{db: db}
}

// Replace deletes any previous codes for the email before inserting the new
// one, keeping at most one live OTP per address.
func (r *otpRepository) Replace(ctx context.Context, otp *domain.OTP) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM otps WHERE email = $1`, otp.Email); err != nil {
		return err
	}
	query := `INSERT INTO otps (email, code, expires_at, is_used, created_at)
	          VALUES ($1, $2, $3, false, $4) RETURNING id`
	otp.CreatedAt = time.Now()
	return r.db.QueryRowContext(ctx, query, otp.Email, otp.Code, otp.ExpiresAt, otp.CreatedAt).Scan(&otp.ID)
}

func (r *otpRepository) GetLive(ctx context.Context, email, code string) (*domain.OTP, error) {
	otp := &domain.OTP{}
	query := `SELECT id, email, code, expires_at, is_used, created_at
	          FROM otps WHERE email = $1 AND code = $2 AND is_used = false`
	err := r.db.QueryRowContext(ctx, query, email, code).Scan(
		&otp.ID, &otp.Email, &otp.Code, &otp.ExpiresAt, &otp.IsUsed, &otp.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return otp, nil
}

func (r *otpRepository) MarkUsed(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE otps SET is_used = true WHERE id = $1`, id)
	return err
}

func (r *otpRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM otps WHERE id = $1`, id)
	return err
}

func (r *otpRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM otps WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
