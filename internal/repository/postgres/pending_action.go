package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"clubverse-backend/internal/domain"
	"clubverse-backend/internal/repository"
)

type pendingActionRepository struct {
	db *sql.DB
}

func NewPendingActionRepository(db *sql.DB) repository.PendingActionRepository {
	return &pendingActionRepository{db: db}
}

const pendingActionColumns = `id, club_id, action_type, target_member_id, initiated_by_id, action_data,
	is_completed, is_rejected, approved_by, approved_at,
	rejected_by, rejected_at, COALESCE(rejection_reason, ''), executed_at, expires_at, created_at`

func scanPendingAction(row interface{ Scan(...any) error }) (*domain.PendingAction, error) {
	a := &domain.PendingAction{}
	var data []byte
	var approvedBy, rejectedBy sql.NullInt64
	var approvedAt, rejectedAt, executedAt sql.NullTime
	err := row.Scan(
		&a.ID, &a.ClubID, &a.ActionType, &a.TargetMemberID, &a.InitiatedByID, &data,
		&a.IsCompleted, &a.IsRejected, &approvedBy, &approvedAt,
		&rejectedBy, &rejectedAt, &a.RejectionReason, &executedAt, &a.ExpiresAt, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &a.Data); err != nil {
		return nil, err
	}
	if approvedBy.Valid {
		a.ApprovedBy = &approvedBy.Int64
	}
	if approvedAt.Valid {
		a.ApprovedAt = &approvedAt.Time
	}
	if rejectedBy.Valid {
		a.RejectedBy = &rejectedBy.Int64
	}
	if rejectedAt.Valid {
		a.RejectedAt = &rejectedAt.Time
	}
	if executedAt.Valid {
		a.ExecutedAt = &executedAt.Time
	}
	return a, nil
}

func (r *pendingActionRepository) Create(ctx context.Context, a *domain.PendingAction) error {
	data, err := json.Marshal(a.Data)
	if err != nil {
		return err
	}
	query := `INSERT INTO pending_actions (club_id, action_type, target_member_id, initiated_by_id,
	            action_data, is_completed, is_rejected, expires_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, false, false, $6, $7)
	          RETURNING id`
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	return r.db.QueryRowContext(ctx, query,
		a.ClubID, a.ActionType, a.TargetMemberID, a.InitiatedByID,
		data, a.ExpiresAt, a.CreatedAt,
	).Scan(&a.ID)
}

func (r *pendingActionRepository) CreateGrants(ctx context.Context, grants []domain.ApprovalGrant) error {
	query := `INSERT INTO pending_action_grants (action_id, admin_user_id, token, created_at)
	          VALUES ($1, $2, $3, $4)`
	for i := range grants {
		g := &grants[i]
		if g.CreatedAt.IsZero() {
			g.CreatedAt = time.Now()
		}
		if _, err := r.db.ExecContext(ctx, query, g.ActionID, g.AdminUserID, g.Token, g.CreatedAt); err != nil {
			return err
		}
	}
	return nil
}

func (r *pendingActionRepository) GetGrantByToken(ctx context.Context, token string) (*domain.ApprovalGrant, error) {
	g := &domain.ApprovalGrant{}
	query := `SELECT id, action_id, admin_user_id, token, created_at
	          FROM pending_action_grants WHERE token = $1`
	err := r.db.QueryRowContext(ctx, query, token).Scan(&g.ID, &g.ActionID, &g.AdminUserID, &g.Token, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *pendingActionRepository) GetByID(ctx context.Context, id int64) (*domain.PendingAction, error) {
	query := `SELECT ` + pendingActionColumns + ` FROM pending_actions WHERE id = $1`
	return scanPendingAction(r.db.QueryRowContext(ctx, query, id))
}

func (r *pendingActionRepository) ListOpenByClub(ctx context.Context, clubID int64, now time.Time) ([]domain.PendingAction, error) {
	query := `SELECT ` + pendingActionColumns + ` FROM pending_actions
	          WHERE club_id = $1 AND is_completed = false AND is_rejected = false AND expires_at > $2
	          ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, clubID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []domain.PendingAction
	for rows.Next() {
		a, err := scanPendingAction(rows)
		if err != nil {
			return nil, err
		}
		actions = append(actions, *a)
	}
	return actions, rows.Err()
}

// MarkCompleted flips the terminal flag only while the action is still open.
// Concurrent approvers race on this statement; exactly one sees a row count
// of one and proceeds to execute.
func (r *pendingActionRepository) MarkCompleted(ctx context.Context, id, approvedBy int64, at time.Time) (bool, error) {
	query := `UPDATE pending_actions
	          SET is_completed = true, approved_by = $1, approved_at = $2
	          WHERE id = $3 AND is_completed = false AND is_rejected = false`
	res, err := r.db.ExecContext(ctx, query, approvedBy, at, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *pendingActionRepository) MarkRejected(ctx context.Context, id int64, rejectedBy *int64, at time.Time, reason string) (bool, error) {
	query := `UPDATE pending_actions
	          SET is_rejected = true, rejected_by = $1, rejected_at = $2, rejection_reason = NULLIF($3, '')
	          WHERE id = $4 AND is_completed = false AND is_rejected = false`
	res, err := r.db.ExecContext(ctx, query, rejectedBy, at, reason, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *pendingActionRepository) MarkExecuted(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE pending_actions SET executed_at = $1 WHERE id = $2 AND executed_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, at, id)
	return err
}

func (r *pendingActionRepository) ClaimUnexecuted(ctx context.Context, approvedBefore, at time.Time) ([]domain.PendingAction, error) {
	query := `UPDATE pending_actions SET executed_at = $1
	          WHERE is_completed = true AND executed_at IS NULL AND approved_at < $2
	          RETURNING ` + pendingActionColumns
	rows, err := r.db.QueryContext(ctx, query, at, approvedBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []domain.PendingAction
	for rows.Next() {
		a, err := scanPendingAction(rows)
		if err != nil {
			return nil, err
		}
		actions = append(actions, *a)
	}
	return actions, rows.Err()
}

func (r *pendingActionRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE pending_actions
	          SET is_rejected = true, rejected_at = $1, rejection_reason = 'expired'
	          WHERE is_completed = false AND is_rejected = false AND expires_at < $1`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
