package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubverse-backend/internal/domain"
)

func newActionRepo(t *testing.T) (sqlmock.Sqlmock, *pendingActionRepository) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return mock, &pendingActionRepository{db: db}
}

func pendingActionRows(t *testing.T, a *domain.PendingAction) *sqlmock.Rows {
	t.Helper()
	data, err := json.Marshal(a.Data)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{
		"id", "club_id", "action_type", "target_member_id", "initiated_by_id", "action_data",
		"is_completed", "is_rejected", "approved_by", "approved_at",
		"rejected_by", "rejected_at", "rejection_reason", "executed_at", "expires_at", "created_at",
	}).AddRow(
		a.ID, a.ClubID, string(a.ActionType), a.TargetMemberID, a.InitiatedByID, data,
		a.IsCompleted, a.IsRejected, a.ApprovedBy, a.ApprovedAt,
		a.RejectedBy, a.RejectedAt, a.RejectionReason, a.ExecutedAt, a.ExpiresAt, a.CreatedAt,
	)
}

func TestPendingActionCreate(t *testing.T) {
	mock, repo := newActionRepo(t)

	action := &domain.PendingAction{
		ClubID:         10,
		ActionType:     domain.ActionRemoveMember,
		TargetMemberID: 30,
		InitiatedByID:  20,
		Data:           domain.ActionData{Remove: &domain.RemoveMemberData{Reason: "inactive"}},
		ExpiresAt:      time.Now().Add(24 * time.Hour),
		CreatedAt:      time.Now(),
	}

	mock.ExpectQuery("INSERT INTO pending_actions").
		WithArgs(action.ClubID, string(action.ActionType), action.TargetMemberID, action.InitiatedByID,
			sqlmock.AnyArg(), action.ExpiresAt, action.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(100)))

	err := repo.Create(context.Background(), action)
	require.NoError(t, err)
	assert.Equal(t, int64(100), action.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGrants(t *testing.T) {
	mock, repo := newActionRepo(t)
	now := time.Now()
	grants := []domain.ApprovalGrant{
		{ActionID: 100, AdminUserID: 20, Token: "aa", CreatedAt: now},
		{ActionID: 100, AdminUserID: 21, Token: "bb", CreatedAt: now},
	}

	mock.ExpectExec("INSERT INTO pending_action_grants").
		WithArgs(int64(100), int64(20), "aa", now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO pending_action_grants").
		WithArgs(int64(100), int64(21), "bb", now).
		WillReturnResult(sqlmock.NewResult(2, 1))

	err := repo.CreateGrants(context.Background(), grants)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGrantByToken(t *testing.T) {
	mock, repo := newActionRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM pending_action_grants WHERE token").
		WithArgs("aa").
		WillReturnRows(sqlmock.NewRows([]string{"id", "action_id", "admin_user_id", "token", "created_at"}).
			AddRow(int64(1), int64(100), int64(20), "aa", now))

	grant, err := repo.GetGrantByToken(context.Background(), "aa")
	require.NoError(t, err)
	assert.Equal(t, int64(100), grant.ActionID)
	assert.Equal(t, int64(20), grant.AdminUserID)
}

func TestPendingActionGetByID(t *testing.T) {
	mock, repo := newActionRepo(t)

	stored := &domain.PendingAction{
		ID: 100, ClubID: 10, ActionType: domain.ActionRemoveMember,
		TargetMemberID: 30, InitiatedByID: 20,
		Data:      domain.ActionData{Remove: &domain.RemoveMemberData{Reason: "inactive"}},
		ExpiresAt: time.Now().Add(24 * time.Hour), CreatedAt: time.Now(),
	}
	mock.ExpectQuery("SELECT (.+) FROM pending_actions WHERE id").
		WithArgs(int64(100)).
		WillReturnRows(pendingActionRows(t, stored))

	got, err := repo.GetByID(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.ID)
	assert.Equal(t, domain.ActionRemoveMember, got.ActionType)
	require.NotNil(t, got.Data.Remove)
	assert.Equal(t, "inactive", got.Data.Remove.Reason)
	assert.False(t, got.IsResolved())
}

func TestMarkCompleted_Winner(t *testing.T) {
	mock, repo := newActionRepo(t)
	at := time.Now()

	mock.ExpectExec("UPDATE pending_actions").
		WithArgs(int64(20), at, int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.MarkCompleted(context.Background(), 100, 20, at)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMarkCompleted_Loser(t *testing.T) {
	mock, repo := newActionRepo(t)
	at := time.Now()

	// A concurrent approver or a rejection already closed the action: the
	// conditional update matches no rows.
	mock.ExpectExec("UPDATE pending_actions").
		WithArgs(int64(21), at, int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.MarkCompleted(context.Background(), 100, 21, at)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMarkRejected_NilRejectedBy(t *testing.T) {
	mock, repo := newActionRepo(t)
	at := time.Now()

	// Lazy expiry flips carry no rejecting admin.
	mock.ExpectExec("UPDATE pending_actions").
		WithArgs(nil, at, "expired", int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.MarkRejected(context.Background(), 100, nil, at, "expired")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClaimUnexecuted(t *testing.T) {
	mock, repo := newActionRepo(t)

	now := time.Now()
	cutoff := now.Add(-2 * time.Minute)
	approver := int64(20)
	approvedAt := now.Add(-10 * time.Minute)
	orphan := &domain.PendingAction{
		ID: 100, ClubID: 10, ActionType: domain.ActionRemoveMember,
		TargetMemberID: 30, InitiatedByID: 20,
		Data:        domain.ActionData{Remove: &domain.RemoveMemberData{Reason: "cleanup"}},
		IsCompleted: true, ApprovedBy: &approver, ApprovedAt: &approvedAt,
		ExpiresAt: now.Add(14 * time.Hour), CreatedAt: now.Add(-10 * time.Hour),
	}

	mock.ExpectQuery("UPDATE pending_actions SET executed_at").
		WithArgs(now, cutoff).
		WillReturnRows(pendingActionRows(t, orphan))

	claimed, err := repo.ClaimUnexecuted(context.Background(), cutoff, now)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, int64(100), claimed[0].ID)
	assert.True(t, claimed[0].IsCompleted)
}

func TestExpireOverdue(t *testing.T) {
	mock, repo := newActionRepo(t)
	now := time.Now()

	// The bulk sweep records the same audit reason as the lazy flip.
	mock.ExpectExec(`SET is_rejected = true, rejected_at = \$1, rejection_reason = 'expired'`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.ExpireOverdue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
