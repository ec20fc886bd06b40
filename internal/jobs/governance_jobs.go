package jobs

import (
	"context"
	"time"

	"clubverse-backend/internal/logger"
)

// reconcileGrace is how old an approved-but-unexecuted action must be before
// the sweep resumes it, leaving room for an in-flight handler to finish.
const reconcileGrace = 2 * time.Minute

// ExpirePendingActions rejects pending actions past their 24-hour deadline
func (jr *JobRunner) ExpirePendingActions() {
	jr.runWithRecovery("ExpirePendingActions", func() {
		ctx := context.Background()

		count, err := jr.services.Governance.ExpireOverdueActions(ctx)
		if err != nil {
			logger.Error("Failed to expire pending actions", "error", err)
			return
		}
		if count > 0 {
			logger.Info("Expired pending actions", "count", count)
		}
	})
}

// ReconcilePendingActions resumes approved actions whose execution never
// completed, typically after a crash between approval and execution
func (jr *JobRunner) ReconcilePendingActions() {
	jr.runWithRecovery("ReconcilePendingActions", func() {
		ctx := context.Background()

		resumed, err := jr.services.Governance.ReconcileUnexecutedActions(ctx, reconcileGrace)
		if err != nil {
			logger.Error("Failed to reconcile pending actions", "error", err)
			return
		}
		if resumed > 0 {
			logger.Info("Resumed unexecuted pending actions", "count", resumed)
		}
	})
}

// CleanupExpiredVerifyCodes deletes verification codes past their expiry
func (jr *JobRunner) CleanupExpiredVerifyCodes() {
	jr.runWithRecovery("CleanupExpiredVerifyCodes", func() {
		ctx := context.Background()

		count, err := jr.store.DeleteExpired(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to clean up expired codes", "error", err)
			return
		}
		if count > 0 {
			logger.Info("Deleted expired verification codes", "count", count)
		}
	})
}
