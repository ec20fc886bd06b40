package jobs

import (
	"context"

	"clubverse-backend/internal/logger"
)

// SendEventReminders emails participants of events starting within 24 hours
func (jr *JobRunner) SendEventReminders() {
	jr.runWithRecovery("SendEventReminders", func() {
		ctx := context.Background()

		sent, err := jr.services.Event.SendReminders(ctx)
		if err != nil {
			logger.Error("Failed to send event reminders", "error", err)
			return
		}
		if sent > 0 {
			logger.Info("Sent event reminders", "events", sent)
		}
	})
}

// RollEventStatuses advances event statuses past their time boundaries
func (jr *JobRunner) RollEventStatuses() {
	jr.runWithRecovery("RollEventStatuses", func() {
		ctx := context.Background()

		count, err := jr.services.Event.RollStatuses(ctx)
		if err != nil {
			logger.Error("Failed to roll event statuses", "error", err)
			return
		}
		if count > 0 {
			logger.Info("Rolled event statuses", "count", count)
		}
	})
}
