package tasks

import (
	"context"
	"fmt"
	"time"
)

const maintenanceTimeout = 5 * time.Minute

// newSQLMaintenanceTask creates the scheduled task that runs
// database maintenance.
func newSQLMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "sql_maintenance")

	return func(ctx context.Context) error {
		timeoutCtx, cancel := context.WithTimeout(ctx, maintenanceTimeout)
		defer cancel()

		if err := deps.Store.RunSQLMaintenance(timeoutCtx); err != nil {
			log.ErrorContext(ctx, "database maintenance failed", "error", err)

			return fmt.Errorf("database maintenance failed: %w", err)
		}

		return nil
	}
}
