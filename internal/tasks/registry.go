package tasks

import "context"

// ScheduledTaskFunc is the signature for all scheduled tasks. The
// context provided by the scheduler must be respected for
// cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns the map of all registered task functions.
// The keys match the task names in the scheduler configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := make(map[string]ScheduledTaskFunc)

	if deps.Store != nil {
		tasks["sql_maintenance"] = newSQLMaintenanceTask(deps)
	}
	tasks["context_sweep"] = newContextSweepTask(deps)

	deps.Logger.Info("initialized scheduled tasks", "count", len(tasks))

	return tasks
}
