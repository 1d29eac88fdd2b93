package tasks

import "context"

// newContextSweepTask creates the scheduled task that drops
// conversation contexts idle longer than the configured TTL. User
// memories are not touched.
func newContextSweepTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "context_sweep")
	ttl := deps.Config.Engine.StaleContextTTL

	return func(ctx context.Context) error {
		pruned := deps.Engine.PruneStale(ttl)
		if pruned > 0 {
			log.InfoContext(ctx, "pruned stale conversation contexts", "count", pruned, "ttl", ttl)
		}

		return nil
	}
}
