package server

import (
	"context"
	"log/slog"

	"github.com/solodev/sapphai/internal/config"
	"github.com/solodev/sapphai/internal/memory"
)

// TaskFunc is the signature for scheduled maintenance tasks. The context
// comes from the scheduler and should be respected for cancellation.
type TaskFunc func(ctx context.Context) error

// TaskDeps holds the dependencies available to scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  *memory.Store
	Config *config.Config
}

// RegisterTasks returns the registry of scheduled tasks by name. The keys
// match the scheduler section of the configuration.
func RegisterTasks(deps TaskDeps) map[string]TaskFunc {
	tasks := map[string]TaskFunc{
		"memory_sweep": newMemorySweepTask(deps),
	}

	deps.Logger.Info("initialized scheduled tasks", "count", len(tasks))
	return tasks
}

// newMemorySweepTask evicts users idle past the configured TTL. Without
// it the store grows without bound in a long-running process.
func newMemorySweepTask(deps TaskDeps) TaskFunc {
	log := deps.Logger.With("task", "memory_sweep")
	ttl := deps.Config.Memory.IdleTTL

	return func(ctx context.Context) error {
		evicted := deps.Store.EvictIdle(ttl)
		log.InfoContext(ctx, "idle user sweep completed",
			"evicted", evicted,
			"tracked_users", deps.Store.UserCount(),
			"idle_ttl", ttl)
		return nil
	}
}
