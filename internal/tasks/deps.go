// Package tasks implements the application's scheduled background
// tasks and their registry.
package tasks

import (
	"log/slog"

	"venbot/internal/config"
	"venbot/internal/database"
	"venbot/internal/engine"
)

// TaskDeps contains the dependencies available to scheduled tasks.
// Store may be nil when persistence is disabled.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Engine *engine.Engine
	Config *config.Config
}
