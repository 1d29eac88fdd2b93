package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"venbot/internal/config"
	"venbot/internal/tasks"
)

// Scheduler runs the configured background tasks on cron schedules.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	cfg       *config.SchedulerConfig
	taskMap   map[string]tasks.ScheduledTaskFunc
	mu        sync.Mutex
	running   bool
}

// NewScheduler creates a scheduler over the registered task map.
func NewScheduler(logger *slog.Logger, cfg *config.SchedulerConfig, taskMap map[string]tasks.ScheduledTaskFunc) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		logger:    logger.With("component", "scheduler"),
		cfg:       cfg,
		taskMap:   taskMap,
	}, nil
}

// Start schedules all enabled tasks and starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("scheduler is already running")
	}

	scheduled := 0
	if s.cfg != nil {
		for taskName, taskCfg := range s.cfg.Tasks {
			if !taskCfg.Enabled {
				s.logger.Info("skipping disabled task", "task_name", taskName)

				continue
			}

			taskFunc, exists := s.taskMap[taskName]
			if !exists {
				s.logger.Warn("task configured but not registered, skipping", "task_name", taskName)

				continue
			}

			_, err := s.scheduler.NewJob(
				gocron.CronJob(taskCfg.Schedule, false),
				gocron.NewTask(s.runTask, context.Background(), taskName, taskFunc),
				gocron.WithName(taskName),
			)
			if err != nil {
				s.logger.Error("failed to schedule task",
					"task_name", taskName, "schedule", taskCfg.Schedule, "error", err)

				continue
			}

			s.logger.Info("scheduled task", "task_name", taskName, "schedule", taskCfg.Schedule)
			scheduled++
		}
	}

	s.scheduler.Start()
	s.running = true
	s.logger.Info("scheduler started", "tasks_scheduled", scheduled)

	return nil
}

func (s *Scheduler) runTask(ctx context.Context, name string, fn tasks.ScheduledTaskFunc) {
	start := time.Now()
	s.logger.Info("running scheduled task", "task_name", name)

	if err := fn(ctx); err != nil {
		s.logger.Error("scheduled task failed", "task_name", name, "error", err)
	}

	s.logger.Info("finished scheduled task", "task_name", name, "duration", time.Since(start))
}

// Stop shuts the scheduler down, waiting for running jobs.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	err := s.scheduler.Shutdown()
	s.running = false
	if err != nil {
		return fmt.Errorf("scheduler shutdown: %w", err)
	}

	return nil
}
