// Package main contains the entrypoint for the Ven chat service.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"venbot/internal/app"
	"venbot/internal/config"
	"venbot/internal/database"
	"venbot/internal/engine"
	"venbot/internal/httpapi"
	"venbot/internal/knowledge"
	"venbot/internal/logger"
	"venbot/internal/tasks"
	"venbot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all components, starts the application, and blocks
// until shutdown. It returns the process exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "path", *configPath, "error", err)

		return 1
	}

	log := logger.New(cfg.Log.Level, cfg.Log.JSON)
	slog.SetDefault(log)

	kb, err := knowledge.Load(cfg.Knowledge.Path, log)
	if err != nil {
		log.Error("failed to load knowledge base", "path", cfg.Knowledge.Path, "error", err)

		return 1
	}

	eng := engine.New(kb, log)

	var store database.Store
	if cfg.Database.Path != "" {
		db, err := database.NewDB(cfg.Database.Path, log)
		if err != nil {
			log.Error("failed to open database", "path", cfg.Database.Path, "error", err)

			return 1
		}
		defer database.CloseDB(db, log)

		store = database.NewStore(db, log)
	} else {
		log.Warn("no database path configured, persistence disabled")
	}

	handler := httpapi.NewHandler(eng, store, cfg.Engine.BotName, log)
	server := httpapi.NewServer(handler, log)

	var tg *telegram.Bot
	if cfg.Telegram.Token != "" {
		tg, err = telegram.New(cfg.Telegram.Token, eng, log)
		if err != nil {
			log.Error("failed to create telegram bot", "error", err)

			return 1
		}
	}

	taskMap := tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Engine: eng,
		Config: cfg,
	})

	scheduler, err := app.NewScheduler(log, &cfg.Scheduler, taskMap)
	if err != nil {
		log.Error("failed to create scheduler", "error", err)

		return 1
	}

	a := app.New(log, server, cfg.Server.Address(), tg, scheduler)

	log.Info("starting", "addr", cfg.Server.Address(), "telegram", tg != nil)
	if err := a.Run(ctx); err != nil {
		log.Error("application stopped due to error", "error", err)

		return 1
	}

	return 0
}
