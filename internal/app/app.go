// Package app orchestrates the application components: the HTTP
// server, the optional Telegram transport, and the task scheduler.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"venbot/internal/telegram"
)

const shutdownTimeout = 10 * time.Second

// App owns the long-running components and their lifecycle.
type App struct {
	logger    *slog.Logger
	server    *echo.Echo
	addr      string
	tg        *telegram.Bot
	scheduler *Scheduler
}

// New assembles the application. tg may be nil when no Telegram
// token is configured.
func New(logger *slog.Logger, server *echo.Echo, addr string, tg *telegram.Bot, scheduler *Scheduler) *App {
	return &App{
		logger:    logger.With("component", "app"),
		server:    server,
		addr:      addr,
		tg:        tg,
		scheduler: scheduler,
	}
}

// Run starts all components and blocks until the context is
// cancelled or a component fails.
func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("starting HTTP server", "addr", a.addr)

		if err := a.server.Start(a.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}

		return nil
	})

	if a.tg != nil {
		g.Go(func() error {
			a.logger.Info("starting telegram listener")
			a.tg.Start(gCtx)
			a.logger.Info("telegram listener stopped")

			if gCtx.Err() == nil {
				return errors.New("telegram listener stopped unexpectedly")
			}

			return nil
		})
	}

	g.Go(func() error {
		if err := a.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()

		if err := a.scheduler.Stop(); err != nil {
			a.logger.Error("error stopping scheduler", "error", err)
		}

		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	a.logger.Info("application stopped gracefully")

	return nil
}
