// Package httpapi exposes the chat engine and persistence layer over
// a JSON HTTP API.
package httpapi

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewServer builds the echo instance with middleware and all routes
// registered. The caller owns starting and stopping it.
func NewServer(h *Handler, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	api := e.Group("/api")

	api.POST("/chat", h.Chat)
	api.POST("/chat/new", h.NewChat)
	api.GET("/chat/:chat_id/history", h.ChatHistory)
	api.GET("/chat/summary", h.ConversationSummary)
	api.GET("/chat/insights", h.ConversationInsights)
	api.POST("/chat/clear", h.ClearContext)
	api.POST("/chat/suggestions", h.Suggestions)

	api.GET("/user/:user_id/chats", h.UserChats)
	api.GET("/user/:user_id/memory", h.UserMemory)
	api.POST("/user/register", h.Register)
	api.POST("/user/login", h.Login)
	api.POST("/user/logout", h.Logout)

	api.GET("/knowledge", h.ListKnowledge)
	api.POST("/knowledge", h.AddKnowledge)

	api.GET("/health", h.Health)

	return e
}

// requestLogger logs one line per request with method, path, status,
// and latency.
func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.Round(time.Microsecond),
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
				logger.Error("request failed", attrs...)
			} else {
				logger.Info("request", attrs...)
			}

			return nil
		},
	})
}
