package httpapi

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"venbot/internal/database"
	"venbot/internal/engine"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

// Handler serves the chat API. The database store is optional; when
// absent, chat persistence and account endpoints are disabled.
type Handler struct {
	engine  *engine.Engine
	store   database.Store
	botName string
	logger  *slog.Logger
}

// NewHandler creates a Handler. store may be nil.
func NewHandler(eng *engine.Engine, store database.Store, botName string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Handler{
		engine:  eng,
		store:   store,
		botName: botName,
		logger:  logger.With("component", "httpapi"),
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type chatRequest struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id,omitempty"`
	ChatID  string `json:"chat_id,omitempty"`
}

type chatContext struct {
	Intent             string `json:"intent"`
	Sentiment          any    `json:"sentiment"`
	Entities           any    `json:"entities"`
	ConversationLength int    `json:"conversation_length"`
}

type chatResponse struct {
	Text      string      `json:"text"`
	Timestamp time.Time   `json:"timestamp"`
	Context   chatContext `json:"context"`
}

// Chat handles POST /api/chat.
func (h *Handler) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Message cannot be empty"})
	}

	userID := ""
	if req.UserID != 0 {
		userID = strconv.FormatInt(req.UserID, 10)
	}

	reply := h.engine.Respond(userID, req.ChatID, message)

	// Persist the exchange when it belongs to a stored chat.
	if h.store != nil && req.UserID != 0 && req.ChatID != "" {
		ctx := c.Request().Context()

		pair := []database.Message{
			{ChatID: req.ChatID, UserID: req.UserID, Content: message, Sender: database.SenderUser},
			{ChatID: req.ChatID, UserID: req.UserID, Content: reply.Text, Sender: database.SenderBot},
		}
		for i := range pair {
			if err := h.store.SaveMessage(ctx, &pair[i]); err != nil {
				h.logger.Error("failed to persist chat message", "chat_id", req.ChatID, "error", err)

				break
			}
		}
	}

	return c.JSON(http.StatusOK, chatResponse{
		Text:      reply.Text,
		Timestamp: reply.Timestamp,
		Context: chatContext{
			Intent:             string(reply.Intent),
			Sentiment:          reply.Sentiment,
			Entities:           reply.Entities,
			ConversationLength: reply.ConversationLength,
		},
	})
}

type newChatRequest struct {
	UserID int64  `json:"user_id"`
	Title  string `json:"title,omitempty"`
}

// NewChat handles POST /api/chat/new.
func (h *Handler) NewChat(c echo.Context) error {
	if h.store == nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "Persistence is not configured"})
	}

	var req newChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
	}

	if req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "User ID required"})
	}

	chatID, err := h.store.CreateChat(c.Request().Context(), req.UserID, req.Title)
	if err != nil {
		h.logger.Error("failed to create chat", "user_id", req.UserID, "error", err)

		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"chat_id": chatID,
		"message": "New chat created successfully",
	})
}

// ChatHistory handles GET /api/chat/:chat_id/history.
func (h *Handler) ChatHistory(c echo.Context) error {
	if h.store == nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "Persistence is not configured"})
	}

	messages, err := h.store.GetChatMessages(c.Request().Context(), c.Param("chat_id"))
	if err != nil {
		h.logger.Error("failed to load chat history", "chat_id", c.Param("chat_id"), "error", err)

		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}

	if messages == nil {
		messages = []database.Message{}
	}

	return c.JSON(http.StatusOK, map[string]any{"messages": messages})
}

// ConversationSummary handles GET /api/chat/summary.
func (h *Handler) ConversationSummary(c echo.Context) error {
	summary, ok := h.engine.Summary(c.QueryParam("user_id"), c.QueryParam("chat_id"))
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "No conversation context found"})
	}

	return c.JSON(http.StatusOK, summary)
}

// ConversationInsights handles GET /api/chat/insights.
func (h *Handler) ConversationInsights(c echo.Context) error {
	summary, insights, ok := h.engine.Insights(c.QueryParam("user_id"), c.QueryParam("chat_id"))
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "No conversation context found"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"summary":  summary,
		"insights": insights,
	})
}

type clearRequest struct {
	UserID string `json:"user_id,omitempty"`
	ChatID string `json:"chat_id,omitempty"`
}

// ClearContext handles POST /api/chat/clear.
func (h *Handler) ClearContext(c echo.Context) error {
	var req clearRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
	}

	h.engine.ClearContext(req.UserID, req.ChatID)

	return c.JSON(http.StatusOK, map[string]any{"message": "Conversation context cleared"})
}

type suggestionsRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
	ChatID  string `json:"chat_id,omitempty"`
}

// Suggestions handles POST /api/chat/suggestions.
func (h *Handler) Suggestions(c echo.Context) error {
	var req suggestionsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Message cannot be empty"})
	}

	suggestions := h.engine.SuggestedResponses(req.UserID, req.ChatID, message)

	return c.JSON(http.StatusOK, map[string]any{"suggestions": suggestions})
}

// UserChats handles GET /api/user/:user_id/chats.
func (h *Handler) UserChats(c echo.Context) error {
	if h.store == nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "Persistence is not configured"})
	}

	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid user ID"})
	}

	chats, err := h.store.GetUserChats(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("failed to load user chats", "user_id", userID, "error", err)

		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}

	if chats == nil {
		chats = []database.Chat{}
	}

	return c.JSON(http.StatusOK, map[string]any{"chats": chats})
}

// UserMemory handles GET /api/user/:user_id/memory.
func (h *Handler) UserMemory(c echo.Context) error {
	um, ok := h.engine.Memory(c.Param("user_id"))
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "No user memory found"})
	}

	return c.JSON(http.StatusOK, um)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/user/register.
func (h *Handler) Register(c echo.Context) error {
	if h.store == nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "Persistence is not configured"})
	}

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "All fields are required"})
	}

	userID, err := h.store.CreateUser(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateUser) {
			return c.JSON(http.StatusConflict, errorResponse{Error: "Username or email already registered"})
		}

		h.logger.Error("failed to register user", "username", req.Username, "error", err)

		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user_id": userID,
		"message": "User registered successfully",
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/user/login.
func (h *Handler) Login(c echo.Context) error {
	if h.store == nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "Persistence is not configured"})
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
	}

	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Email and password required"})
	}

	user, err := h.store.AuthenticateUser(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("failed to authenticate user", "error", err)

		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}

	if user == nil {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "Invalid credentials"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
		"message":  "Login successful",
	})
}

// Logout handles POST /api/user/logout. The API is stateless, so
// there is no server-side session to discard.
func (h *Handler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Logout successful",
	})
}

// ListKnowledge handles GET /api/knowledge.
func (h *Handler) ListKnowledge(c echo.Context) error {
	if h.store == nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "Persistence is not configured"})
	}

	entries, err := h.store.ListKnowledge(c.Request().Context())
	if err != nil {
		h.logger.Error("failed to list knowledge entries", "error", err)

		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}

	if entries == nil {
		entries = []database.KnowledgeEntry{}
	}

	return c.JSON(http.StatusOK, map[string]any{"knowledge": entries})
}

type addKnowledgeRequest struct {
	Topic    string `json:"topic"`
	Content  string `json:"content"`
	Category string `json:"category,omitempty"`
}

// AddKnowledge handles POST /api/knowledge.
func (h *Handler) AddKnowledge(c echo.Context) error {
	if h.store == nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "Persistence is not configured"})
	}

	var req addKnowledgeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
	}

	if req.Topic == "" || req.Content == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Topic and content required"})
	}

	id, err := h.store.AddKnowledge(c.Request().Context(), req.Topic, req.Content, req.Category)
	if err != nil {
		h.logger.Error("failed to add knowledge entry", "topic", req.Topic, "error", err)

		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"knowledge_id": id,
		"message":      "Knowledge added successfully",
	})
}

// Health handles GET /api/health.
func (h *Handler) Health(c echo.Context) error {
	status := "healthy"
	code := http.StatusOK

	if h.store != nil {
		if err := h.store.Ping(c.Request().Context()); err != nil {
			h.logger.Error("health check database ping failed", "error", err)

			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	return c.JSON(code, map[string]any{
		"status":    status,
		"bot":       h.botName,
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   Version,
	})
}
