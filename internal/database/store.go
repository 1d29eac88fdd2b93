package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// ErrDuplicateUser is returned when a username or email is already
// registered.
var ErrDuplicateUser = errors.New("username or email already registered")

// Store defines the persistence operations used by the HTTP API.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// CreateUser registers a new user with a bcrypt-hashed password
	// and returns the new user ID.
	CreateUser(ctx context.Context, username, email, password string) (int64, error)

	// AuthenticateUser checks credentials by email. Returns nil, nil
	// when the user does not exist or the password does not match.
	AuthenticateUser(ctx context.Context, email, password string) (*User, error)

	// CreateChat opens a new chat session for a user and returns its ID.
	CreateChat(ctx context.Context, userID int64, title string) (string, error)

	// GetUserChats lists a user's active chats, most recent first.
	GetUserChats(ctx context.Context, userID int64) ([]Chat, error)

	// GetChatMessages returns all messages in a chat in order.
	GetChatMessages(ctx context.Context, chatID string) ([]Message, error)

	// SaveMessage inserts a new message record.
	SaveMessage(ctx context.Context, message *Message) error

	// ListKnowledge returns all knowledge base entries.
	ListKnowledge(ctx context.Context) ([]KnowledgeEntry, error)

	// AddKnowledge inserts a knowledge base entry and returns its ID.
	AddKnowledge(ctx context.Context, topic, content, category string) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore implements Store on top of sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by the given connection pool.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) CreateUser(ctx context.Context, username, email, password string) (int64, error) {
	if username == "" || email == "" || password == "" {
		return 0, errors.New("username, email, and password are required")
	}

	var exists int
	err := s.db.GetContext(ctx, &exists,
		`SELECT COUNT(*) FROM users WHERE username = ? OR email = ?;`, username, email)
	if err != nil {
		return 0, fmt.Errorf("failed to check for existing user: %w", err)
	}
	if exists > 0 {
		return 0, ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
		IsActive:     true,
	}

	query := `
        INSERT INTO users (username, email, password_hash, created_at, updated_at, is_active)
        VALUES (:username, :email, :password_hash, :created_at, :updated_at, :is_active);
    `

	result, err := s.db.NamedExecContext(ctx, query, user)
	if err != nil {
		s.logger.ErrorContext(ctx, "error creating user", "username", username, "error", err)

		return 0, fmt.Errorf("failed to create user %q: %w", username, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new user id: %w", err)
	}

	s.logger.DebugContext(ctx, "user created", "user_id", id, "username", username)

	return id, nil
}

func (s *sqlxStore) AuthenticateUser(ctx context.Context, email, password string) (*User, error) {
	var user User
	err := s.db.GetContext(ctx, &user,
		`SELECT id, username, email, password_hash, created_at, updated_at, is_active
         FROM users WHERE email = ? AND is_active = 1;`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}

	return &user, nil
}

func (s *sqlxStore) CreateChat(ctx context.Context, userID int64, title string) (string, error) {
	if userID == 0 {
		return "", errors.New("chat must have a non-zero user_id")
	}
	if title == "" {
		title = "New Chat"
	}

	now := time.Now().UTC()
	chat := Chat{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
		IsActive:  true,
	}

	query := `
        INSERT INTO chats (id, user_id, title, created_at, updated_at, is_active)
        VALUES (:id, :user_id, :title, :created_at, :updated_at, :is_active);
    `

	if _, err := s.db.NamedExecContext(ctx, query, chat); err != nil {
		s.logger.ErrorContext(ctx, "error creating chat", "user_id", userID, "error", err)

		return "", fmt.Errorf("failed to create chat for user %d: %w", userID, err)
	}

	s.logger.DebugContext(ctx, "chat created", "chat_id", chat.ID, "user_id", userID)

	return chat.ID, nil
}

func (s *sqlxStore) GetUserChats(ctx context.Context, userID int64) ([]Chat, error) {
	var chats []Chat
	query := `
        SELECT id, user_id, title, created_at, updated_at, is_active
        FROM chats
        WHERE user_id = ? AND is_active = 1
        ORDER BY updated_at DESC;
    `

	if err := s.db.SelectContext(ctx, &chats, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get chats for user %d: %w", userID, err)
	}

	return chats, nil
}

func (s *sqlxStore) GetChatMessages(ctx context.Context, chatID string) ([]Message, error) {
	if chatID == "" {
		return nil, errors.New("chat_id cannot be empty")
	}

	var messages []Message
	query := `
        SELECT id, chat_id, user_id, content, sender, created_at
        FROM messages
        WHERE chat_id = ?
        ORDER BY created_at ASC, id ASC;
    `

	if err := s.db.SelectContext(ctx, &messages, query, chatID); err != nil {
		return nil, fmt.Errorf("failed to get messages for chat %s: %w", chatID, err)
	}

	return messages, nil
}

func (s *sqlxStore) SaveMessage(ctx context.Context, message *Message) error {
	if message == nil {
		return errors.New("cannot save nil message")
	}
	if message.ChatID == "" {
		return errors.New("message must have a chat_id")
	}
	if message.Content == "" {
		return errors.New("message must have non-empty content")
	}
	if message.Sender != SenderUser && message.Sender != SenderBot {
		return fmt.Errorf("invalid message sender %q", message.Sender)
	}

	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	query := `
        INSERT INTO messages (chat_id, user_id, content, sender, created_at)
        VALUES (:chat_id, :user_id, :content, :sender, :created_at);
    `

	result, err := s.db.NamedExecContext(ctx, query, message)
	if err != nil {
		s.logger.ErrorContext(ctx, "error saving message",
			"chat_id", message.ChatID, "user_id", message.UserID, "error", err)

		return fmt.Errorf("failed to save message (chat %s, user %d): %w", message.ChatID, message.UserID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		message.ID = id
	}

	return nil
}

func (s *sqlxStore) ListKnowledge(ctx context.Context) ([]KnowledgeEntry, error) {
	var entries []KnowledgeEntry
	query := `
        SELECT id, topic, content, category, created_at, updated_at
        FROM knowledge_entries
        ORDER BY category ASC, topic ASC;
    `

	if err := s.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("failed to list knowledge entries: %w", err)
	}

	return entries, nil
}

func (s *sqlxStore) AddKnowledge(ctx context.Context, topic, content, category string) (int64, error) {
	if topic == "" || content == "" {
		return 0, errors.New("topic and content are required")
	}
	if category == "" {
		category = "general"
	}

	now := time.Now().UTC()
	entry := KnowledgeEntry{
		Topic:     topic,
		Content:   content,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
        INSERT INTO knowledge_entries (topic, content, category, created_at, updated_at)
        VALUES (:topic, :content, :category, :created_at, :updated_at);
    `

	result, err := s.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		s.logger.ErrorContext(ctx, "error adding knowledge entry", "topic", topic, "error", err)

		return 0, fmt.Errorf("failed to add knowledge entry %q: %w", topic, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new knowledge entry id: %w", err)
	}

	return id, nil
}

// RunSQLMaintenance executes VACUUM. SQLite requires it to run
// outside a transaction.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "starting database maintenance (VACUUM)")

	start := time.Now()
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "VACUUM failed", "error", err)

		return fmt.Errorf("failed to run VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "database maintenance completed", "duration", time.Since(start))

	return nil
}
