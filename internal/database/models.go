package database

import "time"

// User is a registered account. PasswordHash is a bcrypt hash and
// never leaves the database layer.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"-"`
	IsActive     bool      `db:"is_active" json:"is_active"`
}

// Chat is one conversation session owned by a user.
type Chat struct {
	ID        string    `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	IsActive  bool      `db:"is_active" json:"is_active"`
}

// Message is a single stored chat message, from either side.
type Message struct {
	ID        int64     `db:"id" json:"id"`
	ChatID    string    `db:"chat_id" json:"chat_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Content   string    `db:"content" json:"content"`
	Sender    string    `db:"sender" json:"sender"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Message senders.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// KnowledgeEntry is one topic in the persistent knowledge base.
type KnowledgeEntry struct {
	ID        int64     `db:"id" json:"id"`
	Topic     string    `db:"topic" json:"topic"`
	Content   string    `db:"content" json:"content"`
	Category  string    `db:"category" json:"category"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
