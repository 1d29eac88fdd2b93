package httpapi_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"venbot/internal/database"
	"venbot/internal/engine"
	"venbot/internal/httpapi"
	"venbot/internal/knowledge"
)

// fakeStore is an in-memory database.Store for handler tests.
type fakeStore struct {
	users     []database.User
	chats     []database.Chat
	messages  []database.Message
	knowledge []database.KnowledgeEntry
	pingErr   error
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) CreateUser(_ context.Context, username, email, password string) (int64, error) {
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return 0, database.ErrDuplicateUser
		}
	}

	id := int64(len(f.users) + 1)
	f.users = append(f.users, database.User{
		ID: id, Username: username, Email: email, PasswordHash: password, IsActive: true,
	})

	return id, nil
}

func (f *fakeStore) AuthenticateUser(_ context.Context, email, password string) (*database.User, error) {
	for i, u := range f.users {
		if u.Email == email && u.PasswordHash == password {
			return &f.users[i], nil
		}
	}

	return nil, nil
}

func (f *fakeStore) CreateChat(_ context.Context, userID int64, title string) (string, error) {
	id := fmt.Sprintf("chat-%d", len(f.chats)+1)
	f.chats = append(f.chats, database.Chat{ID: id, UserID: userID, Title: title, IsActive: true})

	return id, nil
}

func (f *fakeStore) GetUserChats(_ context.Context, userID int64) ([]database.Chat, error) {
	var out []database.Chat
	for _, c := range f.chats {
		if c.UserID == userID {
			out = append(out, c)
		}
	}

	return out, nil
}

func (f *fakeStore) GetChatMessages(_ context.Context, chatID string) ([]database.Message, error) {
	var out []database.Message
	for _, m := range f.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}

	return out, nil
}

func (f *fakeStore) SaveMessage(_ context.Context, m *database.Message) error {
	m.ID = int64(len(f.messages) + 1)
	f.messages = append(f.messages, *m)

	return nil
}

func (f *fakeStore) ListKnowledge(context.Context) ([]database.KnowledgeEntry, error) {
	return f.knowledge, nil
}

func (f *fakeStore) AddKnowledge(_ context.Context, topic, content, category string) (int64, error) {
	id := int64(len(f.knowledge) + 1)
	f.knowledge = append(f.knowledge, database.KnowledgeEntry{
		ID: id, Topic: topic, Content: content, Category: category,
	})

	return id, nil
}

func (f *fakeStore) RunSQLMaintenance(context.Context) error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) (*echo.Echo, *fakeStore) {
	t.Helper()

	store := &fakeStore{}
	eng := engine.New(knowledge.Default(nil), nil)
	h := httpapi.NewHandler(eng, store, "Ven", nil)

	return httpapi.NewServer(h, discardLogger()), store
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
		}
	}

	return rec, decoded
}

func TestChatEndpoint(t *testing.T) {
	t.Parallel()

	e, store := newTestServer(t)

	rec, body := doJSON(t, e, http.MethodPost, "/api/chat",
		`{"message": "hello", "user_id": 7, "chat_id": "chat-1"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	if text, _ := body["text"].(string); text == "" {
		t.Error("missing reply text")
	}

	ctx, ok := body["context"].(map[string]any)
	if !ok {
		t.Fatalf("missing context object: %v", body)
	}

	if ctx["intent"] != "greeting" {
		t.Errorf("intent = %v, want greeting", ctx["intent"])
	}

	if ctx["conversation_length"] != float64(2) {
		t.Errorf("conversation_length = %v, want 2", ctx["conversation_length"])
	}

	// Both sides of the exchange persisted.
	if len(store.messages) != 2 {
		t.Fatalf("persisted messages = %d, want 2", len(store.messages))
	}

	if store.messages[0].Sender != database.SenderUser || store.messages[1].Sender != database.SenderBot {
		t.Errorf("senders = %q, %q", store.messages[0].Sender, store.messages[1].Sender)
	}
}

func TestChatEmptyMessage(t *testing.T) {
	t.Parallel()

	e, store := newTestServer(t)

	rec, body := doJSON(t, e, http.MethodPost, "/api/chat", `{"message": "   "}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	if body["error"] != "Message cannot be empty" {
		t.Errorf("error = %v", body["error"])
	}

	if len(store.messages) != 0 {
		t.Error("empty message should not be persisted")
	}
}

func TestChatWithoutIdentityIsNotPersisted(t *testing.T) {
	t.Parallel()

	e, store := newTestServer(t)

	rec, _ := doJSON(t, e, http.MethodPost, "/api/chat", `{"message": "hello"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	if len(store.messages) != 0 {
		t.Error("anonymous exchange should not be persisted")
	}
}

func TestNewChat(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t)

	rec, body := doJSON(t, e, http.MethodPost, "/api/chat/new", `{"user_id": 7}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	if chatID, _ := body["chat_id"].(string); chatID == "" {
		t.Error("missing chat_id")
	}

	rec, body = doJSON(t, e, http.MethodPost, "/api/chat/new", `{}`)
	if rec.Code != http.StatusBadRequest || body["error"] != "User ID required" {
		t.Errorf("missing user: status = %d, error = %v", rec.Code, body["error"])
	}
}

func TestChatHistory(t *testing.T) {
	t.Parallel()

	e, store := newTestServer(t)

	store.messages = append(store.messages,
		database.Message{ID: 1, ChatID: "c1", UserID: 7, Content: "hi", Sender: database.SenderUser},
		database.Message{ID: 2, ChatID: "c1", UserID: 7, Content: "Hello!", Sender: database.SenderBot},
	)

	rec, body := doJSON(t, e, http.MethodGet, "/api/chat/c1/history", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	messages, ok := body["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Errorf("messages = %v, want 2 entries", body["messages"])
	}

	rec, body = doJSON(t, e, http.MethodGet, "/api/chat/unknown/history", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unknown chat status = %d, want 200", rec.Code)
	}

	if messages, ok := body["messages"].([]any); !ok || len(messages) != 0 {
		t.Errorf("unknown chat messages = %v, want empty list", body["messages"])
	}
}

func TestSummaryAndInsights(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t)

	rec, _ := doJSON(t, e, http.MethodGet, "/api/chat/summary?user_id=7&chat_id=c1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("summary before chat: status = %d, want 404", rec.Code)
	}

	doJSON(t, e, http.MethodPost, "/api/chat", `{"message": "hello", "user_id": 7, "chat_id": "c1"}`)

	rec, body := doJSON(t, e, http.MethodGet, "/api/chat/summary?user_id=7&chat_id=c1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d, want 200", rec.Code)
	}

	if body["total_messages"] != float64(2) {
		t.Errorf("total_messages = %v, want 2", body["total_messages"])
	}

	rec, body = doJSON(t, e, http.MethodGet, "/api/chat/insights?user_id=7&chat_id=c1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("insights status = %d, want 200", rec.Code)
	}

	insights, ok := body["insights"].(map[string]any)
	if !ok {
		t.Fatalf("missing insights object: %v", body)
	}

	if insights["engagement_level"] != "Very Low" {
		t.Errorf("engagement_level = %v, want Very Low", insights["engagement_level"])
	}
}

func TestClearContext(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t)

	doJSON(t, e, http.MethodPost, "/api/chat", `{"message": "hello", "user_id": 7, "chat_id": "c1"}`)

	rec, _ := doJSON(t, e, http.MethodPost, "/api/chat/clear", `{"user_id": "7", "chat_id": "c1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d, want 200", rec.Code)
	}

	rec, _ = doJSON(t, e, http.MethodGet, "/api/chat/summary?user_id=7&chat_id=c1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("summary after clear: status = %d, want 404", rec.Code)
	}
}

func TestSuggestions(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t)

	rec, body := doJSON(t, e, http.MethodPost, "/api/chat/suggestions", `{"message": "hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	suggestions, ok := body["suggestions"].([]any)
	if !ok || len(suggestions) == 0 || len(suggestions) > 5 {
		t.Errorf("suggestions = %v, want 1..5 entries", body["suggestions"])
	}

	rec, _ = doJSON(t, e, http.MethodPost, "/api/chat/suggestions", `{"message": ""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty message status = %d, want 400", rec.Code)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t)

	rec, body := doJSON(t, e, http.MethodPost, "/api/user/register",
		`{"username": "sam", "email": "sam@example.com", "password": "secret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("register status = %d, want 200", rec.Code)
	}

	if body["user_id"] != float64(1) {
		t.Errorf("user_id = %v, want 1", body["user_id"])
	}

	rec, _ = doJSON(t, e, http.MethodPost, "/api/user/register",
		`{"username": "sam", "email": "sam@example.com", "password": "secret"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", rec.Code)
	}

	rec, _ = doJSON(t, e, http.MethodPost, "/api/user/register", `{"username": "x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("partial register status = %d, want 400", rec.Code)
	}

	rec, body = doJSON(t, e, http.MethodPost, "/api/user/login",
		`{"email": "sam@example.com", "password": "secret"}`)
	if rec.Code != http.StatusOK || body["username"] != "sam" {
		t.Errorf("login status = %d, body = %v", rec.Code, body)
	}

	rec, body = doJSON(t, e, http.MethodPost, "/api/user/login",
		`{"email": "sam@example.com", "password": "wrong"}`)
	if rec.Code != http.StatusUnauthorized || body["error"] != "Invalid credentials" {
		t.Errorf("bad login status = %d, body = %v", rec.Code, body)
	}

	rec, body = doJSON(t, e, http.MethodPost, "/api/user/logout", "")
	if rec.Code != http.StatusOK || body["message"] != "Logout successful" {
		t.Errorf("logout status = %d, body = %v", rec.Code, body)
	}
}

func TestUserMemoryEndpoint(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t)

	rec, _ := doJSON(t, e, http.MethodGet, "/api/user/7/memory", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("memory before chat: status = %d, want 404", rec.Code)
	}

	doJSON(t, e, http.MethodPost, "/api/chat", `{"message": "My name is Sam", "user_id": 7, "chat_id": "c1"}`)

	rec, body := doJSON(t, e, http.MethodGet, "/api/user/7/memory", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("memory status = %d, want 200", rec.Code)
	}

	prefs, ok := body["preferences"].(map[string]any)
	if !ok || prefs["name"] != "Sam" {
		t.Errorf("preferences = %v, want name Sam", body["preferences"])
	}
}

func TestKnowledgeEndpoints(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t)

	rec, body := doJSON(t, e, http.MethodPost, "/api/knowledge",
		`{"topic": "gravity", "content": "Gravity pulls things together.", "category": "science"}`)
	if rec.Code != http.StatusOK || body["knowledge_id"] != float64(1) {
		t.Fatalf("add knowledge status = %d, body = %v", rec.Code, body)
	}

	rec, _ = doJSON(t, e, http.MethodPost, "/api/knowledge", `{"topic": "x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("partial knowledge status = %d, want 400", rec.Code)
	}

	rec, body = doJSON(t, e, http.MethodGet, "/api/knowledge", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list knowledge status = %d, want 200", rec.Code)
	}

	entries, ok := body["knowledge"].([]any)
	if !ok || len(entries) != 1 {
		t.Errorf("knowledge = %v, want 1 entry", body["knowledge"])
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	e, store := newTestServer(t)

	rec, body := doJSON(t, e, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	if body["status"] != "healthy" || body["version"] != httpapi.Version || body["bot"] != "Ven" {
		t.Errorf("health body = %v", body)
	}

	store.pingErr = fmt.Errorf("database gone")

	rec, body = doJSON(t, e, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusServiceUnavailable || body["status"] != "degraded" {
		t.Errorf("degraded health: status = %d, body = %v", rec.Code, body)
	}
}
