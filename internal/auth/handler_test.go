package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-erp/meridian-erp/internal/shared"
)

type stubRepo struct {
	users    map[string]*User
	sessions map[string]int64
}

func (s *stubRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (s *stubRepo) CreateSession(_ context.Context, id string, userID int64, _ time.Time, _, _ string) error {
	s.sessions[id] = userID
	return nil
}

func (s *stubRepo) DeleteSession(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func newTestHandler(t *testing.T) (*Handler, *stubRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse-battery"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &stubRepo{
		users: map[string]*User{
			"owner@example.com": {
				ID:           1,
				Email:        "owner@example.com",
				Name:         "Owner",
				PasswordHash: string(hash),
				IsActive:     true,
			},
		},
		sessions: map[string]int64{},
	}

	sessions := shared.NewSessionManager(client, "meridian_session", "test-session-secret", time.Hour, false)
	csrf := shared.NewCSRFManager("test-secret")
	return NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), NewService(repo), sessions, csrf), repo
}

func loginRequestWithSession(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	sess := &shared.Session{ID: "sess-1"}
	return r.WithContext(shared.ContextWithSession(r.Context(), sess))
}

func TestLoginSuccess(t *testing.T) {
	h, repo := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.handleLogin(rec, loginRequestWithSession(`{"email":"owner@example.com","password":"correct-horse-battery"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"csrf_token"`)
	assert.Equal(t, int64(1), repo.sessions["sess-1"])
}

func TestLoginWrongPassword(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.handleLogin(rec, loginRequestWithSession(`{"email":"owner@example.com","password":"wrong-password-here"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.handleLogin(rec, loginRequestWithSession(`{"email":"nobody@example.com","password":"whatever-password"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInactiveUserRejected(t *testing.T) {
	h, repo := newTestHandler(t)
	repo.users["owner@example.com"].IsActive = false

	rec := httptest.NewRecorder()
	h.handleLogin(rec, loginRequestWithSession(`{"email":"owner@example.com","password":"correct-horse-battery"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRemovesSession(t *testing.T) {
	h, repo := newTestHandler(t)
	repo.sessions["sess-1"] = 1

	r := httptest.NewRequest(http.MethodPost, "/logout", nil)
	sess := &shared.Session{ID: "sess-1"}
	r = r.WithContext(shared.ContextWithSession(r.Context(), sess))

	rec := httptest.NewRecorder()
	h.handleLogout(rec, r)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotContains(t, repo.sessions, "sess-1")
}
