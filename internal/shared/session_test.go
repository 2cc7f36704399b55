package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(t *testing.T) *SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "meridian_session", "unit-test-secret", time.Hour, false)
}

func TestSessionRoundTrip(t *testing.T) {
	sm := testManager(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(r.Context(), r)
	require.NoError(t, err)
	sess.SetUser("42")
	sess.Set("theme", "dark")

	w := httptest.NewRecorder()
	require.NoError(t, sm.Commit(r.Context(), w, r, sess))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Contains(t, cookies[0].Value, ".")

	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(cookies[0])
	loaded, err := sm.Load(r2.Context(), r2)
	require.NoError(t, err)
	assert.Equal(t, "42", loaded.User())
	assert.Equal(t, "dark", loaded.Get("theme"))
}

func TestSessionRejectsTamperedCookie(t *testing.T) {
	sm := testManager(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(r.Context(), r)
	require.NoError(t, err)
	sess.SetUser("42")
	w := httptest.NewRecorder()
	require.NoError(t, sm.Commit(r.Context(), w, r, sess))
	cookie := w.Result().Cookies()[0]

	forged := &http.Cookie{Name: cookie.Name, Value: "forged-id." + cookie.Value[len(cookie.Value)-10:]}
	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(forged)
	loaded, err := sm.Load(r2.Context(), r2)
	require.NoError(t, err)
	assert.Empty(t, loaded.User())
}

func TestSessionDestroyExpiresCookie(t *testing.T) {
	sm := testManager(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(r.Context(), r)
	require.NoError(t, err)
	sess.SetUser("7")
	w := httptest.NewRecorder()
	require.NoError(t, sm.Commit(r.Context(), w, r, sess))

	sm.Destroy(sess)
	w2 := httptest.NewRecorder()
	require.NoError(t, sm.Commit(r.Context(), w2, r, sess))
	cookies := w2.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0)
}
