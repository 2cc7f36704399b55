package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/shared"
)

type fixedPermissions map[int64][]string

func (f fixedPermissions) EffectivePermissions(_ context.Context, userID int64) ([]string, error) {
	return f[userID], nil
}

func requestWithUser(userID string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/quotations", nil)
	sess := &shared.Session{}
	sess.SetUser(userID)
	return r.WithContext(shared.ContextWithSession(r.Context(), sess))
}

func TestRequireAnyInjectsAuthContext(t *testing.T) {
	mw := Middleware{Service: fixedPermissions{42: {shared.PermQuotationView, shared.PermQuotationApprove}}}

	var captured shared.AuthContext
	handler := mw.RequireAny(shared.PermQuotationView)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = shared.AuthFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithUser("42"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), captured.UserID)
	assert.True(t, captured.Can(shared.PermQuotationApprove))
	assert.False(t, captured.Can(shared.PermQuotationConvert))
}

func TestRequireAnyForbidsMissingPermission(t *testing.T) {
	mw := Middleware{Service: fixedPermissions{42: {shared.PermQuotationView}}}

	handler := mw.RequireAny(shared.PermQuotationApprove)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithUser("42"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAllNeedsEveryPermission(t *testing.T) {
	mw := Middleware{Service: fixedPermissions{42: {shared.PermQuotationView, shared.PermQuotationEdit}}}

	allowed := mw.RequireAll(shared.PermQuotationView, shared.PermQuotationEdit)
	denied := mw.RequireAll(shared.PermQuotationView, shared.PermQuotationApprove)

	rec := httptest.NewRecorder()
	allowed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, requestWithUser("42"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	denied(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})).ServeHTTP(rec, requestWithUser("42"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMissingSessionIsUnauthorized(t *testing.T) {
	mw := Middleware{Service: fixedPermissions{}}

	handler := mw.RequireAny(shared.PermQuotationView)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quotations", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
