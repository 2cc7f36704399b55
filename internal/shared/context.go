package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

type authContextKey struct{}

// AuthContext describes the authenticated actor for lifecycle operations.
// Services re-check permissions against it before approve/convert/record
// payment, independent of any route-level middleware.
type AuthContext struct {
	UserID      int64
	Permissions map[string]struct{}
}

// Can reports whether the actor holds the given permission.
func (a AuthContext) Can(perm string) bool {
	_, ok := a.Permissions[perm]
	return ok
}

// NewAuthContext builds an AuthContext from a permission list.
func NewAuthContext(userID int64, perms []string) AuthContext {
	set := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return AuthContext{UserID: userID, Permissions: set}
}

// ContextWithAuth stores the auth context for the request.
func ContextWithAuth(ctx context.Context, auth AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, auth)
}

// AuthFromContext extracts the auth context; the zero value has no permissions.
func AuthFromContext(ctx context.Context) AuthContext {
	auth, _ := ctx.Value(authContextKey{}).(AuthContext)
	return auth
}
