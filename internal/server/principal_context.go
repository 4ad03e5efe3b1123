package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/hanbitworks/backoffice/pkg/authz"
)

// Principal is the acting user as asserted by the fronting SSO proxy.
// The proxy strips and re-sets these headers, so inside the network
// they are trusted.
type Principal struct {
	UserID   string
	RoleSlug string
}

const (
	headerAuthUser = "X-Auth-User"
	headerAuthRole = "X-Auth-Role"
)

type principalContextKey struct{}

func withPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

func currentPrincipal(ctx context.Context) (Principal, bool) {
	v := ctx.Value(principalContextKey{})
	if v == nil {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

func principalFromHeaders(r *http.Request) (Principal, bool) {
	user := strings.TrimSpace(r.Header.Get(headerAuthUser))
	if user == "" {
		return Principal{}, false
	}
	role := strings.ToLower(strings.TrimSpace(r.Header.Get(headerAuthRole)))
	if role == "" {
		role = authz.RoleViewer
	}
	return Principal{UserID: user, RoleSlug: role}, true
}

func withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := principalFromHeaders(r); ok {
			r = r.WithContext(withPrincipal(r.Context(), p))
		}
		next.ServeHTTP(w, r)
	})
}

// authorFromContext names the acting user for staged comments.
func authorFromContext(ctx context.Context) string {
	if p, ok := currentPrincipal(ctx); ok {
		return p.UserID
	}
	return "system"
}
