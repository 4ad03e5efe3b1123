package server

import (
	"context"
	"net/http"

	"github.com/hanbitworks/backoffice/pkg/sessionid"
)

const sessionCookieName = "bo_sid"

type sessionContextKey struct{}

func withSessionID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sid)
}

func currentSessionID(ctx context.Context) (string, bool) {
	v := ctx.Value(sessionContextKey{})
	if v == nil {
		return "", false
	}
	sid, ok := v.(string)
	return sid, ok && sid != ""
}

// withSession assigns a session id cookie on first contact. The id
// scopes the durable draft area; losing the cookie means losing
// unsaved drafts, nothing more.
func withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if c, err := r.Cookie(sessionCookieName); err == nil {
			sid = c.Value
		}
		if sid == "" {
			generated, err := sessionid.NewString()
			if err != nil {
				writeError(w, r, http.StatusInternalServerError, "session_error", "session error")
				return
			}
			sid = generated
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(withSessionID(r.Context(), sid)))
	})
}
