package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"budget-planner-server/src/session"
)

// SessionCookieName is the cookie carrying the opaque session id.
const SessionCookieName = "session_id"

// SessionAuthMiddleware resolves the session cookie and threads the
// authenticated user into the request context. The acting user id only ever
// comes from here, never from a request payload.
func SessionAuthMiddleware(sessions session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthenticated(w)
				return
			}

			sess, ok := sessions.Resolve(cookie.Value)
			if !ok {
				unauthenticated(w)
				return
			}

			ctx := context.WithValue(r.Context(), "user_id", sess.UserID)
			ctx = context.WithValue(ctx, "email", sess.Email)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": "unauthenticated"})
}
