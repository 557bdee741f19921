package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"tennisclub/internal/adapters/storage/session"
	"tennisclub/internal/domain/player"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const playerContextKey contextKey = "player"

const sessionCookieName = "tennisclub_session"

// SecureCookies controls the Secure flag on the session cookie. Set to true
// when serving over TLS.
var SecureCookies = false

// Auth returns middleware that resolves the session cookie against the store
// and sets the player in context. It does NOT block unauthenticated
// requests; use RequireAuth or RequireRole for that.
func Auth(sessions session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				p, ok, err := sessions.Get(r.Context(), cookie.Value)
				if err != nil {
					slog.Error("auth_event", "event", "session_lookup_failed", "error", err)
				} else if ok {
					r = r.WithContext(ContextWithPlayer(r.Context(), p))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns middleware that redirects unauthenticated requests to
// the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetPlayerFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole returns middleware that blocks players without one of the
// given papel values. Unauthenticated requests are redirected to login;
// authenticated players with the wrong papel get 403.
func RequireRole(papeis ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(papeis))
	for _, p := range papeis {
		allowed[p] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := GetPlayerFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if !allowed[p.Papel] {
				http.Error(w, "Acesso negado", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetPlayerFromContext extracts the authenticated player from the request
// context.
func GetPlayerFromContext(ctx context.Context) (player.Player, bool) {
	p, ok := ctx.Value(playerContextKey).(player.Player)
	return p, ok
}

// IsLoggedIn reports whether the request carries an authenticated player.
func IsLoggedIn(ctx context.Context) bool {
	_, ok := GetPlayerFromContext(ctx)
	return ok
}

// IsProfessor reports whether the authenticated player is an instructor.
func IsProfessor(ctx context.Context) bool {
	p, ok := GetPlayerFromContext(ctx)
	return ok && p.IsProfessor()
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   86400, // matches the store's 24h TTL
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// SessionToken returns the raw session token from the request cookie, if any.
func SessionToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// ContextWithPlayer returns a context with the given player set.
// Intended for use in tests and by Auth.
func ContextWithPlayer(ctx context.Context, p player.Player) context.Context {
	return context.WithValue(ctx, playerContextKey, p)
}
