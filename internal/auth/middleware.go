package auth

import (
	"context"
	"net/http"
	"strings"

	mw "github.com/easelhq/easel/internal/middleware"
)

type contextKey string

const UserIDKey contextKey = "userID"

// Middleware rejects requests without a valid Bearer token and stores the
// authenticated user id on the request context.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			mw.RespondError(w, http.StatusUnauthorized, "missing or malformed authorization header")
			return
		}

		userID, err := s.ValidateToken(token)
		if err != nil {
			mw.RespondError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// TokenFromRequest extracts a token for endpoints that cannot send headers,
// such as websocket upgrades: the Authorization header wins, then the
// "token" query parameter.
func TokenFromRequest(r *http.Request) string {
	if token, ok := bearerToken(r); ok {
		return token
	}
	return r.URL.Query().Get("token")
}
