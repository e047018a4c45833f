package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/userauth/internal/models"
	"github.com/iudanet/userauth/pkg/api"
)

type contextKey string

const userKey contextKey = "user"

// SessionResolver находит пользователя по session id
type SessionResolver interface {
	GetUserFromSessionID(ctx context.Context, sessionID string) (*models.User, error)
}

// SessionMiddleware создает middleware, который читает cookie session_id
// и кладет владельца сессии в контекст запроса
// Неизвестная или пустая сессия не ошибка: запрос идет дальше без пользователя
func SessionMiddleware(logger *slog.Logger, resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(api.SessionCookieName)
			if err != nil {
				if !errors.Is(err, http.ErrNoCookie) {
					logger.WarnContext(r.Context(), "Invalid session cookie", slog.Any("error", err))
				}
				next.ServeHTTP(w, r)
				return
			}

			user, err := resolver.GetUserFromSessionID(r.Context(), cookie.Value)
			if err != nil {
				logger.ErrorContext(r.Context(), "Failed to resolve session", slog.Any("error", err))
				writeError(w, api.MessageInternalError, http.StatusInternalServerError)
				return
			}
			if user == nil {
				logger.DebugContext(r.Context(), "Unknown session")
				next.ServeHTTP(w, r)
				return
			}

			logger.DebugContext(r.Context(), "Session resolved", slog.String("user_id", user.ID))

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireSession отвечает 403, если в контексте нет пользователя
// Используется после SessionMiddleware
func RequireSession(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserFromContext(r.Context()); !ok {
				logger.WarnContext(r.Context(), "Missing or invalid session", "path", r.URL.Path)
				writeError(w, api.MessageInvalidSession, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUser возвращает контекст с пользователем
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext извлекает пользователя текущей сессии из контекста
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}
