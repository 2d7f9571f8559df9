package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"busynessBuster/internal/logger"
	"busynessBuster/internal/models/user"
	"busynessBuster/internal/service"

	"go.uber.org/zap"
)

const currentUserKey contextKey = "current_user"

// TokenValidator — кусок AuthService, нужный воротам.
type TokenValidator interface {
	ValidateToken(token string) (*service.Claims, error)
}

// UserResolver — поиск пользователя по subject токена.
type UserResolver interface {
	GetUserByID(ctx context.Context, id int64) (*user.User, error)
}

// Auth — ворота доступа: bearer-токен из заголовка, проверка подписи и
// срока, резолв пользователя. Все отказы — одинаковый 401: «токен
// валиден, но пользователь удалён» снаружи неотличим от плохого токена.
func Auth(tokens TokenValidator, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				logger.Warn("HTTP: Запрос без bearer-токена",
					zap.String("path", r.URL.Path),
					zap.String("client_ip", r.RemoteAddr))
				respondUnauthorized(w, r)
				return
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				logger.Warn("HTTP: Невалидный токен",
					zap.String("path", r.URL.Path),
					zap.String("client_ip", r.RemoteAddr))
				respondUnauthorized(w, r)
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				respondUnauthorized(w, r)
				return
			}

			u, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				logger.Warn("HTTP: Subject токена не найден",
					zap.Int64("user_id", userID),
					zap.String("client_ip", r.RemoteAddr))
				respondUnauthorized(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), currentUserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser достаёт аутентифицированного пользователя, положенного Auth.
func CurrentUser(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(currentUserKey).(*user.User)
	return u, ok
}

// WithUser нужен тестам хендлеров, чтобы подложить пользователя без
// прохода через ворота.
func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, currentUserKey, u)
}

func respondUnauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"error":      service.CodeAuth,
		"message":    "Неверные учётные данные или токен",
		"request_id": GetRequestID(r.Context()),
	})
}
