package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
)

// UserIDHeader заголовок с ID пользователя, проставляемый API-шлюзом
const UserIDHeader = "X-User-ID"

const msgUnauthorized = "отсутствует или некорректен заголовок X-User-ID"

type userIDKey struct{}

// Auth требует валидный X-User-ID и кладет его в контекст
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get(UserIDHeader), 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WithUserID кладет ID пользователя в контекст
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// GetUserID достает ID пользователя, проставленный Auth
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey{}).(int64)
	return userID, ok
}
