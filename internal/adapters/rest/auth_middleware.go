package rest

import (
	"context"
	"net/http"

	"listings-service/internal/core/domain"

	"github.com/google/uuid"
)

// Определяем кастомный тип для ключа контекста, чтобы избежать коллизий.
type contextKey string

const callerKey = contextKey("caller")

// AuthMiddleware - middleware для извлечения идентичности вызывающего
// из заголовков. Заголовки проставляет api-gateway после проверки
// учетных данных, сам сервис токены не разбирает.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			WriteJSONError(w, http.StatusUnauthorized, "X-User-ID header is missing")
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			WriteJSONError(w, http.StatusUnauthorized, "Invalid X-User-ID header format")
			return
		}

		caller := domain.Caller{
			ID:   userID,
			Role: r.Header.Get("X-User-Role"),
		}

		// Добавляем идентичность в контекст запроса
		ctx := context.WithValue(r.Context(), callerKey, caller)

		// Передаем управление следующему обработчику в цепочке с новым контекстом
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CallerFromContext извлекает идентичность вызывающего из контекста.
func CallerFromContext(ctx context.Context) (domain.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(domain.Caller)
	return caller, ok
}
