package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/GoArmGo/BookCatalog/internal/apperr"
	"github.com/GoArmGo/BookCatalog/internal/domain"
)

// TokenVerifier проверяет bearer-токен и возвращает личность
// вызывающего.
type TokenVerifier interface {
	VerifyToken(token string) (*domain.Identity, error)
}

type contextKey string

const identityContextKey contextKey = "identity"

// IdentityFromContext достаёт личность вызывающего, положенную
// Authenticate. Второе значение false означает, что запрос
// не проходил через аутентификацию.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(domain.Identity)
	return identity, ok
}

// Authenticate — middleware аутентификации для мутирующих маршрутов.
// Отсутствующий заголовок и дефектный токен — Unauthorized,
// заголовок не по схеме Bearer — InvalidArgument.
func Authenticate(tokens TokenVerifier, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respondErrorMessage(w, apperr.KindUnauthorized, "no auth header present", logger)
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondErrorMessage(w, apperr.KindInvalidArgument, "no Bearer token", logger)
				return
			}

			identity, err := tokens.VerifyToken(parts[1])
			if err != nil {
				respondError(w, err, logger)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, *identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger — middleware для логирования HTTP-запросов.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Оборачиваем ResponseWriter, чтобы знать статус
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration_ms", duration.Milliseconds(),
			)
		})
	}
}

// responseWriter нужен, чтобы перехватывать код ответа
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
