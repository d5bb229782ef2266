package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"boardcamp/internal/pkg/logger"
)

type contextKey int

const requestIDKey contextKey = iota

// RequestIDHeader é o header usado para propagar o identificador da requisição.
const RequestIDHeader = "X-Request-ID"

// RequestIDFromContext devolve o id anexado por RequestLogger.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// RequestLogger gera (ou reaproveita) o X-Request-ID e registra cada requisição.
// 4xx e 5xx saem em nível Warn; a causa de um 5xx é registrada por quem o produziu.
func RequestLogger(log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey, id))

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			fields := map[string]interface{}{
				"request_id":    id,
				"method":        r.Method,
				"path":          r.URL.Path,
				"query":         r.URL.RawQuery,
				"status":        rec.status,
				"duration_ms":   time.Since(start).Milliseconds(),
				"ip":            clientIP(r),
				"response_size": rec.bytes,
			}
			if rec.status >= http.StatusBadRequest {
				log.Warn("Requisição HTTP", fields)
				return
			}
			log.Info("Requisição HTTP", fields)
		})
	}
}
