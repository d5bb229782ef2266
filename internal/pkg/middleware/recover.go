package middleware

import (
	"fmt"
	"net/http"

	apperror "boardcamp/internal/errors"
	"boardcamp/internal/pkg/logger"
)

// Recoverer transforma um panic em 500 com o corpo de erro padrão.
func Recoverer(log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rv := recover(); rv != nil {
					if rv == http.ErrAbortHandler {
						panic(rv)
					}
					log.Error("Panic recuperado no handler.", fmt.Errorf("%v (path %s)", rv, r.URL.Path))
					writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", apperror.GenericMessage)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
