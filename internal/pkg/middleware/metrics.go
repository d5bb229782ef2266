package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"boardcamp/internal/pkg/metrics"
)

type routeKey struct{}

// Metrics registra contagem e latência por rota.
// Deve ser o middleware mais externo, para contar também as respostas do rate
// limiter e do Recoverer. A rota só é conhecida se o mux estiver envolvido por
// CaptureRoute; caso contrário a requisição é contada como "unmatched".
func Metrics(m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			route := new(string)

			defer func() {
				label := *route
				if label == "" {
					label = "unmatched"
				}
				m.HTTPRequestsTotal.WithLabelValues(r.Method, label, strconv.Itoa(rec.status)).Inc()
				m.HTTPRequestDuration.WithLabelValues(r.Method, label).Observe(time.Since(start).Seconds())
			}()

			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), routeKey{}, route)))
		})
	}
}

// CaptureRoute envolve o ServeMux e devolve ao Metrics o padrão da rota
// (r.Pattern), que o mux só preenche na requisição que ele recebe.
func CaptureRoute(mux http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, _ := r.Context().Value(routeKey{}).(*string)
		if route != nil {
			defer func() { *route = r.Pattern }()
		}
		mux.ServeHTTP(w, r)
	})
}
