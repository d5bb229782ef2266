package router

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "boardcamp/docs"
	"boardcamp/internal/api/catalog"
	"boardcamp/internal/api/customer"
	"boardcamp/internal/api/rental"
	"boardcamp/internal/pkg/logger"
	"boardcamp/internal/pkg/metrics"
	"boardcamp/internal/pkg/middleware"
)

// Pinger é o que o /health precisa do banco (satisfeito por *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers reúne os handlers já inicializados por injeção de dependências.
type Handlers struct {
	Catalog  *catalog.Handler
	Customer *customer.Handler
	Rental   *rental.Handler
}

// Options configura a infraestrutura em volta das rotas.
type Options struct {
	Logger             logger.Logger
	Metrics            *metrics.Metrics
	DB                 Pinger
	RateLimit          middleware.Middleware // nil desliga
	CORSAllowedOrigins []string
}

// NewRouter configura e retorna o roteador HTTP principal com os middlewares globais.
func NewRouter(h Handlers, opts Options) http.Handler {
	mux := http.NewServeMux()

	// --- 1. Health check e infraestrutura ---
	mux.HandleFunc("GET /ping", PingHandler)
	mux.HandleFunc("GET /health", HealthHandler(opts.DB))
	mux.Handle("GET /metrics", opts.Metrics.Handler())
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// --- 2. Catálogo ---
	mux.HandleFunc("GET /categories", h.Catalog.ListCategoriesHandler)
	mux.HandleFunc("POST /categories", h.Catalog.CreateCategoryHandler)
	mux.HandleFunc("GET /games", h.Catalog.ListGamesHandler)
	mux.HandleFunc("POST /games", h.Catalog.CreateGameHandler)

	// --- 3. Clientes ---
	mux.HandleFunc("GET /customers", h.Customer.ListCustomersHandler)
	mux.HandleFunc("GET /customers/{id}", h.Customer.GetCustomerHandler)
	mux.HandleFunc("POST /customers", h.Customer.CreateCustomerHandler)
	mux.HandleFunc("PUT /customers/{id}", h.Customer.UpdateCustomerHandler)

	// --- 4. Aluguéis ---
	mux.HandleFunc("GET /rentals", h.Rental.ListRentalsHandler)
	mux.HandleFunc("POST /rentals", h.Rental.CreateRentalHandler)
	mux.HandleFunc("POST /rentals/{id}/return", h.Rental.ReturnRentalHandler)
	mux.HandleFunc("DELETE /rentals/{id}", h.Rental.DeleteRentalHandler)

	// --- 5. Middlewares globais (o primeiro é o mais externo) ---
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: opts.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
	}).Handler

	chain := []middleware.Middleware{
		middleware.Metrics(opts.Metrics),
		middleware.Recoverer(opts.Logger),
		middleware.RequestLogger(opts.Logger),
		corsHandler,
	}
	if opts.RateLimit != nil {
		chain = append(chain, opts.RateLimit)
	}

	return middleware.Chain(middleware.CaptureRoute(mux), chain...)
}

// PingHandler responde "pong".
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

// HealthHandler verifica a conexão com o banco.
func HealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := db.PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}
