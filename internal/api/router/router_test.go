package router_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boardcamp/internal/api/catalog"
	"boardcamp/internal/api/customer"
	"boardcamp/internal/api/rental"
	"boardcamp/internal/api/router"
	"boardcamp/internal/domain"
	"boardcamp/internal/pkg/logger"
	"boardcamp/internal/pkg/metrics"
	"boardcamp/internal/pkg/middleware"
	"boardcamp/internal/pkg/validation"
	"boardcamp/internal/service/catalogservice"
	"boardcamp/internal/service/customerservice"
	"boardcamp/internal/service/rentalservice"
)

type fakeDB struct{ err error }

func (f fakeDB) PingContext(context.Context) error { return f.err }

type app struct {
	server *httptest.Server
	now    time.Time
}

func newApp(t *testing.T, opts ...func(*router.Options)) *app {
	t.Helper()
	a := &app{now: time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)}

	log := logger.NewLogger("error")
	store := newMemoryStore()
	v := validation.NewWithClock(func() time.Time { return a.now })
	m := metrics.New(prometheus.NewRegistry())

	catalogSvc := catalogservice.NewService(memCategories{store}, memGames{store}, v, log)
	customerSvc := customerservice.NewService(memCustomers{store}, v, log)
	rentalSvc := rentalservice.NewService(memRentals{store}, v, log,
		rentalservice.WithClock(func() time.Time { return a.now }),
		rentalservice.WithRecorder(m))

	options := router.Options{
		Logger:             log,
		Metrics:            m,
		DB:                 fakeDB{},
		CORSAllowedOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(&options)
	}

	handler := router.NewRouter(router.Handlers{
		Catalog:  catalog.NewHandler(catalogSvc, log),
		Customer: customer.NewHandler(customerSvc, log),
		Rental:   rental.NewHandler(rentalSvc, log),
	}, options)

	a.server = httptest.NewServer(handler)
	t.Cleanup(a.server.Close)
	return a
}

func (a *app) do(t *testing.T, method, path, body string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestEndToEnd_RentalFlow(t *testing.T) {
	a := newApp(t)

	status, _ := a.do(t, http.MethodPost, "/categories", `{"name":"Strategy"}`)
	require.Equal(t, http.StatusCreated, status)

	_, body := a.do(t, http.MethodGet, "/categories", "")
	var categories []domain.Category
	require.NoError(t, json.Unmarshal([]byte(body), &categories))
	require.Len(t, categories, 1)

	status, _ = a.do(t, http.MethodPost, "/games", fmt.Sprintf(
		`{"name":"Catan","image":"http://x/img.png","stockTotal":1,"categoryId":%d,"pricePerDay":1000}`, categories[0].ID))
	require.Equal(t, http.StatusCreated, status)

	_, body = a.do(t, http.MethodGet, "/games", "")
	var games []domain.Game
	require.NoError(t, json.Unmarshal([]byte(body), &games))
	require.Len(t, games, 1)
	assert.Equal(t, "Strategy", games[0].CategoryName)

	status, _ = a.do(t, http.MethodPost, "/customers",
		`{"name":"Ana","phone":"11999999999","cpf":"12345678901","birthday":"1990-01-01"}`)
	require.Equal(t, http.StatusCreated, status)

	_, body = a.do(t, http.MethodGet, "/customers", "")
	var customers []domain.Customer
	require.NoError(t, json.Unmarshal([]byte(body), &customers))
	require.Len(t, customers, 1)

	rentalBody := fmt.Sprintf(`{"customerId":%d,"gameId":%d,"daysRented":3}`, customers[0].ID, games[0].ID)
	status, _ = a.do(t, http.MethodPost, "/rentals", rentalBody)
	require.Equal(t, http.StatusCreated, status)

	status, body = a.do(t, http.MethodPost, "/rentals", rentalBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "NO_STOCK")

	_, body = a.do(t, http.MethodGet, fmt.Sprintf("/rentals?customerId=%d", customers[0].ID), "")
	var rentals []domain.Rental
	require.NoError(t, json.Unmarshal([]byte(body), &rentals))
	require.Len(t, rentals, 1)
	assert.Equal(t, int64(3000), rentals[0].OriginalPrice)
	assert.Equal(t, "2024-06-15", rentals[0].RentDate.String())
	assert.Nil(t, rentals[0].ReturnDate)
	assert.Nil(t, rentals[0].DelayFee)

	id := rentals[0].ID
	status, _ = a.do(t, http.MethodDelete, fmt.Sprintf("/rentals/%d", id), "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = a.do(t, http.MethodPost, fmt.Sprintf("/rentals/%d/return", id), "")
	require.Equal(t, http.StatusCreated, status)

	_, body = a.do(t, http.MethodGet, "/rentals", "")
	rentals = nil
	require.NoError(t, json.Unmarshal([]byte(body), &rentals))
	require.NotNil(t, rentals[0].DelayFee)
	assert.Equal(t, int64(0), *rentals[0].DelayFee)

	status, _ = a.do(t, http.MethodPost, fmt.Sprintf("/rentals/%d/return", id), "")
	assert.Equal(t, http.StatusConflict, status)

	status, _ = a.do(t, http.MethodDelete, fmt.Sprintf("/rentals/%d", id), "")
	assert.Equal(t, http.StatusCreated, status)

	_, body = a.do(t, http.MethodGet, "/rentals", "")
	assert.JSONEq(t, `[]`, body)

	status, _ = a.do(t, http.MethodDelete, fmt.Sprintf("/rentals/%d", id), "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCustomers_CPFUniqueness(t *testing.T) {
	a := newApp(t)

	status, _ := a.do(t, http.MethodPost, "/customers", `{"name":"Ana","phone":"11999999999","cpf":"12345678901","birthday":"1990-01-01"}`)
	require.Equal(t, http.StatusCreated, status)
	status, _ = a.do(t, http.MethodPost, "/customers", `{"name":"Bia","phone":"11988888888","cpf":"10987654321","birthday":"1991-02-02"}`)
	require.Equal(t, http.StatusCreated, status)

	status, _ = a.do(t, http.MethodPost, "/customers", `{"name":"Outra","phone":"11977777777","cpf":"12345678901","birthday":"1990-01-01"}`)
	assert.Equal(t, http.StatusConflict, status)

	_, body := a.do(t, http.MethodGet, "/customers", "")
	var customers []domain.Customer
	require.NoError(t, json.Unmarshal([]byte(body), &customers))
	ana, bia := customers[0], customers[1]

	status, _ = a.do(t, http.MethodPut, fmt.Sprintf("/customers/%d", bia.ID),
		`{"name":"Bia","phone":"11988888888","cpf":"12345678901","birthday":"1991-02-02"}`)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = a.do(t, http.MethodPut, fmt.Sprintf("/customers/%d", ana.ID),
		`{"name":"Ana Maria","phone":"11999999999","cpf":"12345678901","birthday":"1990/01/01"}`)
	assert.Equal(t, http.StatusOK, status)

	status, body = a.do(t, http.MethodGet, fmt.Sprintf("/customers/%d", ana.ID), "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, fmt.Sprintf(
		`[{"id":%d,"name":"Ana Maria","phone":"11999999999","cpf":"12345678901","birthday":"1990-01-01"}]`, ana.ID), body)

	status, _ = a.do(t, http.MethodPut, "/customers/999",
		`{"name":"Zé","phone":"11966666666","cpf":"11111111111","birthday":"1990-01-01"}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRoutes_ErrorShapes(t *testing.T) {
	a := newApp(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"categoria duplicada", http.MethodPost, "/categories", `{"name":"Strategy"}`, http.StatusConflict},
		{"categoria vazia", http.MethodPost, "/categories", `{"name":""}`, http.StatusBadRequest},
		{"jogo com categoria inexistente", http.MethodPost, "/games", `{"name":"War","image":"http://x/w.png","stockTotal":1,"categoryId":999,"pricePerDay":100}`, http.StatusBadRequest},
		{"cliente inexistente", http.MethodGet, "/customers/999", "", http.StatusNotFound},
		{"id não numérico", http.MethodGet, "/customers/abc", "", http.StatusBadRequest},
		{"devolução de aluguel inexistente", http.MethodPost, "/rentals/999/return", "", http.StatusNotFound},
		{"id acima de 32 bits", http.MethodGet, "/customers/3000000000", "", http.StatusNotFound},
		{"preço diário acima do limite", http.MethodPost, "/games", `{"name":"Caro","image":"http://x/c.png","stockTotal":1,"categoryId":1,"pricePerDay":3000000000}`, http.StatusBadRequest},
		{"dias de aluguel acima do limite", http.MethodPost, "/rentals", `{"customerId":1,"gameId":1,"daysRented":3000000000}`, http.StatusBadRequest},
		{"aluguel para jogo inexistente", http.MethodPost, "/rentals", `{"customerId":1,"gameId":999,"daysRented":1}`, http.StatusBadRequest},
		{"rota desconhecida", http.MethodGet, "/nada", "", http.StatusNotFound},
		{"método não permitido", http.MethodPatch, "/categories", "", http.StatusMethodNotAllowed},
	}

	status, _ := a.do(t, http.MethodPost, "/categories", `{"name":"Strategy"}`)
	require.Equal(t, http.StatusCreated, status)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := a.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestInfrastructureRoutes(t *testing.T) {
	a := newApp(t)

	status, body := a.do(t, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pong", body)

	status, _ = a.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)

	a.do(t, http.MethodGet, "/categories", "")
	status, body = a.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `boardcamp_http_requests_total{method="GET",route="GET /categories",status="200"} 1`)

	status, body = a.do(t, http.MethodGet, "/swagger/doc.json", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"/rentals/{id}/return"`)
}

func TestHealth_DatabaseDown(t *testing.T) {
	a := newApp(t, func(o *router.Options) { o.DB = fakeDB{err: errors.New("conexão recusada")} })

	status, _ := a.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestCORS_Preflight(t *testing.T) {
	a := newApp(t)

	req, err := http.NewRequest(http.MethodOptions, a.server.URL+"/rentals", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	limiter := middleware.NewLocalRateLimiter(2, time.Hour)
	a := newApp(t, func(o *router.Options) { o.RateLimit = limiter.Middleware() })

	for i := 0; i < 2; i++ {
		status, _ := a.do(t, http.MethodGet, "/ping", "")
		require.Equal(t, http.StatusOK, status)
	}
	status, body := a.do(t, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Contains(t, body, "RATE_LIMITED")
}
