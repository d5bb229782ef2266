package customer

import (
	"context"
	"net/http"

	"boardcamp/internal/api/response"
	"boardcamp/internal/domain"
	"boardcamp/internal/pkg/logger"
)

// CustomerService define o contrato que o Handler espera da camada de Serviço.
type CustomerService interface {
	List(ctx context.Context) ([]domain.Customer, error)
	Get(ctx context.Context, id int64) (domain.Customer, error)
	Create(ctx context.Context, input domain.CustomerInput) (domain.Customer, error)
	Update(ctx context.Context, id int64, input domain.CustomerInput) (domain.Customer, error)
}

// Handler agrupa os handlers de clientes.
type Handler struct {
	Service CustomerService
	Logger  logger.Logger
	resp    *response.Writer
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc CustomerService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
		resp:    response.NewWriter(log),
	}
}

// ListCustomersHandler lida com a requisição GET /customers.
// @Summary Lista os clientes
// @Tags customers
// @Produce json
// @Success 200 {array} domain.Customer
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /customers [get]
func (h *Handler) ListCustomersHandler(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Service.List(r.Context())
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, customers)
}

// GetCustomerHandler lida com a requisição GET /customers/{id}.
// A resposta é um array com um único cliente.
// @Summary Busca um cliente por id
// @Tags customers
// @Produce json
// @Param id path int true "ID do cliente"
// @Success 200 {array} domain.Customer
// @Failure 400 {object} domain.ErrorResponse "ID inválido"
// @Failure 404 {object} domain.ErrorResponse "Cliente não encontrado"
// @Router /customers/{id} [get]
func (h *Handler) GetCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	customer, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, []domain.Customer{customer})
}

// CreateCustomerHandler lida com a requisição POST /customers.
// @Summary Cadastra um cliente
// @Tags customers
// @Accept json
// @Param customer body domain.CustomerInput true "Dados do cliente"
// @Success 201 "Cliente criado"
// @Failure 400 {object} domain.ErrorResponse "Dados inválidos"
// @Failure 409 {object} domain.ErrorResponse "CPF já cadastrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /customers [post]
func (h *Handler) CreateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var input domain.CustomerInput
	if err := response.Decode(r, &input); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if _, err := h.Service.Create(r.Context(), input); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusCreated, nil)
}

// UpdateCustomerHandler lida com a requisição PUT /customers/{id}.
// @Summary Atualiza um cliente
// @Tags customers
// @Accept json
// @Param id path int true "ID do cliente"
// @Param customer body domain.CustomerInput true "Dados do cliente"
// @Success 200 "Cliente atualizado"
// @Failure 400 {object} domain.ErrorResponse "Dados inválidos"
// @Failure 404 {object} domain.ErrorResponse "Cliente não encontrado"
// @Failure 409 {object} domain.ErrorResponse "CPF pertence a outro cliente"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /customers/{id} [put]
func (h *Handler) UpdateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	var input domain.CustomerInput
	if err := response.Decode(r, &input); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if _, err := h.Service.Update(r.Context(), id, input); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, nil)
}
