package rental

import (
	"context"
	"net/http"

	"boardcamp/internal/api/response"
	"boardcamp/internal/domain"
	"boardcamp/internal/pkg/logger"
)

// RentalService define o contrato que o Handler espera da camada de Serviço.
type RentalService interface {
	List(ctx context.Context, filter domain.RentalFilter) ([]domain.Rental, error)
	Create(ctx context.Context, input domain.RentalInput) (domain.Rental, error)
	Return(ctx context.Context, id int64) (domain.Rental, error)
	Delete(ctx context.Context, id int64) error
}

// Handler agrupa os handlers de aluguéis.
type Handler struct {
	Service RentalService
	Logger  logger.Logger
	resp    *response.Writer
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc RentalService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
		resp:    response.NewWriter(log),
	}
}

// ListRentalsHandler lida com a requisição GET /rentals.
// @Summary Lista os aluguéis
// @Description Filtros opcionais por cliente e por jogo (igualdade exata).
// @Tags rentals
// @Produce json
// @Param customerId query int false "ID do cliente"
// @Param gameId query int false "ID do jogo"
// @Success 200 {array} domain.Rental
// @Failure 400 {object} domain.ErrorResponse "Filtro inválido"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /rentals [get]
func (h *Handler) ListRentalsHandler(w http.ResponseWriter, r *http.Request) {
	customerID, err := response.QueryID(r, "customerId")
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	gameID, err := response.QueryID(r, "gameId")
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	rentals, err := h.Service.List(r.Context(), domain.RentalFilter{CustomerID: customerID, GameID: gameID})
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, rentals)
}

// CreateRentalHandler lida com a requisição POST /rentals.
// @Summary Abre um aluguel
// @Tags rentals
// @Accept json
// @Param rental body domain.RentalInput true "Cliente, jogo e dias"
// @Success 201 "Aluguel criado"
// @Failure 400 {object} domain.ErrorResponse "Dados inválidos, cliente/jogo inexistente ou sem estoque"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /rentals [post]
func (h *Handler) CreateRentalHandler(w http.ResponseWriter, r *http.Request) {
	var input domain.RentalInput
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

// ReturnRentalHandler lida com a requisição POST /rentals/{id}/return.
// @Summary Devolve um aluguel
// @Tags rentals
// @Param id path int true "ID do aluguel"
// @Success 201 "Aluguel devolvido"
// @Failure 400 {object} domain.ErrorResponse "ID inválido"
// @Failure 404 {object} domain.ErrorResponse "Aluguel não encontrado"
// @Failure 409 {object} domain.ErrorResponse "Aluguel já devolvido"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /rentals/{id}/return [post]
func (h *Handler) ReturnRentalHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if _, err := h.Service.Return(r.Context(), id); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusCreated, nil)
}

// DeleteRentalHandler lida com a requisição DELETE /rentals/{id}.
// @Summary Exclui um aluguel devolvido
// @Tags rentals
// @Param id path int true "ID do aluguel"
// @Success 201 "Aluguel excluído"
// @Failure 400 {object} domain.ErrorResponse "ID inválido ou aluguel em aberto"
// @Failure 404 {object} domain.ErrorResponse "Aluguel não encontrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /rentals/{id} [delete]
func (h *Handler) DeleteRentalHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusCreated, nil)
}
