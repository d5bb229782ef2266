package catalog

import (
	"context"
	"net/http"

	"boardcamp/internal/api/response"
	"boardcamp/internal/domain"
	"boardcamp/internal/pkg/logger"
)

// CatalogService define o contrato que o Handler espera da camada de Serviço.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, input domain.CategoryInput) (domain.Category, error)
	ListGames(ctx context.Context) ([]domain.Game, error)
	CreateGame(ctx context.Context, input domain.GameInput) (domain.Game, error)
}

// Handler agrupa os handlers de categorias e jogos.
type Handler struct {
	Service CatalogService
	Logger  logger.Logger
	resp    *response.Writer
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc CatalogService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
		resp:    response.NewWriter(log),
	}
}

// ListCategoriesHandler lida com a requisição GET /categories.
// @Summary Lista as categorias
// @Tags categories
// @Produce json
// @Success 200 {array} domain.Category
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /categories [get]
func (h *Handler) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.ListCategories(r.Context())
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, categories)
}

// CreateCategoryHandler lida com a requisição POST /categories.
// @Summary Cria uma categoria
// @Tags categories
// @Accept json
// @Param category body domain.CategoryInput true "Nome da categoria"
// @Success 201 "Categoria criada"
// @Failure 400 {object} domain.ErrorResponse "Nome vazio"
// @Failure 409 {object} domain.ErrorResponse "Categoria já existe"
// @Router /categories [post]
func (h *Handler) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var input domain.CategoryInput
	if err := response.Decode(r, &input); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if _, err := h.Service.CreateCategory(r.Context(), input); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusCreated, nil)
}

// ListGamesHandler lida com a requisição GET /games.
// @Summary Lista os jogos
// @Description Cada jogo traz o nome da sua categoria em categoryName.
// @Tags games
// @Produce json
// @Success 200 {array} domain.Game
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /games [get]
func (h *Handler) ListGamesHandler(w http.ResponseWriter, r *http.Request) {
	games, err := h.Service.ListGames(r.Context())
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusOK, games)
}

// CreateGameHandler lida com a requisição POST /games.
// @Summary Cria um jogo
// @Tags games
// @Accept json
// @Param game body domain.GameInput true "Dados do jogo"
// @Success 201 "Jogo criado"
// @Failure 400 {object} domain.ErrorResponse "Dados inválidos ou categoria inexistente"
// @Failure 409 {object} domain.ErrorResponse "Jogo já existe"
// @Router /games [post]
func (h *Handler) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	var input domain.GameInput
	if err := response.Decode(r, &input); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	if _, err := h.Service.CreateGame(r.Context(), input); err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.JSON(w, http.StatusCreated, nil)
}
