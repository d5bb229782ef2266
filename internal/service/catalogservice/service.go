package catalogservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"boardcamp/internal/domain"
	apperror "boardcamp/internal/errors"
	"boardcamp/internal/pkg/logger"
	"boardcamp/internal/pkg/validation"
)

// Service implementa as regras do catálogo (categorias e jogos).
type Service struct {
	categories domain.CategoryRepository
	games      domain.GameRepository
	validator  *validation.Validator
	logger     logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Catálogo.
func NewService(categories domain.CategoryRepository, games domain.GameRepository, validator *validation.Validator, logger logger.Logger) *Service {
	return &Service{
		categories: categories,
		games:      games,
		validator:  validator,
		logger:     logger,
	}
}

// ListCategories devolve todas as categorias.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.FindAll(ctx)
}

// CreateCategory cria uma categoria com nome único.
func (s *Service) CreateCategory(ctx context.Context, input domain.CategoryInput) (domain.Category, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := s.validator.Struct(input, "Dados da categoria inválidos."); err != nil {
		return domain.Category{}, err
	}

	_, err := s.categories.FindByName(ctx, input.Name)
	if err == nil {
		s.logger.Warn("Categoria duplicada.", map[string]interface{}{"name": input.Name})
		return domain.Category{}, apperror.NewConflictError(fmt.Sprintf("A categoria '%s' já existe.", input.Name))
	}
	if !isNotFound(err) {
		return domain.Category{}, err
	}

	return s.categories.Save(ctx, domain.Category{Name: input.Name})
}

// ListGames devolve todos os jogos com o nome da categoria.
func (s *Service) ListGames(ctx context.Context) ([]domain.Game, error) {
	return s.games.FindAll(ctx)
}

// CreateGame cria um jogo. A categoria precisa existir e o nome precisa ser único.
func (s *Service) CreateGame(ctx context.Context, input domain.GameInput) (domain.Game, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := s.validator.Struct(input, "Dados do jogo inválidos."); err != nil {
		return domain.Game{}, err
	}

	exists, err := s.games.CategoryExists(ctx, input.CategoryID)
	if err != nil {
		return domain.Game{}, err
	}
	if !exists {
		return domain.Game{}, apperror.NewFieldValidationError(
			fmt.Sprintf("A categoria %d não existe.", input.CategoryID),
			map[string]string{"categoryId": "categoria inexistente"},
		)
	}

	_, err = s.games.FindByName(ctx, input.Name)
	if err == nil {
		s.logger.Warn("Jogo duplicado.", map[string]interface{}{"name": input.Name})
		return domain.Game{}, apperror.NewConflictError(fmt.Sprintf("O jogo '%s' já existe.", input.Name))
	}
	if !isNotFound(err) {
		return domain.Game{}, err
	}

	return s.games.Save(ctx, domain.Game{
		Name:        input.Name,
		Image:       input.Image,
		StockTotal:  input.StockTotal,
		CategoryID:  input.CategoryID,
		PricePerDay: input.PricePerDay,
	})
}

func isNotFound(err error) bool {
	var notFound *apperror.NotFoundError
	return errors.As(err, &notFound)
}
