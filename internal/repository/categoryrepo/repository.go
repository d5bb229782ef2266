package categoryrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"boardcamp/internal/domain"
	apperror "boardcamp/internal/errors"
	"boardcamp/internal/pkg/cache"
	"boardcamp/internal/pkg/database"
	"boardcamp/internal/pkg/logger"
)

// CacheKey guarda a listagem completa de categorias.
const CacheKey = "categories:all"

// CategoryRepository implementa domain.CategoryRepository sobre PostgreSQL,
// com cache-aside da listagem.
type CategoryRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewCategoryRepository cria e retorna uma nova instância do Repositório de Categorias.
func NewCategoryRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *CategoryRepository {
	return &CategoryRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// FindAll lista todas as categorias (cache-aside).
func (r *CategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	// 1. Tentar obter do Cache
	cached, err := r.Cache.Get(ctxTimeout, CacheKey)
	if err == nil {
		var categories []domain.Category
		if json.Unmarshal([]byte(cached), &categories) == nil {
			r.logger.Debug("Cache HIT: categorias.", nil)
			return categories, nil
		}
		r.logger.Warn("Falha ao desserializar categorias do cache.", nil)
	} else if err != cache.ErrCacheMiss {
		r.logger.Warn("Falha ao ler categorias do cache.", map[string]interface{}{"error": err.Error()})
	}

	// 2. Busca no Banco de Dados
	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		r.logger.Error("Falha ao listar categorias no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar categorias", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			r.logger.Error("Falha ao ler linha de categoria.", err)
			return nil, apperror.NewDBError("Falha ao ler categoria", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar categorias", err)
	}

	// 3. Popular o cache para as próximas requisições
	if payload, err := json.Marshal(categories); err == nil {
		if err := r.Cache.Set(ctxTimeout, CacheKey, payload, r.CacheTTL); err != nil {
			r.logger.Warn("Falha ao gravar categorias no cache.", map[string]interface{}{"error": err.Error()})
		}
	}

	return categories, nil
}

// FindByName busca uma categoria pelo nome exato.
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (domain.Category, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var c domain.Category
	err := r.DB.QueryRowContext(ctxTimeout, `SELECT id, name FROM categories WHERE name = $1`, name).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, apperror.NewNotFoundError(fmt.Sprintf("Categoria '%s' não encontrada.", name))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar categoria por nome no DB.", err)
		return domain.Category{}, apperror.NewDBError("Falha ao buscar categoria", err)
	}
	return c, nil
}

// Save insere a categoria e invalida a listagem em cache.
func (r *CategoryRepository) Save(ctx context.Context, category domain.Category) (domain.Category, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	err := r.DB.QueryRowContext(ctxTimeout,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`, category.Name,
	).Scan(&category.ID)
	if database.IsUniqueViolation(err) {
		return domain.Category{}, apperror.NewConflictError(fmt.Sprintf("A categoria '%s' já existe.", category.Name))
	}
	if err != nil {
		r.logger.Error("Falha ao inserir categoria no DB.", err)
		return domain.Category{}, apperror.NewDBError("Falha ao criar categoria", err)
	}

	if err := r.Cache.Delete(ctxTimeout, CacheKey); err != nil {
		r.logger.Warn("Falha ao invalidar cache de categorias.", map[string]interface{}{"error": err.Error()})
	}

	r.logger.Info("Categoria criada com sucesso.", map[string]interface{}{"id": category.ID, "name": category.Name})
	return category, nil
}
