package gamerepo

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

// CacheKey guarda a listagem completa de jogos (com o nome da categoria).
const CacheKey = "games:all"

const selectGames = `
	SELECT g.id, g.name, g.image, g."stockTotal", g."categoryId", g."pricePerDay", c.name
	FROM games g
	JOIN categories c ON g."categoryId" = c.id`

// GameRepository implementa domain.GameRepository sobre PostgreSQL.
type GameRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewGameRepository cria e retorna uma nova instância do Repositório de Jogos.
func NewGameRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *GameRepository {
	return &GameRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// FindAll lista os jogos com o nome da categoria (cache-aside).
func (r *GameRepository) FindAll(ctx context.Context) ([]domain.Game, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	cached, err := r.Cache.Get(ctxTimeout, CacheKey)
	if err == nil {
		var games []domain.Game
		if json.Unmarshal([]byte(cached), &games) == nil {
			r.logger.Debug("Cache HIT: jogos.", nil)
			return games, nil
		}
		r.logger.Warn("Falha ao desserializar jogos do cache.", nil)
	} else if err != cache.ErrCacheMiss {
		r.logger.Warn("Falha ao ler jogos do cache.", map[string]interface{}{"error": err.Error()})
	}

	rows, err := r.DB.QueryContext(ctxTimeout, selectGames+` ORDER BY g.id`)
	if err != nil {
		r.logger.Error("Falha ao listar jogos no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar jogos", err)
	}
	defer rows.Close()

	games := []domain.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			r.logger.Error("Falha ao ler linha de jogo.", err)
			return nil, apperror.NewDBError("Falha ao ler jogo", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar jogos", err)
	}

	if payload, err := json.Marshal(games); err == nil {
		if err := r.Cache.Set(ctxTimeout, CacheKey, payload, r.CacheTTL); err != nil {
			r.logger.Warn("Falha ao gravar jogos no cache.", map[string]interface{}{"error": err.Error()})
		}
	}

	return games, nil
}

// FindByName busca um jogo pelo nome exato.
func (r *GameRepository) FindByName(ctx context.Context, name string) (domain.Game, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	g, err := scanGame(r.DB.QueryRowContext(ctxTimeout, selectGames+` WHERE g.name = $1`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Game{}, apperror.NewNotFoundError(fmt.Sprintf("Jogo '%s' não encontrado.", name))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar jogo por nome no DB.", err)
		return domain.Game{}, apperror.NewDBError("Falha ao buscar jogo", err)
	}
	return g, nil
}

// CategoryExists informa se a categoria referenciada existe.
func (r *GameRepository) CategoryExists(ctx context.Context, categoryID int64) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, categoryID,
	).Scan(&exists)
	if err != nil {
		r.logger.Error("Falha ao verificar categoria no DB.", err)
		return false, apperror.NewDBError("Falha ao verificar categoria", err)
	}
	return exists, nil
}

// Save insere o jogo e invalida a listagem em cache.
func (r *GameRepository) Save(ctx context.Context, game domain.Game) (domain.Game, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
		INSERT INTO games (name, image, "stockTotal", "categoryId", "pricePerDay")
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		game.Name, game.Image, game.StockTotal, game.CategoryID, game.PricePerDay,
	).Scan(&game.ID)
	switch {
	case database.IsUniqueViolation(err):
		return domain.Game{}, apperror.NewConflictError(fmt.Sprintf("O jogo '%s' já existe.", game.Name))
	case database.IsForeignKeyViolation(err):
		return domain.Game{}, apperror.NewValidationError(fmt.Sprintf("A categoria %d não existe.", game.CategoryID))
	case err != nil:
		r.logger.Error("Falha ao inserir jogo no DB.", err)
		return domain.Game{}, apperror.NewDBError("Falha ao criar jogo", err)
	}

	if err := r.Cache.Delete(ctxTimeout, CacheKey); err != nil {
		r.logger.Warn("Falha ao invalidar cache de jogos.", map[string]interface{}{"error": err.Error()})
	}

	r.logger.Info("Jogo criado com sucesso.", map[string]interface{}{"id": game.ID, "name": game.Name})
	return game, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGame(row rowScanner) (domain.Game, error) {
	var g domain.Game
	err := row.Scan(&g.ID, &g.Name, &g.Image, &g.StockTotal, &g.CategoryID, &g.PricePerDay, &g.CategoryName)
	return g, err
}
