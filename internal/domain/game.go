package domain

import "context"

// Game representa um jogo do acervo da loja.
// PricePerDay está na menor unidade da moeda (centavos).
type Game struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Image        string `json:"image"`
	StockTotal   int    `json:"stockTotal"`
	CategoryID   int64  `json:"categoryId"`
	PricePerDay  int64  `json:"pricePerDay"`
	CategoryName string `json:"categoryName,omitempty"`
}

// GameInput é o payload de criação de jogo.
type GameInput struct {
	Name        string `json:"name" validate:"required"`
	Image       string `json:"image" validate:"required,uri"`
	StockTotal  int    `json:"stockTotal" validate:"required,min=1,max=2147483647"`
	CategoryID  int64  `json:"categoryId" validate:"required,min=1"`
	PricePerDay int64  `json:"pricePerDay" validate:"required,min=1,max=2147483647"`
}

// GameRepository define o contrato de persistência de jogos.
type GameRepository interface {
	FindAll(ctx context.Context) ([]Game, error)
	FindByName(ctx context.Context, name string) (Game, error)
	CategoryExists(ctx context.Context, categoryID int64) (bool, error)
	Save(ctx context.Context, game Game) (Game, error)
}
