package domain

import "context"

// Category representa uma categoria de jogos (ex: "Estratégia").
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryInput é o payload de criação de categoria.
type CategoryInput struct {
	Name string `json:"name" validate:"required"`
}

// CategoryRepository define o contrato de persistência de categorias.
type CategoryRepository interface {
	FindAll(ctx context.Context) ([]Category, error)
	FindByName(ctx context.Context, name string) (Category, error)
	Save(ctx context.Context, category Category) (Category, error)
}
