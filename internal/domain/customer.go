package domain

import "context"

// Customer representa um cliente da locadora.
type Customer struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	CPF      string `json:"cpf"`
	Birthday Date   `json:"birthday"`
}

// CustomerInput é o payload de criação e de atualização de cliente.
// Birthday chega como texto e é validado antes de virar Date.
type CustomerInput struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required,digits,min=10,max=11"`
	CPF      string `json:"cpf" validate:"required,digits,len=11"`
	Birthday string `json:"birthday" validate:"required,pastdate"`
}

// CustomerRepository define o contrato de persistência de clientes.
type CustomerRepository interface {
	FindAll(ctx context.Context) ([]Customer, error)
	FindByID(ctx context.Context, id int64) (Customer, error)
	FindByCPF(ctx context.Context, cpf string) (Customer, error)
	Save(ctx context.Context, customer Customer) (Customer, error)
	Update(ctx context.Context, customer Customer) error
}
