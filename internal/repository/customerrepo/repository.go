package customerrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"boardcamp/internal/domain"
	apperror "boardcamp/internal/errors"
	"boardcamp/internal/pkg/database"
	"boardcamp/internal/pkg/logger"
)

const selectCustomers = `SELECT id, name, phone, cpf, birthday FROM customers`

// CustomerRepository implementa domain.CustomerRepository sobre PostgreSQL.
type CustomerRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewCustomerRepository cria e retorna uma nova instância do Repositório de Clientes.
func NewCustomerRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *CustomerRepository {
	return &CustomerRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// FindAll lista todos os clientes ordenados por id.
func (r *CustomerRepository) FindAll(ctx context.Context) ([]domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, selectCustomers+` ORDER BY id`)
	if err != nil {
		r.logger.Error("Falha ao listar clientes no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar clientes", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.CPF, &c.Birthday); err != nil {
			r.logger.Error("Falha ao ler linha de cliente.", err)
			return nil, apperror.NewDBError("Falha ao ler cliente", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar clientes", err)
	}

	return customers, nil
}

// FindByID busca um cliente pelo id.
func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (domain.Customer, error) {
	return r.findOne(ctx, selectCustomers+` WHERE id = $1`, id, fmt.Sprintf("Cliente com ID %d não encontrado.", id))
}

// FindByCPF busca um cliente pelo CPF.
func (r *CustomerRepository) FindByCPF(ctx context.Context, cpf string) (domain.Customer, error) {
	return r.findOne(ctx, selectCustomers+` WHERE cpf = $1`, cpf, fmt.Sprintf("Cliente com CPF %s não encontrado.", cpf))
}

func (r *CustomerRepository) findOne(ctx context.Context, query string, arg interface{}, notFoundMsg string) (domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var c domain.Customer
	err := r.DB.QueryRowContext(ctxTimeout, query, arg).Scan(&c.ID, &c.Name, &c.Phone, &c.CPF, &c.Birthday)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, apperror.NewNotFoundError(notFoundMsg)
	}
	if err != nil {
		r.logger.Error("Falha ao buscar cliente no DB.", err)
		return domain.Customer{}, apperror.NewDBError("Falha ao buscar cliente", err)
	}
	return c, nil
}

// Save insere um novo cliente. CPF duplicado vira ConflictError.
func (r *CustomerRepository) Save(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `INSERT INTO customers (name, phone, cpf, birthday) VALUES ($1, $2, $3, $4) RETURNING id`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		customer.Name, customer.Phone, customer.CPF, customer.Birthday,
	).Scan(&customer.ID)
	if database.IsUniqueViolation(err) {
		return domain.Customer{}, apperror.NewConflictError(fmt.Sprintf("Já existe um cliente com o CPF %s.", customer.CPF))
	}
	if err != nil {
		r.logger.Error("Falha ao inserir cliente no DB.", err)
		return domain.Customer{}, apperror.NewDBError("Falha ao criar cliente", err)
	}

	r.logger.Info("Cliente criado com sucesso.", map[string]interface{}{"id": customer.ID})
	return customer, nil
}

// Update sobrescreve todos os campos do cliente identificado por customer.ID.
func (r *CustomerRepository) Update(ctx context.Context, customer domain.Customer) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `UPDATE customers SET name = $1, phone = $2, cpf = $3, birthday = $4 WHERE id = $5`

	result, err := r.DB.ExecContext(ctxTimeout, query,
		customer.Name, customer.Phone, customer.CPF, customer.Birthday, customer.ID,
	)
	if database.IsUniqueViolation(err) {
		return apperror.NewConflictError(fmt.Sprintf("Já existe outro cliente com o CPF %s.", customer.CPF))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar cliente no DB.", err)
		return apperror.NewDBError("Falha ao atualizar cliente", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar atualização do cliente", err)
	}
	if affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Cliente com ID %d não encontrado.", customer.ID))
	}

	r.logger.Info("Cliente atualizado com sucesso.", map[string]interface{}{"id": customer.ID})
	return nil
}
