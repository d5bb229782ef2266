package rentalrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"boardcamp/internal/domain"
	apperror "boardcamp/internal/errors"
	"boardcamp/internal/pkg/database"
	"boardcamp/internal/pkg/logger"
)

const selectRentals = `
	SELECT r.id, r."customerId", r."gameId", r."rentDate", r."daysRented", r."returnDate",
	       r."originalPrice", r."delayFee",
	       c.id, c.name, g.id, g.name, g."categoryId", cat.name
	FROM rentals r
	JOIN customers c ON r."customerId" = c.id
	JOIN games g ON r."gameId" = g.id
	JOIN categories cat ON g."categoryId" = cat.id`

// RentalRepository implementa domain.RentalRepository sobre PostgreSQL.
type RentalRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewRentalRepository cria e retorna uma nova instância do Repositório de Aluguéis.
func NewRentalRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *RentalRepository {
	return &RentalRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// FindAll lista os aluguéis com o resumo de cliente e jogo embutido.
func (r *RentalRepository) FindAll(ctx context.Context, filter domain.RentalFilter) ([]domain.Rental, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var (
		conditions []string
		args       []interface{}
	)
	if filter.CustomerID > 0 {
		args = append(args, filter.CustomerID)
		conditions = append(conditions, fmt.Sprintf(`r."customerId" = $%d`, len(args)))
	}
	if filter.GameID > 0 {
		args = append(args, filter.GameID)
		conditions = append(conditions, fmt.Sprintf(`r."gameId" = $%d`, len(args)))
	}

	query := selectRentals
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY r.id"

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar aluguéis no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar aluguéis", err)
	}
	defer rows.Close()

	rentals := []domain.Rental{}
	for rows.Next() {
		var (
			rental   domain.Rental
			customer domain.RentalCustomer
			game     domain.RentalGame
		)
		err := rows.Scan(
			&rental.ID, &rental.CustomerID, &rental.GameID, &rental.RentDate, &rental.DaysRented, &rental.ReturnDate,
			&rental.OriginalPrice, &rental.DelayFee,
			&customer.ID, &customer.Name, &game.ID, &game.Name, &game.CategoryID, &game.CategoryName,
		)
		if err != nil {
			r.logger.Error("Falha ao ler linha de aluguel.", err)
			return nil, apperror.NewDBError("Falha ao ler aluguel", err)
		}
		rental.Customer = &customer
		rental.Game = &game
		rentals = append(rentals, rental)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar aluguéis", err)
	}

	return rentals, nil
}

// Create registra um aluguel. A linha do jogo fica bloqueada até o commit,
// então a contagem de aluguéis abertos não muda entre a verificação e o INSERT.
func (r *RentalRepository) Create(ctx context.Context, rental domain.Rental) (domain.Rental, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de aluguel.", err)
		return domain.Rental{}, apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	// 1. Jogo (bloqueado)
	var (
		stockTotal  int
		pricePerDay int64
	)
	err = tx.QueryRowContext(ctxTimeout,
		`SELECT "stockTotal", "pricePerDay" FROM games WHERE id = $1 FOR UPDATE`, rental.GameID,
	).Scan(&stockTotal, &pricePerDay)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Rental{}, apperror.NewValidationError(fmt.Sprintf("O jogo %d não existe.", rental.GameID))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar jogo para aluguel.", err)
		return domain.Rental{}, apperror.NewDBError("Falha ao buscar jogo", err)
	}

	// 2. Cliente
	var customerExists bool
	err = tx.QueryRowContext(ctxTimeout,
		`SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, rental.CustomerID,
	).Scan(&customerExists)
	if err != nil {
		r.logger.Error("Falha ao verificar cliente para aluguel.", err)
		return domain.Rental{}, apperror.NewDBError("Falha ao verificar cliente", err)
	}
	if !customerExists {
		return domain.Rental{}, apperror.NewValidationError(fmt.Sprintf("O cliente %d não existe.", rental.CustomerID))
	}

	// 3. Disponibilidade
	var open int
	err = tx.QueryRowContext(ctxTimeout,
		`SELECT COUNT(*) FROM rentals WHERE "gameId" = $1 AND "returnDate" IS NULL`, rental.GameID,
	).Scan(&open)
	if err != nil {
		r.logger.Error("Falha ao contar aluguéis abertos.", err)
		return domain.Rental{}, apperror.NewDBError("Falha ao verificar disponibilidade", err)
	}
	if open >= stockTotal {
		r.logger.Warn("Jogo sem cópias disponíveis.", map[string]interface{}{
			"game_id":     rental.GameID,
			"stock_total": stockTotal,
			"open":        open,
		})
		return domain.Rental{}, apperror.NewCapacityError(fmt.Sprintf("Todas as %d cópias do jogo %d estão alugadas.", stockTotal, rental.GameID))
	}

	// 4. Inserção
	rental.OriginalPrice = domain.OriginalPrice(rental.DaysRented, pricePerDay)
	rental.ReturnDate = nil
	rental.DelayFee = nil

	err = tx.QueryRowContext(ctxTimeout, `
		INSERT INTO rentals ("customerId", "gameId", "rentDate", "daysRented", "returnDate", "originalPrice", "delayFee")
		VALUES ($1, $2, $3, $4, NULL, $5, NULL)
		RETURNING id`,
		rental.CustomerID, rental.GameID, rental.RentDate, rental.DaysRented, rental.OriginalPrice,
	).Scan(&rental.ID)
	if database.IsForeignKeyViolation(err) {
		return domain.Rental{}, apperror.NewValidationError("Cliente ou jogo inexistente.")
	}
	if err != nil {
		r.logger.Error("Falha ao inserir aluguel.", err)
		return domain.Rental{}, apperror.NewDBError("Falha ao criar aluguel", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar transação de aluguel.", err)
		return domain.Rental{}, apperror.NewDBError("Falha ao commitar transação", err)
	}

	r.logger.Info("Aluguel criado com sucesso.", map[string]interface{}{
		"id":          rental.ID,
		"customer_id": rental.CustomerID,
		"game_id":     rental.GameID,
	})
	return rental, nil
}

// Return fecha o aluguel em returnDate e grava a multa por atraso.
func (r *RentalRepository) Return(ctx context.Context, id int64, returnDate domain.Date) (domain.Rental, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de devolução.", err)
		return domain.Rental{}, apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	var (
		rental      domain.Rental
		pricePerDay int64
	)
	err = tx.QueryRowContext(ctxTimeout, `
		SELECT r.id, r."customerId", r."gameId", r."rentDate", r."daysRented", r."returnDate",
		       r."originalPrice", r."delayFee", g."pricePerDay"
		FROM rentals r
		JOIN games g ON r."gameId" = g.id
		WHERE r.id = $1
		FOR UPDATE OF r`, id,
	).Scan(
		&rental.ID, &rental.CustomerID, &rental.GameID, &rental.RentDate, &rental.DaysRented, &rental.ReturnDate,
		&rental.OriginalPrice, &rental.DelayFee, &pricePerDay,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Rental{}, apperror.NewNotFoundError(fmt.Sprintf("Aluguel com ID %d não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar aluguel para devolução.", err)
		return domain.Rental{}, apperror.NewDBError("Falha ao buscar aluguel", err)
	}
	if !rental.IsOpen() {
		return domain.Rental{}, apperror.NewConflictError(fmt.Sprintf("O aluguel %d já foi devolvido.", id))
	}

	fee := domain.DelayFee(rental.RentDate, rental.DaysRented, returnDate, pricePerDay)

	_, err = tx.ExecContext(ctxTimeout,
		`UPDATE rentals SET "returnDate" = $1, "delayFee" = $2 WHERE id = $3`,
		returnDate, fee, id,
	)
	if err != nil {
		r.logger.Error("Falha ao registrar devolução.", err)
		return domain.Rental{}, apperror.NewDBError("Falha ao registrar devolução", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar transação de devolução.", err)
		return domain.Rental{}, apperror.NewDBError("Falha ao commitar transação", err)
	}

	rental.ReturnDate = &returnDate
	rental.DelayFee = &fee
	r.logger.Info("Aluguel devolvido com sucesso.", map[string]interface{}{"id": id, "delay_fee": fee})
	return rental, nil
}

// Delete remove um aluguel já devolvido.
func (r *RentalRepository) Delete(ctx context.Context, id int64) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout,
		`DELETE FROM rentals WHERE id = $1 AND "returnDate" IS NOT NULL`, id,
	)
	if err != nil {
		r.logger.Error("Falha ao excluir aluguel.", err)
		return apperror.NewDBError("Falha ao excluir aluguel", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar exclusão do aluguel", err)
	}
	if affected > 0 {
		r.logger.Info("Aluguel excluído com sucesso.", map[string]interface{}{"id": id})
		return nil
	}

	// Nada foi apagado: ou o aluguel não existe ou ainda está aberto.
	var exists bool
	err = r.DB.QueryRowContext(ctxTimeout, `SELECT EXISTS (SELECT 1 FROM rentals WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		r.logger.Error("Falha ao verificar aluguel.", err)
		return apperror.NewDBError("Falha ao verificar aluguel", err)
	}
	if !exists {
		return apperror.NewNotFoundError(fmt.Sprintf("Aluguel com ID %d não encontrado.", id))
	}
	return apperror.NewStateError(fmt.Sprintf("O aluguel %d ainda não foi devolvido.", id))
}
