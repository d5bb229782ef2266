package customerservice

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

// Service implementa as regras de cadastro de clientes.
type Service struct {
	repo      domain.CustomerRepository
	validator *validation.Validator
	logger    logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Clientes.
func NewService(repo domain.CustomerRepository, validator *validation.Validator, logger logger.Logger) *Service {
	return &Service{repo: repo, validator: validator, logger: logger}
}

// List devolve todos os clientes.
func (s *Service) List(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.FindAll(ctx)
}

// Get devolve o cliente com o id informado.
func (s *Service) Get(ctx context.Context, id int64) (domain.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

// Create cadastra um cliente. O CPF não pode pertencer a outro cliente.
func (s *Service) Create(ctx context.Context, input domain.CustomerInput) (domain.Customer, error) {
	customer, err := s.parse(input)
	if err != nil {
		return domain.Customer{}, err
	}

	if err := s.ensureCPFAvailable(ctx, customer.CPF, 0); err != nil {
		return domain.Customer{}, err
	}

	return s.repo.Save(ctx, customer)
}

// Update sobrescreve todos os campos do cliente id.
func (s *Service) Update(ctx context.Context, id int64, input domain.CustomerInput) (domain.Customer, error) {
	customer, err := s.parse(input)
	if err != nil {
		return domain.Customer{}, err
	}
	customer.ID = id

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return domain.Customer{}, err
	}

	if err := s.ensureCPFAvailable(ctx, customer.CPF, id); err != nil {
		return domain.Customer{}, err
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		return domain.Customer{}, err
	}
	return customer, nil
}

func (s *Service) parse(input domain.CustomerInput) (domain.Customer, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := s.validator.Struct(input, "Dados do cliente inválidos."); err != nil {
		return domain.Customer{}, err
	}

	birthday, err := domain.ParseDate(input.Birthday)
	if err != nil {
		return domain.Customer{}, apperror.NewFieldValidationError("Dados do cliente inválidos.",
			map[string]string{"birthday": "data inválida"})
	}

	return domain.Customer{
		Name:     input.Name,
		Phone:    input.Phone,
		CPF:      input.CPF,
		Birthday: birthday,
	}, nil
}

// ensureCPFAvailable falha com ConflictError se o CPF pertence a um cliente diferente de ownerID.
func (s *Service) ensureCPFAvailable(ctx context.Context, cpf string, ownerID int64) error {
	existing, err := s.repo.FindByCPF(ctx, cpf)
	var notFound *apperror.NotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID == ownerID {
		return nil
	}

	s.logger.Warn("CPF já cadastrado para outro cliente.", map[string]interface{}{
		"customer_id": existing.ID,
		"owner_id":    ownerID,
	})
	return apperror.NewConflictError(fmt.Sprintf("Já existe um cliente com o CPF %s.", cpf))
}
