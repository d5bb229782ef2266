package rentalservice

import (
	"context"
	"time"

	"boardcamp/internal/domain"
	"boardcamp/internal/pkg/logger"
	"boardcamp/internal/pkg/validation"
)

// Recorder recebe os eventos de negócio dos aluguéis (ex: métricas Prometheus).
type Recorder interface {
	RentalCreated()
	RentalReturned(delayFee int64)
}

type nopRecorder struct{}

func (nopRecorder) RentalCreated()        {}
func (nopRecorder) RentalReturned(int64) {}

// Option configura o Service.
type Option func(*Service)

// WithClock substitui o relógio usado para rentDate e returnDate.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRecorder registra os eventos de aluguel em r.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// Service implementa o ciclo de vida dos aluguéis: retirada, devolução e exclusão.
type Service struct {
	repo      domain.RentalRepository
	validator *validation.Validator
	logger    logger.Logger
	recorder  Recorder
	now       func() time.Time
}

// NewService cria e retorna uma nova instância do Serviço de Aluguéis.
func NewService(repo domain.RentalRepository, validator *validation.Validator, logger logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		validator: validator,
		logger:    logger,
		recorder:  nopRecorder{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List devolve os aluguéis, opcionalmente filtrados por cliente e/ou jogo.
func (s *Service) List(ctx context.Context, filter domain.RentalFilter) ([]domain.Rental, error) {
	return s.repo.FindAll(ctx, filter)
}

// Create abre um aluguel com rentDate = hoje. Preço e disponibilidade são
// resolvidos pelo repositório dentro da mesma transação.
func (s *Service) Create(ctx context.Context, input domain.RentalInput) (domain.Rental, error) {
	if err := s.validator.Struct(input, "Dados do aluguel inválidos."); err != nil {
		return domain.Rental{}, err
	}

	s.logger.Debug("Criando aluguel.", map[string]interface{}{
		"customer_id": input.CustomerID,
		"game_id":     input.GameID,
		"days_rented": input.DaysRented,
	})

	rental, err := s.repo.Create(ctx, domain.Rental{
		CustomerID: input.CustomerID,
		GameID:     input.GameID,
		DaysRented: input.DaysRented,
		RentDate:   domain.NewDate(s.now()),
	})
	if err != nil {
		return domain.Rental{}, err
	}

	s.recorder.RentalCreated()
	return rental, nil
}

// Return fecha o aluguel id com a data de hoje e calcula a multa por atraso.
func (s *Service) Return(ctx context.Context, id int64) (domain.Rental, error) {
	rental, err := s.repo.Return(ctx, id, domain.NewDate(s.now()))
	if err != nil {
		return domain.Rental{}, err
	}

	var fee int64
	if rental.DelayFee != nil {
		fee = *rental.DelayFee
	}
	s.recorder.RentalReturned(fee)
	return rental, nil
}

// Delete remove um aluguel já devolvido.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
