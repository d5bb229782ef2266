package customerservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"boardcamp/internal/domain"
	apperror "boardcamp/internal/errors"
	"boardcamp/internal/pkg/logger"
	"boardcamp/internal/pkg/validation"
	"boardcamp/internal/service/customerservice"
)

// MockCustomerRepository é uma implementação mock de domain.CustomerRepository.
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindAll(ctx context.Context) ([]domain.Customer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id int64) (domain.Customer, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByCPF(ctx context.Context, cpf string) (domain.Customer, error) {
	args := m.Called(ctx, cpf)
	return args.Get(0).(domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	args := m.Called(ctx, customer)
	return args.Get(0).(domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer domain.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func newService() (*customerservice.Service, *MockCustomerRepository) {
	repo := new(MockCustomerRepository)
	v := validation.NewWithClock(func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) })
	return customerservice.NewService(repo, v, logger.NewLogger("debug")), repo
}

func ana() domain.CustomerInput {
	return domain.CustomerInput{Name: "Ana", Phone: "11999999999", CPF: "12345678901", Birthday: "1990-01-01"}
}

var notFound = apperror.NewNotFoundError("cliente")

func TestCreate_Success(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	repo.On("FindByCPF", ctx, "12345678901").Return(domain.Customer{}, notFound)
	repo.On("Save", ctx, mock.MatchedBy(func(c domain.Customer) bool {
		return c.Name == "Ana" && c.Birthday.String() == "1990-01-01"
	})).Return(domain.Customer{ID: 1, Name: "Ana"}, nil)

	customer, err := svc.Create(ctx, ana())

	require.NoError(t, err)
	assert.Equal(t, int64(1), customer.ID)
	repo.AssertExpectations(t)
}

func TestCreate_DuplicateCPF(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	repo.On("FindByCPF", ctx, "12345678901").Return(domain.Customer{ID: 3}, nil)

	_, err := svc.Create(ctx, ana())

	assert.IsType(t, &apperror.ConflictError{}, err)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreate_InvalidShapesNeverReachStore(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.CustomerInput)
	}{
		{"cpf curto", func(c *domain.CustomerInput) { c.CPF = "1234567890" }},
		{"cpf longo", func(c *domain.CustomerInput) { c.CPF = "123456789012" }},
		{"telefone curto", func(c *domain.CustomerInput) { c.Phone = "123456789" }},
		{"telefone com letras", func(c *domain.CustomerInput) { c.Phone = "1199999999x" }},
		{"aniversário futuro", func(c *domain.CustomerInput) { c.Birthday = "2030-01-01" }},
		{"sem nome", func(c *domain.CustomerInput) { c.Name = " " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService()
			in := ana()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), in)

			assert.IsType(t, &apperror.ValidationError{}, err)
			repo.AssertNotCalled(t, "FindByCPF", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdate_OwnCPFSucceeds(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	repo.On("FindByID", ctx, int64(3)).Return(domain.Customer{ID: 3}, nil)
	repo.On("FindByCPF", ctx, "12345678901").Return(domain.Customer{ID: 3}, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(c domain.Customer) bool { return c.ID == 3 })).Return(nil)

	customer, err := svc.Update(ctx, 3, ana())

	require.NoError(t, err)
	assert.Equal(t, "1990-01-01", customer.Birthday.String())
	repo.AssertExpectations(t)
}

func TestUpdate_CPFOfAnotherCustomer(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	repo.On("FindByID", ctx, int64(3)).Return(domain.Customer{ID: 3}, nil)
	repo.On("FindByCPF", ctx, "12345678901").Return(domain.Customer{ID: 4}, nil)

	_, err := svc.Update(ctx, 3, ana())

	assert.IsType(t, &apperror.ConflictError{}, err)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdate_UnknownCustomer(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	repo.On("FindByID", ctx, int64(99)).Return(domain.Customer{}, notFound)

	_, err := svc.Update(ctx, 99, ana())

	assert.IsType(t, &apperror.NotFoundError{}, err)
}

func TestUpdate_NormalizesBirthday(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	in := ana()
	in.Birthday = "1990/01/01"
	repo.On("FindByID", ctx, int64(3)).Return(domain.Customer{ID: 3}, nil)
	repo.On("FindByCPF", ctx, in.CPF).Return(domain.Customer{}, notFound)
	repo.On("Update", ctx, mock.MatchedBy(func(c domain.Customer) bool {
		return c.Birthday.String() == "1990-01-01"
	})).Return(nil)

	_, err := svc.Update(ctx, 3, in)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGet(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	repo.On("FindByID", ctx, int64(1)).Return(domain.Customer{ID: 1, Name: "Ana"}, nil)
	repo.On("FindByID", ctx, int64(2)).Return(domain.Customer{}, notFound)

	customer, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ana", customer.Name)

	_, err = svc.Get(ctx, 2)
	assert.IsType(t, &apperror.NotFoundError{}, err)
}
