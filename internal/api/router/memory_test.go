package router_test

import (
	"context"
	"sort"
	"sync"

	"boardcamp/internal/domain"
	apperror "boardcamp/internal/errors"
)

// memoryStore é um banco em memória com as mesmas regras dos repositórios PostgreSQL.
type memoryStore struct {
	mu         sync.Mutex
	seq        int64
	categories map[int64]domain.Category
	games      map[int64]domain.Game
	customers  map[int64]domain.Customer
	rentals    map[int64]domain.Rental
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		categories: map[int64]domain.Category{},
		games:      map[int64]domain.Game{},
		customers:  map[int64]domain.Customer{},
		rentals:    map[int64]domain.Rental{},
	}
}

func (s *memoryStore) nextID() int64 {
	s.seq++
	return s.seq
}

type memCategories struct{ *memoryStore }

func (m memCategories) FindAll(context.Context) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Category{}
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memCategories) FindByName(_ context.Context, name string) (domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return domain.Category{}, apperror.NewNotFoundError(name)
}

func (m memCategories) Save(_ context.Context, c domain.Category) (domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextID()
	m.categories[c.ID] = c
	return c, nil
}

type memGames struct{ *memoryStore }

func (m memGames) FindAll(context.Context) ([]domain.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Game{}
	for _, g := range m.games {
		g.CategoryName = m.categories[g.CategoryID].Name
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memGames) FindByName(_ context.Context, name string) (domain.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.games {
		if g.Name == name {
			return g, nil
		}
	}
	return domain.Game{}, apperror.NewNotFoundError(name)
}

func (m memGames) CategoryExists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.categories[id]
	return ok, nil
}

func (m memGames) Save(_ context.Context, g domain.Game) (domain.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g.ID = m.nextID()
	m.games[g.ID] = g
	return g, nil
}

type memCustomers struct{ *memoryStore }

func (m memCustomers) FindAll(context.Context) ([]domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Customer{}
	for _, c := range m.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memCustomers) FindByID(_ context.Context, id int64) (domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return domain.Customer{}, apperror.NewNotFoundError("cliente")
	}
	return c, nil
}

func (m memCustomers) FindByCPF(_ context.Context, cpf string) (domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if c.CPF == cpf {
			return c, nil
		}
	}
	return domain.Customer{}, apperror.NewNotFoundError(cpf)
}

func (m memCustomers) Save(_ context.Context, c domain.Customer) (domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextID()
	m.customers[c.ID] = c
	return c, nil
}

func (m memCustomers) Update(_ context.Context, c domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[c.ID]; !ok {
		return apperror.NewNotFoundError("cliente")
	}
	m.customers[c.ID] = c
	return nil
}

type memRentals struct{ *memoryStore }

func (m memRentals) FindAll(_ context.Context, filter domain.RentalFilter) ([]domain.Rental, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Rental{}
	for _, r := range m.rentals {
		if filter.CustomerID > 0 && r.CustomerID != filter.CustomerID {
			continue
		}
		if filter.GameID > 0 && r.GameID != filter.GameID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memRentals) Create(_ context.Context, r domain.Rental) (domain.Rental, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	game, ok := m.games[r.GameID]
	if !ok {
		return domain.Rental{}, apperror.NewValidationError("jogo inexistente")
	}
	if _, ok := m.customers[r.CustomerID]; !ok {
		return domain.Rental{}, apperror.NewValidationError("cliente inexistente")
	}
	open := 0
	for _, existing := range m.rentals {
		if existing.GameID == r.GameID && existing.IsOpen() {
			open++
		}
	}
	if open >= game.StockTotal {
		return domain.Rental{}, apperror.NewCapacityError("sem estoque")
	}
	r.ID = m.nextID()
	r.OriginalPrice = domain.OriginalPrice(r.DaysRented, game.PricePerDay)
	m.rentals[r.ID] = r
	return r, nil
}

func (m memRentals) Return(_ context.Context, id int64, returnDate domain.Date) (domain.Rental, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rentals[id]
	if !ok {
		return domain.Rental{}, apperror.NewNotFoundError("aluguel")
	}
	if !r.IsOpen() {
		return domain.Rental{}, apperror.NewConflictError("já devolvido")
	}
	fee := domain.DelayFee(r.RentDate, r.DaysRented, returnDate, m.games[r.GameID].PricePerDay)
	r.ReturnDate = &returnDate
	r.DelayFee = &fee
	m.rentals[id] = r
	return r, nil
}

func (m memRentals) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rentals[id]
	if !ok {
		return apperror.NewNotFoundError("aluguel")
	}
	if r.IsOpen() {
		return apperror.NewStateError("em aberto")
	}
	delete(m.rentals, id)
	return nil
}
