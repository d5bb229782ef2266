package domain

import "context"

// Rental representa um aluguel. Está "aberto" enquanto ReturnDate for nil.
type Rental struct {
	ID            int64  `json:"id"`
	CustomerID    int64  `json:"customerId"`
	GameID        int64  `json:"gameId"`
	RentDate      Date   `json:"rentDate"`
	DaysRented    int    `json:"daysRented"`
	ReturnDate    *Date  `json:"returnDate"`
	OriginalPrice int64  `json:"originalPrice"`
	DelayFee      *int64 `json:"delayFee"`

	Customer *RentalCustomer `json:"customer,omitempty"`
	Game     *RentalGame     `json:"game,omitempty"`
}

// RentalCustomer é o resumo do cliente embutido na listagem de aluguéis.
type RentalCustomer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RentalGame é o resumo do jogo embutido na listagem de aluguéis.
type RentalGame struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CategoryID   int64  `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}

// IsOpen informa se o jogo ainda não foi devolvido.
func (r Rental) IsOpen() bool {
	return r.ReturnDate == nil
}

// RentalInput é o payload de criação de aluguel.
type RentalInput struct {
	CustomerID int64 `json:"customerId" validate:"required,min=1"`
	GameID     int64 `json:"gameId" validate:"required,min=1"`
	DaysRented int   `json:"daysRented" validate:"required,min=1,max=2147483647"`
}

// RentalFilter restringe a listagem de aluguéis. Campos zerados não filtram.
type RentalFilter struct {
	CustomerID int64
	GameID     int64
}

// RentalRepository define o contrato de persistência de aluguéis.
// Create e Return executam verificação e escrita na mesma transação.
type RentalRepository interface {
	FindAll(ctx context.Context, filter RentalFilter) ([]Rental, error)
	Create(ctx context.Context, rental Rental) (Rental, error)
	Return(ctx context.Context, id int64, returnDate Date) (Rental, error)
	Delete(ctx context.Context, id int64) error
}

// OriginalPrice é o valor cobrado na retirada: dias alugados × preço diário.
func OriginalPrice(daysRented int, pricePerDay int64) int64 {
	return int64(daysRented) * pricePerDay
}

// OverdueDays devolve quantos dias passaram além do prazo contratado (nunca negativo).
func OverdueDays(rentDate Date, daysRented int, returnDate Date) int {
	extra := rentDate.DaysUntil(returnDate) - daysRented
	if extra < 0 {
		return 0
	}
	return extra
}

// DelayFee calcula a multa por atraso: só os dias excedentes são cobrados,
// ao mesmo preço diário do jogo.
func DelayFee(rentDate Date, daysRented int, returnDate Date, pricePerDay int64) int64 {
	return int64(OverdueDays(rentDate, daysRented, returnDate)) * pricePerDay
}
