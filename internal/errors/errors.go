package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados do boardcamp.
// Ela permite que o Handler acesse a Categoria, a Mensagem e o status HTTP do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION_ERROR", "NOT_FOUND", "INTERNAL_ERROR")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes
}

// --- Erros de Domínio ---

// ValidationError representa falhas de validação de dados de entrada.
type ValidationError struct {
	Msg    string
	Fields map[string]string
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest }
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NewFieldValidationError cria um erro de validação com o detalhe por campo.
func NewFieldValidationError(msg string, fields map[string]string) AppError {
	return &ValidationError{Msg: msg, Fields: fields}
}

// NotFoundError representa a ausência de um recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound }
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// ConflictError representa um conflito na regra de negócio (recurso duplicado, aluguel já devolvido).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string    { return fmt.Sprintf("Conflito de estado: %s", e.Msg) }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusConflict }
func (e *ConflictError) Unwrap() error    { return nil }

// NewConflictError cria um novo erro de conflito.
func NewConflictError(msg string) AppError {
	return &ConflictError{Msg: msg}
}

// CapacityError indica que não há mais cópias disponíveis de um jogo.
type CapacityError struct {
	Msg string
}

func (e *CapacityError) Error() string    { return fmt.Sprintf("Sem estoque: %s", e.Msg) }
func (e *CapacityError) Category() string { return "NO_STOCK" }
func (e *CapacityError) HTTPStatus() int  { return http.StatusBadRequest }
func (e *CapacityError) Unwrap() error    { return nil }

// NewCapacityError cria um novo erro de estoque esgotado.
func NewCapacityError(msg string) AppError {
	return &CapacityError{Msg: msg}
}

// StateError indica que a operação não é permitida no estado atual do recurso
// (e.g., excluir um aluguel ainda em aberto).
type StateError struct {
	Msg string
}

func (e *StateError) Error() string    { return fmt.Sprintf("Estado inválido: %s", e.Msg) }
func (e *StateError) Category() string { return "INVALID_STATE" }
func (e *StateError) HTTPStatus() int  { return http.StatusBadRequest }
func (e *StateError) Unwrap() error    { return nil }

// NewStateError cria um novo erro de estado.
func NewStateError(msg string) AppError {
	return &StateError{Msg: msg}
}

// --- Erros de Infraestrutura ---

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *InternalError) Error() string    { return fmt.Sprintf("Erro Interno: %s", e.Msg) }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError }
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor.
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError específico de falhas no DB.
func NewDBError(msg string, err error) AppError {
	return NewInternalError(fmt.Sprintf("%s (DB): %s", msg, err.Error()), err)
}

// GenericMessage é o texto devolvido ao cliente em qualquer falha 5xx.
const GenericMessage = "Ocorreu um erro inesperado."

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP, categoria e mensagem.
// Falhas internas nunca expõem a causa ao cliente.
func MapToHTTPStatus(err error) (int, string, string) {
	var appErr AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus()
		if status >= http.StatusInternalServerError {
			return status, appErr.Category(), GenericMessage
		}
		return status, appErr.Category(), appErr.Error()
	}

	return http.StatusInternalServerError, "UNKNOWN_ERROR", GenericMessage
}

// FieldErrors devolve o detalhe por campo de um ValidationError, se houver.
func FieldErrors(err error) map[string]string {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Fields
	}
	return nil
}
