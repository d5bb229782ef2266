package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"boardcamp/internal/domain"
	apperror "boardcamp/internal/errors"
	"boardcamp/internal/pkg/logger"
)

// Writer padroniza as respostas JSON de sucesso e de erro dos handlers.
type Writer struct {
	Logger logger.Logger
}

// NewWriter cria um Writer que registra falhas em log.
func NewWriter(log logger.Logger) *Writer {
	return &Writer{Logger: log}
}

// JSON envia data com o status informado. data nil produz corpo vazio.
func (rw *Writer) JSON(w http.ResponseWriter, status int, data interface{}) {
	if data == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rw.Logger.Error("Falha ao codificar JSON de resposta", err)
	}
}

// Error traduz err para o status HTTP e envia o ErrorResponse.
func (rw *Writer) Error(w http.ResponseWriter, r *http.Request, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= http.StatusInternalServerError {
		rw.Logger.Error(fmt.Sprintf("Erro de Servidor: %s %s", r.Method, r.URL.Path), err)
	} else {
		rw.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{
			"path":  r.URL.Path,
			"error": err.Error(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
		Fields:   apperror.FieldErrors(err),
	})
}

// Decode lê o corpo JSON da requisição em dst.
// Corpo vazio, JSON malformado e campos com tipo errado viram ValidationError.
func Decode(r *http.Request, dst interface{}) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return apperror.NewValidationError("O corpo da requisição não pode ser vazio.")
	case errors.As(err, &typeErr):
		return apperror.NewFieldValidationError("Payload inválido. Verifique os tipos dos campos.",
			map[string]string{typeErr.Field: fmt.Sprintf("%s deve ser do tipo %s", typeErr.Field, typeErr.Type)})
	default:
		return apperror.NewValidationError("Payload inválido. Verifique o formato JSON.")
	}
}

// PathID lê o parâmetro de rota name como id positivo.
func PathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewValidationError(fmt.Sprintf("O parâmetro '%s' deve ser um número inteiro positivo: %q.", name, raw))
	}
	return id, nil
}

// QueryID lê o parâmetro de query name. Ausente devolve 0.
func QueryID(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewValidationError(fmt.Sprintf("O filtro '%s' deve ser um número inteiro positivo: %q.", name, raw))
	}
	return id, nil
}
