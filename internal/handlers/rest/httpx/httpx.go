// Package httpx общие для REST хендлеров разбор запроса и запись ответа.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"dispatch/internal/entities"
	"dispatch/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

var (
	ErrInvalidPathID = errors.New("invalid path id")
	ErrInvalidBody   = errors.New("invalid request body")
	ErrInvalidQuery  = errors.New("invalid query parameter")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorLogger interface {
	Error(msg string, fields ...logger.Field)
}

// PathID положительный int64 из переменной маршрута.
func PathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidPathID, name, raw)
	}
	return id, nil
}

// Decode читает JSON тело и проверяет теги validate.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return Validate(dst)
}

// DecodeOptional как Decode, но пустое тело допустимо.
func DecodeOptional(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return Validate(dst)
}

func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return nil
}

// StatusFor код ответа по классу ошибки.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidPathID),
		errors.Is(err, ErrInvalidBody),
		errors.Is(err, ErrInvalidQuery),
		errors.Is(err, entities.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrInvalidState),
		errors.Is(err, entities.ErrUnavailable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// WriteError пишет ошибку клиенту. В лог попадают только 5xx.
func WriteError(w http.ResponseWriter, log errorLogger, err error) {
	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("request failed", logger.Err(err))
		message = http.StatusText(status)
	}
	WriteJSON(w, log, status, errorResponse{Error: message})
}

func WriteJSON(w http.ResponseWriter, log errorLogger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("encode JSON response", logger.Err(err))
	}
}

// QueryInt64 необязательный положительный параметр запроса.
func QueryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidQuery, name, raw)
	}
	return &v, nil
}

// QueryTime необязательная дата в формате RFC3339 или YYYY-MM-DD.
func QueryTime(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidQuery, name, raw)
	}
	return &t, nil
}

func QueryFloat64(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidQuery, name, raw)
	}
	return &v, nil
}
