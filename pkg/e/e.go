package e

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Внутренние ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrTooManyImages        = fmt.Errorf("too many images")
	ErrNoImages             = fmt.Errorf("no images provided")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrProductNameRequired  = fmt.Errorf("product name is required")
	ErrPriceMustBePositive  = fmt.Errorf("price must be positive")
	ErrNoProducts           = fmt.Errorf("no product ids provided")
	ErrInvalidJSON          = fmt.Errorf("invalid json body")

	// 422 Unprocessable Entity
	ErrValidation = fmt.Errorf("validation failed")

	// 401 / 403
	ErrUnauthorized       = fmt.Errorf("unauthorized")
	ErrForbidden          = fmt.Errorf("forbidden")
	ErrInvalidCredentials = fmt.Errorf("invalid email or password")
	ErrEmailTaken         = fmt.Errorf("email is already registered")

	// 404 Not Found
	ErrNotFound            = fmt.Errorf("not found")
	ErrProductNotFound     = fmt.Errorf("product not found: %w", ErrNotFound)
	ErrServiceNotFound     = fmt.Errorf("service type not found: %w", ErrNotFound)
	ErrTechnicianNotFound  = fmt.Errorf("technician not found: %w", ErrNotFound)
	ErrAppointmentNotFound = fmt.Errorf("appointment not found: %w", ErrNotFound)
	ErrWizardNotFound      = fmt.Errorf("scheduling session not found or expired: %w", ErrNotFound)
	ErrUserNotFound        = fmt.Errorf("user not found: %w", ErrNotFound)

	// 409 Conflict
	ErrStepIncomplete          = fmt.Errorf("current step is incomplete")
	ErrWrongStep               = fmt.Errorf("field cannot be changed at the current step")
	ErrAvailabilityConflict    = fmt.Errorf("selected time is no longer available")
	ErrInvalidStatusTransition = fmt.Errorf("invalid appointment status transition")
	ErrCancellationWindow      = fmt.Errorf("appointments can only be cancelled at least 24 hours in advance")
	ErrBookingInProgress       = fmt.Errorf("another booking for this technician is being confirmed")

	// 402 / 502 Payment
	ErrPaymentDeclined = fmt.Errorf("payment declined")
	ErrPaymentFailed   = fmt.Errorf("payment processing failed")
	// Временная недоступность шлюза, запрос можно повторить
	ErrGatewayUnavailable = fmt.Errorf("payment gateway temporarily unavailable")

	// 503 Persistence
	ErrPersistence = fmt.Errorf("failed to save booking")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")

	// Внутренние ошибки с векторами
	ErrEmptyVectors = fmt.Errorf("empty vectors")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// ValidationError содержит ошибки валидации по полям формы.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Field создаёт ошибку валидации одного поля.
func Field(name, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{name: message}}
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v.Fields[k])
	}

	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (v *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PaymentError описывает отказ или сбой платёжного шлюза.
type PaymentError struct {
	Declined bool
	Reason   string
}

func NewPaymentDeclined(reason string) *PaymentError {
	return &PaymentError{Declined: true, Reason: reason}
}

func NewPaymentFailed(reason string) *PaymentError {
	return &PaymentError{Reason: reason}
}

func (p *PaymentError) Error() string {
	if p.Declined {
		return fmt.Sprintf("%s: %s", ErrPaymentDeclined.Error(), p.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrPaymentFailed.Error(), p.Reason)
}

func (p *PaymentError) Is(target error) bool {
	if p.Declined {
		return target == ErrPaymentDeclined
	}
	return target == ErrPaymentFailed
}

// AsValidation извлекает ValidationError из цепочки ошибок.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
