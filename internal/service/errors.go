package service

import (
	"errors"
	"strings"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrUpstream        = errors.New("upstream service unavailable")
	ErrInvalidXPInput  = errors.New("xp amount must be positive and action non-empty")
)

// ValidationError acumula todos los campos inválidos de una petición, no
// solo el primero, para que el cliente pueda corregir todo de una vez.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation error: " + strings.Join(e.Details, "; ")
}

// AsValidationError extrae un *ValidationError de una cadena de errores.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
