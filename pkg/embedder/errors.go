package embedder

import (
	"fmt"
	"strings"
)

// ErrorType categorizes embedding provider failures.
type ErrorType string

const (
	// ErrTypeConfiguration indicates the embedder was built with unusable settings
	ErrTypeConfiguration ErrorType = "configuration"

	// ErrTypeTransport indicates the request never produced a response
	ErrTypeTransport ErrorType = "transport"

	// ErrTypeCanceled indicates the caller's context ended before the call completed
	ErrTypeCanceled ErrorType = "canceled"

	// ErrTypeStatus indicates the provider answered with a non-success status
	ErrTypeStatus ErrorType = "status"

	// ErrTypeMalformed indicates a response that does not follow the embeddings schema
	ErrTypeMalformed ErrorType = "malformed"

	// ErrTypeCount indicates the provider returned a different number of vectors than inputs
	ErrTypeCount ErrorType = "count"

	// ErrTypeDimension indicates vectors of different lengths within one response
	ErrTypeDimension ErrorType = "dimension"
)

// ProviderError is returned for every failure of an embedding call.
// The original cause, when there is one, is available through errors.Unwrap.
type ProviderError struct {
	Type       ErrorType
	Provider   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	var parts []string

	if e.Provider != "" {
		parts = append(parts, fmt.Sprintf("provider=%s", e.Provider))
	}
	parts = append(parts, fmt.Sprintf("type=%s", e.Type))
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	parts = append(parts, e.Message)
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}

	return "embedding provider error: " + strings.Join(parts, ": ")
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Is matches another *ProviderError of the same Type, so callers can write
// errors.Is(err, &ProviderError{Type: ErrTypeCount}).
func (e *ProviderError) Is(target error) bool {
	if pe, ok := target.(*ProviderError); ok {
		return e.Type == pe.Type
	}
	return false
}

func newProviderError(provider string, typ ErrorType, cause error, format string, args ...any) *ProviderError {
	return &ProviderError{
		Type:     typ,
		Provider: provider,
		Message:  fmt.Sprintf(format, args...),
		Cause:    cause,
	}
}
