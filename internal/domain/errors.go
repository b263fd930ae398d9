package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeExternalService = "EXTERNAL_SERVICE_ERROR"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrInvalidSourceType     = NewDomainError(ErrCodeValidation, "invalid document source type")
	ErrMissingRequiredField  = NewDomainError(ErrCodeValidation, "missing required field")
	ErrAllowedOriginsMissing = NewDomainError(ErrCodeValidation, "allowed_origins is required when enforce_allowed_origins is true")
	ErrNoExtractableText     = NewDomainError(ErrCodeValidation, "source contains no extractable text")
)

// Not found errors
var (
	ErrOrganizationNotFound = NewDomainError(ErrCodeNotFound, "organization not found")
	ErrChatboxNotFound      = NewDomainError(ErrCodeNotFound, "chatbox not found")
	ErrDocumentNotFound     = NewDomainError(ErrCodeNotFound, "document not found")
)

// Origin policy errors
var (
	ErrOriginRequired   = NewDomainError(ErrCodeForbidden, "origin header is required for this chatbox")
	ErrNoAllowedOrigins = NewDomainError(ErrCodeForbidden, "no allowed origins configured for this chatbox")
)

// OriginNotAllowedError is raised when the request origin is not in the
// chatbox's allow-list. It is a forbidden-class error that carries the
// rejected origin so the boundary can report it.
type OriginNotAllowedError struct {
	Origin string
}

func (e *OriginNotAllowedError) Error() string {
	return fmt.Sprintf("[%s] origin '%s' is not allowed for this chatbox", ErrCodeForbidden, e.Origin)
}

// NewOriginNotAllowedError creates an OriginNotAllowedError for the given origin
func NewOriginNotAllowedError(origin string) *OriginNotAllowedError {
	return &OriginNotAllowedError{Origin: origin}
}

// ExternalServiceError is raised when an external collaborator (embedding
// provider, language model, URL fetch) fails. It carries the offending
// service name.
type ExternalServiceError struct {
	Service string
	Message string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", ErrCodeExternalService, e.Service, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", ErrCodeExternalService, e.Service, e.Message)
}

// Unwrap returns the underlying error
func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// NewExternalServiceError creates an ExternalServiceError for the given service
func NewExternalServiceError(service, message string, err error) *ExternalServiceError {
	return &ExternalServiceError{
		Service: service,
		Message: message,
		Err:     err,
	}
}
