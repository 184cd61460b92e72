package errors

import "fmt"

const (
	ErrNotFound            = "NOT_FOUND"
	ErrInvalidTransition   = "INVALID_TRANSITION"
	ErrUnauthorized        = "UNAUTHORIZED"
	ErrForbidden           = "FORBIDDEN"
	ErrConflict            = "CONFLICT"
	ErrValidation          = "VALIDATION"
	ErrInvalidLocation     = "INVALID_LOCATION"
	ErrNoAvailableResource = "NO_AVAILABLE_RESOURCE"
	ErrAssistanceDisabled  = "ASSISTANCE_DISABLED"
	ErrInternal            = "INTERNAL"
)

type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func Wrap(code, msg string, err error) *DomainError {
	return &DomainError{Code: code, Message: msg, Err: err}
}

// --- Generic ---

func NewNotFound(entity, id string) *DomainError {
	return &DomainError{Code: ErrNotFound, Message: fmt.Sprintf("%s with id %s not found", entity, id)}
}

func NewInvalidTransition(from, to string) *DomainError {
	return &DomainError{Code: ErrInvalidTransition, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

func NewUnauthorized(msg string) *DomainError {
	return &DomainError{Code: ErrUnauthorized, Message: msg}
}

func NewForbidden(msg string) *DomainError {
	return &DomainError{Code: ErrForbidden, Message: msg}
}

func NewConflict(msg string) *DomainError {
	return &DomainError{Code: ErrConflict, Message: msg}
}

func NewValidation(msg string) *DomainError {
	return &DomainError{Code: ErrValidation, Message: msg}
}

func NewInvalidLocation(msg string) *DomainError {
	return &DomainError{Code: ErrInvalidLocation, Message: msg}
}

func NewInternal(msg string, err error) *DomainError {
	return &DomainError{Code: ErrInternal, Message: msg, Err: err}
}

// --- Resource ---

func ResourceNotFound(id string) *DomainError {
	return NewNotFound("resource", id)
}

func ResourceInvalidTransition(from, to string) *DomainError {
	return NewInvalidTransition(from, to)
}

func NoAvailableResource() *DomainError {
	return &DomainError{Code: ErrNoAvailableResource, Message: "no available resources for dispatch"}
}

// --- Dispatch ---

func DispatchNotFound(id string) *DomainError {
	return NewNotFound("dispatch record", id)
}

func DispatchInvalidTransition(from, to string) *DomainError {
	return NewInvalidTransition(from, to)
}

// --- Disaster ---

func DisasterNotFound(id string) *DomainError {
	return NewNotFound("disaster", id)
}

func DisasterInvalidTransition(from, to string) *DomainError {
	return NewInvalidTransition(from, to)
}

// --- SOS ---

func SOSNotFound(id string) *DomainError {
	return NewNotFound("sos report", id)
}

func SOSInvalidTransition(from, to string) *DomainError {
	return NewInvalidTransition(from, to)
}

// --- Crowd assistance ---

func AssistanceNotFound(id string) *DomainError {
	return NewNotFound("assistance offer", id)
}

func AssistanceDisabled() *DomainError {
	return &DomainError{Code: ErrAssistanceDisabled, Message: "crowd assistance is disabled for this sos report"}
}
