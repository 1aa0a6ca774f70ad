package shared

import "fmt"

// DomainError is the base error type for all engine errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// NotFoundError indicates a rule, loadout or binding id that does not resolve
// in its owning collection.
type NotFoundError struct {
	*DomainError
	Kind string
	ID   int
}

func NewNotFoundError(kind string, id int) *NotFoundError {
	return &NotFoundError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s %d not found", kind, id)},
		Kind:        kind,
		ID:          id,
	}
}

// ContractViolationError indicates a caller-side contract violation, e.g.
// requesting a work-type stat on a concrete item without a work-type context.
type ContractViolationError struct {
	*DomainError
}

func NewContractViolationError(message string) *ContractViolationError {
	return &ContractViolationError{DomainError: &DomainError{Message: message}}
}

// ValidationError carries a field-level configuration problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
