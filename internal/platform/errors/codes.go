// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Storage errors
	CodeNotFound            Code = "NOT_FOUND"
	CodeConstraintViolation Code = "CONSTRAINT_VIOLATION"

	// Rule errors
	CodeBudgetExceeded  Code = "BUDGET_EXCEEDED"
	CodeInUse           Code = "IN_USE"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
)

// Recoverable reports whether the code describes a condition the caller can
// present to the user and continue from. Every known code is recoverable;
// only CodeUnknown signals an unexpected failure.
func (c Code) Recoverable() bool {
	switch c {
	case CodeNotFound,
		CodeConstraintViolation,
		CodeBudgetExceeded,
		CodeInUse,
		CodeInvalidState,
		CodeInvalidArgument:
		return true
	default:
		return false
	}
}
