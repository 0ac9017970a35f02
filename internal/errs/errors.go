// Package errs provides the unified error type used across all of encscan.
//
// Every subsystem (catalog, report, filestore, server, …) wraps its native
// errors into *errs.Error before returning them to callers. Callers use the
// Is* predicates to handle errors without importing driver-specific packages.
//
// Usage:
//
//	// In the catalog driver — wrap native errors:
//	return errs.Wrap(errs.ErrKindCatalogRead, "failed to read table facts", sqlErr)
//
//	// In the CLI — decide fatality by kind:
//	if errs.IsConnectionFailed(err) {
//	    os.Exit(1)
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error according to how the scan must react to it.
// Only ErrKindConnectionFailed is fatal to a run; every other kind is scoped
// to the table or output channel it occurred on.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindConnectionFailed         // cannot reach or authenticate to the database; fatal
	ErrKindCatalogRead              // a per-table metadata query failed; scan continues
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindPersistence              // writing the report file failed; in-memory report unaffected
	ErrKindTransmission             // delivering the report by mail failed; persisted output unaffected
	ErrKindAuthFailed               // mail transport rejected the sender credentials
	ErrKindInvalidInput             // bad arguments or configuration from the caller
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindCatalogRead:
		return "catalog_read_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindPersistence:
		return "persistence_failed"
	case ErrKindTransmission:
		return "transmission_failed"
	case ErrKindAuthFailed:
		return "auth_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all encscan subsystems.
// Drivers produce it; callers inspect it via the Is* predicates below.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original driver-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsConnectionFailed reports whether err is a database connectivity or
// authentication failure. These abort the whole run.
func IsConnectionFailed(err error) bool {
	return kindOf(err) == ErrKindConnectionFailed
}

// IsCatalogRead reports whether err is a per-table metadata read failure.
// These are recorded on the table's verdict and never abort the scan.
func IsCatalogRead(err error) bool {
	return kindOf(err) == ErrKindCatalogRead
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return kindOf(err) == ErrKindTimeout
}

// IsPersistence reports whether err occurred while writing the report file.
func IsPersistence(err error) bool {
	return kindOf(err) == ErrKindPersistence
}

// IsTransmission reports whether err occurred while delivering the report.
// IsTransmission does not match ErrKindAuthFailed — callers that want
// "any mail failure" should check both predicates.
func IsTransmission(err error) bool {
	return kindOf(err) == ErrKindTransmission
}

// IsAuthFailed reports whether err is a mail-transport credential rejection.
func IsAuthFailed(err error) bool {
	return kindOf(err) == ErrKindAuthFailed
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return kindOf(err) == ErrKindInvalidInput
}

// kindOf extracts the ErrKind from any error in the chain.
func kindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
