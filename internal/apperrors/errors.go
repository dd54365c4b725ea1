// Package apperrors defines the error taxonomy surfaced by the orchestrator.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind distinguishes the failure classes callers need to tell apart.
type Kind string

const (
	// KindValidation: malformed caller input. Fail fast, no state mutation.
	KindValidation Kind = "validation"
	// KindNotFound: unknown session id. No mutation.
	KindNotFound Kind = "not_found"
	// KindContractViolation: external model response failed schema
	// validation. Never partially applied.
	KindContractViolation Kind = "contract_violation"
	// KindStore: durable store unavailable. Fatal for the operation.
	KindStore Kind = "store"
	// KindUpstream: model/transcription collaborator failure. Surfaced,
	// never converted into a fabricated result.
	KindUpstream Kind = "upstream"
)

// Error is a classified application error. The wrapped cause, if any, is
// reachable through errors.Unwrap.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewValidation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewContractViolation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindContractViolation, Message: fmt.Sprintf(format, args...)}
}

func NewStore(msg string, cause error) *Error {
	return &Error{Kind: KindStore, Message: msg, Cause: cause}
}

func NewUpstream(msg string, cause error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Cause: cause}
}

// KindOf extracts the kind of err, or "" if err is not a classified error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
