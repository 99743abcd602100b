// File: /services/errors.go
package services

import (
	"errors"
)

// ErrorKind classifies expected failures of the lifecycle/coordinator
// operations. Services never let raw store errors cross their boundary;
// anything unexpected is wrapped as KindStoreError.
type ErrorKind string

const (
	KindNotFound           ErrorKind = "not-found"
	KindNotAuthorized      ErrorKind = "not-authorized"
	KindAlreadyJoined      ErrorKind = "already-joined"
	KindNotAMember         ErrorKind = "not-a-member"
	KindFull               ErrorKind = "full"
	KindNotOpen            ErrorKind = "not-open"
	KindCreatorCannotLeave ErrorKind = "creator-cannot-leave"
	KindProfileUnavailable ErrorKind = "profile-unavailable"
	KindValidation         ErrorKind = "validation"
	KindConflict           ErrorKind = "conflict"
	KindStoreError         ErrorKind = "store-error"
)

// Error is the structured failure carried out of every service operation
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// StoreError wraps an unexpected persistence failure
func StoreError(err error, message string) *Error {
	return &Error{Kind: KindStoreError, Message: message, cause: err}
}

// KindOf extracts the kind from any error. A nil error yields the empty
// kind; anything unclassified is treated as a store error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var svcErr *Error
	if errors.As(err, &svcErr) && svcErr != nil {
		return svcErr.Kind
	}
	return KindStoreError
}
