package model

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure kinds the registry reports.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindUnauthorizedRole: the caller lacks the required role, has been
	// consent-revoked, or the verification gate was not satisfied.
	KindUnauthorizedRole
	// KindInvalidLifecycleState: operation attempted outside its required
	// contract lifecycle state.
	KindInvalidLifecycleState
	// KindPreconditionFailed: an operation-specific precondition does not
	// hold, e.g. granting privilege to a non-authorized doctor.
	KindPreconditionFailed
	// KindRecordStateConflict covers both "no such record" and "record
	// already in the target active state". Callers see one kind; the log
	// keeps the distinction.
	KindRecordStateConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorizedRole:
		return "unauthorized role"
	case KindInvalidLifecycleState:
		return "invalid lifecycle state"
	case KindPreconditionFailed:
		return "precondition failed"
	case KindRecordStateConflict:
		return "record state conflict"
	}
	return "unknown"
}

// Error is the structured failure payload carried by every registry error.
type Error struct {
	Kind   ErrorKind
	Op     string
	Detail string
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Kind.String() + ": " + e.Detail
}

func NewError(kind ErrorKind, op string, detail string) *Error {
	return &Error{Kind: kind, Op: op, Detail: detail}
}

func Unauthorized(op string, detail string) *Error {
	return NewError(KindUnauthorizedRole, op, detail)
}

func InvalidState(op string, current ContractState, required ContractState) *Error {
	return NewError(KindInvalidLifecycleState, op,
		fmt.Sprintf("contract is %s, operation requires %s", current, required))
}

func Precondition(op string, detail string) *Error {
	return NewError(KindPreconditionFailed, op, detail)
}

func StateConflict(op string, detail string) *Error {
	return NewError(KindRecordStateConflict, op, detail)
}

// KindOf extracts the error kind, KindUnknown when err is not a registry error.
func KindOf(err error) ErrorKind {
	var regErr *Error
	if errors.As(err, &regErr) {
		return regErr.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
