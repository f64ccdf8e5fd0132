package domain

import (
	"errors"
	"fmt"
)

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// ErrUnauthorized signals a request without the trusted identity headers.
// The headers are the sole authentication signal; their absence means the
// caller never passed through the host environment's front proxy.
var ErrUnauthorized = errors.New("missing trusted identity headers")

// ErrInvalidIdentity signals that a header-derived name failed address
// grammar validation.
var ErrInvalidIdentity = errors.New("invalid participant address")

// ErrAgentAccountMissing signals a violated deployment precondition: the
// well-known agent account is absent or not of agent kind.
var ErrAgentAccountMissing = errors.New("agent account missing or not an agent")

// StorageError wraps a persistence failure. Op identifies the write that
// failed for operator diagnosis ("account create", "pointer write").
type StorageError struct {
	Op  string
	Err error
}

func (e StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e StorageError) Unwrap() error {
	return e.Err
}

// Is enables errors.Is matching on StorageError regardless of Op.
func (e StorageError) Is(target error) bool {
	_, ok := target.(StorageError)
	if ok {
		return true
	}
	_, ok = target.(*StorageError)
	return ok
}

// RPCError wraps a document-service call failure. The request fails even
// though an upstream mutation may have partially succeeded; this layer does
// not reconcile that.
type RPCError struct {
	Call string
	Err  error
}

func (e RPCError) Error() string {
	return fmt.Sprintf("document service %s failed: %v", e.Call, e.Err)
}

func (e RPCError) Unwrap() error {
	return e.Err
}

// Is enables errors.Is matching on RPCError regardless of Call.
func (e RPCError) Is(target error) bool {
	_, ok := target.(RPCError)
	if ok {
		return true
	}
	_, ok = target.(*RPCError)
	return ok
}
