package faults

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so callers can decide whether to retry it
// and which status code to surface.
type Kind int

const (
	KindInternal Kind = iota // local store or programming failure
	KindTimeout              // attempt exceeded its deadline
	KindTransport            // connection-level failure
	KindNotFound             // target resource does not exist
	KindConflict             // collaborator-reported collision
	KindGateway              // collaborator responded with an unusable payload
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindGateway:
		return "gateway"
	default:
		return "internal"
	}
}

// Error carries the failure classification along with the operation
// that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with a kind and operation name. A nil err is allowed
// for failures that have no underlying cause (e.g. an empty response).
func New(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the classification from err, walking the wrap chain.
// Unclassified errors are internal.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}

// Retryable reports whether err is worth another attempt. Only timeouts
// and transport failures qualify; retrying a domain failure wastes the
// budget and delays correct error reporting.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindTimeout, KindTransport:
		return true
	}
	return false
}

// HTTPStatus maps a classification to the status code the API surfaces.
// Timeouts and transport failures only reach a handler once the retry
// budget is exhausted, at which point they are reported as upstream
// failures.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindGateway, KindTransport:
		return http.StatusBadGateway
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
