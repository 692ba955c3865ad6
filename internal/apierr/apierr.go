// Package apierr tags failures from external services with a Kind so callers
// can decide whether to propagate, degrade, or give up.
package apierr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
)

// Kind classifies a failed call to an external service.
type Kind string

const (
	KindUnknown           Kind = "unknown"
	KindAuth              Kind = "auth"
	KindRateLimited       Kind = "rate_limited"
	KindNotFound          Kind = "not_found"
	KindNetwork           Kind = "network"
	KindMalformedResponse Kind = "malformed_response"
	KindCanceled          Kind = "canceled"
)

// Error is a failure from an external call site.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with op and kind. It returns nil for a nil err.
func New(op string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// FromStatus maps an HTTP status code to a Kind.
func FromStatus(code int) Kind {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return KindAuth
	case code == http.StatusNotFound || code == http.StatusGone:
		return KindNotFound
	case code == http.StatusTooManyRequests:
		return KindRateLimited
	case code >= 500:
		return KindNetwork
	default:
		return KindUnknown
	}
}

// Transport classifies errors every HTTP-based client can produce:
// cancellation, transport failures, and undecodable bodies. ok is false
// when err matches none of them.
func Transport(err error) (kind Kind, ok bool) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled, true
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return KindMalformedResponse, true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetwork, true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return KindNetwork, true
	}
	return KindUnknown, false
}
