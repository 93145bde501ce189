package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
)

// FetchKind classifies why a listing fetch produced nothing.
type FetchKind string

const (
	FetchTimeout    FetchKind = "timeout"
	FetchNetwork    FetchKind = "network"
	FetchHTTPStatus FetchKind = "http_status"
	FetchShape      FetchKind = "shape"
)

// FetchError is returned by a ListingSource. Callers treat every kind as zero results.
type FetchError struct {
	Kind   FetchKind
	Status int // set for FetchHTTPStatus
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Kind == FetchHTTPStatus:
		return fmt.Sprintf("listing fetch: %s %d", e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("listing fetch: %s: %v", e.Kind, e.Err)
	default:
		return "listing fetch: " + string(e.Kind)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// FetchErrorKind returns the kind of err if it is a *FetchError, else "".
func FetchErrorKind(err error) FetchKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
