// Package repository defines error types that are reused across
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to act on a trade request owned by someone else, while
// ErrConflict signals that an operation cannot proceed because the
// request already left the pending state.
package repository

import "errors"

// ErrTradeRequestNotFound is returned when no trade request exists for
// the given id. Handlers should translate this into an HTTP 404
// response.
var ErrTradeRequestNotFound = errors.New("trade request not found")

// ErrForbidden is returned when the caller attempts an operation on a
// trade request they are not a party to. Handlers should translate
// this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a status change cannot be performed
// because the request is no longer pending. Handlers should translate
// this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
