package model

import "errors"

// ErrInvalidCursor marks a malformed or semantically invalid pagination
// token. Surfaced to the caller; never retried.
var ErrInvalidCursor = errors.New("invalid cursor")

// ErrInvalidConfiguration marks a non-positive page size constant.
// This is a programmer error and aborts the call.
var ErrInvalidConfiguration = errors.New("invalid configuration")
