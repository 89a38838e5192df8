package app

import "errors"

// ErrNoData and related errors describe session and edit failures surfaced
// to the presentation layer.
var (
	ErrNoData        = errors.New("no report data available")
	ErrNotFound      = errors.New("not found")
	ErrFetchFailed   = errors.New("fetch failed")
	ErrInvalidEntity = errors.New("invalid entity kind")
)
