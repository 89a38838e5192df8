package domain

import "errors"

var (
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidType     = errors.New("invalid activity type")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidRange    = errors.New("invalid date range")
	ErrInvalidHours    = errors.New("invalid hours")
	ErrUnknownProject  = errors.New("unknown project")
	ErrUnknownPerson   = errors.New("unknown person")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrEmptyAllocation = errors.New("empty allocation")
)
