package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound                 = errors.New("entity not found")
	ErrDuplicateIdentifier      = errors.New("share identifier already exists")
	ErrIdentifierSpaceExhausted = errors.New("could not generate a unique share identifier")
	ErrInvalidArgument          = errors.New("invalid argument")
)
