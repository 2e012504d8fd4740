package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrName is the class of naming mistakes: reserved names and duplicated databases.
	ErrName = errors.New("name error")

	ErrReservedName    = fmt.Errorf("%w: reserved name", ErrName)
	ErrDatabaseExists  = fmt.Errorf("%w: database already exists", ErrName)
	ErrUnknownDatabase = fmt.Errorf("%w: unknown database", ErrName)
	ErrHistorySize     = errors.New("history size must be at least one")
	ErrMalformedLog    = errors.New("malformed dataset log")
)
