package commands

import "errors"

var (
	// ErrDuplicateCommand is returned when registering a name that is already bound.
	ErrDuplicateCommand = errors.New("duplicate command registration")
	// ErrHandlerMismatch is returned when unregistering a name bound to another command.
	ErrHandlerMismatch = errors.New("mismatched command unregistration")
	// ErrInvalidCommand is returned for empty names, nil or non-comparable commands.
	ErrInvalidCommand = errors.New("invalid command")
)
