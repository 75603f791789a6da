// Package domain contains the core entities of PurrModoro: timer modes,
// configured durations, the running timer state and completed intervals.
// Nothing in here knows about terminals, storage or the network.
package domain

import "errors"

// Common domain errors.
var (
	ErrInvalidMode        = errors.New("invalid timer mode")
	ErrInvalidDuration    = errors.New("invalid duration")
	ErrInvalidMood        = errors.New("invalid mood")
	ErrEmptyQuote         = errors.New("quote text cannot be empty")
	ErrInvalidPermission  = errors.New("invalid notification permission")
	ErrCompletionNotFound = errors.New("completion not found")
)
