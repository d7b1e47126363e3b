package service

import "errors"

var (
	// ErrNegativePrice is returned for a price limit below zero
	ErrNegativePrice = errors.New("price cannot be negative")

	// ErrInvalidInterval is returned for a repeat interval that is not positive
	ErrInvalidInterval = errors.New("repeat interval must be positive")

	// ErrInvalidSchedule is returned for a schedule with an unknown type or no time
	ErrInvalidSchedule = errors.New("invalid schedule")

	// ErrInvalidReactType is returned for a timer react type other than message or reaction
	ErrInvalidReactType = errors.New("unknown react type")

	// ErrUnknownFaction is returned for a faction outside models.Factions
	ErrUnknownFaction = errors.New("unknown faction")

	// ErrInvalidWindow is returned when a time window ends before it starts
	ErrInvalidWindow = errors.New("window must end after it starts")
)
