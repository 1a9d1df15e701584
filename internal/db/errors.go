package db

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrInvalidStatus = errors.New("unknown game status")
	ErrStateMismatch = errors.New("review does not belong to game")
)
