package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrRoomNotFound = errors.New("room not found")

	// ErrLockHeld means another request currently holds the advisory lock
	// for the room. Contention, not a capacity verdict.
	ErrLockHeld = errors.New("room lock already held")
)
