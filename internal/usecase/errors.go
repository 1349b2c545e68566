package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrDataIntegrity marks states upstream constraints should have made
	// impossible, e.g. more pointed picks than games in a week. The affected
	// unit is abandoned; nothing is partially written.
	ErrDataIntegrity = errors.New("data integrity violation")
)
