package secret

import "errors"

var (
	// ErrInvalidLength is returned when the requested length is below 1.
	ErrInvalidLength = errors.New("secret: length must be at least 1")

	// ErrEmptyAlphabet is returned when the alphabet has no symbols.
	ErrEmptyAlphabet = errors.New("secret: alphabet must not be empty")
)
