package suggest

import "errors"

var (
	// ErrEmptyInput is returned by Contains and Delete for an empty word.
	ErrEmptyInput = errors.New("empty strings are not maintained")
	// ErrPrefixTooShort is returned for a prefix under the minimum prefix length.
	ErrPrefixTooShort = errors.New("prefix is too short")
	// ErrNonPositiveWindow is returned when the window k is zero or negative.
	ErrNonPositiveWindow = errors.New("window must be a positive integer")
)
