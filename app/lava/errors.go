package lava

import "errors"

var (
	ErrValidation        = errors.New("lava: invalid input")
	ErrTransport         = errors.New("lava: transport failure")
	ErrSerialization     = errors.New("lava: malformed response")
	ErrConfiguration     = errors.New("lava: client misconfigured")
	ErrSignatureMismatch = errors.New("lava: webhook signature mismatch")
)
