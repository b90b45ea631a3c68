package sampledata

import "errors"

// ErrInvalidConfig is returned when generator settings are out of range.
var ErrInvalidConfig = errors.New("invalid sample config")
