package repository

import "errors"

// Sentinel kinds for audit input and output errors.
var (
	ErrMissingColumn = errors.New("missing required column")
	ErrMalformedRow  = errors.New("malformed audit row")
	ErrCommit        = errors.New("commit outputs failed")
)
