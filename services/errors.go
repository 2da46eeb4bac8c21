package services

import "errors"

// ErrMissingColumn is returned when a column the stage depends on is absent.
var ErrMissingColumn = errors.New("missing column")
