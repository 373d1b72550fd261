package usecase

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("resource not found")
	ErrNoBaseline       = errors.New("no baseline distribution available")
	ErrRunUnpublishable = errors.New("run failed quality gate")
)
