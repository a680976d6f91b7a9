package usecase

import "errors"

var (
	// ErrNoData is returned when the database holds no derivative records at all.
	ErrNoData = errors.New("no data in database; import a CSV first")

	// ErrNotFound is returned when no record matches the requested date or symbol.
	ErrNotFound = errors.New("no matching records")
)
