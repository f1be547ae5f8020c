// Package usecase implements the business logic for the multiples feature.
package usecase

import "errors"

var (
	// ErrMultipleNotFound is returned when no multiple row exists at a given level.
	ErrMultipleNotFound = errors.New("industry multiple not found")

	// ErrMissingIndustry is returned when an import row has no industry name.
	ErrMissingIndustry = errors.New("industry name is required")

	// ErrInvalidRange is returned when a multiple or margin range has low > high.
	ErrInvalidRange = errors.New("range low must not exceed high")

	// ErrEmptyImport is returned when a bulk replace contains no rows.
	ErrEmptyImport = errors.New("import contains no rows")
)
