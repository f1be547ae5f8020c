// Package usecase implements the business logic for the valuation feature.
package usecase

import "errors"

var (
	// ErrCompanyNotFound is returned when no company exists for the given ID.
	ErrCompanyNotFound = errors.New("company not found")

	// ErrInvalidCategory is returned when a BRI adjustment names an unknown category.
	ErrInvalidCategory = errors.New("invalid readiness category")

	// ErrNegativeRevenue is returned when a company record carries negative revenue.
	ErrNegativeRevenue = errors.New("annual revenue must not be negative")
)
