// Package entity defines the domain models for the valuation feature.
package entity

import (
	multientity "github.com/bradfeldman/exit-osx-sub011/internal/feature/multiples/domain/entity"
)

// Company is the read-only slice of the company record this core consumes.
// Company management itself lives in a collaborating subsystem.
type Company struct {
	ID             uint
	Name           string
	AnnualRevenue  float64
	Classification multientity.Classification
}
