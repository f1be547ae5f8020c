// Package entity defines the domain models for the multiples feature.
package entity

import "time"

// MatchLevel identifies which level of the classification hierarchy a
// multiple was resolved at. Callers use it to distinguish real industry data
// from the hard-coded fallback.
type MatchLevel string

const (
	MatchSubSector   MatchLevel = "SUB_SECTOR"
	MatchSector      MatchLevel = "SECTOR"
	MatchSuperSector MatchLevel = "SUPER_SECTOR"
	MatchIndustry    MatchLevel = "INDUSTRY"
	MatchDefault     MatchLevel = "DEFAULT"
)

// Classification is a company's industry classification path. Industry is
// required; the finer levels are optional.
type Classification struct {
	Industry    string
	SuperSector *string
	Sector      *string
	SubSector   *string
}

// IndustryMultiple is one row of industry multiple data. Every range must
// satisfy low <= high. Rows are seeded with defaults and replaced wholesale
// by administrative imports.
type IndustryMultiple struct {
	ID                 uint
	Industry           string
	SuperSector        *string
	Sector             *string
	SubSector          *string
	EBITDAMultipleLow  float64
	EBITDAMultipleHigh float64
	RevenueMultipleLow float64
	RevenueMultipleHigh float64
	EBITDAMarginLow    *float64
	EBITDAMarginHigh   *float64
	EffectiveDate      time.Time
	Source             string
}

// ResolvedMultiple is the resolver's output: the multiple range that applies
// to a company, plus where it came from.
type ResolvedMultiple struct {
	EBITDAMultipleLow   float64
	EBITDAMultipleHigh  float64
	RevenueMultipleLow  float64
	RevenueMultipleHigh float64
	EBITDAMarginLow     *float64
	EBITDAMarginHigh    *float64
	IndustryName        string
	MatchLevel          MatchLevel
	IsDefault           bool
}
