// Package dto defines data transfer objects for the multiples admin API.
package dto

import (
	"time"

	"github.com/bradfeldman/exit-osx-sub011/internal/feature/multiples/domain/entity"
)

// ImportRequest replaces the industry multiple table wholesale.
type ImportRequest struct {
	Rows []ImportRow `json:"rows" binding:"required"`
}

// ImportRow is one industry multiple row in the import payload.
type ImportRow struct {
	Industry            string    `json:"industry" binding:"required"`
	SuperSector         *string   `json:"superSector"`
	Sector              *string   `json:"sector"`
	SubSector           *string   `json:"subSector"`
	EbitdaMultipleLow   float64   `json:"ebitdaMultipleLow"`
	EbitdaMultipleHigh  float64   `json:"ebitdaMultipleHigh"`
	RevenueMultipleLow  float64   `json:"revenueMultipleLow"`
	RevenueMultipleHigh float64   `json:"revenueMultipleHigh"`
	EbitdaMarginLow     *float64  `json:"ebitdaMarginLow"`
	EbitdaMarginHigh    *float64  `json:"ebitdaMarginHigh"`
	EffectiveDate       time.Time `json:"effectiveDate"`
	Source              string    `json:"source"`
}

// ImportResponse summarizes the import and the follow-up recalculation sweep.
type ImportResponse struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// ToEntity converts an ImportRow to its domain form.
func (r ImportRow) ToEntity() entity.IndustryMultiple {
	return entity.IndustryMultiple{
		Industry:            r.Industry,
		SuperSector:         r.SuperSector,
		Sector:              r.Sector,
		SubSector:           r.SubSector,
		EBITDAMultipleLow:   r.EbitdaMultipleLow,
		EBITDAMultipleHigh:  r.EbitdaMultipleHigh,
		RevenueMultipleLow:  r.RevenueMultipleLow,
		RevenueMultipleHigh: r.RevenueMultipleHigh,
		EBITDAMarginLow:     r.EbitdaMarginLow,
		EBITDAMarginHigh:    r.EbitdaMarginHigh,
		EffectiveDate:       r.EffectiveDate,
		Source:              r.Source,
	}
}
