// Package dto defines data transfer objects for the valuation HTTP API.
package dto

import "time"

// ValuationPreviewResponse is the snapshot-free valuation estimate returned
// before any assessment exists.
type ValuationPreviewResponse struct {
	ValuationLow        float64 `json:"valuationLow"`
	ValuationHigh       float64 `json:"valuationHigh"`
	AdjustedEbitda      float64 `json:"adjustedEbitda"`
	EbitdaMarginPercent float64 `json:"ebitdaMarginPercent"`
	MultipleLow         float64 `json:"multipleLow"`
	MultipleHigh        float64 `json:"multipleHigh"`
	IndustryName        string  `json:"industryName"`
	HasIndustryMultiple bool    `json:"hasIndustryMultiple"`
}

// RecalculateRequest carries the reason collaborators pass when they mutate
// an upstream input.
type RecalculateRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// SnapshotResponse is the wire form of one valuation snapshot.
type SnapshotResponse struct {
	Uid              string             `json:"uid"`
	CompanyID        uint               `json:"companyId"`
	AdjustedEbitda   float64            `json:"adjustedEbitda"`
	MultipleLow      float64            `json:"multipleLow"`
	MultipleHigh     float64            `json:"multipleHigh"`
	CoreScore        float64            `json:"coreScore"`
	BriOverall       float64            `json:"briOverall"`
	CategoryScores   map[string]float64 `json:"categoryScores"`
	BaseMultiple     float64            `json:"baseMultiple"`
	DiscountFraction float64            `json:"discountFraction"`
	FinalMultiple    float64            `json:"finalMultiple"`
	CurrentValue     float64            `json:"currentValue"`
	PotentialValue   float64            `json:"potentialValue"`
	ValueGap         float64            `json:"valueGap"`
	Alpha            float64            `json:"alpha"`
	Reason           string             `json:"reason"`
	CreatedBy        string             `json:"createdBy"`
	CreatedAt        time.Time          `json:"createdAt"`
}
