package entity

import (
	"time"

	assessentity "github.com/bradfeldman/exit-osx-sub011/internal/feature/assessment/domain/entity"
)

// CategoryScores holds the six BRI sub-scores, each in [0,1].
type CategoryScores map[assessentity.Category]float64

// ValuationSnapshot is one immutable valuation computation. Snapshots are a
// pure function of their recorded inputs, never updated or deleted, only
// superseded by a newer one.
type ValuationSnapshot struct {
	UID              string
	CompanyID        uint
	AdjustedEBITDA   float64
	MultipleLow      float64
	MultipleHigh     float64
	CoreScore        float64
	BRIOverall       float64
	CategoryScores   CategoryScores
	BaseMultiple     float64
	DiscountFraction float64
	FinalMultiple    float64
	CurrentValue     float64
	PotentialValue   float64
	ValueGap         float64
	Alpha            float64
	Reason           string
	CreatedBy        string
	CreatedAt        time.Time
}

// CategoryAdjustment is a direct BRI uplift for one category, recorded when
// an onboarding-generated task (one with no linked assessment question)
// completes. Adjustments are append-only, like snapshots.
type CategoryAdjustment struct {
	ID        uint
	CompanyID uint
	Category  assessentity.Category
	Delta     float64
	Reason    string
	CreatedAt time.Time
}
