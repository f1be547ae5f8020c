package entity

// Graded attribute values for CoreFactors. Each maps to a [0,1] sub-score in
// the score aggregator; values outside the known set score neutrally.
const (
	RevenueBucketUnder1M = "UNDER_1M"
	RevenueBucket1To5M   = "1M_5M"
	RevenueBucket5To20M  = "5M_20M"
	RevenueBucketOver20M = "OVER_20M"

	RevenueModelRecurring     = "RECURRING"
	RevenueModelContract      = "CONTRACT"
	RevenueModelTransactional = "TRANSACTIONAL"
	RevenueModelProject       = "PROJECT"

	BandLow    = "LOW"
	BandMedium = "MEDIUM"
	BandHigh   = "HIGH"
)

// CoreFactors is a company's one-per-company structural profile, set during
// onboarding and rarely mutated. Its absence is valid and yields a neutral
// Core Score.
type CoreFactors struct {
	CompanyID        uint
	RevenueBucket    string
	RevenueModel     string
	GrossMarginBand  string
	LaborIntensity   string
	AssetIntensity   string
	OwnerInvolvement string
}
