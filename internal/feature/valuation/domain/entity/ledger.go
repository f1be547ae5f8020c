package entity

import "time"

// Narrative sources recorded on ledger entries for observability. Callers
// never branch on the source; both paths yield a usable narrative.
const (
	NarrativeSourceGemini   = "gemini"
	NarrativeSourceTemplate = "template"
)

// ValueLedgerEntry records the delta between a snapshot and its immediate
// predecessor: value recovered (positive) or put at risk (negative), the BRI
// movement, and a human-readable narrative.
type ValueLedgerEntry struct {
	UID             string
	CompanyID       uint
	SnapshotUID     string
	PrevSnapshotUID *string
	ValueDelta      float64
	BRIDelta        float64
	Reason          string
	Narrative       string
	NarrativeSource string
	CreatedAt       time.Time
}
