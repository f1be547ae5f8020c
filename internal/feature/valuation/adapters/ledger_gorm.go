package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/usecase"
)

type ledgerGorm struct {
	db *gorm.DB
}

var _ usecase.LedgerRepository = (*ledgerGorm)(nil)

func NewLedgerRepository(db *gorm.DB) *ledgerGorm {
	return &ledgerGorm{db: db}
}

type LedgerEntryModel struct {
	ID              uint    `gorm:"primaryKey"`
	UID             string  `gorm:"size:36;not null;uniqueIndex"`
	CompanyID       uint    `gorm:"not null;index"`
	SnapshotUID     string  `gorm:"size:36;not null;index"`
	PrevSnapshotUID *string `gorm:"size:36"`
	ValueDelta      float64 `gorm:"not null"`
	BRIDelta        float64 `gorm:"not null"`
	Reason          string  `gorm:"size:255;not null"`
	Narrative       string  `gorm:"type:text"`
	NarrativeSource string  `gorm:"size:16;not null"`
	CreatedAt       time.Time `gorm:"not null"`
}

func (LedgerEntryModel) TableName() string {
	return "value_ledger_entries"
}

func (r *ledgerGorm) Append(ctx context.Context, e *entity.ValueLedgerEntry) error {
	m := LedgerEntryModel{
		UID:             e.UID,
		CompanyID:       e.CompanyID,
		SnapshotUID:     e.SnapshotUID,
		PrevSnapshotUID: e.PrevSnapshotUID,
		ValueDelta:      e.ValueDelta,
		BRIDelta:        e.BRIDelta,
		Reason:          e.Reason,
		Narrative:       e.Narrative,
		NarrativeSource: e.NarrativeSource,
		CreatedAt:       e.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}
