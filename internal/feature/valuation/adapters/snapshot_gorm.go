package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	assessentity "github.com/bradfeldman/exit-osx-sub011/internal/feature/assessment/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/usecase"
)

const defaultSnapshotListLimit = 50

type snapshotGorm struct {
	db *gorm.DB
}

var _ usecase.SnapshotRepository = (*snapshotGorm)(nil)

func NewSnapshotRepository(db *gorm.DB) *snapshotGorm {
	return &snapshotGorm{db: db}
}

// SnapshotModel is the persisted form of a ValuationSnapshot. The six
// category sub-scores are stored as columns so trend queries stay flat SQL.
// Rows are append-only; there is no update path through this adapter.
type SnapshotModel struct {
	ID                   uint      `gorm:"primaryKey"`
	UID                  string    `gorm:"size:36;not null;uniqueIndex"`
	CompanyID            uint      `gorm:"not null;index:snap_company_created,priority:1"`
	AdjustedEBITDA       float64   `gorm:"not null"`
	MultipleLow          float64   `gorm:"not null"`
	MultipleHigh         float64   `gorm:"not null"`
	CoreScore            float64   `gorm:"not null"`
	BRIOverall           float64   `gorm:"not null"`
	FinancialScore       float64   `gorm:"not null"`
	TransferabilityScore float64   `gorm:"not null"`
	OperationalScore     float64   `gorm:"not null"`
	MarketScore          float64   `gorm:"not null"`
	LegalTaxScore        float64   `gorm:"not null"`
	PersonalScore        float64   `gorm:"not null"`
	BaseMultiple         float64   `gorm:"not null"`
	DiscountFraction     float64   `gorm:"not null"`
	FinalMultiple        float64   `gorm:"not null"`
	CurrentValue         float64   `gorm:"not null"`
	PotentialValue       float64   `gorm:"not null"`
	ValueGap             float64   `gorm:"not null"`
	Alpha                float64   `gorm:"not null"`
	Reason               string    `gorm:"size:255;not null"`
	CreatedBy            string    `gorm:"size:128"`
	CreatedAt            time.Time `gorm:"not null;index:snap_company_created,priority:2"`
}

func (SnapshotModel) TableName() string {
	return "valuation_snapshots"
}

func toSnapshotModel(e *entity.ValuationSnapshot) SnapshotModel {
	return SnapshotModel{
		UID:                  e.UID,
		CompanyID:            e.CompanyID,
		AdjustedEBITDA:       e.AdjustedEBITDA,
		MultipleLow:          e.MultipleLow,
		MultipleHigh:         e.MultipleHigh,
		CoreScore:            e.CoreScore,
		BRIOverall:           e.BRIOverall,
		FinancialScore:       e.CategoryScores[assessentity.CategoryFinancial],
		TransferabilityScore: e.CategoryScores[assessentity.CategoryTransferability],
		OperationalScore:     e.CategoryScores[assessentity.CategoryOperational],
		MarketScore:          e.CategoryScores[assessentity.CategoryMarket],
		LegalTaxScore:        e.CategoryScores[assessentity.CategoryLegalTax],
		PersonalScore:        e.CategoryScores[assessentity.CategoryPersonal],
		BaseMultiple:         e.BaseMultiple,
		DiscountFraction:     e.DiscountFraction,
		FinalMultiple:        e.FinalMultiple,
		CurrentValue:         e.CurrentValue,
		PotentialValue:       e.PotentialValue,
		ValueGap:             e.ValueGap,
		Alpha:                e.Alpha,
		Reason:               e.Reason,
		CreatedBy:            e.CreatedBy,
		CreatedAt:            e.CreatedAt,
	}
}

func toSnapshotEntity(m SnapshotModel) entity.ValuationSnapshot {
	return entity.ValuationSnapshot{
		UID:            m.UID,
		CompanyID:      m.CompanyID,
		AdjustedEBITDA: m.AdjustedEBITDA,
		MultipleLow:    m.MultipleLow,
		MultipleHigh:   m.MultipleHigh,
		CoreScore:      m.CoreScore,
		BRIOverall:     m.BRIOverall,
		CategoryScores: entity.CategoryScores{
			assessentity.CategoryFinancial:       m.FinancialScore,
			assessentity.CategoryTransferability: m.TransferabilityScore,
			assessentity.CategoryOperational:     m.OperationalScore,
			assessentity.CategoryMarket:          m.MarketScore,
			assessentity.CategoryLegalTax:        m.LegalTaxScore,
			assessentity.CategoryPersonal:        m.PersonalScore,
		},
		BaseMultiple:     m.BaseMultiple,
		DiscountFraction: m.DiscountFraction,
		FinalMultiple:    m.FinalMultiple,
		CurrentValue:     m.CurrentValue,
		PotentialValue:   m.PotentialValue,
		ValueGap:         m.ValueGap,
		Alpha:            m.Alpha,
		Reason:           m.Reason,
		CreatedBy:        m.CreatedBy,
		CreatedAt:        m.CreatedAt,
	}
}

func (r *snapshotGorm) Append(ctx context.Context, snap *entity.ValuationSnapshot) error {
	m := toSnapshotModel(snap)
	return r.db.WithContext(ctx).Create(&m).Error
}

// LatestByCompany returns the most recent snapshot by creation time, or
// (nil, nil) when the company has none yet.
func (r *snapshotGorm) LatestByCompany(ctx context.Context, companyID uint) (*entity.ValuationSnapshot, error) {
	var m SnapshotModel
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC, id DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e := toSnapshotEntity(m)
	return &e, nil
}

func (r *snapshotGorm) ListByCompany(ctx context.Context, companyID uint, limit int) ([]entity.ValuationSnapshot, error) {
	if limit <= 0 || limit > defaultSnapshotListLimit {
		limit = defaultSnapshotListLimit
	}
	var rows []SnapshotModel
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.ValuationSnapshot, 0, len(rows))
	for _, m := range rows {
		out = append(out, toSnapshotEntity(m))
	}
	return out, nil
}
