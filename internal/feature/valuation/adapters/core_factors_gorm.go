package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/usecase"
)

type coreFactorsGorm struct {
	db *gorm.DB
}

var _ usecase.CoreFactorsReader = (*coreFactorsGorm)(nil)

func NewCoreFactorsReader(db *gorm.DB) *coreFactorsGorm {
	return &coreFactorsGorm{db: db}
}

type CoreFactorsModel struct {
	CompanyID        uint   `gorm:"primaryKey"`
	RevenueBucket    string `gorm:"size:32"`
	RevenueModel     string `gorm:"size:32"`
	GrossMarginBand  string `gorm:"size:32"`
	LaborIntensity   string `gorm:"size:32"`
	AssetIntensity   string `gorm:"size:32"`
	OwnerInvolvement string `gorm:"size:32"`
}

func (CoreFactorsModel) TableName() string {
	return "core_factors"
}

// FindByCompany returns (nil, nil) when no profile exists: absence is valid
// and yields the neutral Core Score upstream.
func (r *coreFactorsGorm) FindByCompany(ctx context.Context, companyID uint) (*entity.CoreFactors, error) {
	var m CoreFactorsModel
	err := r.db.WithContext(ctx).Where("company_id = ?", companyID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity.CoreFactors{
		CompanyID:        m.CompanyID,
		RevenueBucket:    m.RevenueBucket,
		RevenueModel:     m.RevenueModel,
		GrossMarginBand:  m.GrossMarginBand,
		LaborIntensity:   m.LaborIntensity,
		AssetIntensity:   m.AssetIntensity,
		OwnerInvolvement: m.OwnerInvolvement,
	}, nil
}
