package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	multientity "github.com/bradfeldman/exit-osx-sub011/internal/feature/multiples/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/usecase"
)

type companyGorm struct {
	db *gorm.DB
}

var _ usecase.CompanyReader = (*companyGorm)(nil)

func NewCompanyReader(db *gorm.DB) *companyGorm {
	return &companyGorm{db: db}
}

// CompanyModel reads the slice of the collaborator-owned companies table this
// core needs: revenue and the industry classification path.
type CompanyModel struct {
	ID            uint    `gorm:"primaryKey"`
	Name          string  `gorm:"size:255;not null"`
	AnnualRevenue float64 `gorm:"not null;default:0"`
	Industry      string  `gorm:"size:128;not null"`
	SuperSector   *string `gorm:"size:128"`
	Sector        *string `gorm:"size:128"`
	SubSector     *string `gorm:"size:128"`
}

func (CompanyModel) TableName() string {
	return "companies"
}

func (r *companyGorm) FindByID(ctx context.Context, id uint) (*entity.Company, error) {
	var m CompanyModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrCompanyNotFound
		}
		return nil, err
	}
	return &entity.Company{
		ID:            m.ID,
		Name:          m.Name,
		AnnualRevenue: m.AnnualRevenue,
		Classification: multientity.Classification{
			Industry:    m.Industry,
			SuperSector: m.SuperSector,
			Sector:      m.Sector,
			SubSector:   m.SubSector,
		},
	}, nil
}

// ListIDs returns every company ID, used by the bulk recalculation after an
// industry-multiple import.
func (r *companyGorm) ListIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&CompanyModel{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
