package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	assessentity "github.com/bradfeldman/exit-osx-sub011/internal/feature/assessment/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/usecase"
)

type adjustmentGorm struct {
	db *gorm.DB
}

var _ usecase.AdjustmentRepository = (*adjustmentGorm)(nil)

func NewAdjustmentRepository(db *gorm.DB) *adjustmentGorm {
	return &adjustmentGorm{db: db}
}

type CategoryAdjustmentModel struct {
	ID        uint      `gorm:"primaryKey"`
	CompanyID uint      `gorm:"not null;index"`
	Category  string    `gorm:"size:32;not null"`
	Delta     float64   `gorm:"not null"`
	Reason    string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"not null"`
}

func (CategoryAdjustmentModel) TableName() string {
	return "category_adjustments"
}

func (r *adjustmentGorm) ListByCompany(ctx context.Context, companyID uint) ([]entity.CategoryAdjustment, error) {
	var rows []CategoryAdjustmentModel
	if err := r.db.WithContext(ctx).Where("company_id = ?", companyID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.CategoryAdjustment, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.CategoryAdjustment{
			ID:        m.ID,
			CompanyID: m.CompanyID,
			Category:  assessentity.Category(m.Category),
			Delta:     m.Delta,
			Reason:    m.Reason,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

func (r *adjustmentGorm) Append(ctx context.Context, adj *entity.CategoryAdjustment) error {
	m := CategoryAdjustmentModel{
		CompanyID: adj.CompanyID,
		Category:  string(adj.Category),
		Delta:     adj.Delta,
		Reason:    adj.Reason,
		CreatedAt: adj.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}
