package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bradfeldman/exit-osx-sub011/internal/feature/multiples/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/multiples/usecase"
)

type industryMultipleGorm struct {
	db *gorm.DB
}

var _ usecase.IndustryMultipleRepository = (*industryMultipleGorm)(nil)

func NewIndustryMultipleRepository(db *gorm.DB) *industryMultipleGorm {
	return &industryMultipleGorm{db: db}
}

type IndustryMultipleModel struct {
	ID                  uint    `gorm:"primaryKey"`
	Industry            string  `gorm:"size:128;not null;index"`
	SuperSector         *string `gorm:"size:128;index"`
	Sector              *string `gorm:"size:128;index"`
	SubSector           *string `gorm:"size:128;index"`
	EBITDAMultipleLow   float64 `gorm:"not null"`
	EBITDAMultipleHigh  float64 `gorm:"not null"`
	RevenueMultipleLow  float64 `gorm:"not null"`
	RevenueMultipleHigh float64 `gorm:"not null"`
	EBITDAMarginLow     *float64
	EBITDAMarginHigh    *float64
	EffectiveDate       time.Time `gorm:"not null"`
	Source              string    `gorm:"size:255"`
}

func (IndustryMultipleModel) TableName() string {
	return "industry_multiples"
}

func toModel(e entity.IndustryMultiple) IndustryMultipleModel {
	return IndustryMultipleModel{
		Industry:            e.Industry,
		SuperSector:         e.SuperSector,
		Sector:              e.Sector,
		SubSector:           e.SubSector,
		EBITDAMultipleLow:   e.EBITDAMultipleLow,
		EBITDAMultipleHigh:  e.EBITDAMultipleHigh,
		RevenueMultipleLow:  e.RevenueMultipleLow,
		RevenueMultipleHigh: e.RevenueMultipleHigh,
		EBITDAMarginLow:     e.EBITDAMarginLow,
		EBITDAMarginHigh:    e.EBITDAMarginHigh,
		EffectiveDate:       e.EffectiveDate,
		Source:              e.Source,
	}
}

func toEntity(m IndustryMultipleModel) entity.IndustryMultiple {
	return entity.IndustryMultiple{
		ID:                  m.ID,
		Industry:            m.Industry,
		SuperSector:         m.SuperSector,
		Sector:              m.Sector,
		SubSector:           m.SubSector,
		EBITDAMultipleLow:   m.EBITDAMultipleLow,
		EBITDAMultipleHigh:  m.EBITDAMultipleHigh,
		RevenueMultipleLow:  m.RevenueMultipleLow,
		RevenueMultipleHigh: m.RevenueMultipleHigh,
		EBITDAMarginLow:     m.EBITDAMarginLow,
		EBITDAMarginHigh:    m.EBITDAMarginHigh,
		EffectiveDate:       m.EffectiveDate,
		Source:              m.Source,
	}
}

// FindByLevel looks up the most recently effective row matching name at the
// given hierarchy level.
func (r *industryMultipleGorm) FindByLevel(ctx context.Context, level entity.MatchLevel, name string) (*entity.IndustryMultiple, error) {
	q := r.db.WithContext(ctx).Model(&IndustryMultipleModel{})
	switch level {
	case entity.MatchSubSector:
		q = q.Where("sub_sector = ?", name)
	case entity.MatchSector:
		q = q.Where("sector = ?", name)
	case entity.MatchSuperSector:
		q = q.Where("super_sector = ?", name)
	case entity.MatchIndustry:
		q = q.Where("industry = ?", name)
	default:
		return nil, usecase.ErrMultipleNotFound
	}

	var row IndustryMultipleModel
	if err := q.Order("effective_date DESC").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrMultipleNotFound
		}
		return nil, err
	}
	e := toEntity(row)
	return &e, nil
}

// ReplaceAll swaps the entire dataset in one transaction so readers never see
// a partially imported table.
func (r *industryMultipleGorm) ReplaceAll(ctx context.Context, rows []entity.IndustryMultiple) error {
	ms := make([]IndustryMultipleModel, 0, len(rows))
	for _, e := range rows {
		ms = append(ms, toModel(e))
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&IndustryMultipleModel{}).Error; err != nil {
			return err
		}
		return tx.Create(&ms).Error
	})
}
