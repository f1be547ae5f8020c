package di

import (
	"context"

	multiplesusecase "github.com/bradfeldman/exit-osx-sub011/internal/feature/multiples/usecase"
	valentity "github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/domain/entity"
)

// snapshotRecalculator is the valuation pipeline as the scheduler sees it.
type snapshotRecalculator interface {
	Recalculate(ctx context.Context, companyID uint, reason, createdBy string) (*valentity.ValuationSnapshot, error)
}

// importRecalculator adapts the valuation pipeline to the multiples import,
// which only needs to know whether the recalculation succeeded.
type importRecalculator struct {
	inner snapshotRecalculator
}

// NewImportRecalculator wraps the valuation pipeline for the bulk import sweep.
func NewImportRecalculator(inner snapshotRecalculator) multiplesusecase.Recalculator {
	return importRecalculator{inner: inner}
}

func (a importRecalculator) Recalculate(ctx context.Context, companyID uint, reason, createdBy string) error {
	_, err := a.inner.Recalculate(ctx, companyID, reason, createdBy)
	return err
}
