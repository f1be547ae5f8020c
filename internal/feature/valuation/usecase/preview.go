// Package usecase はvaluationフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"math"
)

// ValuationPreview はアセスメント実施前でも返せる、スナップショットを伴わない
// 読み取り専用のバリュエーション試算です。
type ValuationPreview struct {
	ValuationLow        float64
	ValuationHigh       float64
	AdjustedEBITDA      float64
	EBITDAMarginPercent float64
	MultipleLow         float64
	MultipleHigh        float64
	IndustryName        string
	HasIndustryMultiple bool
}

// previewUsecase はスナップショットを作成しないバリュエーションプレビューを実装します。
type previewUsecase struct {
	companies CompanyReader
	resolver  MultipleResolver
}

// NewPreviewUsecase はpreviewUsecaseの新しいインスタンスを生成します。
func NewPreviewUsecase(companies CompanyReader, resolver MultipleResolver) *previewUsecase {
	return &previewUsecase{companies: companies, resolver: resolver}
}

// GetValuation は企業の現在のレンジ試算を返します。
// 永続化される再計算と同じEstimateAdjustedEBITDAを使用するため、
// プレビュー表示とスナップショットの数値は乖離しません。
func (u *previewUsecase) GetValuation(ctx context.Context, companyID uint) (*ValuationPreview, error) {
	company, err := u.companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.AnnualRevenue < 0 {
		return nil, ErrNegativeRevenue
	}

	resolved, err := u.resolver.Resolve(ctx, company.Classification, "")
	if err != nil {
		return nil, err
	}

	ebitda := EstimateAdjustedEBITDA(company.AnnualRevenue, resolved)

	marginPercent := 0.0
	if company.AnnualRevenue > 0 {
		marginPercent = ebitda / company.AnnualRevenue * 100
	}

	return &ValuationPreview{
		ValuationLow:        math.Round(ebitda * resolved.EBITDAMultipleLow),
		ValuationHigh:       math.Round(ebitda * resolved.EBITDAMultipleHigh),
		AdjustedEBITDA:      ebitda,
		EBITDAMarginPercent: marginPercent,
		MultipleLow:         resolved.EBITDAMultipleLow,
		MultipleHigh:        resolved.EBITDAMultipleHigh,
		IndustryName:        resolved.IndustryName,
		HasIndustryMultiple: !resolved.IsDefault,
	}, nil
}
