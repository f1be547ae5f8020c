// Package usecase はmultiplesフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bradfeldman/exit-osx-sub011/internal/feature/multiples/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/shared/ratelimiter"
)

// CompanyLister は全社再計算の対象となる企業ID一覧の読み取り層を抽象化します。
type CompanyLister interface {
	// ListIDs は登録されている全企業のIDを返します。
	ListIDs(ctx context.Context) ([]uint, error)
}

// Recalculator はマルチプル変更後のバリュエーション再計算を抽象化します。
type Recalculator interface {
	// Recalculate は指定企業のバリュエーションを再計算し、新しいスナップショットを記録します。
	Recalculate(ctx context.Context, companyID uint, reason, createdBy string) error
}

// ImportResult は一括置換後の全社再計算の集計結果です。
type ImportResult struct {
	Total      int
	Successful int
	Failed     int
}

// importUsecase はマルチプルデータの一括置換と、それに伴う全社再計算を実装します。
type importUsecase struct {
	multiples IndustryMultipleRepository
	companies CompanyLister
	recalc    Recalculator
	limiter   ratelimiter.RateLimiterInterface
}

// NewImportUsecase はimportUsecaseの新しいインスタンスを生成します。
// limiter は再計算ループのペーシングに使用します（nil可）。
func NewImportUsecase(multiples IndustryMultipleRepository, companies CompanyLister,
	recalc Recalculator, limiter ratelimiter.RateLimiterInterface) *importUsecase {
	return &importUsecase{multiples: multiples, companies: companies, recalc: recalc, limiter: limiter}
}

// validateRow は1行分のインポートデータを検証します。
// 書き込み前にすべての検証を行い、不正な行はそのまま呼び出し元へ返します。
func validateRow(row entity.IndustryMultiple) error {
	if row.Industry == "" {
		return ErrMissingIndustry
	}
	if row.EBITDAMultipleLow > row.EBITDAMultipleHigh {
		return fmt.Errorf("ebitda multiple for %q: %w", row.Industry, ErrInvalidRange)
	}
	if row.RevenueMultipleLow > row.RevenueMultipleHigh {
		return fmt.Errorf("revenue multiple for %q: %w", row.Industry, ErrInvalidRange)
	}
	if row.EBITDAMarginLow != nil && row.EBITDAMarginHigh != nil && *row.EBITDAMarginLow > *row.EBITDAMarginHigh {
		return fmt.Errorf("ebitda margin for %q: %w", row.Industry, ErrInvalidRange)
	}
	return nil
}

// ReplaceAll はマルチプルデータを一括置換し、全企業の再計算を実行します。
// 個別企業の再計算失敗は集計のみ行い、残りの企業の処理や置換自体は中断しません。
func (u *importUsecase) ReplaceAll(ctx context.Context, rows []entity.IndustryMultiple) (ImportResult, error) {
	if len(rows) == 0 {
		return ImportResult{}, ErrEmptyImport
	}
	for _, row := range rows {
		if err := validateRow(row); err != nil {
			return ImportResult{}, err
		}
	}

	if err := u.multiples.ReplaceAll(ctx, rows); err != nil {
		return ImportResult{}, fmt.Errorf("replace industry multiples: %w", err)
	}

	ids, err := u.companies.ListIDs(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("list companies for recalculation: %w", err)
	}

	result := ImportResult{Total: len(ids)}
	for _, id := range ids {
		if u.limiter != nil {
			u.limiter.WaitIfNeeded()
		}
		if err := u.recalc.Recalculate(ctx, id, "industry multiples updated", "admin-import"); err != nil {
			// 部分失敗は許容する: 件数に計上して次の企業へ進む
			slog.Warn("recalculation failed after multiple import", "company_id", id, "error", err)
			result.Failed++
			continue
		}
		result.Successful++
	}
	return result, nil
}
