// Package usecase はmultiplesフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bradfeldman/exit-osx-sub011/internal/feature/multiples/domain/entity"
)

const (
	// DefaultEBITDAMultipleLow はフォールバック時のEBITDAマルチプル下限です。
	DefaultEBITDAMultipleLow = 3.5
	// DefaultEBITDAMultipleHigh はフォールバック時のEBITDAマルチプル上限です。
	DefaultEBITDAMultipleHigh = 5.5
	// DefaultAssumedMargin はフォールバック時の想定EBITDAマージンです。
	DefaultAssumedMargin = 0.10
)

// IndustryMultipleRepository はマルチプルデータの永続化層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type IndustryMultipleRepository interface {
	// FindByLevel は指定された階層レベルで名前が一致する行を取得します。
	// 一致する行が存在しない場合、ErrMultipleNotFoundを返します。
	FindByLevel(ctx context.Context, level entity.MatchLevel, name string) (*entity.IndustryMultiple, error)

	// ReplaceAll は全行を新しいデータセットで置き換えます。
	ReplaceAll(ctx context.Context, rows []entity.IndustryMultiple) error
}

// resolver は業種分類からマルチプルレンジを解決します。
// 解決順序: サブセクター → セクター → スーパーセクター → 業種 → デフォルト値。
// 最初に一致したレベルが採用され、レベル間のブレンドは行いません。
type resolver struct {
	multiples IndustryMultipleRepository
}

// NewResolver はresolverの新しいインスタンスを生成します。
func NewResolver(multiples IndustryMultipleRepository) *resolver {
	return &resolver{multiples: multiples}
}

// Resolve は分類パスを上位階層へ辿りながらマルチプルレンジを解決します。
// subSectorOverride が空でない場合、分類パスのサブセクターより優先されます。
// どのレベルにも一致しない場合はハードコードされたデフォルト値を返します
// （呼び出し側は IsDefault / MatchLevel で実データとの区別が可能です）。
func (r *resolver) Resolve(ctx context.Context, c entity.Classification, subSectorOverride string) (entity.ResolvedMultiple, error) {
	type attempt struct {
		level entity.MatchLevel
		name  string
	}

	attempts := make([]attempt, 0, 4)
	if subSectorOverride != "" {
		attempts = append(attempts, attempt{entity.MatchSubSector, subSectorOverride})
	} else if c.SubSector != nil && *c.SubSector != "" {
		attempts = append(attempts, attempt{entity.MatchSubSector, *c.SubSector})
	}
	if c.Sector != nil && *c.Sector != "" {
		attempts = append(attempts, attempt{entity.MatchSector, *c.Sector})
	}
	if c.SuperSector != nil && *c.SuperSector != "" {
		attempts = append(attempts, attempt{entity.MatchSuperSector, *c.SuperSector})
	}
	if c.Industry != "" {
		attempts = append(attempts, attempt{entity.MatchIndustry, c.Industry})
	}

	for _, a := range attempts {
		row, err := r.multiples.FindByLevel(ctx, a.level, a.name)
		if errors.Is(err, ErrMultipleNotFound) {
			continue
		}
		if err != nil {
			return entity.ResolvedMultiple{}, fmt.Errorf("resolve multiples at %s: %w", a.level, err)
		}
		return entity.ResolvedMultiple{
			EBITDAMultipleLow:   row.EBITDAMultipleLow,
			EBITDAMultipleHigh:  row.EBITDAMultipleHigh,
			RevenueMultipleLow:  row.RevenueMultipleLow,
			RevenueMultipleHigh: row.RevenueMultipleHigh,
			EBITDAMarginLow:     row.EBITDAMarginLow,
			EBITDAMarginHigh:    row.EBITDAMarginHigh,
			IndustryName:        row.Industry,
			MatchLevel:          a.level,
			IsDefault:           false,
		}, nil
	}

	return defaultMultiple(c.Industry), nil
}

// defaultMultiple はどのレベルにも一致しなかった場合のフォールバック値を返します。
func defaultMultiple(industry string) entity.ResolvedMultiple {
	margin := DefaultAssumedMargin
	return entity.ResolvedMultiple{
		EBITDAMultipleLow:  DefaultEBITDAMultipleLow,
		EBITDAMultipleHigh: DefaultEBITDAMultipleHigh,
		EBITDAMarginLow:    &margin,
		EBITDAMarginHigh:   &margin,
		IndustryName:       industry,
		MatchLevel:         entity.MatchDefault,
		IsDefault:          true,
	}
}
