// Package usecase はvaluationフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"math"

	multientity "github.com/bradfeldman/exit-osx-sub011/internal/feature/multiples/domain/entity"
)

// EBITDARoundingUnit は調整後EBITDAの丸め単位（10万ドル）です。
const EBITDARoundingUnit = 100_000

// EstimateAdjustedEBITDA は年間売上と解決済みマルチプルレンジから調整後EBITDAを導出します。
//
//   - 明示的なマージンレンジがある場合: 売上 × マージン中央値
//   - ない場合: EV = 売上 × 売上マルチプル = EBITDA × EBITDAマルチプル の恒等式から
//     レンジ両端の含意EBITDAを求め、その中央値を採用
//   - 売上が0以下の場合は0
//
// すべてのバリュエーション経路（プレビュー・オンボーディング・再計算）が
// この関数を唯一の情報源として使用し、表示値と永続化値の乖離を防ぎます。
func EstimateAdjustedEBITDA(revenue float64, m multientity.ResolvedMultiple) float64 {
	if revenue <= 0 {
		return 0
	}

	if m.EBITDAMarginLow != nil && m.EBITDAMarginHigh != nil {
		margin := (*m.EBITDAMarginLow + *m.EBITDAMarginHigh) / 2
		if margin <= 0 {
			return 0
		}
		return roundToUnit(revenue*margin, EBITDARoundingUnit)
	}

	if m.EBITDAMultipleLow <= 0 || m.EBITDAMultipleHigh <= 0 {
		return 0
	}

	// 保守側の端: 低い売上マルチプルを高いEBITDAマルチプルで割る（逆も同様）
	impliedLow := revenue * (m.RevenueMultipleLow / m.EBITDAMultipleHigh)
	impliedHigh := revenue * (m.RevenueMultipleHigh / m.EBITDAMultipleLow)

	return roundToUnit((impliedLow+impliedHigh)/2, EBITDARoundingUnit)
}

// roundToUnit はvをunitの倍数に四捨五入します。
func roundToUnit(v, unit float64) float64 {
	if unit <= 0 {
		return math.Round(v)
	}
	return math.Round(v/unit) * unit
}
