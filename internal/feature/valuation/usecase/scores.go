// Package usecase はvaluationフィーチャーのビジネスロジックを実装します。
package usecase

import (
	assessentity "github.com/bradfeldman/exit-osx-sub011/internal/feature/assessment/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/domain/entity"
)

const (
	// DefaultUnansweredScore は未回答・不明・対象外カテゴリーのデフォルトスコアです。
	// 未回答を失敗として扱わないよう、0ではなく保守的中間値を使用します。
	DefaultUnansweredScore = 0.7

	// neutralSubScore は未知のコアファクター値に与える中立サブスコアです。
	neutralSubScore = 0.7
)

// ScoreConfig はスコア集計の重み付け設定です。重みは使用時に正規化されるため、
// 部分的な上書きでBRIが[0,1]を外れることはありません。
type ScoreConfig struct {
	CategoryWeights   map[assessentity.Category]float64
	UnansweredDefault float64
}

// DefaultScoreConfig は6カテゴリー等重み・未回答デフォルト0.7の設定を返します。
func DefaultScoreConfig() ScoreConfig {
	weights := make(map[assessentity.Category]float64, 6)
	for _, c := range assessentity.AllCategories() {
		weights[c] = 1
	}
	return ScoreConfig{
		CategoryWeights:   weights,
		UnansweredDefault: DefaultUnansweredScore,
	}
}

// Per-attribute sub-score lookup tables for CoreFactors. Unknown values fall
// back to neutralSubScore rather than penalizing incomplete onboarding data.
var (
	revenueBucketScores = map[string]float64{
		entity.RevenueBucketUnder1M: 0.4,
		entity.RevenueBucket1To5M:   0.6,
		entity.RevenueBucket5To20M:  0.8,
		entity.RevenueBucketOver20M: 1.0,
	}
	revenueModelScores = map[string]float64{
		entity.RevenueModelRecurring:     1.0,
		entity.RevenueModelContract:      0.8,
		entity.RevenueModelTransactional: 0.6,
		entity.RevenueModelProject:       0.4,
	}
	grossMarginScores = map[string]float64{
		entity.BandHigh:   1.0,
		entity.BandMedium: 0.7,
		entity.BandLow:    0.4,
	}
	laborIntensityScores = map[string]float64{
		entity.BandLow:    1.0,
		entity.BandMedium: 0.7,
		entity.BandHigh:   0.4,
	}
	assetIntensityScores = map[string]float64{
		entity.BandLow:    1.0,
		entity.BandMedium: 0.7,
		entity.BandHigh:   0.4,
	}
	ownerInvolvementScores = map[string]float64{
		entity.BandLow:    1.0,
		entity.BandMedium: 0.6,
		entity.BandHigh:   0.3,
	}
)

func subScore(table map[string]float64, value string) float64 {
	if s, ok := table[value]; ok {
		return s
	}
	return neutralSubScore
}

// ComputeCoreScore はコアファクターから構造的耐久性スコア（[0,1]）を算出します。
// ファクター未登録（nil）の場合は1.0を返します: アセスメント前のオンボーディング
// 段階では「既知の構造的ペナルティなし」として扱います。
func ComputeCoreScore(f *entity.CoreFactors) float64 {
	if f == nil {
		return 1.0
	}
	sum := subScore(revenueBucketScores, f.RevenueBucket) +
		subScore(revenueModelScores, f.RevenueModel) +
		subScore(grossMarginScores, f.GrossMarginBand) +
		subScore(laborIntensityScores, f.LaborIntensity) +
		subScore(assetIntensityScores, f.AssetIntensity) +
		subScore(ownerInvolvementScores, f.OwnerInvolvement)
	return clamp01(sum / 6)
}

// ComputeCategoryScores は有効回答と直接調整から6カテゴリーのサブスコアを算出します。
// カテゴリースコアは回答済みスコアの平均で、回答が1件もないカテゴリーは
// UnansweredDefaultになります。調整デルタは加算後に[0,1]へクランプします。
func ComputeCategoryScores(answers []assessentity.EffectiveAnswer,
	adjustments []entity.CategoryAdjustment, cfg ScoreConfig) entity.CategoryScores {

	sums := make(map[assessentity.Category]float64)
	counts := make(map[assessentity.Category]int)
	for _, a := range answers {
		if !a.Answered || !a.Category.Valid() {
			continue
		}
		sums[a.Category] += clamp01(a.ScoreValue)
		counts[a.Category]++
	}

	scores := make(entity.CategoryScores, 6)
	for _, c := range assessentity.AllCategories() {
		if counts[c] > 0 {
			scores[c] = sums[c] / float64(counts[c])
		} else {
			scores[c] = clamp01(cfg.UnansweredDefault)
		}
	}

	for _, adj := range adjustments {
		if !adj.Category.Valid() {
			continue
		}
		scores[adj.Category] = clamp01(scores[adj.Category] + adj.Delta)
	}
	return scores
}

// ComputeBRI はカテゴリースコアの重み付き平均としてBRI全体値を算出します。
// 重みの合計で除算するため、結果は常に[0,1]に収まります。
func ComputeBRI(scores entity.CategoryScores, cfg ScoreConfig) float64 {
	var weighted, total float64
	for _, c := range assessentity.AllCategories() {
		w := cfg.CategoryWeights[c]
		if w <= 0 {
			continue
		}
		weighted += w * clamp01(scores[c])
		total += w
	}
	if total == 0 {
		return clamp01(cfg.UnansweredDefault)
	}
	return clamp01(weighted / total)
}
