package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	assessentity "github.com/bradfeldman/exit-osx-sub011/internal/feature/assessment/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/usecase"
)

// TestComputeCoreScore はコアファクターからのコアスコア算出を検証します。
func TestComputeCoreScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		factors  *entity.CoreFactors
		expected float64
	}{
		{
			name:     "absent factors score a neutral one",
			factors:  nil,
			expected: 1.0,
		},
		{
			name: "best profile scores one",
			factors: &entity.CoreFactors{
				RevenueBucket:    entity.RevenueBucketOver20M,
				RevenueModel:     entity.RevenueModelRecurring,
				GrossMarginBand:  entity.BandHigh,
				LaborIntensity:   entity.BandLow,
				AssetIntensity:   entity.BandLow,
				OwnerInvolvement: entity.BandLow,
			},
			expected: 1.0,
		},
		{
			name: "worst profile",
			factors: &entity.CoreFactors{
				RevenueBucket:    entity.RevenueBucketUnder1M,
				RevenueModel:     entity.RevenueModelProject,
				GrossMarginBand:  entity.BandLow,
				LaborIntensity:   entity.BandHigh,
				AssetIntensity:   entity.BandHigh,
				OwnerInvolvement: entity.BandHigh,
			},
			// (0.4+0.4+0.4+0.4+0.4+0.3)/6
			expected: 2.3 / 6,
		},
		{
			name: "unknown values score neutrally",
			factors: &entity.CoreFactors{
				RevenueBucket:    "SOMETHING_NEW",
				RevenueModel:     "",
				GrossMarginBand:  "",
				LaborIntensity:   "",
				AssetIntensity:   "",
				OwnerInvolvement: "",
			},
			expected: 0.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := usecase.ComputeCoreScore(tt.factors)

			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

// TestComputeCategoryScores はカテゴリー別サブスコアの集計を検証します。
func TestComputeCategoryScores(t *testing.T) {
	t.Parallel()

	cfg := usecase.DefaultScoreConfig()

	t.Run("answered categories average their scores", func(t *testing.T) {
		t.Parallel()

		answers := []assessentity.EffectiveAnswer{
			{QuestionID: 1, Category: assessentity.CategoryFinancial, ScoreValue: 1.0, Answered: true},
			{QuestionID: 2, Category: assessentity.CategoryFinancial, ScoreValue: 0.5, Answered: true},
			{QuestionID: 3, Category: assessentity.CategoryOperational, ScoreValue: 0.2, Answered: true},
		}

		scores := usecase.ComputeCategoryScores(answers, nil, cfg)

		assert.InDelta(t, 0.75, scores[assessentity.CategoryFinancial], 1e-9)
		assert.InDelta(t, 0.2, scores[assessentity.CategoryOperational], 1e-9)
	})

	t.Run("unanswered categories use the default", func(t *testing.T) {
		t.Parallel()

		scores := usecase.ComputeCategoryScores(nil, nil, cfg)

		assert.Len(t, scores, 6)
		for _, c := range assessentity.AllCategories() {
			assert.InDelta(t, usecase.DefaultUnansweredScore, scores[c], 1e-9, "category %s", c)
		}
	})

	t.Run("not applicable answers do not count", func(t *testing.T) {
		t.Parallel()

		answers := []assessentity.EffectiveAnswer{
			{QuestionID: 1, Category: assessentity.CategoryLegalTax, ScoreValue: 0, Answered: false},
		}

		scores := usecase.ComputeCategoryScores(answers, nil, cfg)

		assert.InDelta(t, usecase.DefaultUnansweredScore, scores[assessentity.CategoryLegalTax], 1e-9)
	})

	t.Run("adjustments add and clamp to the unit interval", func(t *testing.T) {
		t.Parallel()

		answers := []assessentity.EffectiveAnswer{
			{QuestionID: 1, Category: assessentity.CategoryMarket, ScoreValue: 0.95, Answered: true},
		}
		adjustments := []entity.CategoryAdjustment{
			{Category: assessentity.CategoryMarket, Delta: 0.1},
			{Category: assessentity.CategoryPersonal, Delta: 0.05},
		}

		scores := usecase.ComputeCategoryScores(answers, adjustments, cfg)

		assert.InDelta(t, 1.0, scores[assessentity.CategoryMarket], 1e-9)
		assert.InDelta(t, 0.75, scores[assessentity.CategoryPersonal], 1e-9)
	})
}

// TestComputeBRI はカテゴリースコアの重み付き平均を検証します。
func TestComputeBRI(t *testing.T) {
	t.Parallel()

	t.Run("equal weights average the six categories", func(t *testing.T) {
		t.Parallel()

		scores := entity.CategoryScores{
			assessentity.CategoryFinancial:       1.0,
			assessentity.CategoryTransferability: 0.5,
			assessentity.CategoryOperational:     0.5,
			assessentity.CategoryMarket:          0.5,
			assessentity.CategoryLegalTax:        0.5,
			assessentity.CategoryPersonal:        0.6,
		}

		bri := usecase.ComputeBRI(scores, usecase.DefaultScoreConfig())

		assert.InDelta(t, 3.6/6, bri, 1e-9)
	})

	t.Run("weights normalize so partial overrides stay in range", func(t *testing.T) {
		t.Parallel()

		cfg := usecase.ScoreConfig{
			CategoryWeights: map[assessentity.Category]float64{
				assessentity.CategoryFinancial: 3,
				assessentity.CategoryPersonal:  1,
			},
			UnansweredDefault: usecase.DefaultUnansweredScore,
		}
		scores := entity.CategoryScores{
			assessentity.CategoryFinancial: 1.0,
			assessentity.CategoryPersonal:  0.2,
		}

		bri := usecase.ComputeBRI(scores, cfg)

		assert.InDelta(t, (3*1.0+1*0.2)/4, bri, 1e-9)
		assert.LessOrEqual(t, bri, 1.0)
	})

	t.Run("zero total weight falls back to the default", func(t *testing.T) {
		t.Parallel()

		cfg := usecase.ScoreConfig{UnansweredDefault: 0.7}

		bri := usecase.ComputeBRI(entity.CategoryScores{}, cfg)

		assert.InDelta(t, 0.7, bri, 1e-9)
	})
}
