package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/usecase"
)

// TestComputeValuation はバリュエーションエンジンの各種シナリオをテーブル駆動テストで検証します。
func TestComputeValuation(t *testing.T) {
	t.Parallel()

	cfg := usecase.EngineConfig{Alpha: 0.4}

	tests := []struct {
		name           string
		adjustedEBITDA float64
		multipleLow    float64
		multipleHigh   float64
		coreScore      float64
		briScore       float64
		expected       usecase.EngineResult
	}{
		{
			name:           "mid-range core with partial readiness",
			adjustedEBITDA: 700000,
			multipleLow:    3.0,
			multipleHigh:   5.0,
			coreScore:      0.5,
			briScore:       0.6,
			expected: usecase.EngineResult{
				BaseMultiple:     4.0,
				DiscountFraction: 0.16,
				FinalMultiple:    3.36,
				CurrentValue:     2352000,
				PotentialValue:   2800000,
				ValueGap:         448000,
			},
		},
		{
			name:           "perfect readiness removes the discount",
			adjustedEBITDA: 700000,
			multipleLow:    3.0,
			multipleHigh:   5.0,
			coreScore:      0.5,
			briScore:       1.0,
			expected: usecase.EngineResult{
				BaseMultiple:     4.0,
				DiscountFraction: 0,
				FinalMultiple:    4.0,
				CurrentValue:     2800000,
				PotentialValue:   2800000,
				ValueGap:         0,
			},
		},
		{
			name:           "zero readiness applies the full alpha discount",
			adjustedEBITDA: 1000000,
			multipleLow:    3.5,
			multipleHigh:   5.5,
			coreScore:      1.0,
			briScore:       0,
			expected: usecase.EngineResult{
				BaseMultiple:     5.5,
				DiscountFraction: 0.4,
				FinalMultiple:    3.3,
				CurrentValue:     3300000,
				PotentialValue:   5500000,
				ValueGap:         2200000,
			},
		},
		{
			name:           "core score pins base multiple to the low end",
			adjustedEBITDA: 500000,
			multipleLow:    3.0,
			multipleHigh:   5.0,
			coreScore:      0,
			briScore:       1.0,
			expected: usecase.EngineResult{
				BaseMultiple:     3.0,
				DiscountFraction: 0,
				FinalMultiple:    3.0,
				CurrentValue:     1500000,
				PotentialValue:   1500000,
				ValueGap:         0,
			},
		},
		{
			name:           "zero ebitda yields zero values",
			adjustedEBITDA: 0,
			multipleLow:    3.0,
			multipleHigh:   5.0,
			coreScore:      0.8,
			briScore:       0.5,
			expected: usecase.EngineResult{
				BaseMultiple:     4.6,
				DiscountFraction: 0.2,
				FinalMultiple:    3.68,
				CurrentValue:     0,
				PotentialValue:   0,
				ValueGap:         0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := usecase.ComputeValuation(tt.adjustedEBITDA, tt.multipleLow, tt.multipleHigh,
				tt.coreScore, tt.briScore, cfg)

			assert.InDelta(t, tt.expected.BaseMultiple, got.BaseMultiple, 1e-9)
			assert.InDelta(t, tt.expected.DiscountFraction, got.DiscountFraction, 1e-9)
			assert.InDelta(t, tt.expected.FinalMultiple, got.FinalMultiple, 1e-9)
			assert.Equal(t, tt.expected.CurrentValue, got.CurrentValue)
			assert.Equal(t, tt.expected.PotentialValue, got.PotentialValue)
			assert.Equal(t, tt.expected.ValueGap, got.ValueGap)
		})
	}
}

// TestComputeValuation_DefensiveClamping は不正な上流入力がエンジン境界でクランプされることを検証します。
func TestComputeValuation_DefensiveClamping(t *testing.T) {
	t.Parallel()

	cfg := usecase.EngineConfig{Alpha: 0.4}

	t.Run("negative ebitda treated as zero", func(t *testing.T) {
		t.Parallel()

		got := usecase.ComputeValuation(-100000, 3.0, 5.0, 0.5, 0.5, cfg)

		assert.Zero(t, got.CurrentValue)
		assert.Zero(t, got.PotentialValue)
		assert.Zero(t, got.ValueGap)
	})

	t.Run("scores outside unit interval are clamped", func(t *testing.T) {
		t.Parallel()

		got := usecase.ComputeValuation(700000, 3.0, 5.0, 1.7, -0.3, cfg)

		assert.Equal(t, 5.0, got.BaseMultiple)
		assert.InDelta(t, 0.4, got.DiscountFraction, 1e-9)
	})

	t.Run("inverted multiple range collapses to low", func(t *testing.T) {
		t.Parallel()

		got := usecase.ComputeValuation(700000, 5.0, 3.0, 0.5, 1.0, cfg)

		assert.Equal(t, 5.0, got.BaseMultiple)
		assert.Equal(t, 5.0, got.FinalMultiple)
	})

	t.Run("alpha above one never discounts more than everything", func(t *testing.T) {
		t.Parallel()

		got := usecase.ComputeValuation(700000, 3.0, 5.0, 0.5, 0, usecase.EngineConfig{Alpha: 1.5})

		assert.Equal(t, 1.0, got.DiscountFraction)
		assert.Zero(t, got.CurrentValue)
	})
}

// TestComputeValuation_BRIMonotonicity はBRIが高いほどcurrentValueが単調に増加することを検証します。
func TestComputeValuation_BRIMonotonicity(t *testing.T) {
	t.Parallel()

	cfg := usecase.EngineConfig{Alpha: 0.4}

	prev := -1.0
	for bri := 0.0; bri <= 1.0; bri += 0.05 {
		got := usecase.ComputeValuation(700000, 3.0, 5.0, 0.5, bri, cfg)
		assert.GreaterOrEqual(t, got.CurrentValue, prev, "currentValue must not decrease as BRI rises (bri=%.2f)", bri)
		assert.GreaterOrEqual(t, got.ValueGap, 0.0)
		prev = got.CurrentValue
	}
}

// TestLoadEngineConfig は環境変数からのALPHA読み込みとフォールバックを検証します。
func TestLoadEngineConfig(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected float64
	}{
		{"unset uses default", "", usecase.DefaultAlpha},
		{"valid override", "0.25", 0.25},
		{"zero is allowed", "0", 0},
		{"out of range falls back", "1.5", usecase.DefaultAlpha},
		{"negative falls back", "-0.1", usecase.DefaultAlpha},
		{"garbage falls back", "abc", usecase.DefaultAlpha},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(usecase.EnvKeyAlpha, tt.envValue)

			cfg := usecase.LoadEngineConfig()

			assert.Equal(t, tt.expected, cfg.Alpha)
		})
	}
}
