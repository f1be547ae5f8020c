// Package usecase はvaluationフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"math"
	"os"
	"strconv"
)

const (
	// DefaultAlpha はBRIの不足がバリュエーションを毀損する強さを制御する定数のデフォルト値です。
	DefaultAlpha = 0.4
	// EnvKeyAlpha はALPHAを上書きする環境変数名です。
	EnvKeyAlpha = "VALUATION_ALPHA"
)

// EngineConfig はバリュエーションエンジンへ注入する設定値です。
// テストやテナントごとに変更できるよう、グローバル変数ではなく注入で渡します。
type EngineConfig struct {
	Alpha float64
}

// LoadEngineConfig は環境変数からエンジン設定を読み込みます。
// 未設定または[0,1]外の値の場合はデフォルト値を使用します。
func LoadEngineConfig() EngineConfig {
	alpha := DefaultAlpha
	if v := os.Getenv(EnvKeyAlpha); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			alpha = f
		}
	}
	return EngineConfig{Alpha: alpha}
}

// EngineResult はバリュエーションエンジンの出力です。
// 金額はすべて通貨単位に丸め済みで、同一入力に対しビット単位で一致します
// （クライアント側プレビューとサーバー側永続化が照合できる必要があるため）。
type EngineResult struct {
	BaseMultiple     float64
	DiscountFraction float64
	FinalMultiple    float64
	CurrentValue     float64
	PotentialValue   float64
	ValueGap         float64
}

// ComputeValuation は調整後EBITDA・マルチプルレンジ・コアスコア・BRIから
// バリュエーションを算出する純粋関数です。
//
//	baseMultiple     = low + coreScore × (high − low)   … [low, high]にクランプ
//	discountFraction = alpha × (1 − briScore)           … [0, 1]にクランプ
//	finalMultiple    = baseMultiple × (1 − discountFraction)
//	potentialValue   = adjustedEBITDA × baseMultiple
//	currentValue     = adjustedEBITDA × finalMultiple
//	valueGap         = potentialValue − currentValue    … 0未満にはならない
//
// 上流データ（スコアやマルチプル）が不完全な場合でも、負の値やレンジ外の
// マルチプルは伝播させず、エンジン境界で防御的にクランプします。
func ComputeValuation(adjustedEBITDA, multipleLow, multipleHigh, coreScore, briScore float64, cfg EngineConfig) EngineResult {
	if adjustedEBITDA < 0 {
		adjustedEBITDA = 0
	}
	if multipleLow < 0 {
		multipleLow = 0
	}
	if multipleHigh < multipleLow {
		multipleHigh = multipleLow
	}
	coreScore = clamp01(coreScore)
	briScore = clamp01(briScore)

	baseMultiple := multipleLow + coreScore*(multipleHigh-multipleLow)
	baseMultiple = clamp(baseMultiple, multipleLow, multipleHigh)

	discountFraction := clamp01(cfg.Alpha * (1 - briScore))
	finalMultiple := baseMultiple * (1 - discountFraction)

	potentialValue := math.Round(adjustedEBITDA * baseMultiple)
	currentValue := math.Round(adjustedEBITDA * finalMultiple)
	valueGap := potentialValue - currentValue
	if valueGap < 0 {
		valueGap = 0
	}

	return EngineResult{
		BaseMultiple:     baseMultiple,
		DiscountFraction: discountFraction,
		FinalMultiple:    finalMultiple,
		CurrentValue:     currentValue,
		PotentialValue:   potentialValue,
		ValueGap:         valueGap,
	}
}

func clamp(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
