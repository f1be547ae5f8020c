// Package usecase はvaluationフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/domain/entity"
)

const (
	// DefaultNarrativeTimeout は外部テキスト生成呼び出しの上限時間です。
	DefaultNarrativeTimeout = 3 * time.Second
	// EnvKeyNarrativeTimeout はタイムアウト秒数を上書きする環境変数名です。
	EnvKeyNarrativeTimeout = "NARRATIVE_TIMEOUT_SECONDS"
)

// NarrativeGenerator は外部テキスト生成サービスを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type NarrativeGenerator interface {
	// Generate はプロンプトからナラティブ文字列を生成します。
	Generate(ctx context.Context, prompt string) (string, error)
}

// NarrativeConfig はナラティブ生成の設定です。
type NarrativeConfig struct {
	Timeout time.Duration
}

// LoadNarrativeConfig は環境変数からナラティブ設定を読み込みます。
func LoadNarrativeConfig() NarrativeConfig {
	timeout := DefaultNarrativeTimeout
	if v := os.Getenv(EnvKeyNarrativeTimeout); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			timeout = time.Duration(sec) * time.Second
		}
	}
	return NarrativeConfig{Timeout: timeout}
}

// generateNarrative はスナップショットの差分を説明するナラティブを生成します。
// 外部サービスの失敗・タイムアウト・未設定（nil）はエラーとして伝播させず、
// 常に決定的なテンプレート文へフォールバックします。戻り値はナラティブ本文と
// 出所タグ（entity.NarrativeSourceGemini / entity.NarrativeSourceTemplate）です。
func generateNarrative(ctx context.Context, gen NarrativeGenerator, cfg NarrativeConfig,
	snap *entity.ValuationSnapshot, prev *entity.ValuationSnapshot) (string, string) {

	fallback := templateNarrative(snap, prev)
	if gen == nil {
		return fallback, entity.NarrativeSourceTemplate
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	text, err := gen.Generate(ctx, narrativePrompt(snap, prev))
	if err != nil || strings.TrimSpace(text) == "" {
		// 劣化はエラーではない: テンプレート文で代替し、記録のみ残す
		slog.Warn("narrative generation degraded to template", "company_id", snap.CompanyID, "error", err)
		return fallback, entity.NarrativeSourceTemplate
	}
	return strings.TrimSpace(text), entity.NarrativeSourceGemini
}

// narrativePrompt は外部テキスト生成サービスに渡すプロンプトを組み立てます。
func narrativePrompt(snap *entity.ValuationSnapshot, prev *entity.ValuationSnapshot) string {
	var b strings.Builder
	b.WriteString("Write two sentences for a business owner explaining this change in their company's estimated sale value. ")
	fmt.Fprintf(&b, "Trigger: %s. Current value: $%.0f. Potential value: $%.0f. Value gap: $%.0f. Readiness score: %.2f.",
		snap.Reason, snap.CurrentValue, snap.PotentialValue, snap.ValueGap, snap.BRIOverall)
	if prev != nil {
		fmt.Fprintf(&b, " Previous value: $%.0f. Previous readiness score: %.2f.", prev.CurrentValue, prev.BRIOverall)
	}
	b.WriteString(" Do not use markdown.")
	return b.String()
}

// templateNarrative は外部サービスなしで成立する決定的なナラティブ文です。
// 同一入力に対して常に同じ文字列を返します。
func templateNarrative(snap *entity.ValuationSnapshot, prev *entity.ValuationSnapshot) string {
	if prev == nil {
		return fmt.Sprintf("Baseline valuation recorded (%s): current value $%.0f, potential value $%.0f, value gap $%.0f.",
			snap.Reason, snap.CurrentValue, snap.PotentialValue, snap.ValueGap)
	}
	delta := snap.CurrentValue - prev.CurrentValue
	switch {
	case delta > 0:
		return fmt.Sprintf("Valuation updated (%s): current value rose $%.0f to $%.0f; remaining value gap $%.0f.",
			snap.Reason, delta, snap.CurrentValue, snap.ValueGap)
	case delta < 0:
		return fmt.Sprintf("Valuation updated (%s): current value fell $%.0f to $%.0f; remaining value gap $%.0f.",
			snap.Reason, -delta, snap.CurrentValue, snap.ValueGap)
	default:
		return fmt.Sprintf("Valuation updated (%s): current value unchanged at $%.0f; remaining value gap $%.0f.",
			snap.Reason, snap.CurrentValue, snap.ValueGap)
	}
}
