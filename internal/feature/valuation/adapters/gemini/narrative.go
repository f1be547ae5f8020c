// Package gemini はGoogle Gemini APIを使用したナラティブ生成クライアントを提供します。
package gemini

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// NarrativeGemini はGoogle Gemini APIを使用してバリューレジャーの
// ナラティブ文を生成します。呼び出しはベストエフォートで、失敗時の
// フォールバックは利用側（valuation usecase）が行います。
type NarrativeGemini struct {
	client *genai.Client
	model  string
}

// NarrativeGeminiがNarrativeGeneratorを実装していることをコンパイル時に検証します。
var _ usecase.NarrativeGenerator = (*NarrativeGemini)(nil)

// NewNarrativeGemini はADCを使用してNarrativeGeminiの新しいインスタンスを生成します。
// httpClient にはタイムアウト設定済みのクライアントを渡します（nil可）。
// 環境変数 GOOGLE_GENAI_USE_VERTEXAI, GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION が必要です。
func NewNarrativeGemini(ctx context.Context, httpClient *http.Client) (*NarrativeGemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{HTTPClient: httpClient})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &NarrativeGemini{client: client, model: DefaultModel}, nil
}

// Generate はプロンプトからナラティブ文を生成します。
func (g *NarrativeGemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}
	return resp.Text(), nil
}
