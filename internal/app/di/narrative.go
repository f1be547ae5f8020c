package di

import (
	"context"
	"log"
	"time"

	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/adapters/gemini"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/usecase"
	platformhttp "github.com/bradfeldman/exit-osx-sub011/internal/platform/http"
)

// NewNarrativeGenerator creates the Gemini-backed narrative generator.
// When the client cannot be constructed (missing credentials, etc.) it
// returns nil and the valuation usecase falls back to template narratives.
func NewNarrativeGenerator(ctx context.Context) usecase.NarrativeGenerator {
	httpClient := platformhttp.NewHTTPClient(30 * time.Second)
	gen, err := gemini.NewNarrativeGemini(ctx, httpClient)
	if err != nil {
		log.Println("[WARN] Gemini unavailable. Using template narratives only:", err)
		return nil
	}
	return gen
}
