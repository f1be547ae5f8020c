// Package handler はvaluationフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bradfeldman/exit-osx-sub011/internal/api"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/transport/http/dto"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/usecase"
	jwtmw "github.com/bradfeldman/exit-osx-sub011/internal/platform/jwt"
)

// PreviewUsecase はスナップショットなしのバリュエーション試算を定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type PreviewUsecase interface {
	GetValuation(ctx context.Context, companyID uint) (*usecase.ValuationPreview, error)
}

// RecalcUsecase は再計算パイプラインとスナップショット履歴参照を定義します。
type RecalcUsecase interface {
	Recalculate(ctx context.Context, companyID uint, reason, createdBy string) (*entity.ValuationSnapshot, error)
	Snapshots(ctx context.Context, companyID uint, limit int) ([]entity.ValuationSnapshot, error)
}

// ValuationHandler はバリュエーション関連のHTTPリクエストを処理します。
type ValuationHandler struct {
	preview PreviewUsecase
	recalc  RecalcUsecase
}

// NewValuationHandler はValuationHandlerの新しいインスタンスを生成します。
func NewValuationHandler(preview PreviewUsecase, recalc RecalcUsecase) *ValuationHandler {
	return &ValuationHandler{preview: preview, recalc: recalc}
}

// companyID はパスパラメータ:idを企業IDとして解釈します。
func companyID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid company id"})
		return 0, false
	}
	return uint(id), true
}

// GetValuation はスナップショットを作成しないバリュエーションプレビューを返します。
//
// エンドポイント例:
// GET /companies/:id/valuation
func (h *ValuationHandler) GetValuation(c *gin.Context) {
	id, ok := companyID(c)
	if !ok {
		return
	}

	preview, err := h.preview.GetValuation(c.Request.Context(), id)
	if err != nil {
		respondValuationError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, dto.ValuationPreviewResponse{
		ValuationLow:        preview.ValuationLow,
		ValuationHigh:       preview.ValuationHigh,
		AdjustedEbitda:      preview.AdjustedEBITDA,
		EbitdaMarginPercent: preview.EBITDAMarginPercent,
		MultipleLow:         preview.MultipleLow,
		MultipleHigh:        preview.MultipleHigh,
		IndustryName:        preview.IndustryName,
		HasIndustryMultiple: preview.HasIndustryMultiple,
	})
}

// Recalculate は上流入力の変更後に呼ばれ、新しいスナップショットを返します。
//
// エンドポイント例:
// POST /companies/:id/valuation/recalculate
func (h *ValuationHandler) Recalculate(c *gin.Context) {
	id, ok := companyID(c)
	if !ok {
		return
	}

	var req dto.RecalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	snap, err := h.recalc.Recalculate(c.Request.Context(), id, req.Reason, jwtmw.ActorFrom(c))
	if err != nil {
		respondValuationError(c, id, err)
		return
	}
	c.JSON(http.StatusCreated, toSnapshotResponse(snap))
}

// ListSnapshots はスナップショット履歴を新しい順に返します。
//
// エンドポイント例:
// GET /companies/:id/valuation/snapshots?limit=20
func (h *ValuationHandler) ListSnapshots(c *gin.Context) {
	id, ok := companyID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	snaps, err := h.recalc.Snapshots(c.Request.Context(), id, limit)
	if err != nil {
		respondValuationError(c, id, err)
		return
	}

	out := make([]dto.SnapshotResponse, 0, len(snaps))
	for i := range snaps {
		out = append(out, toSnapshotResponse(&snaps[i]))
	}
	c.JSON(http.StatusOK, out)
}

func toSnapshotResponse(snap *entity.ValuationSnapshot) dto.SnapshotResponse {
	scores := make(map[string]float64, len(snap.CategoryScores))
	for cat, s := range snap.CategoryScores {
		scores[string(cat)] = s
	}
	return dto.SnapshotResponse{
		Uid:              snap.UID,
		CompanyID:        snap.CompanyID,
		AdjustedEbitda:   snap.AdjustedEBITDA,
		MultipleLow:      snap.MultipleLow,
		MultipleHigh:     snap.MultipleHigh,
		CoreScore:        snap.CoreScore,
		BriOverall:       snap.BRIOverall,
		CategoryScores:   scores,
		BaseMultiple:     snap.BaseMultiple,
		DiscountFraction: snap.DiscountFraction,
		FinalMultiple:    snap.FinalMultiple,
		CurrentValue:     snap.CurrentValue,
		PotentialValue:   snap.PotentialValue,
		ValueGap:         snap.ValueGap,
		Alpha:            snap.Alpha,
		Reason:           snap.Reason,
		CreatedBy:        snap.CreatedBy,
		CreatedAt:        snap.CreatedAt,
	}
}

func respondValuationError(c *gin.Context, companyID uint, err error) {
	switch {
	case errors.Is(err, usecase.ErrCompanyNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrNegativeRevenue), errors.Is(err, usecase.ErrInvalidCategory):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("valuation request failed", "company_id", companyID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
	}
}
