// Package handler はmultiplesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bradfeldman/exit-osx-sub011/internal/api"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/multiples/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/multiples/transport/http/dto"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/multiples/usecase"
)

// ImportUsecase はマルチプルデータの一括置換を定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ImportUsecase interface {
	ReplaceAll(ctx context.Context, rows []entity.IndustryMultiple) (usecase.ImportResult, error)
}

// MultiplesHandler は業種マルチプル関連のHTTPリクエストを処理します。
type MultiplesHandler struct {
	importer ImportUsecase
}

// NewMultiplesHandler はMultiplesHandlerの新しいインスタンスを生成します。
func NewMultiplesHandler(importer ImportUsecase) *MultiplesHandler {
	return &MultiplesHandler{importer: importer}
}

// Import はマルチプルテーブルを一括置換し、全社再計算の集計を返します。
//
// エンドポイント例:
// PUT /admin/industry-multiples
func (h *MultiplesHandler) Import(c *gin.Context) {
	var req dto.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	rows := make([]entity.IndustryMultiple, 0, len(req.Rows))
	for _, r := range req.Rows {
		rows = append(rows, r.ToEntity())
	}

	result, err := h.importer.ReplaceAll(c.Request.Context(), rows)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyImport),
			errors.Is(err, usecase.ErrMissingIndustry),
			errors.Is(err, usecase.ErrInvalidRange):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("industry multiple import failed", "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ImportResponse{
		Total:      result.Total,
		Successful: result.Successful,
		Failed:     result.Failed,
	})
}
