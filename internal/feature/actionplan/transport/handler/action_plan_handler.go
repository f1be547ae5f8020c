// Package handler はactionplanフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bradfeldman/exit-osx-sub011/internal/api"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/actionplan/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/actionplan/transport/http/dto"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/actionplan/usecase"
	jwtmw "github.com/bradfeldman/exit-osx-sub011/internal/platform/jwt"
)

// SchedulerUsecase はアクションプランの生成・補充・状態参照・状態遷移を定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type SchedulerUsecase interface {
	Generate(ctx context.Context, companyID uint, dueDate time.Time, carryForward bool, defaultAssigneeID *uint) (usecase.GenerateResult, error)
	Refill(ctx context.Context, companyID uint) (usecase.RefillResult, error)
	Status(ctx context.Context, companyID uint) (usecase.PlanStatus, error)
	UpdateStatus(ctx context.Context, companyID, taskID uint, newStatus entity.Status, actor string) (*entity.Task, error)
}

// ActionPlanHandler はアクションプラン関連のHTTPリクエストを処理します。
type ActionPlanHandler struct {
	scheduler SchedulerUsecase
}

// NewActionPlanHandler はActionPlanHandlerの新しいインスタンスを生成します。
func NewActionPlanHandler(scheduler SchedulerUsecase) *ActionPlanHandler {
	return &ActionPlanHandler{scheduler: scheduler}
}

func companyID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid company id"})
		return 0, false
	}
	return uint(id), true
}

// Generate はアクションプランを明示的に構築します。
//
// エンドポイント例:
// POST /companies/:id/action-plan/generate
func (h *ActionPlanHandler) Generate(c *gin.Context) {
	id, ok := companyID(c)
	if !ok {
		return
	}

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	res, err := h.scheduler.Generate(c.Request.Context(), id, req.DueDate.Time, req.CarryForward, req.DefaultAssigneeID)
	if err != nil {
		respondActionPlanError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, dto.GenerateResponse{
		TasksInPlan:         res.TasksInPlan,
		TasksCarriedForward: res.TasksCarriedForward,
		NewTasksAdded:       res.NewTasksAdded,
	})
}

// Refill は空きスロット分だけバックログからプランへ補充します。
//
// エンドポイント例:
// POST /companies/:id/action-plan/refill
func (h *ActionPlanHandler) Refill(c *gin.Context) {
	id, ok := companyID(c)
	if !ok {
		return
	}

	res, err := h.scheduler.Refill(c.Request.Context(), id)
	if err != nil {
		respondActionPlanError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, dto.RefillResponse{
		Added:          res.Added,
		Total:          res.Total,
		QueueRemaining: res.QueueRemaining,
	})
}

// Status はアクションプランの現在の状態を返します。
//
// エンドポイント例:
// GET /companies/:id/action-plan/status
func (h *ActionPlanHandler) Status(c *gin.Context) {
	id, ok := companyID(c)
	if !ok {
		return
	}

	status, err := h.scheduler.Status(c.Request.Context(), id)
	if err != nil {
		respondActionPlanError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{
		ActionPlanCount: status.ActionPlanCount,
		QueueCount:      status.QueueCount,
		MaxCapacity:     status.MaxCapacity,
		SlotsAvailable:  status.SlotsAvailable,
		CanRefresh:      status.CanRefresh,
	})
}

// UpdateTaskStatus はタスクの状態遷移を処理します。
//
// エンドポイント例:
// PATCH /companies/:id/tasks/:taskId/status
func (h *ActionPlanHandler) UpdateTaskStatus(c *gin.Context) {
	id, ok := companyID(c)
	if !ok {
		return
	}
	taskID, err := strconv.ParseUint(c.Param("taskId"), 10, 64)
	if err != nil || taskID == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid task id"})
		return
	}

	var req dto.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	task, err := h.scheduler.UpdateStatus(c.Request.Context(), id, uint(taskID),
		entity.Status(req.Status), jwtmw.ActorFrom(c))
	if err != nil {
		respondActionPlanError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

func toTaskResponse(task *entity.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:              task.ID,
		CompanyID:       task.CompanyID,
		Title:           task.Title,
		Category:        string(task.Category),
		RawImpact:       task.RawImpact,
		NormalizedValue: task.NormalizedValue,
		PriorityRank:    task.PriorityRank,
		Status:          string(task.Status),
		InActionPlan:    task.InActionPlan,
		CompletedValue:  task.CompletedValue,
		CompletedAt:     task.CompletedAt,
		DueDate:         task.DueDate,
	}
}

func respondActionPlanError(c *gin.Context, companyID uint, err error) {
	switch {
	case errors.Is(err, usecase.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrInvalidStatus), errors.Is(err, usecase.ErrInvalidDueDate):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrTaskAlreadyTerminal):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("action plan request failed", "company_id", companyID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
	}
}
