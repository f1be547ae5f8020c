// Package dto defines data transfer objects for the actionplan HTTP API.
package dto

import (
	"time"

	"github.com/oapi-codegen/runtime/types"
)

// GenerateRequest builds a fresh action plan. DueDate uses the date-only wire
// format (YYYY-MM-DD) and must fall within 90 days of today, inclusive.
type GenerateRequest struct {
	DueDate           types.Date `json:"dueDate" binding:"required"`
	CarryForward      bool       `json:"carryForward"`
	DefaultAssigneeID *uint      `json:"defaultAssigneeId"`
}

// GenerateResponse reports the outcome of a Generate call.
type GenerateResponse struct {
	TasksInPlan         int `json:"tasksInPlan"`
	TasksCarriedForward int `json:"tasksCarriedForward"`
	NewTasksAdded       int `json:"newTasksAdded"`
}

// RefillResponse reports the outcome of a Refill call.
type RefillResponse struct {
	Added          int `json:"added"`
	Total          int `json:"total"`
	QueueRemaining int `json:"queueRemaining"`
}

// StatusResponse is the current action-plan state.
type StatusResponse struct {
	ActionPlanCount int  `json:"actionPlanCount"`
	QueueCount      int  `json:"queueCount"`
	MaxCapacity     int  `json:"maxCapacity"`
	SlotsAvailable  int  `json:"slotsAvailable"`
	CanRefresh      bool `json:"canRefresh"`
}

// UpdateTaskStatusRequest transitions a task to a new lifecycle state.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// TaskResponse is the wire form of one task.
type TaskResponse struct {
	ID              uint       `json:"id"`
	CompanyID       uint       `json:"companyId"`
	Title           string     `json:"title"`
	Category        string     `json:"category"`
	RawImpact       float64    `json:"rawImpact"`
	NormalizedValue float64    `json:"normalizedValue"`
	PriorityRank    int        `json:"priorityRank"`
	Status          string     `json:"status"`
	InActionPlan    bool       `json:"inActionPlan"`
	CompletedValue  *float64   `json:"completedValue,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	DueDate         *time.Time `json:"dueDate,omitempty"`
}
