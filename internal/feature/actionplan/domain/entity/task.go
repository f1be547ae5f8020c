// Package entity defines the domain models for the actionplan feature.
package entity

import (
	"time"

	assessentity "github.com/bradfeldman/exit-osx-sub011/internal/feature/assessment/domain/entity"
)

// Status is a task's lifecycle state.
type Status string

const (
	StatusPending       Status = "PENDING"
	StatusInProgress    Status = "IN_PROGRESS"
	StatusCompleted     Status = "COMPLETED"
	StatusCancelled     Status = "CANCELLED"
	StatusDeferred      Status = "DEFERRED"
	StatusNotApplicable Status = "NOT_APPLICABLE"
	StatusBlocked       Status = "BLOCKED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled,
		StatusDeferred, StatusNotApplicable, StatusBlocked:
		return true
	}
	return false
}

// Terminal reports whether s removes a task from the working set. Terminal
// states are absorbing: a terminal task never re-enters the backlog or plan.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusDeferred, StatusNotApplicable:
		return true
	}
	return false
}

// Task is one unit of recommended work drawn from a company's backlog.
//
// CompletedValue is frozen exactly once, at the transition into COMPLETED,
// and never recomputed afterward: it is a historical fact that survives later
// multiple or score changes.
type Task struct {
	ID              uint
	CompanyID       uint
	Title           string
	Category        assessentity.Category
	RawImpact       float64
	NormalizedValue float64
	PriorityRank    int
	Status          Status
	InActionPlan    bool
	CompletedValue  *float64
	CompletedAt     *time.Time

	// Assessment-linked tasks: completing the task upgrades the effective
	// answer of QuestionID to UpgradeOptionID before recalculation.
	QuestionID      *uint
	UpgradeOptionID *uint

	// Onboarding-generated tasks carry no linked question; their completion
	// applies CategoryUplift directly to the task's category.
	OnboardingOrigin bool
	CategoryUplift   float64

	AssigneeID *uint
	DueDate    *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
