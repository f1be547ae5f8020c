package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	assessentity "github.com/bradfeldman/exit-osx-sub011/internal/feature/assessment/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/actionplan/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/actionplan/usecase"
)

type taskGorm struct {
	db *gorm.DB
}

var _ usecase.TaskRepository = (*taskGorm)(nil)

func NewTaskRepository(db *gorm.DB) *taskGorm {
	return &taskGorm{db: db}
}

type TaskModel struct {
	ID              uint    `gorm:"primaryKey"`
	CompanyID       uint    `gorm:"not null;index:task_company_plan,priority:1"`
	Title           string  `gorm:"size:255;not null"`
	Category        string  `gorm:"size:32;not null"`
	RawImpact       float64 `gorm:"not null;default:0"`
	NormalizedValue float64 `gorm:"not null;default:0"`
	PriorityRank    int     `gorm:"not null;default:0"`
	Status          string  `gorm:"size:32;not null;index"`
	InActionPlan    bool    `gorm:"not null;default:false;index:task_company_plan,priority:2"`
	CompletedValue  *float64
	CompletedAt     *time.Time

	QuestionID      *uint
	UpgradeOptionID *uint

	OnboardingOrigin bool    `gorm:"not null;default:false"`
	CategoryUplift   float64 `gorm:"not null;default:0"`

	AssigneeID *uint
	DueDate    *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (TaskModel) TableName() string {
	return "tasks"
}

// terminalStatuses are the states that remove a task from the working set.
var terminalStatuses = []string{
	string(entity.StatusCompleted),
	string(entity.StatusCancelled),
	string(entity.StatusDeferred),
	string(entity.StatusNotApplicable),
}

func toTaskModel(e *entity.Task) TaskModel {
	return TaskModel{
		ID:               e.ID,
		CompanyID:        e.CompanyID,
		Title:            e.Title,
		Category:         string(e.Category),
		RawImpact:        e.RawImpact,
		NormalizedValue:  e.NormalizedValue,
		PriorityRank:     e.PriorityRank,
		Status:           string(e.Status),
		InActionPlan:     e.InActionPlan,
		CompletedValue:   e.CompletedValue,
		CompletedAt:      e.CompletedAt,
		QuestionID:       e.QuestionID,
		UpgradeOptionID:  e.UpgradeOptionID,
		OnboardingOrigin: e.OnboardingOrigin,
		CategoryUplift:   e.CategoryUplift,
		AssigneeID:       e.AssigneeID,
		DueDate:          e.DueDate,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func toTaskEntity(m TaskModel) entity.Task {
	return entity.Task{
		ID:               m.ID,
		CompanyID:        m.CompanyID,
		Title:            m.Title,
		Category:         assessentity.Category(m.Category),
		RawImpact:        m.RawImpact,
		NormalizedValue:  m.NormalizedValue,
		PriorityRank:     m.PriorityRank,
		Status:           entity.Status(m.Status),
		InActionPlan:     m.InActionPlan,
		CompletedValue:   m.CompletedValue,
		CompletedAt:      m.CompletedAt,
		QuestionID:       m.QuestionID,
		UpgradeOptionID:  m.UpgradeOptionID,
		OnboardingOrigin: m.OnboardingOrigin,
		CategoryUplift:   m.CategoryUplift,
		AssigneeID:       m.AssigneeID,
		DueDate:          m.DueDate,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func (r *taskGorm) FindByID(ctx context.Context, companyID, taskID uint) (*entity.Task, error) {
	var m TaskModel
	err := r.db.WithContext(ctx).Where("company_id = ? AND id = ?", companyID, taskID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usecase.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	e := toTaskEntity(m)
	return &e, nil
}

func (r *taskGorm) Save(ctx context.Context, task *entity.Task) error {
	m := toTaskModel(task)
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *taskGorm) CountPlanMembers(ctx context.Context, companyID uint) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&TaskModel{}).
		Where("company_id = ? AND in_action_plan = ? AND status NOT IN ?", companyID, true, terminalStatuses).
		Count(&count).Error
	return int(count), err
}

func (r *taskGorm) CountBacklog(ctx context.Context, companyID uint) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&TaskModel{}).
		Where("company_id = ? AND in_action_plan = ? AND status NOT IN ?", companyID, false, terminalStatuses).
		Count(&count).Error
	return int(count), err
}

// ListBacklog returns the top limit backlog tasks ordered by priority rank
// ascending, then raw dollar impact descending.
func (r *taskGorm) ListBacklog(ctx context.Context, companyID uint, limit int) ([]entity.Task, error) {
	var rows []TaskModel
	q := r.db.WithContext(ctx).
		Where("company_id = ? AND in_action_plan = ? AND status NOT IN ?", companyID, false, terminalStatuses).
		Order("priority_rank ASC, raw_impact DESC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Task, 0, len(rows))
	for _, m := range rows {
		out = append(out, toTaskEntity(m))
	}
	return out, nil
}

func (r *taskGorm) MarkInPlan(ctx context.Context, taskIDs []uint, assigneeID *uint, dueDate *time.Time) error {
	if len(taskIDs) == 0 {
		return nil
	}
	updates := map[string]any{"in_action_plan": true}
	if assigneeID != nil {
		updates["assignee_id"] = *assigneeID
	}
	if dueDate != nil {
		updates["due_date"] = *dueDate
	}
	return r.db.WithContext(ctx).Model(&TaskModel{}).
		Where("id IN ?", taskIDs).
		Updates(updates).Error
}

func (r *taskGorm) ClearPlan(ctx context.Context, companyID uint) error {
	return r.db.WithContext(ctx).Model(&TaskModel{}).
		Where("company_id = ? AND in_action_plan = ?", companyID, true).
		Update("in_action_plan", false).Error
}
