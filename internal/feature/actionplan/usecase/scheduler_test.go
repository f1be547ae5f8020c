package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bradfeldman/exit-osx-sub011/internal/feature/actionplan/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/actionplan/usecase"
	assessentity "github.com/bradfeldman/exit-osx-sub011/internal/feature/assessment/domain/entity"
	valentity "github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/domain/entity"
)

// mockTaskRepository はTaskRepositoryインターフェースのモック実装です。
type mockTaskRepository struct {
	FindByIDFunc         func(ctx context.Context, companyID, taskID uint) (*entity.Task, error)
	SaveFunc             func(ctx context.Context, task *entity.Task) error
	CountPlanMembersFunc func(ctx context.Context, companyID uint) (int, error)
	CountBacklogFunc     func(ctx context.Context, companyID uint) (int, error)
	ListBacklogFunc      func(ctx context.Context, companyID uint, limit int) ([]entity.Task, error)
	MarkInPlanFunc       func(ctx context.Context, taskIDs []uint, assigneeID *uint, dueDate *time.Time) error

	saved      []*entity.Task
	marked     [][]uint
	cleared    []uint
	markedDue  []*time.Time
	markedWho  []*uint
}

func (m *mockTaskRepository) FindByID(ctx context.Context, companyID, taskID uint) (*entity.Task, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, companyID, taskID)
	}
	return nil, usecase.ErrTaskNotFound
}

func (m *mockTaskRepository) Save(ctx context.Context, task *entity.Task) error {
	m.saved = append(m.saved, task)
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, task)
	}
	return nil
}

func (m *mockTaskRepository) CountPlanMembers(ctx context.Context, companyID uint) (int, error) {
	if m.CountPlanMembersFunc != nil {
		return m.CountPlanMembersFunc(ctx, companyID)
	}
	return 0, nil
}

func (m *mockTaskRepository) CountBacklog(ctx context.Context, companyID uint) (int, error) {
	if m.CountBacklogFunc != nil {
		return m.CountBacklogFunc(ctx, companyID)
	}
	return 0, nil
}

func (m *mockTaskRepository) ListBacklog(ctx context.Context, companyID uint, limit int) ([]entity.Task, error) {
	if m.ListBacklogFunc != nil {
		return m.ListBacklogFunc(ctx, companyID, limit)
	}
	return nil, nil
}

func (m *mockTaskRepository) MarkInPlan(ctx context.Context, taskIDs []uint, assigneeID *uint, dueDate *time.Time) error {
	m.marked = append(m.marked, taskIDs)
	m.markedWho = append(m.markedWho, assigneeID)
	m.markedDue = append(m.markedDue, dueDate)
	if m.MarkInPlanFunc != nil {
		return m.MarkInPlanFunc(ctx, taskIDs, assigneeID, dueDate)
	}
	return nil
}

func (m *mockTaskRepository) ClearPlan(ctx context.Context, companyID uint) error {
	m.cleared = append(m.cleared, companyID)
	return nil
}

// mockValuationRecalculator はValuationRecalculatorインターフェースのモック実装です。
type mockValuationRecalculator struct {
	UpgradeAnswerFunc func(ctx context.Context, companyID, questionID, optionID uint) error
	UpliftFunc        func(ctx context.Context, companyID uint, category assessentity.Category, delta float64, reason string) error
	RecalculateFunc   func(ctx context.Context, companyID uint, reason, createdBy string) (*valentity.ValuationSnapshot, error)

	upgrades []uint
	uplifts  []float64
	recalcs  []string
}

func (m *mockValuationRecalculator) UpgradeAnswer(ctx context.Context, companyID, questionID, optionID uint) error {
	m.upgrades = append(m.upgrades, questionID)
	if m.UpgradeAnswerFunc != nil {
		return m.UpgradeAnswerFunc(ctx, companyID, questionID, optionID)
	}
	return nil
}

func (m *mockValuationRecalculator) RecordCategoryUplift(ctx context.Context, companyID uint, category assessentity.Category, delta float64, reason string) error {
	m.uplifts = append(m.uplifts, delta)
	if m.UpliftFunc != nil {
		return m.UpliftFunc(ctx, companyID, category, delta, reason)
	}
	return nil
}

func (m *mockValuationRecalculator) Recalculate(ctx context.Context, companyID uint, reason, createdBy string) (*valentity.ValuationSnapshot, error) {
	m.recalcs = append(m.recalcs, reason)
	if m.RecalculateFunc != nil {
		return m.RecalculateFunc(ctx, companyID, reason, createdBy)
	}
	return &valentity.ValuationSnapshot{UID: "snap", CompanyID: companyID}, nil
}

func cfg(max int) usecase.SchedulerConfig {
	return usecase.SchedulerConfig{MaxActionPlanTasks: max}
}

// TestRefill は空きスロットへのバックログ昇格を検証します。
func TestRefill(t *testing.T) {
	t.Parallel()

	t.Run("promotes the backlog head into free slots", func(t *testing.T) {
		t.Parallel()

		// ランク昇順・同ランク内インパクト降順の先頭2件がリポジトリから返る
		backlogHead := []entity.Task{
			{ID: 3, PriorityRank: 1, RawImpact: 200},
			{ID: 2, PriorityRank: 1, RawImpact: 50},
		}
		tasks := &mockTaskRepository{
			CountPlanMembersFunc: func(ctx context.Context, companyID uint) (int, error) { return 13, nil },
			CountBacklogFunc:     func(ctx context.Context, companyID uint) (int, error) { return 2, nil },
			ListBacklogFunc: func(ctx context.Context, companyID uint, limit int) ([]entity.Task, error) {
				assert.Equal(t, 2, limit, "must request exactly the free slot count")
				return backlogHead, nil
			},
		}
		uc := usecase.NewSchedulerUsecase(tasks, &mockValuationRecalculator{}, cfg(15))

		res, err := uc.Refill(context.Background(), 1)

		assert.NoError(t, err)
		assert.Equal(t, usecase.RefillResult{Added: 2, Total: 15, QueueRemaining: 2}, res)
		assert.Equal(t, [][]uint{{3, 2}}, tasks.marked)
	})

	t.Run("full plan adds nothing", func(t *testing.T) {
		t.Parallel()

		tasks := &mockTaskRepository{
			CountPlanMembersFunc: func(ctx context.Context, companyID uint) (int, error) { return 15, nil },
			CountBacklogFunc:     func(ctx context.Context, companyID uint) (int, error) { return 7, nil },
		}
		uc := usecase.NewSchedulerUsecase(tasks, &mockValuationRecalculator{}, cfg(15))

		res, err := uc.Refill(context.Background(), 1)

		assert.NoError(t, err)
		assert.Equal(t, usecase.RefillResult{Added: 0, Total: 15, QueueRemaining: 7}, res)
		assert.Empty(t, tasks.marked)
	})

	t.Run("empty backlog leaves the plan under capacity", func(t *testing.T) {
		t.Parallel()

		tasks := &mockTaskRepository{
			CountPlanMembersFunc: func(ctx context.Context, companyID uint) (int, error) { return 4, nil },
		}
		uc := usecase.NewSchedulerUsecase(tasks, &mockValuationRecalculator{}, cfg(15))

		res, err := uc.Refill(context.Background(), 1)

		assert.NoError(t, err)
		assert.Equal(t, usecase.RefillResult{Added: 0, Total: 4, QueueRemaining: 0}, res)
		assert.Empty(t, tasks.marked)
	})

	t.Run("plan never exceeds capacity", func(t *testing.T) {
		t.Parallel()

		tasks := &mockTaskRepository{
			CountPlanMembersFunc: func(ctx context.Context, companyID uint) (int, error) { return 10, nil },
			ListBacklogFunc: func(ctx context.Context, companyID uint, limit int) ([]entity.Task, error) {
				assert.LessOrEqual(t, limit, 5)
				out := make([]entity.Task, limit)
				for i := range out {
					out[i] = entity.Task{ID: uint(i + 1)}
				}
				return out, nil
			},
		}
		uc := usecase.NewSchedulerUsecase(tasks, &mockValuationRecalculator{}, cfg(15))

		res, err := uc.Refill(context.Background(), 1)

		assert.NoError(t, err)
		assert.Equal(t, 15, res.Total)
	})
}

// TestGenerate はアクションプランの明示的な構築を検証します。
func TestGenerate(t *testing.T) {
	t.Parallel()

	dueDate := time.Now().AddDate(0, 0, 30)

	t.Run("carry forward keeps existing members", func(t *testing.T) {
		t.Parallel()

		tasks := &mockTaskRepository{
			CountPlanMembersFunc: func(ctx context.Context, companyID uint) (int, error) { return 5, nil },
			ListBacklogFunc: func(ctx context.Context, companyID uint, limit int) ([]entity.Task, error) {
				return []entity.Task{{ID: 21}, {ID: 22}}, nil
			},
		}
		uc := usecase.NewSchedulerUsecase(tasks, &mockValuationRecalculator{}, cfg(15))

		res, err := uc.Generate(context.Background(), 1, dueDate, true, nil)

		assert.NoError(t, err)
		assert.Empty(t, tasks.cleared, "carryForward must not clear the plan")
		assert.Equal(t, 5, res.TasksCarriedForward)
		assert.Equal(t, 2, res.NewTasksAdded)
		assert.Equal(t, 7, res.TasksInPlan)
	})

	t.Run("fresh generate clears the plan first", func(t *testing.T) {
		t.Parallel()

		assignee := uint(42)
		tasks := &mockTaskRepository{
			ListBacklogFunc: func(ctx context.Context, companyID uint, limit int) ([]entity.Task, error) {
				return []entity.Task{{ID: 1}, {ID: 2}, {ID: 3}}, nil
			},
		}
		uc := usecase.NewSchedulerUsecase(tasks, &mockValuationRecalculator{}, cfg(15))

		res, err := uc.Generate(context.Background(), 1, dueDate, false, &assignee)

		assert.NoError(t, err)
		assert.Equal(t, []uint{1}, tasks.cleared)
		assert.Equal(t, 0, res.TasksCarriedForward)
		assert.Equal(t, 3, res.NewTasksAdded)

		// 期日とデフォルト担当者が昇格タスクに引き継がれる
		if assert.Len(t, tasks.markedWho, 1) {
			assert.Equal(t, &assignee, tasks.markedWho[0])
			assert.NotNil(t, tasks.markedDue[0])
		}
	})

	t.Run("due date window is inclusive", func(t *testing.T) {
		t.Parallel()

		tasks := &mockTaskRepository{}
		uc := usecase.NewSchedulerUsecase(tasks, &mockValuationRecalculator{}, cfg(15))

		_, err := uc.Generate(context.Background(), 1, time.Now(), true, nil)
		assert.NoError(t, err, "today must be accepted")

		_, err = uc.Generate(context.Background(), 1, time.Now().AddDate(0, 0, usecase.MaxDueDateWindowDays), true, nil)
		assert.NoError(t, err, "the 90th day must be accepted")
	})

	t.Run("due date outside the window is rejected", func(t *testing.T) {
		t.Parallel()

		tasks := &mockTaskRepository{}
		uc := usecase.NewSchedulerUsecase(tasks, &mockValuationRecalculator{}, cfg(15))

		_, err := uc.Generate(context.Background(), 1, time.Now().AddDate(0, 0, -1), false, nil)
		assert.ErrorIs(t, err, usecase.ErrInvalidDueDate)

		_, err = uc.Generate(context.Background(), 1, time.Now().AddDate(0, 0, usecase.MaxDueDateWindowDays+1), false, nil)
		assert.ErrorIs(t, err, usecase.ErrInvalidDueDate)

		assert.Empty(t, tasks.cleared, "validation must run before any mutation")
	})
}

// TestStatus はプラン状態の集計を検証します。
func TestStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		members  int
		backlog  int
		expected usecase.PlanStatus
	}{
		{
			name:    "open slots with queue",
			members: 12,
			backlog: 30,
			expected: usecase.PlanStatus{
				ActionPlanCount: 12, QueueCount: 30, MaxCapacity: 15,
				SlotsAvailable: 3, CanRefresh: true,
			},
		},
		{
			name:    "full plan cannot refresh",
			members: 15,
			backlog: 30,
			expected: usecase.PlanStatus{
				ActionPlanCount: 15, QueueCount: 30, MaxCapacity: 15,
				SlotsAvailable: 0, CanRefresh: false,
			},
		},
		{
			name:    "open slots but empty queue",
			members: 10,
			backlog: 0,
			expected: usecase.PlanStatus{
				ActionPlanCount: 10, QueueCount: 0, MaxCapacity: 15,
				SlotsAvailable: 5, CanRefresh: false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tasks := &mockTaskRepository{
				CountPlanMembersFunc: func(ctx context.Context, companyID uint) (int, error) { return tt.members, nil },
				CountBacklogFunc:     func(ctx context.Context, companyID uint) (int, error) { return tt.backlog, nil },
			}
			uc := usecase.NewSchedulerUsecase(tasks, &mockValuationRecalculator{}, cfg(15))

			status, err := uc.Status(context.Background(), 1)

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, status)
		})
	}
}

// TestUpdateStatus はタスクのライフサイクル遷移を検証します。
func TestUpdateStatus(t *testing.T) {
	t.Parallel()

	newTask := func() *entity.Task {
		return &entity.Task{
			ID: 10, CompanyID: 1, Title: "Document key processes",
			Category: assessentity.CategoryOperational, NormalizedValue: 120000,
			PriorityRank: 1, RawImpact: 120000,
			Status: entity.StatusInProgress, InActionPlan: true,
		}
	}

	t.Run("invalid status is rejected", func(t *testing.T) {
		t.Parallel()

		uc := usecase.NewSchedulerUsecase(&mockTaskRepository{}, &mockValuationRecalculator{}, cfg(15))

		_, err := uc.UpdateStatus(context.Background(), 1, 10, entity.Status("DONE"), "owner")

		assert.ErrorIs(t, err, usecase.ErrInvalidStatus)
	})

	t.Run("unknown task", func(t *testing.T) {
		t.Parallel()

		uc := usecase.NewSchedulerUsecase(&mockTaskRepository{}, &mockValuationRecalculator{}, cfg(15))

		_, err := uc.UpdateStatus(context.Background(), 1, 99, entity.StatusCompleted, "owner")

		assert.ErrorIs(t, err, usecase.ErrTaskNotFound)
	})

	t.Run("terminal states are absorbing", func(t *testing.T) {
		t.Parallel()

		task := newTask()
		task.Status = entity.StatusCompleted
		tasks := &mockTaskRepository{
			FindByIDFunc: func(ctx context.Context, companyID, taskID uint) (*entity.Task, error) { return task, nil },
		}
		uc := usecase.NewSchedulerUsecase(tasks, &mockValuationRecalculator{}, cfg(15))

		_, err := uc.UpdateStatus(context.Background(), 1, 10, entity.StatusPending, "owner")

		assert.ErrorIs(t, err, usecase.ErrTaskAlreadyTerminal)
		assert.Empty(t, tasks.saved)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		t.Parallel()

		task := newTask()
		tasks := &mockTaskRepository{
			FindByIDFunc: func(ctx context.Context, companyID, taskID uint) (*entity.Task, error) { return task, nil },
		}
		recalc := &mockValuationRecalculator{}
		uc := usecase.NewSchedulerUsecase(tasks, recalc, cfg(15))

		got, err := uc.UpdateStatus(context.Background(), 1, 10, entity.StatusInProgress, "owner")

		assert.NoError(t, err)
		assert.Equal(t, task, got)
		assert.Empty(t, tasks.saved)
		assert.Empty(t, recalc.recalcs)
	})

	t.Run("completing an assessment-linked task upgrades the answer", func(t *testing.T) {
		t.Parallel()

		qID, optID := uint(7), uint(71)
		task := newTask()
		task.QuestionID = &qID
		task.UpgradeOptionID = &optID
		tasks := &mockTaskRepository{
			FindByIDFunc: func(ctx context.Context, companyID, taskID uint) (*entity.Task, error) { return task, nil },
			CountPlanMembersFunc: func(ctx context.Context, companyID uint) (int, error) { return 14, nil },
		}
		recalc := &mockValuationRecalculator{}
		uc := usecase.NewSchedulerUsecase(tasks, recalc, cfg(15))

		got, err := uc.UpdateStatus(context.Background(), 1, 10, entity.StatusCompleted, "owner")

		assert.NoError(t, err)
		assert.Equal(t, []uint{7}, recalc.upgrades)
		assert.Empty(t, recalc.uplifts)
		assert.Equal(t, []string{"task completed: Document key processes"}, recalc.recalcs)
		// completedValueは完了時点のnormalizedValueで凍結される
		if assert.NotNil(t, got.CompletedValue) {
			assert.Equal(t, 120000.0, *got.CompletedValue)
		}
		assert.NotNil(t, got.CompletedAt)
		assert.Equal(t, entity.StatusCompleted, got.Status)
		assert.Len(t, tasks.saved, 1)
	})

	t.Run("completing an onboarding task records a category uplift", func(t *testing.T) {
		t.Parallel()

		task := newTask()
		task.OnboardingOrigin = true
		task.CategoryUplift = 0.05
		tasks := &mockTaskRepository{
			FindByIDFunc: func(ctx context.Context, companyID, taskID uint) (*entity.Task, error) { return task, nil },
		}
		recalc := &mockValuationRecalculator{}
		uc := usecase.NewSchedulerUsecase(tasks, recalc, cfg(15))

		_, err := uc.UpdateStatus(context.Background(), 1, 10, entity.StatusCompleted, "owner")

		assert.NoError(t, err)
		assert.Empty(t, recalc.upgrades)
		assert.Equal(t, []float64{0.05}, recalc.uplifts)
		assert.Len(t, recalc.recalcs, 1)
	})

	t.Run("recalculation failure aborts before saving", func(t *testing.T) {
		t.Parallel()

		task := newTask()
		tasks := &mockTaskRepository{
			FindByIDFunc: func(ctx context.Context, companyID, taskID uint) (*entity.Task, error) { return task, nil },
		}
		recalc := &mockValuationRecalculator{
			RecalculateFunc: func(ctx context.Context, companyID uint, reason, createdBy string) (*valentity.ValuationSnapshot, error) {
				return nil, errors.New("snapshot append failed")
			},
		}
		uc := usecase.NewSchedulerUsecase(tasks, recalc, cfg(15))

		_, err := uc.UpdateStatus(context.Background(), 1, 10, entity.StatusCompleted, "owner")

		assert.Error(t, err)
		assert.Empty(t, tasks.saved, "snapshot-first: the task must not be saved when recalculation fails")
		assert.Nil(t, task.CompletedValue)
	})

	t.Run("terminal plan member triggers a refill", func(t *testing.T) {
		t.Parallel()

		task := newTask()
		tasks := &mockTaskRepository{
			FindByIDFunc: func(ctx context.Context, companyID, taskID uint) (*entity.Task, error) { return task, nil },
			CountPlanMembersFunc: func(ctx context.Context, companyID uint) (int, error) { return 14, nil },
			ListBacklogFunc: func(ctx context.Context, companyID uint, limit int) ([]entity.Task, error) {
				return []entity.Task{{ID: 55}}, nil
			},
		}
		uc := usecase.NewSchedulerUsecase(tasks, &mockValuationRecalculator{}, cfg(15))

		_, err := uc.UpdateStatus(context.Background(), 1, 10, entity.StatusCancelled, "owner")

		assert.NoError(t, err)
		assert.Equal(t, [][]uint{{55}}, tasks.marked)
	})

	t.Run("empty backlog after completion leaves the plan smaller", func(t *testing.T) {
		t.Parallel()

		task := newTask()
		tasks := &mockTaskRepository{
			FindByIDFunc: func(ctx context.Context, companyID, taskID uint) (*entity.Task, error) { return task, nil },
			CountPlanMembersFunc: func(ctx context.Context, companyID uint) (int, error) { return 14, nil },
		}
		uc := usecase.NewSchedulerUsecase(tasks, &mockValuationRecalculator{}, cfg(15))

		_, err := uc.UpdateStatus(context.Background(), 1, 10, entity.StatusCompleted, "owner")

		assert.NoError(t, err)
		assert.Empty(t, tasks.marked)
	})

	t.Run("non-plan task never triggers a refill", func(t *testing.T) {
		t.Parallel()

		task := newTask()
		task.InActionPlan = false
		tasks := &mockTaskRepository{
			FindByIDFunc: func(ctx context.Context, companyID, taskID uint) (*entity.Task, error) { return task, nil },
		}
		uc := usecase.NewSchedulerUsecase(tasks, &mockValuationRecalculator{}, cfg(15))

		_, err := uc.UpdateStatus(context.Background(), 1, 10, entity.StatusNotApplicable, "owner")

		assert.NoError(t, err)
		assert.Empty(t, tasks.marked)
	})
}

// TestLoadSchedulerConfig は環境変数からの上限読み込みとフォールバックを検証します。
func TestLoadSchedulerConfig(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected int
	}{
		{"unset uses default", "", usecase.DefaultMaxActionPlanTasks},
		{"valid override", "20", 20},
		{"zero falls back", "0", usecase.DefaultMaxActionPlanTasks},
		{"negative falls back", "-3", usecase.DefaultMaxActionPlanTasks},
		{"garbage falls back", "lots", usecase.DefaultMaxActionPlanTasks},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(usecase.EnvKeyMaxActionPlanTasks, tt.envValue)

			got := usecase.LoadSchedulerConfig()

			assert.Equal(t, tt.expected, got.MaxActionPlanTasks)
		})
	}
}
