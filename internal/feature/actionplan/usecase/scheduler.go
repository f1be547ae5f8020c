// Package usecase はactionplanフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	assessentity "github.com/bradfeldman/exit-osx-sub011/internal/feature/assessment/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/actionplan/domain/entity"
	valentity "github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/domain/entity"
)

const (
	// DefaultMaxActionPlanTasks はアクションプランの上限タスク数のデフォルト値です。
	DefaultMaxActionPlanTasks = 15
	// EnvKeyMaxActionPlanTasks は上限を上書きする環境変数名です。
	EnvKeyMaxActionPlanTasks = "ACTION_PLAN_MAX_TASKS"
	// MaxDueDateWindowDays はGenerate時に許容される期日の最大日数です。
	MaxDueDateWindowDays = 90
)

// SchedulerConfig はスケジューラーへ注入する設定値です。
// テストやテナントごとに変更できるよう、グローバル変数ではなく注入で渡します。
type SchedulerConfig struct {
	MaxActionPlanTasks int
}

// LoadSchedulerConfig は環境変数からスケジューラー設定を読み込みます。
func LoadSchedulerConfig() SchedulerConfig {
	max := DefaultMaxActionPlanTasks
	if v := os.Getenv(EnvKeyMaxActionPlanTasks); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			max = n
		}
	}
	return SchedulerConfig{MaxActionPlanTasks: max}
}

// TaskRepository はタスクの永続化層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
//
// バックログの順序は (priorityRank昇順, rawImpact降順) です:
// ランク番号が小さいほど緊急で、同ランク内では金額インパクトの大きい方が優先されます。
type TaskRepository interface {
	// FindByID は企業スコープでタスクを取得します。存在しない場合はErrTaskNotFoundを返します。
	FindByID(ctx context.Context, companyID, taskID uint) (*entity.Task, error)

	// Save はタスクを保存します。
	Save(ctx context.Context, task *entity.Task) error

	// CountPlanMembers は inActionPlan=true かつ非終端状態のタスク数を返します。
	CountPlanMembers(ctx context.Context, companyID uint) (int, error)

	// CountBacklog はバックログ（非終端かつ inActionPlan=false）のタスク数を返します。
	CountBacklog(ctx context.Context, companyID uint) (int, error)

	// ListBacklog はバックログの先頭limit件を優先順で返します。
	ListBacklog(ctx context.Context, companyID uint, limit int) ([]entity.Task, error)

	// MarkInPlan は指定タスクをプランメンバーに昇格します。
	// assigneeID / dueDate はnil以外の場合のみ設定されます。
	MarkInPlan(ctx context.Context, taskIDs []uint, assigneeID *uint, dueDate *time.Time) error

	// ClearPlan は企業の全タスクのプランメンバーシップを解除します。
	ClearPlan(ctx context.Context, companyID uint) error
}

// ValuationRecalculator はタスク完了に伴うバリュエーション再計算を抽象化します。
type ValuationRecalculator interface {
	// UpgradeAnswer はアセスメント連動タスクの有効回答を差し替えます。
	UpgradeAnswer(ctx context.Context, companyID, questionID, optionID uint) error

	// RecordCategoryUplift はオンボーディング由来タスクの直接改善を記録します。
	RecordCategoryUplift(ctx context.Context, companyID uint, category assessentity.Category, delta float64, reason string) error

	// Recalculate はフル再計算を実行し、新しいスナップショットを記録します。
	Recalculate(ctx context.Context, companyID uint, reason, createdBy string) (*valentity.ValuationSnapshot, error)
}

// RefillResult はRefill操作の結果です。
type RefillResult struct {
	Added          int
	Total          int
	QueueRemaining int
}

// GenerateResult はGenerate操作の結果です。
type GenerateResult struct {
	TasksInPlan         int
	TasksCarriedForward int
	NewTasksAdded       int
}

// PlanStatus はアクションプランの現在の状態です。
type PlanStatus struct {
	ActionPlanCount int
	QueueCount      int
	MaxCapacity     int
	SlotsAvailable  int
	CanRefresh      bool
}

// schedulerUsecase は上限付きアクションプランの生成・補充・状態遷移フックを実装します。
type schedulerUsecase struct {
	tasks  TaskRepository
	recalc ValuationRecalculator
	cfg    SchedulerConfig
}

// NewSchedulerUsecase はschedulerUsecaseの新しいインスタンスを生成します。
func NewSchedulerUsecase(tasks TaskRepository, recalc ValuationRecalculator, cfg SchedulerConfig) *schedulerUsecase {
	if cfg.MaxActionPlanTasks <= 0 {
		cfg.MaxActionPlanTasks = DefaultMaxActionPlanTasks
	}
	return &schedulerUsecase{tasks: tasks, recalc: recalc, cfg: cfg}
}

// Refill は空きスロット分だけバックログ上位のタスクをプランへ昇格します。
// 冪等で、いつ呼ばれても安全です: 空きスロット数はメンバーシップを変更する
// 同一操作の直前に再集計するため、チェック後変更前の隙間で二重計上は起きません。
// 既存メンバーを外すことはなく、バックログが空の場合は定員未満のままです。
func (s *schedulerUsecase) Refill(ctx context.Context, companyID uint) (RefillResult, error) {
	return s.refill(ctx, companyID, nil, nil)
}

func (s *schedulerUsecase) refill(ctx context.Context, companyID uint, assigneeID *uint, dueDate *time.Time) (RefillResult, error) {
	// 空きスロットは選定の直前に必ず集計し直す
	current, err := s.tasks.CountPlanMembers(ctx, companyID)
	if err != nil {
		return RefillResult{}, fmt.Errorf("count plan members: %w", err)
	}

	slots := s.cfg.MaxActionPlanTasks - current
	if slots <= 0 {
		queue, err := s.tasks.CountBacklog(ctx, companyID)
		if err != nil {
			return RefillResult{}, fmt.Errorf("count backlog: %w", err)
		}
		return RefillResult{Added: 0, Total: current, QueueRemaining: queue}, nil
	}

	backlog, err := s.tasks.ListBacklog(ctx, companyID, slots)
	if err != nil {
		return RefillResult{}, fmt.Errorf("list backlog: %w", err)
	}
	if len(backlog) > 0 {
		ids := make([]uint, 0, len(backlog))
		for _, t := range backlog {
			ids = append(ids, t.ID)
		}
		if err := s.tasks.MarkInPlan(ctx, ids, assigneeID, dueDate); err != nil {
			return RefillResult{}, fmt.Errorf("mark tasks in plan: %w", err)
		}
	}

	queue, err := s.tasks.CountBacklog(ctx, companyID)
	if err != nil {
		return RefillResult{}, fmt.Errorf("count backlog: %w", err)
	}
	return RefillResult{
		Added:          len(backlog),
		Total:          current + len(backlog),
		QueueRemaining: queue,
	}, nil
}

// Generate はアクションプランを明示的に構築します。
// carryForwardがtrueの場合、既存の非終端メンバーは維持されます。
// falseの場合はプランを一度クリアしてから定員まで補充します。
// dueDate は今日から90日後まで（両端含む）でなければなりません。
func (s *schedulerUsecase) Generate(ctx context.Context, companyID uint, dueDate time.Time,
	carryForward bool, defaultAssigneeID *uint) (GenerateResult, error) {

	if err := validateDueDate(dueDate, time.Now()); err != nil {
		return GenerateResult{}, err
	}

	if !carryForward {
		if err := s.tasks.ClearPlan(ctx, companyID); err != nil {
			return GenerateResult{}, fmt.Errorf("clear plan: %w", err)
		}
	}

	carried, err := s.tasks.CountPlanMembers(ctx, companyID)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("count plan members: %w", err)
	}

	res, err := s.refill(ctx, companyID, defaultAssigneeID, &dueDate)
	if err != nil {
		return GenerateResult{}, err
	}

	slog.Info("action plan generated",
		"company_id", companyID,
		"carry_forward", carryForward,
		"carried", carried,
		"added", res.Added)
	return GenerateResult{
		TasksInPlan:         res.Total,
		TasksCarriedForward: carried,
		NewTasksAdded:       res.Added,
	}, nil
}

// validateDueDate は期日が[今日, 今日+90日]（日付単位、両端含む）にあるか検証します。
func validateDueDate(dueDate, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	due := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	if due.Before(today) || due.After(today.AddDate(0, 0, MaxDueDateWindowDays)) {
		return ErrInvalidDueDate
	}
	return nil
}

// Status はアクションプランの現在の状態を返します。
func (s *schedulerUsecase) Status(ctx context.Context, companyID uint) (PlanStatus, error) {
	current, err := s.tasks.CountPlanMembers(ctx, companyID)
	if err != nil {
		return PlanStatus{}, fmt.Errorf("count plan members: %w", err)
	}
	queue, err := s.tasks.CountBacklog(ctx, companyID)
	if err != nil {
		return PlanStatus{}, fmt.Errorf("count backlog: %w", err)
	}
	slots := s.cfg.MaxActionPlanTasks - current
	if slots < 0 {
		slots = 0
	}
	return PlanStatus{
		ActionPlanCount: current,
		QueueCount:      queue,
		MaxCapacity:     s.cfg.MaxActionPlanTasks,
		SlotsAvailable:  slots,
		CanRefresh:      slots > 0 && queue > 0,
	}, nil
}

// UpdateStatus はタスクの状態遷移を処理します。すべての遷移でこのフックが呼ばれます。
//
// 完了時の順序は「スナップショット先行」です:
//  1. 連動質問があれば有効回答をアップグレード、オンボーディング由来なら
//     カテゴリー直接改善を記録する
//  2. フル再計算を実行する（どちらのサブケースも同じ再計算に合流する）
//  3. 再計算が成功してからcompletedValueを一度だけ凍結して保存する
//
// プランメンバーが終端状態になった場合はRefillを実行し、呼び出し元が
// 補充を忘れてもプランが自己修復されるようにします。
func (s *schedulerUsecase) UpdateStatus(ctx context.Context, companyID, taskID uint,
	newStatus entity.Status, actor string) (*entity.Task, error) {

	if !newStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	task, err := s.tasks.FindByID(ctx, companyID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status.Terminal() {
		return nil, ErrTaskAlreadyTerminal
	}
	if task.Status == newStatus {
		return task, nil
	}

	wasPlanMember := task.InActionPlan

	if newStatus == entity.StatusCompleted {
		if err := s.applyCompletionEffects(ctx, task, actor); err != nil {
			return nil, err
		}
		// completedValueは完了時点のnormalizedValueで一度だけ凍結する
		if task.CompletedValue == nil {
			frozen := task.NormalizedValue
			task.CompletedValue = &frozen
			completedAt := time.Now().UTC()
			task.CompletedAt = &completedAt
		}
	}

	task.Status = newStatus
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if wasPlanMember && newStatus.Terminal() {
		if _, err := s.Refill(ctx, companyID); err != nil {
			// 補充失敗で状態遷移自体を失敗させない
			slog.Warn("action plan refill failed after status change", "company_id", companyID, "task_id", taskID, "error", err)
		}
	}

	slog.Info("task status updated", "company_id", companyID, "task_id", taskID, "status", newStatus)
	return task, nil
}

// applyCompletionEffects はタスク完了の2つのサブケースを適用してから
// フル再計算を実行します。
func (s *schedulerUsecase) applyCompletionEffects(ctx context.Context, task *entity.Task, actor string) error {
	reason := fmt.Sprintf("task completed: %s", task.Title)

	if task.QuestionID != nil && task.UpgradeOptionID != nil {
		if err := s.recalc.UpgradeAnswer(ctx, task.CompanyID, *task.QuestionID, *task.UpgradeOptionID); err != nil {
			return err
		}
	} else if task.OnboardingOrigin {
		if err := s.recalc.RecordCategoryUplift(ctx, task.CompanyID, task.Category, task.CategoryUplift, reason); err != nil {
			return err
		}
	}

	if _, err := s.recalc.Recalculate(ctx, task.CompanyID, reason, actor); err != nil {
		return fmt.Errorf("recalculate after completion: %w", err)
	}
	return nil
}
