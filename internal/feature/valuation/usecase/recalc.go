// Package usecase はvaluationフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	assessentity "github.com/bradfeldman/exit-osx-sub011/internal/feature/assessment/domain/entity"
	multientity "github.com/bradfeldman/exit-osx-sub011/internal/feature/multiples/domain/entity"
	"github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/domain/entity"
)

// MaxCategoryUplift はオンボーディング由来タスク1件が与えられる
// カテゴリースコア改善の上限です。
const MaxCategoryUplift = 0.1

// CompanyReader は企業レコードの読み取り層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type CompanyReader interface {
	// FindByID は指定IDの企業を取得します。存在しない場合はErrCompanyNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.Company, error)
}

// MultipleResolver は業種分類からマルチプルレンジを解決します。
type MultipleResolver interface {
	Resolve(ctx context.Context, c multientity.Classification, subSectorOverride string) (multientity.ResolvedMultiple, error)
}

// CoreFactorsReader はコアファクターの読み取り層を抽象化します。
type CoreFactorsReader interface {
	// FindByCompany は企業のコアファクターを取得します。未登録の場合は(nil, nil)を返します。
	FindByCompany(ctx context.Context, companyID uint) (*entity.CoreFactors, error)
}

// AssessmentRepository はアセスメント回答の読み取りと有効回答のアップグレードを抽象化します。
type AssessmentRepository interface {
	// EffectiveAnswers は企業の全回答を有効オプション基準のスコアビューで返します。
	EffectiveAnswers(ctx context.Context, companyID uint) ([]assessentity.EffectiveAnswer, error)

	// UpgradeAnswer は指定質問の有効オプションを差し替えます。
	// ユーザーの実際の選択（SelectedOptionID）は変更しません。
	UpgradeAnswer(ctx context.Context, companyID, questionID, optionID uint) error
}

// AdjustmentRepository はカテゴリー直接調整の永続化層を抽象化します。
type AdjustmentRepository interface {
	ListByCompany(ctx context.Context, companyID uint) ([]entity.CategoryAdjustment, error)
	Append(ctx context.Context, adj *entity.CategoryAdjustment) error
}

// SnapshotRepository はバリュエーションスナップショットの追記専用ストアを抽象化します。
// スナップショットに更新・削除の操作は存在しません。
type SnapshotRepository interface {
	// Append は新しいスナップショットを追記します。
	Append(ctx context.Context, snap *entity.ValuationSnapshot) error

	// LatestByCompany は企業の最新スナップショットを返します。未作成の場合は(nil, nil)を返します。
	LatestByCompany(ctx context.Context, companyID uint) (*entity.ValuationSnapshot, error)

	// ListByCompany は新しい順にスナップショットを返します。
	ListByCompany(ctx context.Context, companyID uint, limit int) ([]entity.ValuationSnapshot, error)
}

// LedgerRepository はバリューレジャーの追記専用ストアを抽象化します。
type LedgerRepository interface {
	Append(ctx context.Context, e *entity.ValueLedgerEntry) error
}

// recalcUsecase は再計算パイプラインを実装します。上流入力（タスク完了・
// アセスメント回答・マルチプル変更）が変化するたびに呼び出され、新しい
// スナップショットとレジャーエントリを記録します。
type recalcUsecase struct {
	companies    CompanyReader
	resolver     MultipleResolver
	coreFactors  CoreFactorsReader
	assessments  AssessmentRepository
	adjustments  AdjustmentRepository
	snapshots    SnapshotRepository
	ledger       LedgerRepository
	narrativeGen NarrativeGenerator
	engineCfg    EngineConfig
	scoreCfg     ScoreConfig
	narrativeCfg NarrativeConfig
}

// NewRecalcUsecase はrecalcUsecaseの新しいインスタンスを生成します。
// narrativeGen はnil可で、その場合テンプレートナラティブのみ使用します。
func NewRecalcUsecase(companies CompanyReader, resolver MultipleResolver,
	coreFactors CoreFactorsReader, assessments AssessmentRepository,
	adjustments AdjustmentRepository, snapshots SnapshotRepository,
	ledger LedgerRepository, narrativeGen NarrativeGenerator,
	engineCfg EngineConfig, scoreCfg ScoreConfig, narrativeCfg NarrativeConfig) *recalcUsecase {
	return &recalcUsecase{
		companies:    companies,
		resolver:     resolver,
		coreFactors:  coreFactors,
		assessments:  assessments,
		adjustments:  adjustments,
		snapshots:    snapshots,
		ledger:       ledger,
		narrativeGen: narrativeGen,
		engineCfg:    engineCfg,
		scoreCfg:     scoreCfg,
		narrativeCfg: narrativeCfg,
	}
}

// Recalculate は企業のバリュエーションを現在の入力一式から再計算し、
// 新しいスナップショットを追記してレジャーエントリを記録します。
//
// スナップショットの書き込みが先、レジャーや後続のタスク更新は後です:
// 途中でクラッシュしてもcompletedValueだけが残る状態を作らないためです。
// レジャー追記の失敗はスナップショット作成を失敗させません。
func (u *recalcUsecase) Recalculate(ctx context.Context, companyID uint, reason, createdBy string) (*entity.ValuationSnapshot, error) {
	company, err := u.companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.AnnualRevenue < 0 {
		return nil, ErrNegativeRevenue
	}

	resolved, err := u.resolver.Resolve(ctx, company.Classification, "")
	if err != nil {
		return nil, fmt.Errorf("resolve multiples: %w", err)
	}

	adjustedEBITDA := EstimateAdjustedEBITDA(company.AnnualRevenue, resolved)

	factors, err := u.coreFactors.FindByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load core factors: %w", err)
	}
	coreScore := ComputeCoreScore(factors)

	answers, err := u.assessments.EffectiveAnswers(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load assessment answers: %w", err)
	}
	adjs, err := u.adjustments.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load category adjustments: %w", err)
	}
	categoryScores := ComputeCategoryScores(answers, adjs, u.scoreCfg)
	bri := ComputeBRI(categoryScores, u.scoreCfg)

	res := ComputeValuation(adjustedEBITDA, resolved.EBITDAMultipleLow, resolved.EBITDAMultipleHigh,
		coreScore, bri, u.engineCfg)

	prev, err := u.snapshots.LatestByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load previous snapshot: %w", err)
	}

	snap := &entity.ValuationSnapshot{
		UID:              uuid.NewString(),
		CompanyID:        companyID,
		AdjustedEBITDA:   adjustedEBITDA,
		MultipleLow:      resolved.EBITDAMultipleLow,
		MultipleHigh:     resolved.EBITDAMultipleHigh,
		CoreScore:        coreScore,
		BRIOverall:       bri,
		CategoryScores:   categoryScores,
		BaseMultiple:     res.BaseMultiple,
		DiscountFraction: res.DiscountFraction,
		FinalMultiple:    res.FinalMultiple,
		CurrentValue:     res.CurrentValue,
		PotentialValue:   res.PotentialValue,
		ValueGap:         res.ValueGap,
		Alpha:            u.engineCfg.Alpha,
		Reason:           reason,
		CreatedBy:        createdBy,
		CreatedAt:        time.Now().UTC(),
	}
	if err := u.snapshots.Append(ctx, snap); err != nil {
		return nil, fmt.Errorf("append snapshot: %w", err)
	}

	u.appendLedgerEntry(ctx, snap, prev)

	slog.Info("valuation recalculated",
		"company_id", companyID,
		"reason", reason,
		"current_value", snap.CurrentValue,
		"value_gap", snap.ValueGap,
		"bri", snap.BRIOverall)
	return snap, nil
}

// appendLedgerEntry は直前スナップショットとの差分をレジャーに記録します。
// ベストエフォート: 失敗はログに残すのみで呼び出し元へ伝播させません。
func (u *recalcUsecase) appendLedgerEntry(ctx context.Context, snap, prev *entity.ValuationSnapshot) {
	entry := &entity.ValueLedgerEntry{
		UID:         uuid.NewString(),
		CompanyID:   snap.CompanyID,
		SnapshotUID: snap.UID,
		Reason:      snap.Reason,
		CreatedAt:   snap.CreatedAt,
	}
	if prev != nil {
		prevUID := prev.UID
		entry.PrevSnapshotUID = &prevUID
		entry.ValueDelta = snap.CurrentValue - prev.CurrentValue
		entry.BRIDelta = snap.BRIOverall - prev.BRIOverall
	} else {
		entry.ValueDelta = snap.CurrentValue
		entry.BRIDelta = snap.BRIOverall
	}

	entry.Narrative, entry.NarrativeSource = generateNarrative(ctx, u.narrativeGen, u.narrativeCfg, snap, prev)

	if err := u.ledger.Append(ctx, entry); err != nil {
		slog.Warn("value ledger append failed", "company_id", snap.CompanyID, "snapshot_uid", snap.UID, "error", err)
	}
}

// UpgradeAnswer はアセスメント連動タスクの完了時に、元質問の有効回答を
// より良いオプションへ差し替えます。その後のフル再計算は呼び出し側が行います。
func (u *recalcUsecase) UpgradeAnswer(ctx context.Context, companyID, questionID, optionID uint) error {
	if err := u.assessments.UpgradeAnswer(ctx, companyID, questionID, optionID); err != nil {
		return fmt.Errorf("upgrade effective answer: %w", err)
	}
	return nil
}

// RecordCategoryUplift はオンボーディング由来タスク（連動質問を持たない）の
// 完了時に、該当カテゴリーへ小さな直接改善を記録します。
// デルタは[0, MaxCategoryUplift]にクランプされます。
func (u *recalcUsecase) RecordCategoryUplift(ctx context.Context, companyID uint,
	category assessentity.Category, delta float64, reason string) error {
	if !category.Valid() {
		return ErrInvalidCategory
	}
	if delta < 0 {
		delta = 0
	}
	if delta > MaxCategoryUplift {
		delta = MaxCategoryUplift
	}
	adj := &entity.CategoryAdjustment{
		CompanyID: companyID,
		Category:  category,
		Delta:     delta,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	if err := u.adjustments.Append(ctx, adj); err != nil {
		return fmt.Errorf("append category adjustment: %w", err)
	}
	return nil
}

// Snapshots は企業のスナップショット履歴を新しい順に返します。
func (u *recalcUsecase) Snapshots(ctx context.Context, companyID uint, limit int) ([]entity.ValuationSnapshot, error) {
	if _, err := u.companies.FindByID(ctx, companyID); err != nil {
		return nil, err
	}
	return u.snapshots.ListByCompany(ctx, companyID, limit)
}
