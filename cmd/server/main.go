package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"github.com/bradfeldman/exit-osx-sub011/internal/app/di"
	"github.com/bradfeldman/exit-osx-sub011/internal/app/router"
	actionplanadapters "github.com/bradfeldman/exit-osx-sub011/internal/feature/actionplan/adapters"
	actionplanhandler "github.com/bradfeldman/exit-osx-sub011/internal/feature/actionplan/transport/handler"
	actionplanusecase "github.com/bradfeldman/exit-osx-sub011/internal/feature/actionplan/usecase"
	assessmentadapters "github.com/bradfeldman/exit-osx-sub011/internal/feature/assessment/adapters"
	multiplesadapters "github.com/bradfeldman/exit-osx-sub011/internal/feature/multiples/adapters"
	multipleshandler "github.com/bradfeldman/exit-osx-sub011/internal/feature/multiples/transport/handler"
	multiplesusecase "github.com/bradfeldman/exit-osx-sub011/internal/feature/multiples/usecase"
	valuationadapters "github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/adapters"
	valuationhandler "github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/transport/handler"
	valuationusecase "github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/usecase"
	platformdb "github.com/bradfeldman/exit-osx-sub011/internal/platform/db"
	platformredis "github.com/bradfeldman/exit-osx-sub011/internal/platform/redis"
	"github.com/bradfeldman/exit-osx-sub011/internal/shared/ratelimiter"
)

func main() {
	// .env（あれば）を読み込む。本番では環境変数を直接設定する
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found. Using environment variables.")
	}

	ctx := context.Background()

	// db
	db := platformdb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	multipleRepo := multiplesadapters.NewIndustryMultipleRepository(db)
	assessmentRepo := assessmentadapters.NewAssessmentRepository(db)
	companyRepo := valuationadapters.NewCompanyReader(db)
	coreFactorsRepo := valuationadapters.NewCoreFactorsReader(db)
	adjustmentRepo := valuationadapters.NewAdjustmentRepository(db)
	ledgerRepo := valuationadapters.NewLedgerRepository(db)
	taskRepo := actionplanadapters.NewTaskRepository(db)

	// Redisキャッシュでラップ
	snapshotRepo := di.NewSnapshotRepository(rdb, db)

	// Usecase
	resolver := multiplesusecase.NewResolver(multipleRepo)
	recalcUC := valuationusecase.NewRecalcUsecase(
		companyRepo, resolver, coreFactorsRepo, assessmentRepo,
		adjustmentRepo, snapshotRepo, ledgerRepo,
		di.NewNarrativeGenerator(ctx),
		valuationusecase.LoadEngineConfig(),
		valuationusecase.DefaultScoreConfig(),
		valuationusecase.LoadNarrativeConfig(),
	)
	previewUC := valuationusecase.NewPreviewUsecase(companyRepo, resolver)
	importUC := multiplesusecase.NewImportUsecase(
		multipleRepo, companyRepo, di.NewImportRecalculator(recalcUC),
		ratelimiter.NewRateLimiter(120, time.Minute),
	)
	schedulerUC := actionplanusecase.NewSchedulerUsecase(
		taskRepo, recalcUC, actionplanusecase.LoadSchedulerConfig(),
	)

	// Handler
	valuationH := valuationhandler.NewValuationHandler(previewUC, recalcUC)
	actionPlanH := actionplanhandler.NewActionPlanHandler(schedulerUC)
	multiplesH := multipleshandler.NewMultiplesHandler(importUC)

	// ルータ生成
	router := router.NewRouter(valuationH, actionPlanH, multiplesH)

	// シークレットチェック（開発中の注意喚起）
	if os.Getenv("JWT_SECRET") == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}
	if os.Getenv("ADMIN_API_KEY_HASH") == "" {
		log.Println("[WARN] ADMIN_API_KEY_HASH is not set. Admin endpoints will refuse all requests.")
	}

	if err := router.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
