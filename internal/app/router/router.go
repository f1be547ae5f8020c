package router

import (
	"github.com/gin-gonic/gin"

	actionplanhandler "github.com/bradfeldman/exit-osx-sub011/internal/feature/actionplan/transport/handler"
	multipleshandler "github.com/bradfeldman/exit-osx-sub011/internal/feature/multiples/transport/handler"
	valuationhandler "github.com/bradfeldman/exit-osx-sub011/internal/feature/valuation/transport/handler"
	"github.com/bradfeldman/exit-osx-sub011/internal/platform/apikey"
	"github.com/bradfeldman/exit-osx-sub011/internal/platform/http/handler"
	jwtmw "github.com/bradfeldman/exit-osx-sub011/internal/platform/jwt"
)

func NewRouter(valuation *valuationhandler.ValuationHandler,
	actionPlan *actionplanhandler.ActionPlanHandler,
	multiples *multipleshandler.MultiplesHandler) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)

	// 認証必須のルート
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になる
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired())
	{
		auth.GET("/companies/:id/valuation", valuation.GetValuation)
		auth.POST("/companies/:id/valuation/recalculate", valuation.Recalculate)
		auth.GET("/companies/:id/valuation/snapshots", valuation.ListSnapshots)

		auth.POST("/companies/:id/action-plan/generate", actionPlan.Generate)
		auth.POST("/companies/:id/action-plan/refill", actionPlan.Refill)
		auth.GET("/companies/:id/action-plan/status", actionPlan.Status)
		auth.PATCH("/companies/:id/tasks/:taskId/status", actionPlan.UpdateTaskStatus)
	}

	// 管理者ルート: JWTではなく管理APIキーで保護する
	admin := r.Group("/admin")
	admin.Use(apikey.AdminRequired())
	{
		admin.PUT("/industry-multiples", multiples.Import)
	}

	return r
}
