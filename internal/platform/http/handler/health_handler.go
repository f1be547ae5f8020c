// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import "github.com/gin-gonic/gin"

// serviceName はヘルスチェックレスポンスで返すサービス識別子です。
const serviceName = "valuation-engine"

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// ロードバランサーのプローブがGETとHEADの両方で叩くため、どちらにも応答し
// キャッシュを防止します。
func Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case "HEAD":
		c.Status(200)
	case "OPTIONS":
		c.Status(204)
	default:
		c.JSON(200, gin.H{"status": "ok", "service": serviceName})
	}
}
