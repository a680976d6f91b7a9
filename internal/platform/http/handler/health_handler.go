// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServiceName はヘルスチェックのレスポンスに含めるサービス名です。
const ServiceName = "trading-dashboard"

// Health はプロセスの生存確認用 /healthz エンドポイントを処理します。
// データベースの状態には依存せず、DB障害時も 200 を返します（DBの確認は /readyz）。
func Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": ServiceName})
	}
}
