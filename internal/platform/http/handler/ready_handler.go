package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"trading_dashboard/internal/platform/http/response"
)

// readyTimeout はレディネスチェック1回あたりの上限時間です。
const readyTimeout = 5 * time.Second

// Pinger はデータベースへの疎通を確認します。
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ready は /readyz エンドポイントのハンドラーを返します。
// データベースに到達できない場合は 503 とエラー種別・対処方法を返します。
func Ready(p Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			response.Error(c, http.StatusServiceUnavailable, err)
			return
		}

		if c.Request.Method == http.MethodHead {
			c.Status(http.StatusOK)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
