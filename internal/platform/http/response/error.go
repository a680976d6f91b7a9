// Package response はフィーチャー間で共通のHTTPエラーレスポンスを提供します。
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trading_dashboard/internal/platform/mongodb"
)

// ErrorResponse はエラー時のレスポンスボディです。
// データベース接続に起因するエラーでは Kind と Remediation が設定されます。
type ErrorResponse struct {
	Error       string `json:"error"`
	Kind        string `json:"kind,omitempty"`
	Remediation string `json:"remediation,omitempty"`
}

// Error はエラーをJSONで書き込みます。
// データベースに接続できない場合は status に関わらず 503 を返し、
// 運用者向けの対処方法を添えます。
func Error(c *gin.Context, status int, err error) {
	if kind := mongodb.Kind(err); kind != "" {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:       err.Error(),
			Kind:        kind,
			Remediation: mongodb.Remediation(err),
		})
		return
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
