// Package handler はcandlesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trading_dashboard/internal/feature/candles/domain/entity"
	"trading_dashboard/internal/feature/candles/transport/http/dto"
	"trading_dashboard/internal/platform/http/response"
)

// CandlesUsecase はローソク足データ操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CandlesUsecase interface {
	GetCandles(ctx context.Context, symbol string, outputsize int) ([]entity.Candle, error)
}

// CandlesHandler はローソク足データのHTTPリクエストを処理します。
type CandlesHandler struct {
	uc CandlesUsecase
}

// NewCandlesHandler は指定されたusecaseでCandlesHandlerの新しいインスタンスを生成します。
func NewCandlesHandler(uc CandlesUsecase) *CandlesHandler {
	return &CandlesHandler{uc: uc}
}

// GetCandlesHandler は銘柄コードを受け取り、日足データをJSONで返します。
//
// エンドポイント例:
// GET /candles/:code?outputsize=200
func (h *CandlesHandler) GetCandlesHandler(c *gin.Context) {
	code := c.Param("code")
	// 未指定の場合はデフォルト値を使用
	outputsizeStr := c.DefaultQuery("outputsize", "200")
	// 文字列を整数に変換
	outputsize, _ := strconv.Atoi(outputsizeStr)

	candles, err := h.uc.GetCandles(c.Request.Context(), code, outputsize)

	if err != nil {
		response.Error(c, http.StatusInternalServerError, err)
		return
	}

	// データをフォーマット
	out := make([]dto.CandleResponse, 0, len(candles))
	for _, x := range candles {
		out = append(out, dto.CandleResponse{
			Time:   x.Time.UTC().Format("2006-01-02"),
			Open:   x.Open,
			High:   x.High,
			Low:    x.Low,
			Close:  x.Close,
			Volume: x.Volume,
		})
	}

	c.JSON(http.StatusOK, out)
}
