package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"trading_dashboard/internal/feature/symbollist/domain/entity"
	"trading_dashboard/internal/feature/symbollist/transport/http/dto"
	"trading_dashboard/internal/platform/http/response"
)

// SymbolUsecase は銘柄情報に関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type SymbolUsecase interface {
	ListSymbols(ctx context.Context) ([]entity.Symbol, error)
}

// SymbolHandler は銘柄情報に関するHTTPリクエストを処理します。
type SymbolHandler struct {
	uc SymbolUsecase
}

// NewSymbolHandler は新しい SymbolHandler を作成します。
func NewSymbolHandler(uc SymbolUsecase) *SymbolHandler {
	return &SymbolHandler{uc: uc}
}

// List は追跡銘柄の一覧を取得するAPIです。
// Usecaseを呼び出して銘柄一覧を取得し、DTOに変換してJSONレスポンスとして返します。
// DBに接続できない場合は503、その他のエラーは500 Internal Server Errorを返します。
func (h *SymbolHandler) List(c *gin.Context) {
	symbols, err := h.uc.ListSymbols(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	out := make([]dto.SymbolItem, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, dto.SymbolItem{
			Code:         s.Code,
			Name:         s.Name,
			Sector:       s.Sector,
			Industry:     s.Industry,
			MCapCategory: s.MCapCategory,
			LotSize:      s.LotSize,
			RecordCount:  s.RecordCount,
			LatestDate:   s.LatestDate,
		})
	}
	c.JSON(http.StatusOK, out)
}
