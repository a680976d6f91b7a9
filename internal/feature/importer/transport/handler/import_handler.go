// Package handler はimporterフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"trading_dashboard/internal/feature/importer/transport/http/dto"
	"trading_dashboard/internal/feature/importer/usecase"
	"trading_dashboard/internal/platform/http/response"
)

// MaxFileSize は1ファイルあたりのアップロード上限です。
const MaxFileSize = 32 << 20

var (
	errNoFiles      = errors.New(`no csv supplied: send multipart field "files" or a text/csv body`)
	errFileTooLarge = fmt.Errorf("file exceeds %d bytes", MaxFileSize)
)

// ImportUsecase はCSV取り込みユースケースのインターフェースです。
type ImportUsecase interface {
	ImportCSV(ctx context.Context, text string) (usecase.Result, error)
}

// ImportHandler はCSVアップロードを処理します。
type ImportHandler struct {
	uc ImportUsecase
}

// NewImportHandler は ImportHandler の新しいインスタンスを生成します。
func NewImportHandler(uc ImportUsecase) *ImportHandler {
	return &ImportHandler{uc: uc}
}

type upload struct {
	name string
	open func() (io.ReadCloser, error)
}

// Import はアップロードされたCSVを取り込みます。
//
// エンドポイント例:
// POST /imports (multipart/form-data, field "files")
// POST /imports (Content-Type: text/csv)
func (h *ImportHandler) Import(c *gin.Context) {
	uploads, err := collectUploads(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err)
		return
	}

	out := make([]dto.FileResult, 0, len(uploads))
	for _, up := range uploads {
		fr := dto.FileResult{Name: up.name, Errors: []string{}}

		text, err := readAll(up)
		if err != nil {
			fr.Error = err.Error()
			out = append(out, fr)
			continue
		}

		res, err := h.uc.ImportCSV(c.Request.Context(), text)
		if err != nil && !errors.Is(err, usecase.ErrEmptyFile) {
			// 接続エラーなどは残りのファイルも失敗するため中断する
			response.Error(c, http.StatusInternalServerError, err)
			return
		}
		if err != nil {
			fr.Error = err.Error()
		}
		fr.New, fr.Updated, fr.Symbols = res.New, res.Updated, len(res.Symbols)
		fr.Errors = append(fr.Errors, res.Errors...)
		out = append(out, fr)
	}

	if len(out) == 1 && out[0].Error != "" {
		c.JSON(http.StatusBadRequest, dto.ImportResponse{Files: out})
		return
	}
	c.JSON(http.StatusOK, dto.ImportResponse{Files: out})
}

// collectUploads はリクエストから取り込み対象を取り出します。
func collectUploads(c *gin.Context) ([]upload, error) {
	mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		form, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		var uploads []upload
		for _, fh := range form.File["files"] {
			if fh.Size > MaxFileSize {
				uploads = append(uploads, upload{name: fh.Filename, open: func() (io.ReadCloser, error) {
					return nil, errFileTooLarge
				}})
				continue
			}
			uploads = append(uploads, upload{name: fh.Filename, open: func() (io.ReadCloser, error) {
				f, err := fh.Open()
				if err != nil {
					return nil, err
				}
				return f, nil
			}})
		}
		if len(uploads) == 0 {
			return nil, errNoFiles
		}
		return uploads, nil

	case "text/csv", "text/plain", "application/csv":
		body := c.Request.Body
		return []upload{{name: "body", open: func() (io.ReadCloser, error) { return body, nil }}}, nil

	default:
		return nil, errNoFiles
	}
}

func readAll(up upload) (string, error) {
	rc, err := up.open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	b, err := io.ReadAll(io.LimitReader(rc, MaxFileSize+1))
	if err != nil {
		return "", err
	}
	if len(b) > MaxFileSize {
		return "", errFileTooLarge
	}
	return string(b), nil
}
