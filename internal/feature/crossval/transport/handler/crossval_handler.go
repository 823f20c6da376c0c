// Package handler はcrossvalフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"evidence_backend/internal/feature/crossval/domain"
	"evidence_backend/internal/feature/crossval/domain/entity"
	"evidence_backend/internal/feature/crossval/transport/http/dto"
	"evidence_backend/internal/feature/crossval/usecase"
)

// CrossvalUsecase は証拠クロスバリデーションのユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CrossvalUsecase interface {
	Analyze(ctx context.Context, images [][]byte, violationType entity.ViolationType, lang string) (entity.AnalysisResult, error)
	MergeMaps(ctx context.Context, objective, semantic entity.ConfidenceMap, violationType entity.ViolationType, lang string) (entity.AnalysisResult, error)
	Weights(ctx context.Context) (entity.CategoryWeights, error)
}

// CrossvalHandler は証拠クロスバリデーションのHTTPリクエストを処理します。
type CrossvalHandler struct {
	uc CrossvalUsecase
}

// NewCrossvalHandler は指定されたusecaseでCrossvalHandlerの新しいインスタンスを生成します。
func NewCrossvalHandler(uc CrossvalUsecase) *CrossvalHandler {
	return &CrossvalHandler{uc: uc}
}

// Analyze は証拠画像一式をアップロードしてクロスバリデーションを実行します。
//
// エンドポイント: POST /v1/evidence/analyze
// Content-Type: multipart/form-data
// フィールド: images（画像ファイル、最大8枚・各10MB）、violation_type（任意）、lang（任意）
func (h *CrossvalHandler) Analyze(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		slog.Warn("マルチパートフォームの取得に失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "証拠画像が必要です"})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "証拠画像が必要です"})
		return
	}
	if len(files) > usecase.MaxImageCount {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: fmt.Sprintf("証拠画像は最大%d枚までです", usecase.MaxImageCount),
		})
		return
	}

	images := make([][]byte, 0, len(files))
	for _, file := range files {
		if file.Size > usecase.MaxImageSize {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "画像サイズが上限（10MB）を超えています"})
			return
		}
		data, err := readUpload(file)
		if err != nil {
			slog.Error("画像データの読み取りに失敗", "error", err, "filename", file.Filename)
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "画像の読み込みに失敗しました"})
			return
		}
		images = append(images, data)
	}

	violationType := entity.ViolationType(strings.ToUpper(c.PostForm("violation_type")))
	lang := c.DefaultPostForm("lang", "en")

	result, err := h.uc.Analyze(c.Request.Context(), images, violationType, lang)
	if err != nil {
		if errors.Is(err, domain.ErrNoEvidence) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "証拠画像が必要です"})
			return
		}
		slog.Error("証拠解析に失敗", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "証拠解析に失敗しました"})
		return
	}

	c.JSON(http.StatusOK, dto.NewAnalysisResponse(result))
}

// Merge は外部で生成済みの2つの信頼度マップをマージします。
// 検出器を自前で運用する呼び出し元向けの純粋な入口です。
//
// エンドポイント: POST /v1/evidence/merge
// Content-Type: application/json
func (h *CrossvalHandler) Merge(c *gin.Context) {
	var req dto.MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("マージリクエストのバリデーションに失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "不正なリクエスト形式です"})
		return
	}

	result, err := h.uc.MergeMaps(
		c.Request.Context(),
		toConfidenceMap(req.Objective),
		toConfidenceMap(req.Semantic),
		entity.ViolationType(strings.ToUpper(req.ViolationType)),
		req.Lang,
	)
	if err != nil {
		slog.Error("信頼度マップのマージに失敗", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "マージ処理に失敗しました"})
		return
	}

	c.JSON(http.StatusOK, dto.NewAnalysisResponse(result))
}

// Weights は現在有効なカテゴリ重みテーブルを返します。
//
// エンドポイント: GET /v1/evidence/weights
func (h *CrossvalHandler) Weights(c *gin.Context) {
	weights, err := h.uc.Weights(c.Request.Context())
	if err != nil {
		slog.Error("重みテーブルの取得に失敗", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "重みテーブルの取得に失敗しました"})
		return
	}

	c.JSON(http.StatusOK, dto.NewWeightsResponse(weights))
}

// readUpload はアップロードされたファイルを読み取ります。
func readUpload(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("画像ファイルのクローズに失敗", "error", err)
		}
	}()
	return io.ReadAll(f)
}

// toConfidenceMap はリクエストのマップをドメインの信頼度マップに変換します。
// カテゴリキーは小文字に正規化します。
func toConfidenceMap(in map[string]float64) entity.ConfidenceMap {
	out := make(entity.ConfidenceMap, len(in))
	for key, value := range in {
		out[entity.CategoryKey(strings.ToLower(key))] = value
	}
	return out
}
