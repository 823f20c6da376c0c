package handler_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"evidence_backend/internal/feature/crossval/domain/entity"
	"evidence_backend/internal/feature/crossval/transport/handler"
)

// mockCrossvalUsecase はCrossvalUsecaseインターフェースのモック実装です。
type mockCrossvalUsecase struct {
	AnalyzeFunc   func(ctx context.Context, images [][]byte, violationType entity.ViolationType, lang string) (entity.AnalysisResult, error)
	MergeMapsFunc func(ctx context.Context, objective, semantic entity.ConfidenceMap, violationType entity.ViolationType, lang string) (entity.AnalysisResult, error)
	WeightsFunc   func(ctx context.Context) (entity.CategoryWeights, error)
}

func (m *mockCrossvalUsecase) Analyze(ctx context.Context, images [][]byte, violationType entity.ViolationType, lang string) (entity.AnalysisResult, error) {
	return m.AnalyzeFunc(ctx, images, violationType, lang)
}

func (m *mockCrossvalUsecase) MergeMaps(ctx context.Context, objective, semantic entity.ConfidenceMap, violationType entity.ViolationType, lang string) (entity.AnalysisResult, error) {
	return m.MergeMapsFunc(ctx, objective, semantic, violationType, lang)
}

func (m *mockCrossvalUsecase) Weights(ctx context.Context) (entity.CategoryWeights, error) {
	return m.WeightsFunc(ctx)
}

// createAnalyzeRequest はテスト用のマルチパートリクエストを生成するヘルパー関数です。
func createAnalyzeRequest(t *testing.T, imageCount int, fields map[string]string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for i := 0; i < imageCount; i++ {
		part, err := writer.CreateFormFile("images", "evidence.jpg")
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := io.Copy(part, bytes.NewReader([]byte("fake-image"))); err != nil {
			t.Fatalf("failed to copy content: %v", err)
		}
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, "/v1/evidence/analyze", body)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// sampleResult は1カテゴリ分の小さな解析結果を生成します。
func sampleResult() entity.AnalysisResult {
	return entity.AnalysisResult{
		Records: map[entity.CategoryKey]entity.MergedRecord{
			entity.CategoryVehicle: {
				Category:            entity.CategoryVehicle,
				ObjectiveConfidence: 0.9,
				SemanticConfidence:  0.8,
				MergedConfidence:    0.87,
				AgreementScore:      0.9,
				Provenance:          entity.ProvenanceBothAgree,
				HallucinationRisk:   false,
				Reasoning:           "merged",
			},
		},
		Scores: entity.RollupScores{
			ObjectDetection:  0.87,
			TextRecognition:  0,
			LegalSufficiency: 0.5,
		},
		Items: []entity.DetectedItem{
			{
				Category:            entity.CategoryVehicle,
				Label:               "Vehicle",
				Detected:            true,
				Confidence:          0.87,
				ObjectiveConfidence: 0.9,
				SemanticConfidence:  0.8,
				Agreement:           0.9,
				Provenance:          entity.ProvenanceBothAgree,
				Reasoning:           "merged",
				RawMerged:           0.87,
			},
		},
	}
}

const sampleResultJSON = `{
	"results": [{
		"category": "vehicle",
		"objective_confidence": 0.9,
		"semantic_confidence": 0.8,
		"merged_confidence": 0.87,
		"agreement_score": 0.9,
		"provenance": "BOTH_AGREE",
		"hallucination_risk": false,
		"reasoning": "merged"
	}],
	"scores": {
		"object_detection": 0.87,
		"text_recognition": 0,
		"legal_sufficiency": 0.5
	},
	"warnings": [],
	"items": [{
		"category": "vehicle",
		"label": "Vehicle",
		"detected": true,
		"confidence": 0.87,
		"objective_confidence": 0.9,
		"semantic_confidence": 0.8,
		"agreement": 0.9,
		"provenance": "BOTH_AGREE",
		"hallucination_risk": false,
		"absence_based": false,
		"reasoning": "merged"
	}]
}`

func TestCrossvalHandler_Analyze(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		setupRequest   func(t *testing.T) *http.Request
		mockFunc       func(ctx context.Context, images [][]byte, violationType entity.ViolationType, lang string) (entity.AnalysisResult, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: single evidence image",
			setupRequest: func(t *testing.T) *http.Request {
				return createAnalyzeRequest(t, 1, nil)
			},
			mockFunc: func(ctx context.Context, images [][]byte, violationType entity.ViolationType, lang string) (entity.AnalysisResult, error) {
				assert.Len(t, images, 1)
				assert.Equal(t, entity.ViolationType(""), violationType)
				assert.Equal(t, "en", lang)
				return sampleResult(), nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   sampleResultJSON,
		},
		{
			name: "success: violation type and lang are forwarded",
			setupRequest: func(t *testing.T) *http.Request {
				return createAnalyzeRequest(t, 2, map[string]string{"violation_type": "e6", "lang": "nl"})
			},
			mockFunc: func(ctx context.Context, images [][]byte, violationType entity.ViolationType, lang string) (entity.AnalysisResult, error) {
				assert.Len(t, images, 2)
				assert.Equal(t, entity.ViolationE6, violationType)
				assert.Equal(t, "nl", lang)
				return sampleResult(), nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   sampleResultJSON,
		},
		{
			name: "error: no images field",
			setupRequest: func(t *testing.T) *http.Request {
				return createAnalyzeRequest(t, 0, map[string]string{"lang": "en"})
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"証拠画像が必要です"}`,
		},
		{
			name: "error: not a multipart request",
			setupRequest: func(t *testing.T) *http.Request {
				req, _ := http.NewRequest(http.MethodPost, "/v1/evidence/analyze", strings.NewReader("{}"))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"証拠画像が必要です"}`,
		},
		{
			name: "error: too many images",
			setupRequest: func(t *testing.T) *http.Request {
				return createAnalyzeRequest(t, 9, nil)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"証拠画像は最大8枚までです"}`,
		},
		{
			name: "error: usecase returns error",
			setupRequest: func(t *testing.T) *http.Request {
				return createAnalyzeRequest(t, 1, nil)
			},
			mockFunc: func(ctx context.Context, images [][]byte, violationType entity.ViolationType, lang string) (entity.AnalysisResult, error) {
				return entity.AnalysisResult{}, errors.New("weight table corrupted")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"証拠解析に失敗しました"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockCrossvalUsecase{
				AnalyzeFunc: tt.mockFunc,
			}

			h := handler.NewCrossvalHandler(mockUC)

			router := gin.New()
			router.POST("/v1/evidence/analyze", h.Analyze)

			w := httptest.NewRecorder()
			req := tt.setupRequest(t)

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestCrossvalHandler_Merge(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    string
		mockFunc       func(ctx context.Context, objective, semantic entity.ConfidenceMap, violationType entity.ViolationType, lang string) (entity.AnalysisResult, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "success: maps are normalized and forwarded",
			requestBody: `{"objective":{"Vehicle":0.9},"semantic":{"vehicle":0.8},"violation_type":"e1","lang":"nl"}`,
			mockFunc: func(ctx context.Context, objective, semantic entity.ConfidenceMap, violationType entity.ViolationType, lang string) (entity.AnalysisResult, error) {
				assert.Equal(t, entity.ConfidenceMap{entity.CategoryVehicle: 0.9}, objective)
				assert.Equal(t, entity.ConfidenceMap{entity.CategoryVehicle: 0.8}, semantic)
				assert.Equal(t, entity.ViolationE1, violationType)
				assert.Equal(t, "nl", lang)
				return sampleResult(), nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   sampleResultJSON,
		},
		{
			name:           "error: invalid json",
			requestBody:    `invalid`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"不正なリクエスト形式です"}`,
		},
		{
			name:        "error: usecase returns error",
			requestBody: `{"objective":{},"semantic":{}}`,
			mockFunc: func(ctx context.Context, objective, semantic entity.ConfidenceMap, violationType entity.ViolationType, lang string) (entity.AnalysisResult, error) {
				return entity.AnalysisResult{}, errors.New("invalid weights")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"マージ処理に失敗しました"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockCrossvalUsecase{
				MergeMapsFunc: tt.mockFunc,
			}

			h := handler.NewCrossvalHandler(mockUC)

			router := gin.New()
			router.POST("/v1/evidence/merge", h.Merge)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/v1/evidence/merge", strings.NewReader(tt.requestBody))
			req.Header.Set("Content-Type", "application/json")

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestCrossvalHandler_Weights(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		mockFunc       func(ctx context.Context) (entity.CategoryWeights, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: table sorted by category",
			mockFunc: func(ctx context.Context) (entity.CategoryWeights, error) {
				return entity.CategoryWeights{
					Default: entity.WeightPair{Objective: 0.6, Semantic: 0.4},
					Table: map[entity.CategoryKey]entity.WeightPair{
						entity.CategoryWindshield: {Objective: 0.8, Semantic: 0.2},
						entity.CategoryVehicle:    {Objective: 0.7, Semantic: 0.3},
					},
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{
				"default": {"category":"","objective":0.6,"semantic":0.4},
				"table": [
					{"category":"vehicle","objective":0.7,"semantic":0.3},
					{"category":"windshield","objective":0.8,"semantic":0.2}
				]
			}`,
		},
		{
			name: "error: repository failure",
			mockFunc: func(ctx context.Context) (entity.CategoryWeights, error) {
				return entity.CategoryWeights{}, errors.New("db down")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"重みテーブルの取得に失敗しました"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockCrossvalUsecase{
				WeightsFunc: tt.mockFunc,
			}

			h := handler.NewCrossvalHandler(mockUC)

			router := gin.New()
			router.GET("/v1/evidence/weights", h.Weights)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/v1/evidence/weights", nil)

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
