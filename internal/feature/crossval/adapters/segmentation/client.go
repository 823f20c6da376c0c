package segmentation

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"evidence_backend/internal/feature/crossval/adapters/segmentation/dto"
	"evidence_backend/internal/feature/crossval/domain/entity"
	"evidence_backend/internal/feature/crossval/usecase"
)

// SegmentationDetector は外部セグメンテーションサービスを呼び出す客観検出ソースです。
// サービスは画像ごとのセグメンテーションマスクとスコアを計算し、
// カテゴリ別信頼度として返します。
type SegmentationDetector struct {
	cfg    Config
	client *http.Client
}

// SegmentationDetectorがEvidenceDetectorを実装していることをコンパイル時に検証します。
var _ usecase.EvidenceDetector = (*SegmentationDetector)(nil)

// NewSegmentationDetector は指定された設定とHTTPクライアントで
// SegmentationDetectorの新しいインスタンスを生成します。
func NewSegmentationDetector(cfg Config, client *http.Client) *SegmentationDetector {
	return &SegmentationDetector{cfg: cfg, client: client}
}

// DetectCategories はセグメンテーションサービスに証拠画像一式を送信し、
// 画像ごとのカテゴリ別信頼度マップを返します。
func (s *SegmentationDetector) DetectCategories(ctx context.Context, images [][]byte) ([]entity.ConfidenceMap, error) {
	encoded := make([]string, 0, len(images))
	for _, img := range images {
		encoded = append(encoded, base64.StdEncoding.EncodeToString(img))
	}

	payload, err := json.Marshal(dto.AnalyzeRequest{Images: encoded})
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v1/analyze", strings.TrimSuffix(s.cfg.BaseURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("segmentation service http %d", res.StatusCode)
	}

	// JSONレスポンスをDTOにデコード
	var body dto.AnalyzeResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Status == "error" {
		return nil, fmt.Errorf("segmentation service: %s", body.Message)
	}

	perImage := make([]entity.ConfidenceMap, 0, len(body.Results))
	for _, result := range body.Results {
		confidences := make(entity.ConfidenceMap, len(result.Confidences))
		for key, value := range result.Confidences {
			confidences[entity.CategoryKey(strings.ToLower(key))] = value
		}
		perImage = append(perImage, confidences)
	}
	return perImage, nil
}
