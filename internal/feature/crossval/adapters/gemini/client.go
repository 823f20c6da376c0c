// Package gemini はGoogle Gemini APIを使用した意味検出アダプターを提供します。
// シーン全体の解釈（視覚言語モデル）による検出結果を共有カテゴリ語彙の
// 信頼度マップに正規化します。
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"evidence_backend/internal/feature/crossval/domain/entity"
	"evidence_backend/internal/feature/crossval/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"

	// detectionPrompt は駐車違反証拠の解析プロンプトです。
	// カテゴリ語彙に限定したJSONオブジェクトのみを返すようモデルに指示します。
	detectionPrompt = `You are analyzing a parking violation evidence photo.
For each category below, estimate the confidence (0.0 to 1.0) that the object is visible in the image.
Only include categories you evaluated. Respond with a single JSON object mapping category keys to confidence values, nothing else.
Categories: vehicle, van, truck, motorcycle, license_plate, traffic_sign, traffic_sign_e1, traffic_sign_e2, traffic_sign_e4, traffic_sign_e4_electric, traffic_sign_e5, traffic_sign_e6, traffic_sign_e7, traffic_sign_e8, traffic_sign_e9, traffic_sign_g7, yellow_line, windshield, charging_cable, charging_station, charging_connected, parking_disc, person, parking_permit, disability_card, loading_activity`
)

// GeminiDetector はGoogle Gemini APIを使用する意味検出ソースです。
type GeminiDetector struct {
	client *genai.Client
	model  string
}

// GeminiDetectorがEvidenceDetectorを実装していることをコンパイル時に検証します。
var _ usecase.EvidenceDetector = (*GeminiDetector)(nil)

// NewGeminiDetector はADCを使用してGeminiDetectorの新しいインスタンスを生成します。
// 環境変数 GOOGLE_GENAI_USE_VERTEXAI, GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION が必要です。
func NewGeminiDetector(ctx context.Context) (*GeminiDetector, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiDetector{client: client, model: DefaultModel}, nil
}

// DetectCategories は各証拠画像をGeminiに渡し、画像ごとの信頼度マップを返します。
func (g *GeminiDetector) DetectCategories(ctx context.Context, images [][]byte) ([]entity.ConfidenceMap, error) {
	perImage := make([]entity.ConfidenceMap, 0, len(images))
	for i, img := range images {
		confidences, err := g.detectSingle(ctx, img)
		if err != nil {
			return nil, fmt.Errorf("gemini detection failed for image %d: %w", i, err)
		}
		perImage = append(perImage, confidences)
	}
	return perImage, nil
}

// detectSingle は1枚の画像に対する検出を実行します。
func (g *GeminiDetector) detectSingle(ctx context.Context, image []byte) (entity.ConfidenceMap, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(image, "image/jpeg"),
		genai.NewPartFromText(detectionPrompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini API request failed: %w", err)
	}

	return parseConfidenceJSON(resp.Text())
}

// parseConfidenceJSON はモデル応答のJSONを信頼度マップにデコードします。
// コードフェンス付きの応答も許容します。
func parseConfidenceJSON(text string) (entity.ConfidenceMap, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var raw map[string]float64
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("malformed confidence response: %w", err)
	}

	confidences := make(entity.ConfidenceMap, len(raw))
	for key, value := range raw {
		confidences[entity.CategoryKey(strings.ToLower(key))] = value
	}
	return confidences, nil
}
