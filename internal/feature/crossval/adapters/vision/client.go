// Package vision はGoogle Cloud Vision APIを使用した客観検出アダプターを提供します。
// オブジェクトローカライゼーション（ジオメトリに基づく検出）の結果を
// 共有カテゴリ語彙の信頼度マップに正規化します。
package vision

import (
	"context"
	"fmt"
	"strings"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"evidence_backend/internal/feature/crossval/domain/entity"
	"evidence_backend/internal/feature/crossval/usecase"
)

// objectLabelToCategory はVision APIの物体ラベルをカテゴリ語彙に対応付けます。
// 対応のないラベルは破棄します（未評価扱い）。
var objectLabelToCategory = map[string]entity.CategoryKey{
	"car":                        entity.CategoryVehicle,
	"vehicle":                    entity.CategoryVehicle,
	"van":                        entity.CategoryVan,
	"truck":                      entity.CategoryTruck,
	"motorcycle":                 entity.CategoryMotorcycle,
	"license plate":              entity.CategoryLicensePlate,
	"vehicle registration plate": entity.CategoryLicensePlate,
	"traffic sign":               entity.CategoryTrafficSign,
	"street sign":                entity.CategoryTrafficSign,
	"stop sign":                  entity.CategoryTrafficSign,
	"person":                     entity.CategoryPerson,
	"windshield":                 entity.CategoryWindshield,
	"charging station":           entity.CategoryChargingStation,
}

// VisionDetector はGoogle Cloud Vision APIを使用する客観検出ソースです。
type VisionDetector struct {
	client *gvision.ImageAnnotatorClient
}

// VisionDetectorがEvidenceDetectorを実装していることをコンパイル時に検証します。
var _ usecase.EvidenceDetector = (*VisionDetector)(nil)

// NewVisionDetector はADCを使用してVisionDetectorの新しいインスタンスを生成します。
func NewVisionDetector(ctx context.Context) (*VisionDetector, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &VisionDetector{client: client}, nil
}

// Close はVision APIクライアントを解放します。
func (v *VisionDetector) Close() error {
	return v.client.Close()
}

// DetectCategories は各証拠画像に対してオブジェクトローカライゼーションを実行し、
// 画像ごとのカテゴリ別信頼度マップを返します。
// 同一カテゴリの複数インスタンスは画像内の最大スコアを採用します。
func (v *VisionDetector) DetectCategories(ctx context.Context, images [][]byte) ([]entity.ConfidenceMap, error) {
	requests := make([]*visionpb.AnnotateImageRequest, 0, len(images))
	for _, img := range images {
		requests = append(requests, &visionpb.AnnotateImageRequest{
			Image: &visionpb.Image{Content: img},
			Features: []*visionpb.Feature{
				{Type: visionpb.Feature_OBJECT_LOCALIZATION},
			},
		})
	}

	resp, err := v.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{Requests: requests})
	if err != nil {
		return nil, fmt.Errorf("vision API request failed: %w", err)
	}

	perImage := make([]entity.ConfidenceMap, 0, len(resp.Responses))
	for _, r := range resp.Responses {
		if r.Error != nil {
			return nil, fmt.Errorf("vision API error: %s", r.Error.Message)
		}
		confidences := entity.ConfidenceMap{}
		for _, obj := range r.LocalizedObjectAnnotations {
			category, ok := objectLabelToCategory[strings.ToLower(obj.Name)]
			if !ok {
				continue
			}
			score := float64(obj.Score)
			if current, seen := confidences[category]; !seen || score > current {
				confidences[category] = score
			}
		}
		perImage = append(perImage, confidences)
	}

	return perImage, nil
}
