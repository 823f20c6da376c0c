// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"

	"evidence_backend/internal/feature/crossval/adapters/gemini"
	"evidence_backend/internal/feature/crossval/adapters/segmentation"
	"evidence_backend/internal/feature/crossval/adapters/vision"
	"evidence_backend/internal/feature/crossval/usecase"
	platformhttp "evidence_backend/internal/platform/http"
)

// NewObjectiveDetector creates the objective detection source.
// If SEGMENTATION_API_URL is set, it uses the external segmentation service.
// Otherwise it falls back to Cloud Vision object localization.
func NewObjectiveDetector(ctx context.Context) (usecase.EvidenceDetector, error) {
	cfg := segmentation.LoadConfig()
	if cfg.BaseURL != "" {
		httpClient := platformhttp.NewHTTPClient(cfg.Timeout)
		return segmentation.NewSegmentationDetector(cfg, httpClient), nil
	}
	detector, err := vision.NewVisionDetector(ctx)
	if err != nil {
		return nil, err
	}
	return detector, nil
}

// NewSemanticDetector creates the semantic (vision-language) detection source.
func NewSemanticDetector(ctx context.Context) (usecase.EvidenceDetector, error) {
	detector, err := gemini.NewGeminiDetector(ctx)
	if err != nil {
		return nil, err
	}
	return detector, nil
}
