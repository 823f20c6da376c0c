package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"evidence_backend/internal/feature/crossval/domain"
	"evidence_backend/internal/feature/crossval/domain/entity"
)

const (
	// MaxImageSize は証拠画像1枚あたりの最大サイズ（10MB）です。
	MaxImageSize = 10 * 1024 * 1024
	// MaxImageCount は1回の解析で受け付ける証拠画像の最大枚数です。
	MaxImageCount = 8
)

// WeightRepository はカテゴリ重みテーブルの読み取りレイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type WeightRepository interface {
	// LoadWeights は設定済みの重みテーブルを返します。
	LoadWeights(ctx context.Context) (entity.CategoryWeights, error)
}

// crossvalUsecase は証拠クロスバリデーションのユースケースを実装します。
// オーケストレーターのジョイン後は純粋なステージ（マージ・集計・報告）のみで構成されます。
type crossvalUsecase struct {
	orchestrator *EvidenceOrchestrator
	weights      WeightRepository
	thresholds   entity.ThresholdConfig
}

// NewCrossvalUsecase はcrossvalUsecaseの新しいインスタンスを生成します。
// しきい値はここで検証され、不正なら起動に失敗します。
func NewCrossvalUsecase(orchestrator *EvidenceOrchestrator, weights WeightRepository, thresholds entity.ThresholdConfig) (*crossvalUsecase, error) {
	if !thresholds.Valid() {
		return nil, fmt.Errorf("%w: high=%v low=%v", domain.ErrInvalidThresholds, thresholds.High, thresholds.Low)
	}
	return &crossvalUsecase{
		orchestrator: orchestrator,
		weights:      weights,
		thresholds:   thresholds,
	}, nil
}

// Analyze は証拠画像一式に対して完全なパイプラインを実行します:
// 並列検出 → 集約 → マージ → 総合スコア → 警告 → (任意)チェックリスト。
func (u *crossvalUsecase) Analyze(ctx context.Context, images [][]byte, violationType entity.ViolationType, lang string) (entity.AnalysisResult, error) {
	if len(images) == 0 {
		return entity.AnalysisResult{}, domain.ErrNoEvidence
	}
	if len(images) > MaxImageCount {
		return entity.AnalysisResult{}, fmt.Errorf("evidence set exceeds maximum of %d images", MaxImageCount)
	}
	for i, img := range images {
		if len(img) == 0 {
			return entity.AnalysisResult{}, fmt.Errorf("image %d is empty", i)
		}
		if len(img) > MaxImageSize {
			return entity.AnalysisResult{}, fmt.Errorf("image %d exceeds maximum of %d bytes", i, MaxImageSize)
		}
	}

	objective, semantic, failures := u.orchestrator.Run(ctx, images)

	result, err := u.mergeStages(ctx, objective, semantic, violationType, lang)
	if err != nil {
		return entity.AnalysisResult{}, err
	}
	result.Failures = failures
	return result, nil
}

// MergeMaps は外部で生成済みの2つの信頼度マップに対して純粋なコアのみを実行します。
// （検出器を自前で運用する呼び出し元向けの入口）
func (u *crossvalUsecase) MergeMaps(ctx context.Context, objective, semantic entity.ConfidenceMap, violationType entity.ViolationType, lang string) (entity.AnalysisResult, error) {
	return u.mergeStages(ctx, objective, semantic, violationType, lang)
}

// Weights は現在有効な重みテーブル（デフォルトとのマージ済み）を返します。
func (u *crossvalUsecase) Weights(ctx context.Context) (entity.CategoryWeights, error) {
	return u.loadWeights(ctx)
}

// mergeStages はジョイン後の純粋ステージを順に適用します。
func (u *crossvalUsecase) mergeStages(ctx context.Context, objective, semantic entity.ConfidenceMap, violationType entity.ViolationType, lang string) (entity.AnalysisResult, error) {
	weights, err := u.loadWeights(ctx)
	if err != nil {
		return entity.AnalysisResult{}, err
	}
	merger, err := NewMerger(weights, u.thresholds)
	if err != nil {
		return entity.AnalysisResult{}, err
	}

	records := merger.Merge(objective, semantic)
	items := DetectedItems(records)

	result := entity.AnalysisResult{
		Records:  records,
		Scores:   Rollup(records),
		Warnings: HallucinationWarnings(records),
		Items:    items,
	}
	if violationType != "" {
		checklist := BuildChecklist(items, violationType, lang)
		result.Checklist = &checklist
	}
	return result, nil
}

// loadWeights はリポジトリから重みを取得します。
// リポジトリが未構成または到達不能の場合は組み込みデフォルトにフォールバックします
// （重み参照は常に全域的であるため、解析自体は失敗させません）。
func (u *crossvalUsecase) loadWeights(ctx context.Context) (entity.CategoryWeights, error) {
	if u.weights == nil {
		return entity.DefaultCategoryWeights(), nil
	}
	weights, err := u.weights.LoadWeights(ctx)
	if err != nil {
		slog.Warn("重みテーブルの取得に失敗、組み込みデフォルトを使用します", "error", err)
		return entity.DefaultCategoryWeights(), nil
	}
	return weights, nil
}
