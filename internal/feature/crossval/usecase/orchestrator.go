package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"evidence_backend/internal/feature/crossval/domain/entity"
)

const (
	// DefaultObjectiveTimeout はセグメンテーション系検出のデフォルトタイムアウトです。
	// （モデル推論が重いため長め）
	DefaultObjectiveTimeout = 120 * time.Second
	// DefaultSemanticTimeout は視覚言語系検出のデフォルトタイムアウトです。
	DefaultSemanticTimeout = 45 * time.Second
)

// EvidenceDetector は証拠画像一式から画像ごとの信頼度マップを生成する
// 検出ソースのインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
// 実装は値を[0,1]に収めて返す契約ですが、オーケストレーターは取り込み時に
// 防御的にクランプします。
type EvidenceDetector interface {
	// DetectCategories は各画像に対するカテゴリ別信頼度マップを返します。
	DetectCategories(ctx context.Context, images [][]byte) ([]entity.ConfidenceMap, error)
}

// EvidenceOrchestrator は2つの検出ソースを同一の証拠一式に対して並列実行します。
// 各ソースは独立したタイムアウトを持ち、一方の失敗やタイムアウトが
// 他方をブロック・キャンセル・破壊することはありません。
// 全体のレイテンシは2つのタイムアウトの最大値で抑えられます（リトライなし）。
type EvidenceOrchestrator struct {
	objective        EvidenceDetector
	semantic         EvidenceDetector
	objectiveTimeout time.Duration
	semanticTimeout  time.Duration
}

// NewEvidenceOrchestrator はEvidenceOrchestratorの新しいインスタンスを生成します。
// 検出器がnilの場合は構成上無効とみなされ、即座に空マップ（失敗記録なし）として扱われます。
// タイムアウトが0以下の場合はデフォルト値が適用されます。
func NewEvidenceOrchestrator(objective, semantic EvidenceDetector, objectiveTimeout, semanticTimeout time.Duration) *EvidenceOrchestrator {
	if objectiveTimeout <= 0 {
		objectiveTimeout = DefaultObjectiveTimeout
	}
	if semanticTimeout <= 0 {
		semanticTimeout = DefaultSemanticTimeout
	}
	return &EvidenceOrchestrator{
		objective:        objective,
		semantic:         semantic,
		objectiveTimeout: objectiveTimeout,
		semanticTimeout:  semanticTimeout,
	}
}

// sourceOutcome は1ソース分の確定結果です。
type sourceOutcome struct {
	confidences entity.ConfidenceMap
	failure     *entity.AdapterFailure
}

// Run は両ソースを並列実行し、両方が完了またはタイムアウトしてから戻ります
// （先着では戻りません。マージ方針は各ソースの確定結果を必要とするため）。
// 失敗・タイムアウトしたソースは空マップ+失敗記録になります。
func (o *EvidenceOrchestrator) Run(ctx context.Context, images [][]byte) (entity.ConfidenceMap, entity.ConfidenceMap, []entity.AdapterFailure) {
	var (
		wg       sync.WaitGroup
		outcomes [2]sourceOutcome
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		outcomes[0] = o.runDetector(ctx, entity.SourceObjective, o.objective, o.objectiveTimeout, images)
	}()
	go func() {
		defer wg.Done()
		outcomes[1] = o.runDetector(ctx, entity.SourceSemantic, o.semantic, o.semanticTimeout, images)
	}()
	wg.Wait()

	var failures []entity.AdapterFailure
	for _, outcome := range outcomes {
		if outcome.failure != nil {
			failures = append(failures, *outcome.failure)
		}
	}
	return outcomes[0].confidences, outcomes[1].confidences, failures
}

// runDetector は1ソースを独立タイムアウト下で実行し、結果を集約・クランプします。
// タイムアウトしたソースをそれ以上待つことはなく、遅延した結果がマージに
// 混入することもありません。
func (o *EvidenceOrchestrator) runDetector(ctx context.Context, source entity.SourceKind, detector EvidenceDetector, timeout time.Duration, images [][]byte) sourceOutcome {
	if detector == nil {
		// 構成で無効化されたソースは失敗ではなく即座の空マップ
		return sourceOutcome{confidences: entity.ConfidenceMap{}}
	}

	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type detection struct {
		perImage []entity.ConfidenceMap
		err      error
	}
	done := make(chan detection, 1)
	go func() {
		perImage, err := detector.DetectCategories(tctx, images)
		done <- detection{perImage: perImage, err: err}
	}()

	select {
	case <-tctx.Done():
		slog.Warn("検出ソースがタイムアウトしました", "source", source, "timeout", timeout)
		return sourceOutcome{
			confidences: entity.ConfidenceMap{},
			failure:     &entity.AdapterFailure{Source: source, Err: tctx.Err(), TimedOut: true},
		}
	case result := <-done:
		if result.err != nil {
			timedOut := errors.Is(result.err, context.DeadlineExceeded)
			slog.Warn("検出ソースが失敗しました", "source", source, "error", result.err)
			return sourceOutcome{
				confidences: entity.ConfidenceMap{},
				failure:     &entity.AdapterFailure{Source: source, Err: result.err, TimedOut: timedOut},
			}
		}
		return sourceOutcome{confidences: o.ingest(source, result.perImage)}
	}
}

// ingest は画像ごとのマップを集約し、契約違反の範囲外値をクランプします。
// 単一の不正な値が他の有効なマージを中断させてはならないため、拒否はしません。
func (o *EvidenceOrchestrator) ingest(source entity.SourceKind, perImage []entity.ConfidenceMap) entity.ConfidenceMap {
	aggregated := AggregateMax(perImage)
	for category, confidence := range aggregated {
		if confidence < 0 || confidence > 1 {
			slog.Warn("範囲外の信頼度をクランプしました",
				"source", source, "category", category, "value", confidence)
			aggregated[category] = clamp01(confidence)
		}
	}
	return aggregated
}
