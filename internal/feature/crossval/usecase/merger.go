package usecase

import (
	"fmt"
	"math"

	"evidence_backend/internal/feature/crossval/domain"
	"evidence_backend/internal/feature/crossval/domain/entity"
)

const (
	// TrustObjectiveDiscount は客観ソースのみが高信頼度の場合の減額係数です。
	// （意味ソースの裏付けがないことへの固定10%割引）
	TrustObjectiveDiscount = 0.90
	// HallucinationDiscount はハルシネーションリスク時の減額係数です。
	// （客観ソースが裏付けられない意味ソースの主張への強い割引）
	HallucinationDiscount = 0.40
)

// Merger は2つの信頼度マップをカテゴリごとの決定的な5シナリオ方針でマージします。
// 純粋でI/Oを持たず、それ自体が失敗することはありません。
// 同じ入力と設定に対する再実行はビット単位で同一のレコードを返します。
type Merger struct {
	weights    entity.CategoryWeights
	thresholds entity.ThresholdConfig
}

// NewMerger は設定を検証してMergerを生成します。
// 不正な重み・しきい値は起動時に拒否され、マージが実行されることはありません。
func NewMerger(weights entity.CategoryWeights, thresholds entity.ThresholdConfig) (*Merger, error) {
	if !thresholds.Valid() {
		return nil, fmt.Errorf("%w: high=%v low=%v", domain.ErrInvalidThresholds, thresholds.High, thresholds.Low)
	}
	if !weights.Default.Valid() {
		return nil, fmt.Errorf("%w: default pair (%v, %v)", domain.ErrInvalidWeights, weights.Default.Objective, weights.Default.Semantic)
	}
	for category, pair := range weights.Table {
		if !pair.Valid() {
			return nil, fmt.Errorf("%w: category %q (%v, %v)", domain.ErrInvalidWeights, category, pair.Objective, pair.Semantic)
		}
	}
	return &Merger{weights: weights, thresholds: thresholds}, nil
}

// Merge は両マップに現れるキーの和集合に対してシナリオ選択を行います。
// 片方のマップに存在しないカテゴリは0.0として扱われます。
// 範囲外の入力値は拒否せず[0,1]にクランプしてから判定します。
func (m *Merger) Merge(objective, semantic entity.ConfidenceMap) map[entity.CategoryKey]entity.MergedRecord {
	records := make(map[entity.CategoryKey]entity.MergedRecord, len(objective)+len(semantic))
	for category := range objective {
		records[category] = m.mergeSingle(category, objective[category], semantic[category])
	}
	for category := range semantic {
		if _, done := records[category]; done {
			continue
		}
		records[category] = m.mergeSingle(category, objective[category], semantic[category])
	}
	return records
}

// mergeSingle は1カテゴリに対して5つのシナリオを優先順に評価し、
// 最初に一致した1つだけを適用します。
// 境界は半開です: High「以上」が高、Low「未満」が低。Lowちょうどは中間帯に属します。
func (m *Merger) mergeSingle(category entity.CategoryKey, a, b float64) entity.MergedRecord {
	a = clamp01(a)
	b = clamp01(b)

	w := m.weights.Lookup(category)
	high, low := m.thresholds.High, m.thresholds.Low
	agreement := 1.0 - math.Abs(a-b)

	record := entity.MergedRecord{
		Category:            category,
		ObjectiveConfidence: a,
		SemanticConfidence:  b,
		AgreementScore:      agreement,
	}

	switch {
	case a >= high && b >= high:
		// シナリオ1: 両ソースが高信頼度で一致
		record.MergedConfidence = a*w.Objective + b*w.Semantic
		record.Provenance = entity.ProvenanceBothAgree
		record.Reasoning = fmt.Sprintf(
			"BOTH_AGREE: objective %.2f and semantic %.2f both at or above %.2f, weighted merge", a, b, high)

	case a >= high && b < low:
		// シナリオ2: 客観ソースのみ高信頼度 → 客観を採用（裏付け欠如で10%減額）
		record.MergedConfidence = a * TrustObjectiveDiscount
		record.Provenance = entity.ProvenanceTrustObjective
		record.Reasoning = fmt.Sprintf(
			"TRUST_OBJECTIVE: objective %.2f is authoritative, semantic %.2f below %.2f, 10%% discount for missing corroboration", a, b, low)

	case a < low && b >= high:
		// シナリオ3: 意味ソースの主張を客観ソースが裏付けられない
		record.MergedConfidence = b * HallucinationDiscount
		record.Provenance = entity.ProvenanceHallucinationRisk
		record.HallucinationRisk = true
		record.Reasoning = fmt.Sprintf(
			"HALLUCINATION_RISK: semantic %.2f claims detection but objective %.2f cannot corroborate, heavy discount", b, a)

	case a < low && b < low:
		// シナリオ4: 両ソースとも低信頼度（未検出）
		record.MergedConfidence = math.Max(a, b)
		record.Provenance = entity.ProvenanceBothAbsent
		record.Reasoning = fmt.Sprintf(
			"BOTH_ABSENT: objective %.2f and semantic %.2f both below %.2f", a, b, low)

	default:
		// シナリオ5: 残りすべて（少なくとも片方が中間帯 [Low, High)）
		record.MergedConfidence = a*w.Objective + b*w.Semantic
		record.Provenance = entity.ProvenanceWeightedMix
		record.HallucinationRisk = (b - a) > m.thresholds.HallucinationGap
		if record.HallucinationRisk {
			record.Reasoning = fmt.Sprintf(
				"WEIGHTED_MIX: semantic %.2f exceeds objective %.2f by more than %.2f, risk flagged", b, a, m.thresholds.HallucinationGap)
		} else {
			record.Reasoning = fmt.Sprintf(
				"WEIGHTED_MIX: objective %.2f and semantic %.2f in mid band, weighted merge", a, b)
		}
	}

	return record
}

// clamp01 は値を[0,1]に収めます。
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
