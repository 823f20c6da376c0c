// Package dto はcrossvalフィーチャーのHTTP APIのデータ転送オブジェクトを定義します。
package dto

import (
	"sort"

	"evidence_backend/internal/feature/crossval/domain/entity"
)

// CategoryResultResponse は1カテゴリ分のマージ結果のレスポンスDTOです。
type CategoryResultResponse struct {
	Category            string  `json:"category"`             // カテゴリキー
	ObjectiveConfidence float64 `json:"objective_confidence"` // 客観ソースの信頼度
	SemanticConfidence  float64 `json:"semantic_confidence"`  // 意味ソースの信頼度
	MergedConfidence    float64 `json:"merged_confidence"`    // マージ後の信頼度
	AgreementScore      float64 `json:"agreement_score"`      // ソース間一致度
	Provenance          string  `json:"provenance"`           // 発火したシナリオ
	HallucinationRisk   bool    `json:"hallucination_risk"`   // リスクフラグ
	Reasoning           string  `json:"reasoning"`            // 判断理由
}

// RollupScoresResponse は総合スコアのレスポンスDTOです。
type RollupScoresResponse struct {
	ObjectDetection  float64 `json:"object_detection"`
	TextRecognition  float64 `json:"text_recognition"`
	LegalSufficiency float64 `json:"legal_sufficiency"`
}

// DetectedItemResponse は検出パネル表示用アイテムのレスポンスDTOです。
type DetectedItemResponse struct {
	Category            string  `json:"category"`
	Label               string  `json:"label"`
	Detected            bool    `json:"detected"`
	Confidence          float64 `json:"confidence"`
	ObjectiveConfidence float64 `json:"objective_confidence"`
	SemanticConfidence  float64 `json:"semantic_confidence"`
	Agreement           float64 `json:"agreement"`
	Provenance          string  `json:"provenance"`
	HallucinationRisk   bool    `json:"hallucination_risk"`
	AbsenceBased        bool    `json:"absence_based"`
	Reasoning           string  `json:"reasoning"`
}

// ChecklistItemResponse は証拠チェック項目のレスポンスDTOです。
type ChecklistItemResponse struct {
	Description    string  `json:"description"`
	Status         string  `json:"status"`
	LegalReference string  `json:"legal_reference"`
	Confidence     float64 `json:"confidence"`
	Category       string  `json:"category"`
	AbsenceBased   bool    `json:"absence_based"`
}

// ChecklistResponse は証拠チェックリスト全体のレスポンスDTOです。
type ChecklistResponse struct {
	Items              []ChecklistItemResponse `json:"items"`
	ConfirmedCount     int                     `json:"confirmed_count"`
	TotalCount         int                     `json:"total_count"`
	VerifiedPercentage int                     `json:"verified_percentage"`
}

// FailureResponse は検出ソース失敗の記録のレスポンスDTOです。
type FailureResponse struct {
	Source   string `json:"source"`
	Error    string `json:"error"`
	TimedOut bool   `json:"timed_out"`
}

// AnalysisResponse はクロスバリデーション結果全体のレスポンスDTOです。
type AnalysisResponse struct {
	Results   []CategoryResultResponse `json:"results"`             // カテゴリキー順
	Scores    RollupScoresResponse     `json:"scores"`              // 総合スコア
	Warnings  []string                 `json:"warnings"`            // ハルシネーション警告
	Items     []DetectedItemResponse   `json:"items"`               // 表示用アイテム
	Checklist *ChecklistResponse       `json:"checklist,omitempty"` // 違反種別指定時のみ
	Failures  []FailureResponse        `json:"failures,omitempty"`  // 記録されたソース失敗
}

// NewAnalysisResponse はドメインの解析結果をレスポンスDTOに変換します。
// レコードはカテゴリキー順で安定した並びになります。
func NewAnalysisResponse(result entity.AnalysisResult) AnalysisResponse {
	results := make([]CategoryResultResponse, 0, len(result.Records))
	for _, record := range result.Records {
		results = append(results, CategoryResultResponse{
			Category:            string(record.Category),
			ObjectiveConfidence: record.ObjectiveConfidence,
			SemanticConfidence:  record.SemanticConfidence,
			MergedConfidence:    record.MergedConfidence,
			AgreementScore:      record.AgreementScore,
			Provenance:          string(record.Provenance),
			HallucinationRisk:   record.HallucinationRisk,
			Reasoning:           record.Reasoning,
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Category < results[j].Category })

	items := make([]DetectedItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, DetectedItemResponse{
			Category:            string(item.Category),
			Label:               item.Label,
			Detected:            item.Detected,
			Confidence:          item.Confidence,
			ObjectiveConfidence: item.ObjectiveConfidence,
			SemanticConfidence:  item.SemanticConfidence,
			Agreement:           item.Agreement,
			Provenance:          string(item.Provenance),
			HallucinationRisk:   item.HallucinationRisk,
			AbsenceBased:        item.AbsenceBased,
			Reasoning:           item.Reasoning,
		})
	}

	warnings := result.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	out := AnalysisResponse{
		Results:  results,
		Scores:   newRollupScoresResponse(result.Scores),
		Warnings: warnings,
		Items:    items,
	}
	if result.Checklist != nil {
		checklist := newChecklistResponse(*result.Checklist)
		out.Checklist = &checklist
	}
	for _, failure := range result.Failures {
		out.Failures = append(out.Failures, FailureResponse{
			Source:   string(failure.Source),
			Error:    failure.Error(),
			TimedOut: failure.TimedOut,
		})
	}
	return out
}

func newRollupScoresResponse(scores entity.RollupScores) RollupScoresResponse {
	return RollupScoresResponse{
		ObjectDetection:  scores.ObjectDetection,
		TextRecognition:  scores.TextRecognition,
		LegalSufficiency: scores.LegalSufficiency,
	}
}

func newChecklistResponse(checklist entity.EvidenceChecklist) ChecklistResponse {
	items := make([]ChecklistItemResponse, 0, len(checklist.Items))
	for _, item := range checklist.Items {
		items = append(items, ChecklistItemResponse{
			Description:    item.Description,
			Status:         string(item.Status),
			LegalReference: item.LegalReference,
			Confidence:     item.Confidence,
			Category:       string(item.Category),
			AbsenceBased:   item.AbsenceBased,
		})
	}
	return ChecklistResponse{
		Items:              items,
		ConfirmedCount:     checklist.ConfirmedCount,
		TotalCount:         checklist.TotalCount,
		VerifiedPercentage: checklist.VerifiedPercentage,
	}
}
