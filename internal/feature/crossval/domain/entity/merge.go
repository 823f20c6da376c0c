package entity

// Provenance はマージ済み信頼度がどのシナリオで導出されたかを示す閉じたラベル集合です。
type Provenance string

const (
	// ProvenanceBothAgree は両ソースが高信頼度で一致した場合です。
	ProvenanceBothAgree Provenance = "BOTH_AGREE"
	// ProvenanceTrustObjective は客観ソースのみが高信頼度の場合です。
	ProvenanceTrustObjective Provenance = "TRUST_OBJECTIVE"
	// ProvenanceHallucinationRisk は意味ソースの主張を客観ソースが裏付けられない場合です。
	ProvenanceHallucinationRisk Provenance = "HALLUCINATION_RISK"
	// ProvenanceBothAbsent は両ソースが低信頼度（未検出）で一致した場合です。
	ProvenanceBothAbsent Provenance = "BOTH_ABSENT"
	// ProvenanceWeightedMix は中間帯を含む残りすべてのケースです。
	ProvenanceWeightedMix Provenance = "WEIGHTED_MIX"
)

// MergedRecord は1カテゴリに対するクロスバリデーション結果です。
// マージ呼び出しごとに一度だけ生成される不変の値で、生成後に書き換えられることはありません。
type MergedRecord struct {
	Category            CategoryKey // 対象カテゴリ
	ObjectiveConfidence float64     // 客観ソースの入力信頼度（クランプ後）
	SemanticConfidence  float64     // 意味ソースの入力信頼度（クランプ後）
	MergedConfidence    float64     // マージ後の最終信頼度（0.0〜1.0）
	AgreementScore      float64     // ソース間の一致度 1 - |a-b|（0.0〜1.0）
	Provenance          Provenance  // 発火したシナリオのラベル
	HallucinationRisk   bool        // ハルシネーションリスクフラグ
	Reasoning           string      // 監査用の判断理由（シナリオ名と数値入力を含む）
}

// RollupScores はマージ済みレコードのスナップショットから導出される総合スコアです。
// 同じスナップショットからの再計算は純粋かつ冪等です。
type RollupScores struct {
	ObjectDetection  float64 // 物体検出スコア（0.0〜1.0）
	TextRecognition  float64 // 文字認識スコア（license_plateの信頼度）
	LegalSufficiency float64 // 法的十分性スコア（0.0〜1.0）
}

// AdapterFailure は検出ソース呼び出しの失敗記録です。
// オーケストレーターが「証拠の不在」として局所的に回復し、観測用に保持します。
type AdapterFailure struct {
	Source   SourceKind // 失敗したソース
	Err      error      // 元のエラー
	TimedOut bool       // タイムアウトによる失敗かどうか
}

// Error はerrorインターフェースを満たします。
func (f AdapterFailure) Error() string {
	if f.Err == nil {
		return string(f.Source) + " adapter failed"
	}
	return string(f.Source) + " adapter failed: " + f.Err.Error()
}

// Unwrap は元のエラーを返します。
func (f AdapterFailure) Unwrap() error {
	return f.Err
}
