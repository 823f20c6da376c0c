package entity

// ViolationType は駐車違反の種別コードです（標識コードに対応）。
type ViolationType string

const (
	ViolationE1         ViolationType = "E1"          // 駐車禁止区域
	ViolationE2         ViolationType = "E2"          // 停車禁止区域
	ViolationE4         ViolationType = "E4"          // 駐車施設（条件付き）
	ViolationE5         ViolationType = "E5"          // タクシー乗り場
	ViolationE6         ViolationType = "E6"          // 障がい者専用駐車
	ViolationE7         ViolationType = "E7"          // 荷さばき区域
	ViolationE8         ViolationType = "E8"          // 相乗り専用駐車
	ViolationE9         ViolationType = "E9"          // 許可証保有者専用駐車
	ViolationG7         ViolationType = "G7"          // 歩行者専用区域
	ViolationYellowLine ViolationType = "YELLOW_LINE" // 黄色実線
	ViolationR396I      ViolationType = "R396I"       // 黄色実線の別名コード
)

// ChecklistStatus は証拠チェック項目の判定結果です。
type ChecklistStatus string

const (
	ChecklistPassed       ChecklistStatus = "passed"       // 確認済み
	ChecklistUnverifiable ChecklistStatus = "unverifiable" // 検証不能（要目視確認）
	ChecklistFailed       ChecklistStatus = "failed"       // 不成立
)

// EvidenceCheck は違反種別ごとに定義される1つの証拠確認項目です。
type EvidenceCheck struct {
	Label          string      // 英語ラベル
	LabelNL        string      // オランダ語ラベル
	Category       CategoryKey // 対応する検出カテゴリ
	Absence        bool        // 不在の確認を期待するか
	LegalReference string      // 法的根拠（RVV 1990 / Wahv条文）
}

// ChecklistItem は検出結果と突き合わせた後のチェック項目です。
type ChecklistItem struct {
	Description    string          // 表示用の説明文
	Status         ChecklistStatus // 判定結果
	LegalReference string          // 法的根拠
	Confidence     float64         // 表示用信頼度（不在ベースは反転済み、0.0〜1.0）
	Category       CategoryKey     // 対応カテゴリ
	AbsenceBased   bool            // 不在ベースの項目か
}

// EvidenceChecklist は違反種別に対する証拠チェックリスト全体です。
type EvidenceChecklist struct {
	Items              []ChecklistItem // チェック項目
	ConfirmedCount     int             // passed の件数
	TotalCount         int             // 項目総数
	VerifiedPercentage int             // 確認済み割合（0〜100、四捨五入）
}

// DetectedItem は検出パネル表示用の1カテゴリ分のビューです。
// 不在ベースのカテゴリは信頼度が反転されます（未検出0% → 不在確認100%）。
type DetectedItem struct {
	Category            CategoryKey // 対応カテゴリ
	Label               string      // 表示ラベル（不在確認時は「No X」形式）
	Detected            bool        // 表示上の検出（不在確認含む）判定
	Confidence          float64     // 表示用信頼度（反転適用後）
	ObjectiveConfidence float64     // 客観ソースの表示用信頼度（反転適用後）
	SemanticConfidence  float64     // 意味ソースの表示用信頼度（反転適用後）
	Agreement           float64     // ソース間一致度
	Provenance          Provenance  // マージのシナリオラベル
	HallucinationRisk   bool        // リスクフラグ（不在ベースでは常にfalse）
	AbsenceBased        bool        // 不在ベースか
	Reasoning           string      // 表示用の判断理由
	RawMerged           float64     // 反転前のマージ済み信頼度（チェックリスト突合用）
}
