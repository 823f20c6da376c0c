package entity

// AnalysisResult は証拠一式に対するクロスバリデーションの最終成果物です。
// オーケストレーターのジョイン後に純粋な各ステージが生成する不変のスナップショットです。
type AnalysisResult struct {
	Records   map[CategoryKey]MergedRecord // カテゴリごとのマージ済みレコード
	Scores    RollupScores                 // 総合スコア
	Warnings  []string                     // ハルシネーション警告（カテゴリキー順）
	Items     []DetectedItem               // 表示用の検出アイテム一覧
	Checklist *EvidenceChecklist           // 違反種別指定時のみ生成される証拠チェックリスト
	Failures  []AdapterFailure             // 記録されたソース失敗（致命的ではない）
}
