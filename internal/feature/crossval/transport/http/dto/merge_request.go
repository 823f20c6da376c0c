package dto

// MergeRequest は外部で生成済みの2つの信頼度マップのマージを依頼するリクエストDTOです。
// どちらのマップも省略可能で、省略されたソースは空（証拠の不在）として扱われます。
type MergeRequest struct {
	Objective     map[string]float64 `json:"objective"`      // 客観ソースのカテゴリ別信頼度
	Semantic      map[string]float64 `json:"semantic"`       // 意味ソースのカテゴリ別信頼度
	ViolationType string             `json:"violation_type"` // 指定時はチェックリストも生成
	Lang          string             `json:"lang"`           // チェックリストの言語（"en" / "nl"）
}
