package usecase

import (
	"fmt"
	"sort"

	"evidence_backend/internal/feature/crossval/domain/entity"
)

// HallucinationWarnings はリスクフラグ付きレコードごとに1行の警告文を返します。
// 人間向けの安定した並びにするため、カテゴリキーの辞書順でソートします。
func HallucinationWarnings(records map[entity.CategoryKey]entity.MergedRecord) []string {
	categories := make([]entity.CategoryKey, 0, len(records))
	for category, record := range records {
		if record.HallucinationRisk {
			categories = append(categories, category)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	warnings := make([]string, 0, len(categories))
	for _, category := range categories {
		warnings = append(warnings, fmt.Sprintf("%s: %s", category.DisplayLabel(false), records[category].Reasoning))
	}
	return warnings
}
