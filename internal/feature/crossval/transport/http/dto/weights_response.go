package dto

import (
	"sort"

	"evidence_backend/internal/feature/crossval/domain/entity"
)

// WeightPairResponse は1カテゴリ分のソース別重みのレスポンスDTOです。
type WeightPairResponse struct {
	Category  string  `json:"category"`
	Objective float64 `json:"objective"`
	Semantic  float64 `json:"semantic"`
}

// WeightsResponse は現在有効な重みテーブル全体のレスポンスDTOです。
type WeightsResponse struct {
	Default WeightPairResponse   `json:"default"` // テーブル未登録カテゴリに適用される重み
	Table   []WeightPairResponse `json:"table"`   // カテゴリキー順
}

// NewWeightsResponse はドメインの重みテーブルをレスポンスDTOに変換します。
func NewWeightsResponse(weights entity.CategoryWeights) WeightsResponse {
	table := make([]WeightPairResponse, 0, len(weights.Table))
	for category, pair := range weights.Table {
		table = append(table, WeightPairResponse{
			Category:  string(category),
			Objective: pair.Objective,
			Semantic:  pair.Semantic,
		})
	}
	sort.Slice(table, func(i, j int) bool { return table[i].Category < table[j].Category })

	return WeightsResponse{
		Default: WeightPairResponse{
			Objective: weights.Default.Objective,
			Semantic:  weights.Default.Semantic,
		},
		Table: table,
	}
}
