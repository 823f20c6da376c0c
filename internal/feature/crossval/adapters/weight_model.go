// Package adapters はcrossvalフィーチャーのリポジトリ実装を提供します。
package adapters

// WeightModel はカテゴリ重みテーブルのGORMモデルです。
type WeightModel struct {
	ID        uint    `gorm:"primaryKey"`
	Category  string  `gorm:"size:64;uniqueIndex;not null"` // カテゴリキー
	Objective float64 `gorm:"not null"`                     // 客観ソースの重み
	Semantic  float64 `gorm:"not null"`                     // 意味ソースの重み
}

// TableName はGORMが使用するテーブル名を指定します。
func (WeightModel) TableName() string {
	return "category_weights"
}
