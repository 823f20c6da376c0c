package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"evidence_backend/internal/feature/crossval/domain/entity"
	"evidence_backend/internal/feature/crossval/usecase"
)

// weightGorm はWeightRepositoryインターフェースのGORM実装です。
type weightGorm struct {
	db *gorm.DB
}

var _ usecase.WeightRepository = (*weightGorm)(nil)

// NewWeightRepository は指定されたDB接続でweightGormリポジトリの新しいインスタンスを生成します。
func NewWeightRepository(db *gorm.DB) *weightGorm {
	return &weightGorm{db: db}
}

// LoadWeights は組み込みデフォルトの上にDBの行を重ねた重みテーブルを返します。
// テーブルが空でも参照は全域的です（デフォルトがそのまま有効になる）。
func (r *weightGorm) LoadWeights(ctx context.Context) (entity.CategoryWeights, error) {
	var rows []WeightModel
	if err := r.db.WithContext(ctx).
		Order("category ASC").
		Find(&rows).Error; err != nil {
		return entity.CategoryWeights{}, err
	}

	weights := entity.DefaultCategoryWeights()
	for _, row := range rows {
		weights.Table[entity.CategoryKey(row.Category)] = entity.WeightPair{
			Objective: row.Objective,
			Semantic:  row.Semantic,
		}
	}
	return weights, nil
}

// UpsertWeights はカテゴリ重みを一括で挿入または更新します。
// （cmd/seedweightsによる初期投入と運用時の調整に使用）
func (r *weightGorm) UpsertWeights(ctx context.Context, table map[entity.CategoryKey]entity.WeightPair) error {
	if len(table) == 0 {
		return nil
	}
	rows := make([]WeightModel, 0, len(table))
	for category, pair := range table {
		rows = append(rows, WeightModel{
			Category:  string(category),
			Objective: pair.Objective,
			Semantic:  pair.Semantic,
		})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"objective", "semantic"}),
		}).
		Create(&rows).Error
}
