package main

import (
	"context"
	"log"
	"time"

	"evidence_backend/internal/feature/crossval/adapters"
	"evidence_backend/internal/feature/crossval/domain/entity"
	platformdb "evidence_backend/internal/platform/db"
)

// 組み込みデフォルトのカテゴリ重みをDBに投入します。
// 投入後は運用側でテーブルの行を調整でき、次回のキャッシュ期限切れ以降の解析に反映されます。
func main() {
	db := platformdb.OpenDB()
	repo := adapters.NewWeightRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	weights := entity.DefaultCategoryWeights()
	if err := repo.UpsertWeights(ctx, weights.Table); err != nil {
		log.Fatal("failed to seed category weights:", err)
	}
	log.Printf("seeded %d category weights", len(weights.Table))
}
