package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"evidence_backend/internal/feature/crossval/domain/entity"
)

// setupTestDB はテスト用のインメモリSQLiteデータベースを準備します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&WeightModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

// TestNewWeightRepository はコンストラクタが正しくインスタンスを生成することを検証します。
func TestNewWeightRepository(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewWeightRepository(db)

	assert.NotNil(t, repo)
	assert.NotNil(t, repo.db)
}

// TestWeightGorm_LoadWeights_EmptyTable は空テーブルでも組み込みデフォルトが返ることを検証します。
func TestWeightGorm_LoadWeights_EmptyTable(t *testing.T) {
	t.Parallel()

	repo := NewWeightRepository(setupTestDB(t))

	weights, err := repo.LoadWeights(context.Background())
	require.NoError(t, err)

	assert.Equal(t, entity.DefaultCategoryWeights(), weights)
}

// TestWeightGorm_LoadWeights_OverlaysRows はDBの行がデフォルトの上に重なることを検証します。
func TestWeightGorm_LoadWeights_OverlaysRows(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewWeightRepository(db)

	require.NoError(t, db.Create(&WeightModel{
		Category:  string(entity.CategoryVehicle),
		Objective: 0.55,
		Semantic:  0.45,
	}).Error)

	weights, err := repo.LoadWeights(context.Background())
	require.NoError(t, err)

	// 上書きされた行
	assert.Equal(t, entity.WeightPair{Objective: 0.55, Semantic: 0.45}, weights.Lookup(entity.CategoryVehicle))
	// 触れていない行はデフォルトのまま
	assert.Equal(t, entity.WeightPair{Objective: 0.75, Semantic: 0.25}, weights.Lookup(entity.CategoryPerson))
	assert.Equal(t, entity.DefaultWeightPair(), weights.Default)
}

// TestWeightGorm_UpsertWeights は挿入と更新の両方が1回のUpsertで成立することを検証します。
func TestWeightGorm_UpsertWeights(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewWeightRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertWeights(ctx, map[entity.CategoryKey]entity.WeightPair{
		entity.CategoryVehicle: {Objective: 0.70, Semantic: 0.30},
	}))

	// 同じカテゴリを更新し、新しいカテゴリを追加
	require.NoError(t, repo.UpsertWeights(ctx, map[entity.CategoryKey]entity.WeightPair{
		entity.CategoryVehicle: {Objective: 0.65, Semantic: 0.35},
		entity.CategoryPerson:  {Objective: 0.80, Semantic: 0.20},
	}))

	weights, err := repo.LoadWeights(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.WeightPair{Objective: 0.65, Semantic: 0.35}, weights.Lookup(entity.CategoryVehicle))
	assert.Equal(t, entity.WeightPair{Objective: 0.80, Semantic: 0.20}, weights.Lookup(entity.CategoryPerson))

	var count int64
	require.NoError(t, db.Model(&WeightModel{}).Count(&count).Error)
	assert.Equal(t, int64(2), count, "upsert must not duplicate rows")
}

// TestWeightGorm_UpsertWeights_Empty は空テーブルのUpsertが何もしないことを検証します。
func TestWeightGorm_UpsertWeights_Empty(t *testing.T) {
	t.Parallel()

	repo := NewWeightRepository(setupTestDB(t))
	assert.NoError(t, repo.UpsertWeights(context.Background(), nil))
}
