// Package db はGORMによるデータベース接続の初期化を提供します。
package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gpostgres "gorm.io/driver/postgres"
	gsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"evidence_backend/internal/feature/crossval/adapters"
)

// DefaultSQLitePath はSQLiteデータベースファイルのデフォルトパスです。
const DefaultSQLitePath = "./data/evidence.db"

// retryInterval は接続リトライの間隔です。
const retryInterval = 3 * time.Second

// Config はデータベース接続の設定です。
type Config struct {
	PostgresURL string // PostgreSQL接続URL（設定時はPostgreSQLを使用）
	SQLitePath  string // SQLiteファイルパス（PostgresURL未設定時に使用）
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	path := os.Getenv("SQLITE_PATH")
	if path == "" {
		path = DefaultSQLitePath
	}
	return Config{
		PostgresURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  path,
	}
}

// Opener はDSNからGORM接続を開く関数です（テストで差し替え可能）。
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry は指定されたタイムアウトまで接続をリトライします。
// （コンテナ起動直後はDBがまだ受け付けていないことがあるため）
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %v: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(retryInterval)
	}
}

// OpenDB は設定に応じてデータベース接続を開きます。
// PostgresURLがあればPostgreSQL（リトライ付き）、なければSQLiteファイルを使用します。
// 接続できない場合は起動を中断します。
func OpenDB() *gorm.DB {
	cfg := LoadConfigFromEnv()

	var (
		db  *gorm.DB
		err error
	)
	if cfg.PostgresURL != "" {
		db, err = ConnectWithRetry(cfg.PostgresURL, 60*time.Second, func(dsn string) (*gorm.DB, error) {
			return gorm.Open(gpostgres.Open(dsn), &gorm.Config{})
		})
		if err != nil {
			log.Fatalf("%v", err)
		}
	} else {
		db, err = gorm.Open(gsqlite.Open(cfg.SQLitePath), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open sqlite database: %v", err)
		}
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		// マイグレーション（カテゴリ重みテーブル）
		if err := db.AutoMigrate(&adapters.WeightModel{}); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
