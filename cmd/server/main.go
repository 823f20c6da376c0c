package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"evidence_backend/internal/app/di"
	"evidence_backend/internal/app/router"
	"evidence_backend/internal/feature/crossval/domain/entity"
	crossvalhandler "evidence_backend/internal/feature/crossval/transport/handler"
	"evidence_backend/internal/feature/crossval/usecase"
	platformdb "evidence_backend/internal/platform/db"
	platformredis "evidence_backend/internal/platform/redis"
	"evidence_backend/internal/shared/ratelimiter"
)

func main() {
	ctx := context.Background()

	// db
	db := platformdb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// 検出ソース（初期化に失敗したソースは無効化して続行。残る片側だけで解析は成立する）
	objective, err := di.NewObjectiveDetector(ctx)
	if err != nil {
		log.Println("[WARN] Objective detector unavailable. Running with semantic source only:", err)
		objective = nil
	}
	semantic, err := di.NewSemanticDetector(ctx)
	if err != nil {
		log.Println("[WARN] Semantic detector unavailable. Running with objective source only:", err)
		semantic = nil
	}

	orchestrator := usecase.NewEvidenceOrchestrator(
		objective,
		semantic,
		timeoutFromEnv("OBJECTIVE_TIMEOUT_SECONDS"),
		timeoutFromEnv("SEMANTIC_TIMEOUT_SECONDS"),
	)

	// Repository
	weightRepo := di.NewWeightRepository(rdb, db)

	// Usecase
	crossvalUC, err := usecase.NewCrossvalUsecase(orchestrator, weightRepo, entity.DefaultThresholds())
	if err != nil {
		log.Fatal(err)
	}

	// Handler
	crossvalH := crossvalhandler.NewCrossvalHandler(crossvalUC)

	// 解析エンドポイントのレートリミット（検出器バックエンドが高コストなため）
	limiter := ratelimiter.NewRateLimiter(analyzeRateLimit(), time.Minute)

	// ルータ生成
	r := router.NewRouter(crossvalH, limiter)

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}

// timeoutFromEnv は秒単位の環境変数からタイムアウトを読み取ります。
// 未設定・不正な場合は0を返し、オーケストレーターのデフォルトに委ねます。
func timeoutFromEnv(key string) time.Duration {
	seconds, err := strconv.Atoi(os.Getenv(key))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// analyzeRateLimit は解析エンドポイントの毎分リクエスト上限を返します。
func analyzeRateLimit() int {
	limit, err := strconv.Atoi(os.Getenv("ANALYZE_RATE_LIMIT"))
	if err != nil || limit <= 0 {
		return 30
	}
	return limit
}
