package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	crossvalhandler "evidence_backend/internal/feature/crossval/transport/handler"
	"evidence_backend/internal/feature/crossval/transport/http/dto"
	platformhandler "evidence_backend/internal/platform/http/handler"
	"evidence_backend/internal/shared/ratelimiter"
)

// NewRouter はHTTPルーターを構築します。
// 解析エンドポイントは検出器バックエンドが高コストなためレートリミットを適用します。
func NewRouter(crossval *crossvalhandler.CrossvalHandler, limiter ratelimiter.RateLimiterInterface) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", platformhandler.Health)

	v1 := r.Group("/v1/evidence")
	{
		// 証拠画像一式のクロスバリデーション（検出器バックエンドを呼ぶため制限付き）
		v1.POST("/analyze", rateLimited(limiter), crossval.Analyze)
		// 生成済み信頼度マップのマージ（純粋計算のみ）
		v1.POST("/merge", crossval.Merge)
		// 現在有効な重みテーブルの参照
		v1.GET("/weights", crossval.Weights)
	}

	return r
}

// rateLimited はリミットに達している間429を返すミドルウェアです。
func rateLimited(limiter ratelimiter.RateLimiterInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.ErrorResponse{Error: "リクエストが多すぎます。しばらくしてから再試行してください"})
			return
		}
		c.Next()
	}
}
