// Package usecase はcrossvalフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"evidence_backend/internal/feature/crossval/domain/entity"
)

// AggregateMax は画像ごとの信頼度マップを証拠一式単位の1つのマップに縮約します。
// 各カテゴリの値は全画像にわたる最大値です（違反に関係する物体は1枚にでも
// 写っていれば存在するとみなし、他の画像での見逃しが検出を打ち消さないようにします）。
// maxは可換なので入力画像の順序は結果に影響しません。
func AggregateMax(perImage []entity.ConfidenceMap) entity.ConfidenceMap {
	out := entity.ConfidenceMap{}
	for _, m := range perImage {
		for category, confidence := range m {
			if current, ok := out[category]; !ok || confidence > current {
				out[category] = confidence
			}
		}
	}
	return out
}
