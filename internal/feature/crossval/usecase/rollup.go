package usecase

import (
	"math"

	"evidence_backend/internal/feature/crossval/domain/entity"
)

// 法的十分性スコアの固定重み。
const (
	legalVehicleWeight  = 0.35 // 車両の特定
	legalSignWeight     = 0.35 // 標識コードの確認
	legalNoPermitWeight = 0.20 // 許可証の不在（不在が立証を支持）
	legalBaseTerm       = 0.10 // 固定の基礎項
)

// objectCategories は物体検出スコアの平均対象となる固定カテゴリ一覧です。
var objectCategories = []entity.CategoryKey{
	entity.CategoryVehicle,
	entity.CategoryVan,
	entity.CategoryTruck,
	entity.CategoryMotorcycle,
	entity.CategoryTrafficSign,
	entity.CategorySignE1,
	entity.CategorySignE2,
	entity.CategorySignE4,
	entity.CategorySignE4Electric,
	entity.CategorySignE5,
	entity.CategorySignE6,
	entity.CategorySignE7,
	entity.CategorySignE8,
	entity.CategorySignE9,
	entity.CategorySignG7,
	entity.CategoryYellowLine,
	entity.CategoryParkingPermit,
	entity.CategoryDisabilityCard,
	entity.CategoryParkingDisc,
	entity.CategoryChargingCable,
	entity.CategoryChargingStation,
	entity.CategoryPerson,
	entity.CategoryWindshield,
}

// vehicleCategories は「車両」として扱う車種カテゴリです。
var vehicleCategories = []entity.CategoryKey{
	entity.CategoryVehicle,
	entity.CategoryVan,
	entity.CategoryTruck,
	entity.CategoryMotorcycle,
}

// signCategories は標識スコアの最大値を取る対象カテゴリです。
// （Eコード各種・G7・汎用標識・黄色実線）
var signCategories = []entity.CategoryKey{
	entity.CategorySignE1,
	entity.CategorySignE2,
	entity.CategorySignE4,
	entity.CategorySignE4Electric,
	entity.CategorySignE5,
	entity.CategorySignE6,
	entity.CategorySignE7,
	entity.CategorySignE8,
	entity.CategorySignE9,
	entity.CategorySignG7,
	entity.CategoryTrafficSign,
	entity.CategoryYellowLine,
}

// Rollup はマージ済みレコードのスナップショットから3つの総合スコアを導出します。
// 3つの縮約はいずれも純粋で、同じスナップショットからの再計算は冪等です。
func Rollup(records map[entity.CategoryKey]entity.MergedRecord) entity.RollupScores {
	return entity.RollupScores{
		ObjectDetection:  objectDetectionScore(records),
		TextRecognition:  textRecognitionScore(records),
		LegalSufficiency: legalSufficiencyScore(records),
	}
}

// objectDetectionScore は固定の物体カテゴリ一覧に対するマージ済み信頼度の平均です。
// 信頼度がちょうど0のレコードは「未評価」とみなし、0のデータ点としてではなく
// 平均の分母から除外します。
func objectDetectionScore(records map[entity.CategoryKey]entity.MergedRecord) float64 {
	var sum float64
	var n int
	for _, category := range objectCategories {
		record, ok := records[category]
		if !ok || record.MergedConfidence == 0 {
			continue
		}
		sum += record.MergedConfidence
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// textRecognitionScore はlicense_plateカテゴリ単独のマージ済み信頼度です。
func textRecognitionScore(records map[entity.CategoryKey]entity.MergedRecord) float64 {
	return records[entity.CategoryLicensePlate].MergedConfidence
}

// legalSufficiencyScore は固定重みの線形結合です。
// 0.35×車両 + 0.35×標識最大値 + 0.20×(1−許可証) + 基礎項0.10、上限1.0。
// 許可証の項は反転します（許可証の不在が違反立証を支持するため）。
func legalSufficiencyScore(records map[entity.CategoryKey]entity.MergedRecord) float64 {
	vehicle := maxConfidence(records, vehicleCategories)
	sign := maxConfidence(records, signCategories)
	noPermit := 1.0 - records[entity.CategoryParkingPermit].MergedConfidence

	score := vehicle*legalVehicleWeight +
		sign*legalSignWeight +
		noPermit*legalNoPermitWeight +
		legalBaseTerm

	return math.Min(score, 1.0)
}

// maxConfidence は指定カテゴリ群のマージ済み信頼度の最大値を返します。
func maxConfidence(records map[entity.CategoryKey]entity.MergedRecord, categories []entity.CategoryKey) float64 {
	var best float64
	for _, category := range categories {
		if c := records[category].MergedConfidence; c > best {
			best = c
		}
	}
	return best
}
