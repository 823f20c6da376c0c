package entity

import "math"

// weightSumTolerance は重みの合計判定に用いる浮動小数点許容誤差です。
// (0.7 + 0.3 のような組でも二進浮動小数点では厳密に 1.0 にならないため)
const weightSumTolerance = 1e-9

// WeightPair は1カテゴリに対する両ソースの信頼配分です。
// 各重みは非負で、合計は1.0でなければなりません。
type WeightPair struct {
	Objective float64 // 客観ソースの重み
	Semantic  float64 // 意味ソースの重み
}

// Valid は重みが非負かつ合計1.0であるかを返します。
func (w WeightPair) Valid() bool {
	if w.Objective < 0 || w.Semantic < 0 {
		return false
	}
	return math.Abs(w.Objective+w.Semantic-1.0) <= weightSumTolerance
}

// CategoryWeights はカテゴリごとの重みテーブルです。
// 未登録カテゴリには必ずDefaultが適用されるため、参照は全域的（部分的でない）です。
type CategoryWeights struct {
	Default WeightPair                 // 未登録カテゴリ用のデフォルト重み
	Table   map[CategoryKey]WeightPair // カテゴリ固有の重み
}

// Lookup は指定カテゴリの重みを返します。未登録ならDefaultを返します。
func (cw CategoryWeights) Lookup(category CategoryKey) WeightPair {
	if w, ok := cw.Table[category]; ok {
		return w
	}
	return cw.Default
}

// ThresholdConfig はシナリオ選択を支配する3つのしきい値です。
// 不変条件: 0 <= Low < High <= 1。
type ThresholdConfig struct {
	High             float64 // これ以上は「確信を持って検出」
	Low              float64 // これ未満は「確信を持って不在」
	HallucinationGap float64 // 中間帯で意味-客観の差がこれを超えるとリスク扱い
}

// Valid はしきい値が不変条件を満たすかを返します。
func (t ThresholdConfig) Valid() bool {
	return 0 <= t.Low && t.Low < t.High && t.High <= 1 && t.HallucinationGap >= 0
}

// DefaultThresholds は元の検証運用から採られた既定のしきい値を返します。
func DefaultThresholds() ThresholdConfig {
	return ThresholdConfig{High: 0.70, Low: 0.35, HallucinationGap: 0.40}
}

// DefaultWeightPair は未登録カテゴリ用の既定の重みを返します。
// 客観ソースをやや優先します（ハルシネーションしにくい証拠であるため）。
func DefaultWeightPair() WeightPair {
	return WeightPair{Objective: 0.60, Semantic: 0.40}
}

// DefaultCategoryWeights はカテゴリ固有の既定重みテーブルを返します。
func DefaultCategoryWeights() CategoryWeights {
	return CategoryWeights{
		Default: DefaultWeightPair(),
		Table: map[CategoryKey]WeightPair{
			CategoryVehicle:           {Objective: 0.70, Semantic: 0.30},
			CategoryVan:               {Objective: 0.70, Semantic: 0.30},
			CategoryTruck:             {Objective: 0.70, Semantic: 0.30},
			CategoryMotorcycle:        {Objective: 0.70, Semantic: 0.30},
			CategoryLicensePlate:      {Objective: 0.60, Semantic: 0.40},
			CategoryTrafficSign:       {Objective: 0.65, Semantic: 0.35},
			CategorySignE1:            {Objective: 0.65, Semantic: 0.35},
			CategorySignE2:            {Objective: 0.65, Semantic: 0.35},
			CategorySignE4:            {Objective: 0.65, Semantic: 0.35},
			CategorySignE4Electric:    {Objective: 0.65, Semantic: 0.35},
			CategorySignE5:            {Objective: 0.65, Semantic: 0.35},
			CategorySignE6:            {Objective: 0.65, Semantic: 0.35},
			CategorySignE7:            {Objective: 0.65, Semantic: 0.35},
			CategorySignE8:            {Objective: 0.65, Semantic: 0.35},
			CategorySignE9:            {Objective: 0.65, Semantic: 0.35},
			CategorySignG7:            {Objective: 0.65, Semantic: 0.35},
			CategoryYellowLine:        {Objective: 0.70, Semantic: 0.30},
			CategoryParkingPermit:     {Objective: 0.50, Semantic: 0.50},
			CategoryDisabilityCard:    {Objective: 0.55, Semantic: 0.45},
			CategoryParkingDisc:       {Objective: 0.55, Semantic: 0.45},
			CategoryChargingCable:     {Objective: 0.70, Semantic: 0.30},
			CategoryChargingStation:   {Objective: 0.70, Semantic: 0.30},
			CategoryChargingConnected: {Objective: 0.60, Semantic: 0.40},
			CategoryPerson:            {Objective: 0.75, Semantic: 0.25},
			CategoryDriverInVehicle:   {Objective: 0.60, Semantic: 0.40},
			CategoryDriverPresent:     {Objective: 0.75, Semantic: 0.25},
			CategoryLoadingActivity:   {Objective: 0.50, Semantic: 0.50},
			CategoryWindshield:        {Objective: 0.80, Semantic: 0.20},
		},
	}
}
