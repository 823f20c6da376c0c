// Package entity はcrossvalフィーチャーのドメインモデルを定義します。
package entity

// CategoryKey は2つの検出ソース間で共有される検出カテゴリの識別子です。
// 未知のキーもマージ対象となり、その場合はデフォルトの重みが適用されます。
type CategoryKey string

// 検出カテゴリの定義。駐車違反の証拠写真で検出対象となる物体を表します。
const (
	CategoryVehicle           CategoryKey = "vehicle"
	CategoryVan               CategoryKey = "van"
	CategoryTruck             CategoryKey = "truck"
	CategoryMotorcycle        CategoryKey = "motorcycle"
	CategoryLicensePlate      CategoryKey = "license_plate"
	CategoryTrafficSign       CategoryKey = "traffic_sign"
	CategorySignE1            CategoryKey = "traffic_sign_e1"
	CategorySignE2            CategoryKey = "traffic_sign_e2"
	CategorySignE4            CategoryKey = "traffic_sign_e4"
	CategorySignE4Electric    CategoryKey = "traffic_sign_e4_electric"
	CategorySignE5            CategoryKey = "traffic_sign_e5"
	CategorySignE6            CategoryKey = "traffic_sign_e6"
	CategorySignE7            CategoryKey = "traffic_sign_e7"
	CategorySignE8            CategoryKey = "traffic_sign_e8"
	CategorySignE9            CategoryKey = "traffic_sign_e9"
	CategorySignG7            CategoryKey = "traffic_sign_g7"
	CategoryYellowLine        CategoryKey = "yellow_line"
	CategoryWindshield        CategoryKey = "windshield"
	CategoryChargingCable     CategoryKey = "charging_cable"
	CategoryChargingStation   CategoryKey = "charging_station"
	CategoryChargingConnected CategoryKey = "charging_connected"
	CategoryParkingDisc       CategoryKey = "parking_disc"
	CategoryPerson            CategoryKey = "person"
	CategoryDriver            CategoryKey = "driver"
	CategoryDriverPresent     CategoryKey = "driver_present"
	CategoryDriverInVehicle   CategoryKey = "driver_in_vehicle"
	CategoryParkingPermit     CategoryKey = "parking_permit"
	CategoryPermit            CategoryKey = "permit"
	CategoryDisabilityCard    CategoryKey = "disability_card"
	CategoryLoadingActivity   CategoryKey = "loading_activity"
)

// ConfidenceMap はカテゴリごとの信頼度（0.0〜1.0）のマップです。
// キーが存在しないことは「未評価」を意味し、0.0（評価済み・未検出）とは区別されます。
// 各アダプターの画像ごとの集約後に生成され、以降は変更されません。
type ConfidenceMap map[CategoryKey]float64

// SourceKind は信頼度の生成元となる検出ソースの種別です。
type SourceKind string

const (
	// SourceObjective はセグメンテーションに基づく客観的検出ソースです。
	SourceObjective SourceKind = "objective"
	// SourceSemantic はシーン全体の解釈に基づく意味的検出ソースです。
	SourceSemantic SourceKind = "semantic"
)
