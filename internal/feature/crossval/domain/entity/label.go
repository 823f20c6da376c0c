package entity

import "strings"

// absenceBasedCategories は「検出されないこと」が違反立証を支持するカテゴリの集合です。
// (運転者・許可証・障がい者カードなどは、見つからないことが望ましい)
var absenceBasedCategories = map[CategoryKey]struct{}{
	CategoryPerson:          {},
	CategoryDriver:          {},
	CategoryDriverPresent:   {},
	CategoryDriverInVehicle: {},
	CategoryParkingPermit:   {},
	CategoryPermit:          {},
	CategoryDisabilityCard:  {},
	CategoryLoadingActivity: {},
}

// displayLabels はカテゴリの表示用ラベルです。
var displayLabels = map[CategoryKey]string{
	CategoryVehicle:           "Vehicle",
	CategoryVan:               "Van",
	CategoryTruck:             "Truck",
	CategoryMotorcycle:        "Motorcycle",
	CategoryLicensePlate:      "License Plate",
	CategoryTrafficSign:       "Traffic Sign",
	CategorySignE1:            "Sign E1 (No Parking)",
	CategorySignE2:            "Sign E2 (No Stopping)",
	CategorySignE4:            "Sign E4 (Parking)",
	CategorySignE4Electric:    "Sign E4 (Electric)",
	CategorySignE5:            "Sign E5 (Taxi)",
	CategorySignE6:            "Sign E6 (Disabled)",
	CategorySignE7:            "Sign E7 (Loading)",
	CategorySignE8:            "Sign E8 (Carpool)",
	CategorySignE9:            "Sign E9 (Permit)",
	CategorySignG7:            "Sign G7 (Pedestrian)",
	CategoryYellowLine:        "Yellow Line Marking",
	CategoryWindshield:        "Windshield",
	CategoryChargingCable:     "Charging Cable",
	CategoryChargingStation:   "Charging Station",
	CategoryChargingConnected: "Charging Connected",
	CategoryParkingDisc:       "Parking Disc",
	CategoryPerson:            "Driver/Person",
	CategoryDriver:            "Driver",
	CategoryDriverPresent:     "Driver Present",
	CategoryDriverInVehicle:   "Driver in Vehicle",
	CategoryParkingPermit:     "Parking Permit",
	CategoryPermit:            "Permit",
	CategoryDisabilityCard:    "Disability Card",
	CategoryLoadingActivity:   "Loading Activity",
}

// absenceLabels は不在が確認されたカテゴリの表示用ラベルです。
var absenceLabels = map[CategoryKey]string{
	CategoryPerson:          "No Driver Present",
	CategoryDriver:          "No Driver",
	CategoryDriverPresent:   "No Driver Present",
	CategoryDriverInVehicle: "No Driver in Vehicle",
	CategoryParkingPermit:   "No Valid Permit",
	CategoryPermit:          "No Valid Permit",
	CategoryDisabilityCard:  "No Disability Card",
	CategoryLoadingActivity: "No Loading Activity",
}

// IsAbsenceBased はカテゴリが不在ベース（見つからない=違反立証に有利）かを返します。
func (c CategoryKey) IsAbsenceBased() bool {
	_, ok := absenceBasedCategories[CategoryKey(strings.ToLower(string(c)))]
	return ok
}

// DisplayLabel はカテゴリの表示用ラベルを返します。
// showAbsence がtrueで不在ベースのカテゴリなら「No X」形式を返します。
// 未知のカテゴリはキーをタイトルケース化して返します。
func (c CategoryKey) DisplayLabel(showAbsence bool) string {
	key := CategoryKey(strings.ToLower(string(c)))
	if showAbsence {
		if label, ok := absenceLabels[key]; ok {
			return label
		}
	}
	if label, ok := displayLabels[key]; ok {
		return label
	}
	words := strings.Split(strings.ReplaceAll(string(c), "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
