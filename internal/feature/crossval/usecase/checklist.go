package usecase

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"evidence_backend/internal/feature/crossval/domain/entity"
)

// 表示・チェックリスト判定用のしきい値。
// マージ方針のしきい値とは独立した表示ポリシーです（不在ベースは反転後の値に作用する）。
const (
	displayDetectedThreshold = 0.50 // 存在ベース: これ以上で「検出」表示
	displayAbsenceThreshold  = 0.70 // 不在ベース: 反転後これ以上で「不在確認」表示
	checklistPassThreshold   = 0.70 // チェック項目をpassedにする下限
	checklistReviewThreshold = 0.40 // これ以上（またはリスク有り）はunverifiable
)

// duplicateConcepts は同一概念を指す重複カテゴリの正規化表です。
// （personとdriver_presentはいずれも「運転者」を意味する）
var duplicateConcepts = map[entity.CategoryKey]string{
	entity.CategoryPerson:          "driver",
	entity.CategoryDriver:          "driver",
	entity.CategoryDriverPresent:   "driver",
	entity.CategoryDriverInVehicle: "driver",
	entity.CategoryParkingPermit:   "permit",
	entity.CategoryPermit:          "permit",
}

// alternativeCategories はチェックリスト突合時に許容される別名カテゴリです。
var alternativeCategories = map[entity.CategoryKey][]entity.CategoryKey{
	entity.CategoryPerson:        {entity.CategoryDriverPresent, entity.CategoryDriverInVehicle, entity.CategoryDriver},
	entity.CategoryDriverPresent: {entity.CategoryPerson, entity.CategoryDriverInVehicle, entity.CategoryDriver},
	entity.CategoryParkingPermit: {entity.CategoryPermit},
}

// violationChecks は違反種別ごとの証拠確認項目の固定テーブルです。
// 法的根拠はオランダ道路交通規則（RVV 1990）および交通法規行政執行法（Wahv）の条文です。
var violationChecks = map[entity.ViolationType][]entity.EvidenceCheck{
	entity.ViolationE1: {
		{Label: "Sign E1 visible", LabelNL: "Bord E1 zichtbaar", Category: entity.CategorySignE1, LegalReference: "RVV 1990 Bijlage 1, Bord E1"},
		{Label: "Vehicle identified", LabelNL: "Voertuig geïdentificeerd", Category: entity.CategoryVehicle, LegalReference: "Art. 5 Wahv"},
		{Label: "License plate visible", LabelNL: "Kenteken zichtbaar", Category: entity.CategoryLicensePlate, LegalReference: "Art. 5 Wahv"},
		{Label: "No valid exemption visible", LabelNL: "Geen geldige ontheffing zichtbaar", Category: entity.CategoryParkingPermit, Absence: true, LegalReference: "RVV 1990 Art. 87"},
		{Label: "No driver present", LabelNL: "Geen bestuurder aanwezig", Category: entity.CategoryPerson, Absence: true, LegalReference: "RVV 1990 Art. 1 (definitie parkeren)"},
	},
	entity.ViolationE2: {
		{Label: "Sign E2 visible", LabelNL: "Bord E2 zichtbaar", Category: entity.CategorySignE2, LegalReference: "RVV 1990 Bijlage 1, Bord E2"},
		{Label: "Vehicle identified", LabelNL: "Voertuig geïdentificeerd", Category: entity.CategoryVehicle, LegalReference: "Art. 5 Wahv"},
		{Label: "License plate visible", LabelNL: "Kenteken zichtbaar", Category: entity.CategoryLicensePlate, LegalReference: "Art. 5 Wahv"},
		{Label: "No valid exemption visible", LabelNL: "Geen geldige ontheffing zichtbaar", Category: entity.CategoryParkingPermit, Absence: true, LegalReference: "RVV 1990 Art. 87"},
	},
	entity.ViolationE4: {
		{Label: "Sign E4 visible", LabelNL: "Bord E4 zichtbaar", Category: entity.CategorySignE4, LegalReference: "RVV 1990 Bijlage 1, Bord E4"},
		{Label: "Vehicle identified", LabelNL: "Voertuig geïdentificeerd", Category: entity.CategoryVehicle, LegalReference: "Art. 5 Wahv"},
		{Label: "License plate visible", LabelNL: "Kenteken zichtbaar", Category: entity.CategoryLicensePlate, LegalReference: "Art. 5 Wahv"},
		{Label: "No driver present", LabelNL: "Geen bestuurder aanwezig", Category: entity.CategoryPerson, Absence: true, LegalReference: "RVV 1990 Art. 1 (definitie parkeren)"},
	},
	entity.ViolationE5: {
		{Label: "Sign E5 visible", LabelNL: "Bord E5 zichtbaar", Category: entity.CategorySignE5, LegalReference: "RVV 1990 Bijlage 1, Bord E5"},
		{Label: "Vehicle identified", LabelNL: "Voertuig geïdentificeerd", Category: entity.CategoryVehicle, LegalReference: "Art. 5 Wahv"},
		{Label: "License plate visible", LabelNL: "Kenteken zichtbaar", Category: entity.CategoryLicensePlate, LegalReference: "Art. 5 Wahv"},
		{Label: "No driver present", LabelNL: "Geen bestuurder aanwezig", Category: entity.CategoryPerson, Absence: true, LegalReference: "RVV 1990 Art. 1 (definitie parkeren)"},
	},
	entity.ViolationE6: {
		{Label: "Sign E6 visible", LabelNL: "Bord E6 zichtbaar", Category: entity.CategorySignE6, LegalReference: "RVV 1990 Bijlage 1, Bord E6"},
		{Label: "Vehicle identified", LabelNL: "Voertuig geïdentificeerd", Category: entity.CategoryVehicle, LegalReference: "Art. 5 Wahv"},
		{Label: "License plate visible", LabelNL: "Kenteken zichtbaar", Category: entity.CategoryLicensePlate, LegalReference: "Art. 5 Wahv"},
		{Label: "No disability card visible", LabelNL: "Geen gehandicaptenkaart zichtbaar", Category: entity.CategoryDisabilityCard, Absence: true, LegalReference: "RVV 1990 Art. 26"},
		{Label: "No driver present", LabelNL: "Geen bestuurder aanwezig", Category: entity.CategoryPerson, Absence: true, LegalReference: "RVV 1990 Art. 1 (definitie parkeren)"},
	},
	entity.ViolationE7: {
		{Label: "Sign E7 visible", LabelNL: "Bord E7 zichtbaar", Category: entity.CategorySignE7, LegalReference: "RVV 1990 Bijlage 1, Bord E7"},
		{Label: "Vehicle identified", LabelNL: "Voertuig geïdentificeerd", Category: entity.CategoryVehicle, LegalReference: "Art. 5 Wahv"},
		{Label: "License plate visible", LabelNL: "Kenteken zichtbaar", Category: entity.CategoryLicensePlate, LegalReference: "Art. 5 Wahv"},
		{Label: "No loading/unloading activity", LabelNL: "Geen laad/los activiteit", Category: entity.CategoryLoadingActivity, Absence: true, LegalReference: "RVV 1990 Art. 24"},
		{Label: "No valid exemption visible", LabelNL: "Geen geldige ontheffing zichtbaar", Category: entity.CategoryParkingPermit, Absence: true, LegalReference: "RVV 1990 Art. 24 lid 1c"},
		{Label: "No driver present", LabelNL: "Geen bestuurder aanwezig", Category: entity.CategoryPerson, Absence: true, LegalReference: "RVV 1990 Art. 1"},
	},
	entity.ViolationE8: {
		{Label: "Sign E8 visible", LabelNL: "Bord E8 zichtbaar", Category: entity.CategorySignE8, LegalReference: "RVV 1990 Bijlage 1, Bord E8"},
		{Label: "Vehicle identified", LabelNL: "Voertuig geïdentificeerd", Category: entity.CategoryVehicle, LegalReference: "Art. 5 Wahv"},
		{Label: "License plate visible", LabelNL: "Kenteken zichtbaar", Category: entity.CategoryLicensePlate, LegalReference: "Art. 5 Wahv"},
		{Label: "No driver present", LabelNL: "Geen bestuurder aanwezig", Category: entity.CategoryPerson, Absence: true, LegalReference: "RVV 1990 Art. 1 (definitie parkeren)"},
	},
	entity.ViolationE9: {
		{Label: "Sign E9 visible", LabelNL: "Bord E9 zichtbaar", Category: entity.CategorySignE9, LegalReference: "RVV 1990 Bijlage 1, Bord E9"},
		{Label: "Vehicle identified", LabelNL: "Voertuig geïdentificeerd", Category: entity.CategoryVehicle, LegalReference: "Art. 5 Wahv"},
		{Label: "License plate visible", LabelNL: "Kenteken zichtbaar", Category: entity.CategoryLicensePlate, LegalReference: "Art. 5 Wahv"},
		{Label: "No valid permit visible", LabelNL: "Geen geldige vergunning zichtbaar", Category: entity.CategoryParkingPermit, Absence: true, LegalReference: "RVV 1990 Art. 24 lid 1g"},
		{Label: "No driver present", LabelNL: "Geen bestuurder aanwezig", Category: entity.CategoryPerson, Absence: true, LegalReference: "RVV 1990 Art. 1 (definitie parkeren)"},
	},
	entity.ViolationG7: {
		{Label: "Sign G7 visible", LabelNL: "Bord G7 zichtbaar", Category: entity.CategorySignG7, LegalReference: "RVV 1990 Bijlage 1, Bord G7"},
		{Label: "Vehicle identified", LabelNL: "Voertuig geïdentificeerd", Category: entity.CategoryVehicle, LegalReference: "Art. 5 Wahv"},
		{Label: "License plate visible", LabelNL: "Kenteken zichtbaar", Category: entity.CategoryLicensePlate, LegalReference: "Art. 5 Wahv"},
		{Label: "No valid exemption visible", LabelNL: "Geen geldige ontheffing zichtbaar", Category: entity.CategoryParkingPermit, Absence: true, LegalReference: "RVV 1990 Art. 24"},
	},
	entity.ViolationYellowLine: {
		{Label: "Yellow line visible", LabelNL: "Gele streep zichtbaar", Category: entity.CategoryYellowLine, LegalReference: "RVV 1990 Art. 24 lid 1 sub e"},
		{Label: "Vehicle identified", LabelNL: "Voertuig geïdentificeerd", Category: entity.CategoryVehicle, LegalReference: "Art. 5 Wahv"},
		{Label: "License plate visible", LabelNL: "Kenteken zichtbaar", Category: entity.CategoryLicensePlate, LegalReference: "Art. 5 Wahv"},
		{Label: "No driver present", LabelNL: "Geen bestuurder aanwezig", Category: entity.CategoryPerson, Absence: true, LegalReference: "RVV 1990 Art. 1 (definitie parkeren)"},
	},
}

func init() {
	// R396iコードは黄色実線の別名
	violationChecks[entity.ViolationR396I] = violationChecks[entity.ViolationYellowLine]
}

// DetectedItems はマージ済みレコードを表示用アイテムに変換します。
// 不在ベースのカテゴリは信頼度を反転し（未検出0% → 不在確認100%）、
// 同一概念の重複カテゴリ（person/driver_present等）は1件に正規化します。
// 並びは検出済みが先、信頼度降順、同値はカテゴリキー順で決定的です。
func DetectedItems(records map[entity.CategoryKey]entity.MergedRecord) []entity.DetectedItem {
	categories := make([]entity.CategoryKey, 0, len(records))
	for category := range records {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	seenConcepts := map[string]struct{}{}
	items := make([]entity.DetectedItem, 0, len(records))
	for _, category := range categories {
		if concept, ok := duplicateConcepts[category]; ok {
			if _, dup := seenConcepts[concept]; dup {
				continue
			}
			seenConcepts[concept] = struct{}{}
		}
		items = append(items, buildItem(records[category]))
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Detected != items[j].Detected {
			return items[i].Detected
		}
		if items[i].Confidence != items[j].Confidence {
			return items[i].Confidence > items[j].Confidence
		}
		return items[i].Category < items[j].Category
	})
	return items
}

// buildItem は1レコード分の表示用アイテムを構築します。
func buildItem(record entity.MergedRecord) entity.DetectedItem {
	category := record.Category
	if !category.IsAbsenceBased() {
		// 存在ベース: 素の信頼度をそのまま表示
		return entity.DetectedItem{
			Category:            category,
			Label:               category.DisplayLabel(false),
			Detected:            record.MergedConfidence >= displayDetectedThreshold,
			Confidence:          record.MergedConfidence,
			ObjectiveConfidence: record.ObjectiveConfidence,
			SemanticConfidence:  record.SemanticConfidence,
			Agreement:           record.AgreementScore,
			Provenance:          record.Provenance,
			HallucinationRisk:   record.HallucinationRisk,
			Reasoning:           record.Reasoning,
			RawMerged:           record.MergedConfidence,
		}
	}

	// 不在ベース: すべての信頼度を反転して表示
	inverted := 1.0 - record.MergedConfidence
	confirmed := inverted >= displayAbsenceThreshold
	var reasoning string
	if confirmed {
		reasoning = fmt.Sprintf("No %s detected - supports violation case", category.DisplayLabel(false))
	} else {
		reasoning = fmt.Sprintf("Possible %s present - manual verification needed", category.DisplayLabel(false))
	}
	return entity.DetectedItem{
		Category:            category,
		Label:               category.DisplayLabel(confirmed),
		Detected:            confirmed,
		Confidence:          inverted,
		ObjectiveConfidence: 1.0 - record.ObjectiveConfidence,
		SemanticConfidence:  1.0 - record.SemanticConfidence,
		Agreement:           record.AgreementScore,
		Provenance:          record.Provenance,
		HallucinationRisk:   false, // 不在ベースではリスク表示しない
		AbsenceBased:        true,
		Reasoning:           reasoning,
		RawMerged:           record.MergedConfidence,
	}
}

// BuildChecklist は違反種別に対応する証拠チェックリストを生成します。
// 未知の種別はE9（許可証保有者専用駐車）の項目にフォールバックします。
// langが"nl"ならオランダ語ラベルを使用します。
func BuildChecklist(items []entity.DetectedItem, violationType entity.ViolationType, lang string) entity.EvidenceChecklist {
	checks, ok := violationChecks[entity.ViolationType(strings.ToUpper(string(violationType)))]
	if !ok {
		checks = violationChecks[entity.ViolationE9]
	}

	lookup := make(map[entity.CategoryKey]entity.DetectedItem, len(items))
	for _, item := range items {
		lookup[item.Category] = item
	}

	checklist := entity.EvidenceChecklist{TotalCount: len(checks)}
	for _, check := range checks {
		item, found := lookup[check.Category]
		if !found {
			for _, alt := range alternativeCategories[check.Category] {
				if item, found = lookup[alt]; found {
					break
				}
			}
		}

		description := check.Label
		if lang == "nl" {
			description = check.LabelNL
		}

		var confidence float64
		if found {
			confidence = item.Confidence
		}
		status := checklistStatus(item, found)
		if status == entity.ChecklistPassed {
			checklist.ConfirmedCount++
		}
		checklist.Items = append(checklist.Items, entity.ChecklistItem{
			Description:    description,
			Status:         status,
			LegalReference: check.LegalReference,
			Confidence:     confidence,
			Category:       check.Category,
			AbsenceBased:   check.Absence,
		})
	}

	if checklist.TotalCount > 0 {
		checklist.VerifiedPercentage = int(math.Round(float64(checklist.ConfirmedCount) / float64(checklist.TotalCount) * 100))
	}
	return checklist
}

// checklistStatus は検出結果からチェック項目の判定を導出します。
// 不在ベースの項目は表示用信頼度が既に反転済みのため、
// 存在・不在いずれの確認でもDetectedがtrueなら項目成立を意味します。
func checklistStatus(item entity.DetectedItem, found bool) entity.ChecklistStatus {
	if !found {
		return entity.ChecklistUnverifiable
	}
	switch {
	case item.Detected && item.Confidence >= checklistPassThreshold && !item.HallucinationRisk:
		return entity.ChecklistPassed
	case item.Confidence >= checklistReviewThreshold || item.HallucinationRisk:
		return entity.ChecklistUnverifiable
	default:
		return entity.ChecklistFailed
	}
}
