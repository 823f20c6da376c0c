package usecase

import (
	"testing"

	"evidence_backend/internal/feature/crossval/domain/entity"
)

func TestDetectedItems_PresenceAndAbsence(t *testing.T) {
	t.Parallel()

	records := map[entity.CategoryKey]entity.MergedRecord{
		entity.CategoryVehicle: {
			Category:            entity.CategoryVehicle,
			ObjectiveConfidence: 0.9,
			SemanticConfidence:  0.7,
			MergedConfidence:    0.84,
			AgreementScore:      0.8,
			Provenance:          entity.ProvenanceBothAgree,
		},
		entity.CategoryPerson: {
			Category:            entity.CategoryPerson,
			ObjectiveConfidence: 0.05,
			SemanticConfidence:  0.15,
			MergedConfidence:    0.15,
			AgreementScore:      0.9,
			Provenance:          entity.ProvenanceBothAbsent,
		},
		entity.CategoryParkingPermit: {
			Category:         entity.CategoryParkingPermit,
			MergedConfidence: 0.5,
			Provenance:       entity.ProvenanceWeightedMix,
		},
	}

	items := DetectedItems(records)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	byCategory := map[entity.CategoryKey]entity.DetectedItem{}
	for _, item := range items {
		byCategory[item.Category] = item
	}

	vehicle := byCategory[entity.CategoryVehicle]
	if !vehicle.Detected || vehicle.Confidence != 0.84 || vehicle.AbsenceBased {
		t.Errorf("unexpected vehicle item: %+v", vehicle)
	}
	if vehicle.Label != "Vehicle" {
		t.Errorf("expected label Vehicle, got %q", vehicle.Label)
	}

	// 不在ベース: 0.15の検出 → 反転して0.85の「不在確認」
	person := byCategory[entity.CategoryPerson]
	if !person.AbsenceBased || !person.Detected {
		t.Errorf("expected confirmed absence for person, got %+v", person)
	}
	if person.Confidence != 0.85 {
		t.Errorf("expected inverted confidence 0.85, got %v", person.Confidence)
	}
	if person.Label != "No Driver Present" {
		t.Errorf("expected absence label, got %q", person.Label)
	}
	if person.ObjectiveConfidence != 0.95 || person.SemanticConfidence != 0.85 {
		t.Errorf("expected per-source confidences inverted, got %+v", person)
	}
	if person.RawMerged != 0.15 {
		t.Errorf("expected raw merged preserved, got %v", person.RawMerged)
	}

	// 不在ベースで反転後0.5 < 0.70 → 不在を確認できない
	permit := byCategory[entity.CategoryParkingPermit]
	if permit.Detected {
		t.Errorf("expected unconfirmed absence for permit, got %+v", permit)
	}
	if permit.Reasoning != "Possible Parking Permit present - manual verification needed" {
		t.Errorf("unexpected permit reasoning: %q", permit.Reasoning)
	}

	// 並び: 検出済みが先、信頼度降順
	if items[0].Category != entity.CategoryPerson || items[1].Category != entity.CategoryVehicle {
		t.Errorf("unexpected ordering: %v, %v", items[0].Category, items[1].Category)
	}
	if items[2].Category != entity.CategoryParkingPermit {
		t.Errorf("expected undetected item last, got %v", items[2].Category)
	}
}

// TestDetectedItems_DeduplicatesConcepts は同一概念の重複カテゴリが1件に正規化されることを検証します。
func TestDetectedItems_DeduplicatesConcepts(t *testing.T) {
	t.Parallel()

	records := map[entity.CategoryKey]entity.MergedRecord{
		entity.CategoryDriverPresent: {Category: entity.CategoryDriverPresent, MergedConfidence: 0.2},
		entity.CategoryPerson:        {Category: entity.CategoryPerson, MergedConfidence: 0.3},
		entity.CategoryParkingPermit: {Category: entity.CategoryParkingPermit, MergedConfidence: 0.1},
		entity.CategoryPermit:        {Category: entity.CategoryPermit, MergedConfidence: 0.2},
	}

	items := DetectedItems(records)
	if len(items) != 2 {
		t.Fatalf("expected 2 deduplicated items, got %d: %+v", len(items), items)
	}

	// カテゴリキー順で最初に現れたものが概念を代表する
	seen := map[entity.CategoryKey]bool{}
	for _, item := range items {
		seen[item.Category] = true
	}
	if !seen[entity.CategoryDriverPresent] || !seen[entity.CategoryParkingPermit] {
		t.Errorf("unexpected representatives: %+v", items)
	}
}

func TestBuildChecklist_E6(t *testing.T) {
	t.Parallel()

	items := []entity.DetectedItem{
		{Category: entity.CategorySignE6, Detected: true, Confidence: 0.9},
		{Category: entity.CategoryVehicle, Detected: true, Confidence: 0.85},
		{Category: entity.CategoryLicensePlate, Detected: true, Confidence: 0.5},
		{Category: entity.CategoryPerson, Detected: true, Confidence: 0.9, AbsenceBased: true},
		// disability_card は未評価（アイテム無し）
	}

	checklist := BuildChecklist(items, entity.ViolationE6, "en")

	if checklist.TotalCount != 5 {
		t.Fatalf("expected 5 checks for E6, got %d", checklist.TotalCount)
	}
	if checklist.ConfirmedCount != 3 {
		t.Errorf("expected 3 confirmed checks, got %d", checklist.ConfirmedCount)
	}
	if checklist.VerifiedPercentage != 60 {
		t.Errorf("expected 60%%, got %d", checklist.VerifiedPercentage)
	}

	statuses := map[string]entity.ChecklistStatus{}
	for _, item := range checklist.Items {
		statuses[item.Description] = item.Status
	}
	if statuses["Sign E6 visible"] != entity.ChecklistPassed {
		t.Errorf("expected sign check passed, got %s", statuses["Sign E6 visible"])
	}
	if statuses["License plate visible"] != entity.ChecklistUnverifiable {
		t.Errorf("expected mid-confidence plate unverifiable, got %s", statuses["License plate visible"])
	}
	if statuses["No disability card visible"] != entity.ChecklistUnverifiable {
		t.Errorf("expected missing category unverifiable, got %s", statuses["No disability card visible"])
	}
	if statuses["No driver present"] != entity.ChecklistPassed {
		t.Errorf("expected confirmed absence passed, got %s", statuses["No driver present"])
	}
}

func TestBuildChecklist_StatusBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		item     entity.DetectedItem
		expected entity.ChecklistStatus
	}{
		{
			name:     "high confidence detection passes",
			item:     entity.DetectedItem{Category: entity.CategoryVehicle, Detected: true, Confidence: 0.70},
			expected: entity.ChecklistPassed,
		},
		{
			name:     "risk flag blocks a pass",
			item:     entity.DetectedItem{Category: entity.CategoryVehicle, Detected: true, Confidence: 0.9, HallucinationRisk: true},
			expected: entity.ChecklistUnverifiable,
		},
		{
			name:     "mid confidence needs review",
			item:     entity.DetectedItem{Category: entity.CategoryVehicle, Detected: false, Confidence: 0.40},
			expected: entity.ChecklistUnverifiable,
		},
		{
			name:     "low confidence fails",
			item:     entity.DetectedItem{Category: entity.CategoryVehicle, Detected: false, Confidence: 0.1},
			expected: entity.ChecklistFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checklist := BuildChecklist([]entity.DetectedItem{tt.item}, entity.ViolationE1, "en")
			var got entity.ChecklistStatus
			for _, item := range checklist.Items {
				if item.Category == entity.CategoryVehicle {
					got = item.Status
				}
			}
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

// TestBuildChecklist_AlternativeCategories は別名カテゴリによる突合を検証します。
func TestBuildChecklist_AlternativeCategories(t *testing.T) {
	t.Parallel()

	// チェック項目はpersonだが、検出アイテムはdriver_presentとして届く
	items := []entity.DetectedItem{
		{Category: entity.CategoryDriverPresent, Detected: true, Confidence: 0.95, AbsenceBased: true},
	}

	checklist := BuildChecklist(items, entity.ViolationE1, "en")
	for _, item := range checklist.Items {
		if item.Category == entity.CategoryPerson {
			if item.Status != entity.ChecklistPassed {
				t.Errorf("expected alternative category match to pass, got %s", item.Status)
			}
			return
		}
	}
	t.Fatal("expected a driver check in the E1 checklist")
}

func TestBuildChecklist_LanguageAndFallback(t *testing.T) {
	t.Parallel()

	// オランダ語ラベル
	checklist := BuildChecklist(nil, entity.ViolationE6, "nl")
	if checklist.Items[0].Description != "Bord E6 zichtbaar" {
		t.Errorf("expected Dutch label, got %q", checklist.Items[0].Description)
	}

	// 未知の種別はE9にフォールバック
	fallback := BuildChecklist(nil, "UNKNOWN", "en")
	if fallback.Items[0].Description != "Sign E9 visible" {
		t.Errorf("expected E9 fallback, got %q", fallback.Items[0].Description)
	}

	// R396Iは黄色実線の別名
	r396i := BuildChecklist(nil, entity.ViolationR396I, "en")
	if r396i.Items[0].Description != "Yellow line visible" {
		t.Errorf("expected yellow line checks for R396i, got %q", r396i.Items[0].Description)
	}

	// 小文字の種別コードも受け付ける
	lower := BuildChecklist(nil, "e2", "en")
	if lower.Items[0].Description != "Sign E2 visible" {
		t.Errorf("expected case-insensitive violation type, got %q", lower.Items[0].Description)
	}
}
