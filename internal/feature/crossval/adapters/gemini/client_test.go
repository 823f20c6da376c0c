package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evidence_backend/internal/feature/crossval/domain/entity"
)

func TestParseConfidenceJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		expected entity.ConfidenceMap
		wantErr  bool
	}{
		{
			name:     "plain json object",
			text:     `{"vehicle": 0.9, "license_plate": 0.7}`,
			expected: entity.ConfidenceMap{entity.CategoryVehicle: 0.9, entity.CategoryLicensePlate: 0.7},
		},
		{
			name:     "json fenced code block",
			text:     "```json\n{\"vehicle\": 0.8}\n```",
			expected: entity.ConfidenceMap{entity.CategoryVehicle: 0.8},
		},
		{
			name:     "bare fenced code block",
			text:     "```\n{\"traffic_sign_e6\": 0.65}\n```",
			expected: entity.ConfidenceMap{entity.CategorySignE6: 0.65},
		},
		{
			name:     "keys are normalized to lowercase",
			text:     `{"Vehicle": 0.5}`,
			expected: entity.ConfidenceMap{entity.CategoryVehicle: 0.5},
		},
		{
			name:     "empty object",
			text:     `{}`,
			expected: entity.ConfidenceMap{},
		},
		{
			name:    "prose instead of json",
			text:    "I can see a vehicle in the image.",
			wantErr: true,
		},
		{
			name:    "non-numeric confidence",
			text:    `{"vehicle": "high"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseConfidenceJSON(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
