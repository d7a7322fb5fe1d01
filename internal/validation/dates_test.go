package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

func TestValidateWorkExperienceDates_PresentAlwaysValid(t *testing.T) {
	froms := []string{"2020-01", "2099-01", "garbage", ""}
	for _, from := range froms {
		assert.NoError(t, ValidateWorkExperienceDates(from, "Present", testNow),
			"Present must be valid regardless of period_from %q", from)
	}
}

func TestValidateWorkExperienceDates(t *testing.T) {
	tests := []struct {
		name  string
		from  string
		to    string
		valid bool
	}{
		{"ordered range", "2022-01", "2023-06", true},
		{"same month", "2023-06", "2023-06", true},
		{"current month end", "2024-01", "2024-06", true},
		{"end before start", "2024-03", "2024-01", false},
		{"future start", "2099-01", "2099-06", false},
		{"future end", "2024-01", "2099-06", false},
		{"unparseable start", "March 2024", "2024-06", false},
		{"unparseable end", "2024-01", "soon", false},
		{"empty start ok", "", "2024-01", true},
		{"empty end ok", "2024-01", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWorkExperienceDates(tt.from, tt.to, testNow)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
