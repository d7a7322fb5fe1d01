package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-studio/internal/types"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"valid two parts", "Jane Doe", true},
		{"valid three parts", "Jane Ann Doe", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"too short", "J D", false},
		{"single part", "Jane", false},
		{"lowercase first letter", "jane Doe", false},
		{"uppercase inside part", "JAne Doe", false},
		{"digits in part", "Jane D0e", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ValidateName(tt.input)
			if tt.valid {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.Empty(t, ValidateEmail("jane.doe@example.com"))
	assert.Empty(t, ValidateEmail("a+b@sub.domain.co"))
	assert.NotEmpty(t, ValidateEmail(""))
	assert.NotEmpty(t, ValidateEmail("not-an-email"))
	assert.NotEmpty(t, ValidateEmail("missing@tld"))
	assert.NotEmpty(t, ValidateEmail("@example.com"))
}

func TestValidateMobile(t *testing.T) {
	assert.Empty(t, ValidateMobile("+919876543210"))
	assert.Empty(t, ValidateMobile("+91 98765 43210"), "whitespace is ignored")
	assert.NotEmpty(t, ValidateMobile(""))
	assert.NotEmpty(t, ValidateMobile("+91987654321"), "9 digits")
	assert.NotEmpty(t, ValidateMobile("+9198765432100"), "11 digits")
	assert.NotEmpty(t, ValidateMobile("9876543210"), "missing prefix")
	assert.NotEmpty(t, ValidateMobile("+91abcdefghij"))
}

func TestValidateDesignation(t *testing.T) {
	assert.Empty(t, ValidateDesignation("Software Engineer"))
	assert.NotEmpty(t, ValidateDesignation(""))
	assert.NotEmpty(t, ValidateDesignation("   "))
	assert.NotEmpty(t, ValidateDesignation("software engineer"))
}

func TestCheckPersonalFields(t *testing.T) {
	valid := types.Personal{
		Name:        "Jane Doe",
		Designation: "Software Engineer",
		Email:       "jane@example.com",
		Mobile:      "+919876543210",
	}
	assert.Empty(t, CheckPersonalFields(valid))

	invalid := types.Personal{Name: "jane", Email: "bad", Mobile: "123"}
	errs := CheckPersonalFields(invalid)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "mobile")
	assert.Contains(t, errs, "designation")
	assert.Len(t, errs, 4)
}
