// Package validation provides the field validators, date-range rules and
// step completion predicates that gate the resume wizard.
package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/resume-studio/internal/types"
)

// FieldErrors maps a field name to its validation message. A field absent
// from the map is valid.
type FieldErrors map[string]string

var (
	namePartRe = regexp.MustCompile(`^[A-Z][a-z]*$`)
	emailRe    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	mobileRe   = regexp.MustCompile(`^\+91[0-9]{10}$`)
)

// ValidateName checks the candidate name: at least 4 characters, at least
// two space-separated parts, each starting with a capital followed by
// lowercase letters only. Returns a message, or "" when valid.
func ValidateName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "Name is required"
	}
	if len(trimmed) < 4 {
		return "Name must be at least 4 characters"
	}
	parts := strings.Fields(trimmed)
	if len(parts) < 2 {
		return "Enter both first and last name"
	}
	for _, p := range parts {
		if !namePartRe.MatchString(p) {
			return "Each name part must start with a capital letter"
		}
	}
	return ""
}

// ValidateEmail checks the standard local@domain.tld shape.
func ValidateEmail(email string) string {
	if strings.TrimSpace(email) == "" {
		return "Email is required"
	}
	if !emailRe.MatchString(strings.TrimSpace(email)) {
		return "Enter a valid email address"
	}
	return ""
}

// ValidateMobile checks for "+91" followed by exactly 10 digits, ignoring
// any whitespace in the input.
func ValidateMobile(mobile string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, mobile)
	if stripped == "" {
		return "Mobile number is required"
	}
	if !mobileRe.MatchString(stripped) {
		return "Mobile must be +91 followed by 10 digits"
	}
	return ""
}

// ValidateDesignation requires a non-empty value whose first character is
// already uppercase.
func ValidateDesignation(designation string) string {
	trimmed := strings.TrimSpace(designation)
	if trimmed == "" {
		return "Designation is required"
	}
	if !unicode.IsUpper([]rune(trimmed)[0]) {
		return "Designation must start with a capital letter"
	}
	return ""
}

// CheckPersonalFields runs the per-field validators applied on the step-1
// advance action. Only failing fields appear in the result.
func CheckPersonalFields(p types.Personal) FieldErrors {
	errs := FieldErrors{}
	if msg := ValidateName(p.Name); msg != "" {
		errs["name"] = msg
	}
	if msg := ValidateEmail(p.Email); msg != "" {
		errs["email"] = msg
	}
	if msg := ValidateMobile(p.Mobile); msg != "" {
		errs["mobile"] = msg
	}
	if msg := ValidateDesignation(p.Designation); msg != "" {
		errs["designation"] = msg
	}
	return errs
}
