package validation

import (
	"strings"

	"github.com/jonathan/resume-studio/internal/types"
)

// Wizard step keys, in navigation order.
const (
	StepPersonal   = "personal"
	StepSummary    = "summary"
	StepSkills     = "skills"
	StepExperience = "experience"
	StepEducation  = "education"
	StepProjects   = "projects"
	StepReview     = "review"
)

// StepOrder lists the seven wizard steps in order.
var StepOrder = []string{
	StepPersonal,
	StepSummary,
	StepSkills,
	StepExperience,
	StepEducation,
	StepProjects,
	StepReview,
}

// StepMissingFields reports whether the given step still has required
// fields missing. Unknown step keys report no missing fields.
func StepMissingFields(step string, d *types.ResumeDraft) bool {
	if d == nil {
		return true
	}

	switch step {
	case StepPersonal:
		return strings.TrimSpace(d.Personal.Name) == "" ||
			strings.TrimSpace(d.Personal.Designation) == "" ||
			strings.TrimSpace(d.Personal.Email) == "" ||
			strings.TrimSpace(d.Personal.Mobile) == ""
	case StepSummary:
		return strings.TrimSpace(d.Summary) == ""
	case StepSkills:
		return len(d.Skills) == 0
	case StepExperience:
		// Entries are optional as a whole, but any present entry must be
		// fully specified with at least one responsibility line.
		for _, exp := range d.WorkExperience {
			if strings.TrimSpace(exp.Company) == "" ||
				strings.TrimSpace(exp.Position) == "" ||
				strings.TrimSpace(exp.PeriodFrom) == "" ||
				strings.TrimSpace(exp.PeriodTo) == "" {
				return true
			}
			if !hasNonEmptyLine(exp.Responsibilities) {
				return true
			}
		}
		return false
	case StepEducation:
		for _, edu := range d.Education {
			if strings.TrimSpace(edu.Institution) == "" || strings.TrimSpace(edu.Degree) == "" {
				return true
			}
		}
		return false
	case StepProjects, StepReview:
		// Projects are fully optional; review has no fields of its own.
		return false
	}
	return false
}

// StepComplete is the completion predicate for a single step.
func StepComplete(step string, d *types.ResumeDraft) bool {
	return !StepMissingFields(step, d)
}

// Progress returns the completion predicate for every step.
func Progress(d *types.ResumeDraft) map[string]bool {
	progress := make(map[string]bool, len(StepOrder))
	for _, step := range StepOrder {
		progress[step] = StepComplete(step, d)
	}
	return progress
}

// FormComplete reports whether every step's predicate passes. Generation
// is refused until this holds.
func FormComplete(d *types.ResumeDraft) bool {
	for _, step := range StepOrder {
		if !StepComplete(step, d) {
			return false
		}
	}
	return true
}

// IncompleteSteps lists the steps whose predicate fails, in order.
func IncompleteSteps(d *types.ResumeDraft) []string {
	var missing []string
	for _, step := range StepOrder {
		if !StepComplete(step, d) {
			missing = append(missing, step)
		}
	}
	return missing
}

func hasNonEmptyLine(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	return false
}
