package types

// PresentToken marks an ongoing work period. A work experience whose
// PeriodTo equals this value is treated as current employment and skips
// date-range validation.
const PresentToken = "Present"

// ResumeDraft is the working document the edit wizard mutates. It mirrors
// the JSON shape the parsing service returns, so a parsed upload can be
// loaded into the wizard without translation.
type ResumeDraft struct {
	PDFName        string           `json:"pdfName"`
	Personal       Personal         `json:"personal"`
	Summary        string           `json:"summary"`
	Skills         []string         `json:"skills"`
	Education      []Education      `json:"education"`
	WorkExperience []WorkExperience `json:"workExperience"`
	Projects       []Project        `json:"projects"`
}

// Personal holds the identity fields edited in the first wizard step.
type Personal struct {
	Name          string `json:"name"`
	Designation   string `json:"designation"`
	Email         string `json:"email"`
	Mobile        string `json:"mobile"`
	Location      string `json:"location"`
	Gender        string `json:"gender,omitempty"`
	MaritalStatus string `json:"maritalStatus,omitempty"`
}

// Education is a single study entry. GraduationYear carries the display
// form ("Jan - 2006") once formatted.
type Education struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	Field          string `json:"field,omitempty"`
	GraduationYear string `json:"graduationYear,omitempty"`
}

// WorkExperience is a single employment entry. Duration is derived from
// PeriodFrom/PeriodTo and never entered directly.
type WorkExperience struct {
	Company          string        `json:"company"`
	Position         string        `json:"position"`
	Duration         string        `json:"duration,omitempty"`
	PeriodFrom       string        `json:"periodFrom"`
	PeriodTo         string        `json:"periodTo"`
	Responsibilities []string      `json:"responsibilities"`
	Projects         []WorkProject `json:"projects,omitempty"`
}

// WorkProject is a project nested under a work experience entry.
type WorkProject struct {
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	Technologies     []string `json:"technologies,omitempty"`
}

// Project is a standalone portfolio project.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// BlankDraft returns an empty draft with all slices initialized, so
// handlers can append without nil checks and the JSON encodes as [] rather
// than null.
func BlankDraft() *ResumeDraft {
	return &ResumeDraft{
		Skills:         []string{},
		Education:      []Education{},
		WorkExperience: []WorkExperience{},
		Projects:       []Project{},
	}
}
