// Package wizard implements the resume edit flow: a seven step state
// machine over a session-scoped draft, with formatting applied on write
// and validation applied on navigation and generation.
package wizard

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/draft"
	"github.com/jonathan/resume-studio/internal/format"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/jonathan/resume-studio/internal/validation"
)

// RemoteService is the subset of the remote API client the wizard needs.
type RemoteService interface {
	GeneratePDF(ctx context.Context, d *types.ResumeDraft) (*types.GeneratedResume, error)
	Analyze(ctx context.Context, d *types.ResumeDraft) (*types.Analysis, error)
}

// Recorder persists generation results and the activity trail.
type Recorder interface {
	InsertResume(ctx context.Context, userID uuid.UUID, fileName, fileURL, jobTitle string, content []byte) (uuid.UUID, error)
	RecordActivity(ctx context.Context, userID uuid.UUID, action, detail string) error
}

// Marshaler serializes a draft for storage alongside a generated resume.
type Marshaler func(*types.ResumeDraft) ([]byte, error)

// Engine drives wizard sessions. All methods operate on the calling
// user's single session in the draft store.
type Engine struct {
	store    draft.Store
	remote   RemoteService
	recorder Recorder
	marshal  Marshaler
	now      func() time.Time
}

// NewEngine creates a wizard engine.
func NewEngine(store draft.Store, remote RemoteService, recorder Recorder, marshal Marshaler) *Engine {
	return &Engine{
		store:    store,
		remote:   remote,
		recorder: recorder,
		marshal:  marshal,
		now:      time.Now,
	}
}

// StartBlank begins a session from an empty draft.
func (e *Engine) StartBlank(ctx context.Context, userID uuid.UUID) (*draft.State, error) {
	st := &draft.State{Draft: *types.BlankDraft()}
	if err := e.store.Save(ctx, userID, st); err != nil {
		return nil, err
	}
	return st, nil
}

// StartFromParsed begins a session from a draft produced by the parsing
// service, normalizing the parsed fields before the first edit.
func (e *Engine) StartFromParsed(ctx context.Context, userID uuid.UUID, d *types.ResumeDraft, sourcePDF string) (*draft.State, error) {
	normalizeDraft(d, e.now())
	st := &draft.State{Draft: *d, SourcePDF: sourcePDF}
	if err := e.store.Save(ctx, userID, st); err != nil {
		return nil, err
	}
	return st, nil
}

// StartFromResume begins a session from a previously saved draft document,
// keeping the originating resume ID so generation records a new version of
// the same document.
func (e *Engine) StartFromResume(ctx context.Context, userID, resumeID uuid.UUID, d *types.ResumeDraft) (*draft.State, error) {
	normalizeDraft(d, e.now())
	st := &draft.State{Draft: *d, ResumeID: resumeID.String()}
	if err := e.store.Save(ctx, userID, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Session returns the user's active session, or ErrNoSession when none
// exists.
func (e *Engine) Session(ctx context.Context, userID uuid.UUID) (*draft.State, error) {
	st, err := e.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ErrNoSession
	}
	return st, nil
}

// Discard ends the user's session.
func (e *Engine) Discard(ctx context.Context, userID uuid.UUID) error {
	return e.store.Clear(ctx, userID)
}

// UpdatePersonal writes the personal section, applying the display
// formatters to name, location and mobile. Validation does not run here;
// invalid values surface when the user tries to advance.
func (e *Engine) UpdatePersonal(ctx context.Context, userID uuid.UUID, p types.Personal) (*draft.State, error) {
	return e.mutate(ctx, userID, func(d *types.ResumeDraft) {
		p.Name = format.Name(p.Name)
		p.Location = format.Location(p.Location)
		p.Mobile = format.Mobile(p.Mobile)
		d.Personal = p
	})
}

// SetPDFName records the output file name for the generated PDF.
func (e *Engine) SetPDFName(ctx context.Context, userID uuid.UUID, name string) (*draft.State, error) {
	return e.mutate(ctx, userID, func(d *types.ResumeDraft) {
		d.PDFName = strings.TrimSpace(name)
	})
}

// SetSummary writes the professional summary.
func (e *Engine) SetSummary(ctx context.Context, userID uuid.UUID, summary string) (*draft.State, error) {
	return e.mutate(ctx, userID, func(d *types.ResumeDraft) {
		d.Summary = strings.TrimSpace(summary)
	})
}

// AddSkill appends a skill, ignoring blanks and exact duplicates.
// Matching is case-sensitive, like RemoveSkill.
func (e *Engine) AddSkill(ctx context.Context, userID uuid.UUID, skill string) (*draft.State, error) {
	return e.mutate(ctx, userID, func(d *types.ResumeDraft) {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			return
		}
		for _, existing := range d.Skills {
			if existing == skill {
				return
			}
		}
		d.Skills = append(d.Skills, skill)
	})
}

// RemoveSkill deletes a skill by exact value. Removing an absent skill is
// a no-op.
func (e *Engine) RemoveSkill(ctx context.Context, userID uuid.UUID, skill string) (*draft.State, error) {
	return e.mutate(ctx, userID, func(d *types.ResumeDraft) {
		kept := d.Skills[:0]
		for _, existing := range d.Skills {
			if existing != skill {
				kept = append(kept, existing)
			}
		}
		d.Skills = kept
	})
}

// SetExperience replaces the work experience section. Durations are
// derived from each entry's period fields; stored values are never
// trusted.
func (e *Engine) SetExperience(ctx context.Context, userID uuid.UUID, entries []types.WorkExperience) (*draft.State, error) {
	return e.mutate(ctx, userID, func(d *types.ResumeDraft) {
		now := e.now()
		for i := range entries {
			entries[i].Duration = format.Duration(entries[i].PeriodFrom, entries[i].PeriodTo, now)
			for j := range entries[i].Projects {
				entries[i].Projects[j].Technologies = dedupe(entries[i].Projects[j].Technologies)
			}
		}
		d.WorkExperience = entries
	})
}

// ExperienceDateErrors validates every entry's period fields against the
// current date. The result maps entry index to the problem; saving is not
// blocked by these.
func (e *Engine) ExperienceDateErrors(entries []types.WorkExperience) map[int]string {
	errs := make(map[int]string)
	now := e.now()
	for i, exp := range entries {
		if err := validation.ValidateWorkExperienceDates(exp.PeriodFrom, exp.PeriodTo, now); err != nil {
			errs[i] = err.Error()
		}
	}
	return errs
}

// SetEducation replaces the education section, normalizing the field of
// study and converting ISO graduation months to display form.
func (e *Engine) SetEducation(ctx context.Context, userID uuid.UUID, entries []types.Education) (*draft.State, error) {
	return e.mutate(ctx, userID, func(d *types.ResumeDraft) {
		for i := range entries {
			entries[i].Field = format.EducationField(entries[i].Field)
			if display := format.FromMonthInput(entries[i].GraduationYear); display != "" {
				entries[i].GraduationYear = display
			}
		}
		d.Education = entries
	})
}

// SetProjects replaces the projects section, deduplicating each entry's
// technology list.
func (e *Engine) SetProjects(ctx context.Context, userID uuid.UUID, entries []types.Project) (*draft.State, error) {
	return e.mutate(ctx, userID, func(d *types.ResumeDraft) {
		for i := range entries {
			entries[i].Technologies = dedupe(entries[i].Technologies)
		}
		d.Projects = entries
	})
}

// Next advances the session one step. Only the first step gates
// navigation: personal fields must validate and the output PDF must be
// named. Later steps may be left incomplete until generation.
func (e *Engine) Next(ctx context.Context, userID uuid.UUID) (*draft.State, error) {
	st, err := e.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	if st.Step >= len(validation.StepOrder)-1 {
		return st, nil
	}

	if validation.StepOrder[st.Step] == validation.StepPersonal {
		if fields := validation.CheckPersonalFields(st.Draft.Personal); len(fields) > 0 {
			return nil, &StepValidationError{Step: validation.StepPersonal, Fields: fields}
		}
		if strings.TrimSpace(st.Draft.PDFName) == "" {
			return nil, ErrRenameRequired
		}
	}

	st.Step++
	if err := e.store.Save(ctx, userID, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Back moves the session one step backwards, never below the first step.
func (e *Engine) Back(ctx context.Context, userID uuid.UUID) (*draft.State, error) {
	st, err := e.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	if st.Step == 0 {
		return st, nil
	}
	st.Step--
	if err := e.store.Save(ctx, userID, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Jump moves the session directly to the named step.
func (e *Engine) Jump(ctx context.Context, userID uuid.UUID, step string) (*draft.State, error) {
	idx := -1
	for i, name := range validation.StepOrder {
		if name == step {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrUnknownStep
	}

	st, err := e.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	st.Step = idx
	if err := e.store.Save(ctx, userID, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Progress reports the per-step completion map for the session's draft.
func (e *Engine) Progress(ctx context.Context, userID uuid.UUID) (map[string]bool, error) {
	st, err := e.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	return validation.Progress(&st.Draft), nil
}

// Analyze runs the remote analysis on the session's draft and records the
// activity.
func (e *Engine) Analyze(ctx context.Context, userID uuid.UUID) (*types.Analysis, error) {
	st, err := e.Session(ctx, userID)
	if err != nil {
		return nil, err
	}

	analysis, err := e.remote.Analyze(ctx, &st.Draft)
	if err != nil {
		return nil, err
	}

	if err := e.recorder.RecordActivity(ctx, userID, types.ActivityAnalyze, st.Draft.PDFName); err != nil {
		log.Printf("failed to record analyze activity for user %s: %v", userID, err)
	}
	return analysis, nil
}

// Generate renders the session's draft to a PDF via the remote service,
// stores the result as a new resume version, and ends the session. The
// draft must be complete.
func (e *Engine) Generate(ctx context.Context, userID uuid.UUID) (*types.GeneratedResume, error) {
	st, err := e.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	if missing := validation.IncompleteSteps(&st.Draft); len(missing) > 0 {
		return nil, &IncompleteDraftError{Steps: missing}
	}

	generated, err := e.remote.GeneratePDF(ctx, &st.Draft)
	if err != nil {
		return nil, err
	}
	if generated.FileName == "" {
		generated.FileName = st.Draft.PDFName
	}

	content, err := e.marshal(&st.Draft)
	if err != nil {
		return nil, err
	}
	resumeID, err := e.recorder.InsertResume(ctx, userID, generated.FileName, generated.FileURL, st.Draft.Personal.Designation, content)
	if err != nil {
		return nil, err
	}
	generated.ID = resumeID
	if generated.CreatedAt.IsZero() {
		generated.CreatedAt = e.now()
	}

	if err := e.recorder.RecordActivity(ctx, userID, types.ActivityGenerate, generated.FileName); err != nil {
		log.Printf("failed to record generate activity for user %s: %v", userID, err)
	}
	if err := e.store.Clear(ctx, userID); err != nil {
		log.Printf("failed to clear draft session for user %s: %v", userID, err)
	}
	return generated, nil
}

// mutate loads the session, applies fn to its draft, and saves.
func (e *Engine) mutate(ctx context.Context, userID uuid.UUID, fn func(*types.ResumeDraft)) (*draft.State, error) {
	st, err := e.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	fn(&st.Draft)
	if err := e.store.Save(ctx, userID, st); err != nil {
		return nil, err
	}
	return st, nil
}

// normalizeDraft applies the display formatters to a draft arriving from
// outside the wizard (parsed upload or saved document), so every session
// starts from canonical field forms.
func normalizeDraft(d *types.ResumeDraft, now time.Time) {
	d.Personal.Name = format.Name(d.Personal.Name)
	d.Personal.Location = format.Location(d.Personal.Location)
	d.Personal.Mobile = format.Mobile(d.Personal.Mobile)
	for i := range d.Education {
		d.Education[i].Field = format.EducationField(d.Education[i].Field)
	}
	for i := range d.WorkExperience {
		exp := &d.WorkExperience[i]
		exp.Duration = format.Duration(exp.PeriodFrom, exp.PeriodTo, now)
	}
	if d.Skills == nil {
		d.Skills = []string{}
	}
	if d.Education == nil {
		d.Education = []types.Education{}
	}
	if d.WorkExperience == nil {
		d.WorkExperience = []types.WorkExperience{}
	}
	if d.Projects == nil {
		d.Projects = []types.Project{}
	}
}

// dedupe drops blanks and exact-match duplicates, preserving insertion
// order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
