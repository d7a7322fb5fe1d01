package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/types"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewWithHTTPClient(srv.URL, srv.Client())
}

func TestParseResume(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/upload", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "jane.pdf", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"parsed": {"personal": {"name": "Jane Doe"}, "summary": "", "skills": []}}`))
	})

	draft, err := client.ParseResume(context.Background(), "jane.pdf", strings.NewReader("%PDF-1.7 fake"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", draft.Personal.Name)
	assert.Empty(t, draft.Summary)
	assert.Empty(t, draft.Skills)
}

func TestParseResume_FullPayload(t *testing.T) {
	// Every section the parser can emit must survive the schema check and
	// land on the draft, including nested work-experience projects.
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"parsed": {
			"pdfName": "jane-resume",
			"personal": {
				"name": "Jane Doe",
				"designation": "Software Engineer",
				"email": "jane@example.com",
				"mobile": "+919876543210",
				"location": "Pune",
				"gender": "female",
				"maritalStatus": "single"
			},
			"summary": "Backend engineer.",
			"skills": ["Go", "PostgreSQL"],
			"education": [{
				"institution": "IIT Bombay",
				"degree": "B.Tech",
				"field": "Computer Science",
				"graduationYear": "May - 2020"
			}],
			"workExperience": [{
				"company": "Acme",
				"position": "Engineer",
				"periodFrom": "2020-01",
				"periodTo": "Present",
				"responsibilities": ["Built the billing service"],
				"projects": [{
					"name": "Billing",
					"description": "Usage-based invoicing",
					"responsibilities": ["Designed the ledger"],
					"technologies": ["Go", "Postgres"]
				}]
			}],
			"projects": [{
				"name": "CLI",
				"description": "Internal tooling",
				"technologies": ["Go", "Cobra"]
			}]
		}}`))
	})

	draft, err := client.ParseResume(context.Background(), "jane.pdf", strings.NewReader("x"))
	require.NoError(t, err)

	assert.Equal(t, "jane-resume", draft.PDFName)
	assert.Equal(t, "single", draft.Personal.MaritalStatus)
	require.Len(t, draft.WorkExperience, 1)
	assert.Equal(t, "Acme", draft.WorkExperience[0].Company)
	require.Len(t, draft.WorkExperience[0].Projects, 1)
	assert.Equal(t, []string{"Designed the ledger"}, draft.WorkExperience[0].Projects[0].Responsibilities)
	assert.Equal(t, []string{"Go", "Postgres"}, draft.WorkExperience[0].Projects[0].Technologies)
	require.Len(t, draft.Education, 1)
	assert.Equal(t, "May - 2020", draft.Education[0].GraduationYear)
	require.Len(t, draft.Projects, 1)
	assert.Equal(t, []string{"Go", "Cobra"}, draft.Projects[0].Technologies)
}

func TestParseResume_SchemaViolation(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"parsed": {"skills": "Go"}}`))
	})

	_, err := client.ParseResume(context.Background(), "jane.pdf", strings.NewReader("x"))
	require.Error(t, err)

	var ve *schemas.ValidationError
	assert.True(t, errors.As(err, &ve), "schema mismatch surfaces as ValidationError")
}

func TestParseResume_MissingParsedObject(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"personal": {}}}`))
	})

	_, err := client.ParseResume(context.Background(), "jane.pdf", strings.NewReader("x"))
	var ee *EnvelopeError
	require.True(t, errors.As(err, &ee), "alternative envelopes are rejected, not probed")
}

func TestParseResume_ServerError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "parser exploded", http.StatusBadGateway)
	})

	_, err := client.ParseResume(context.Background(), "jane.pdf", strings.NewReader("x"))
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.Status)
}

func TestGeneratePDF_JSONEnvelope(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generate/pdf", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "success", "data": {"id": "r1", "fileUrl": "https://x/y.pdf", "fileName": "jane.pdf"}}`))
	})

	res, err := client.GeneratePDF(context.Background(), &types.ResumeDraft{PDFName: "jane"})
	require.NoError(t, err)
	assert.Equal(t, "https://x/y.pdf", res.FileURL)
	assert.Equal(t, "jane.pdf", res.FileName)
	assert.Empty(t, res.PDF)
}

func TestGeneratePDF_RawBinary(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="jane.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.7 bytes"))
	})

	res, err := client.GeneratePDF(context.Background(), &types.ResumeDraft{PDFName: "jane"})
	require.NoError(t, err)
	assert.Equal(t, "jane.pdf", res.FileName)
	assert.Equal(t, []byte("%PDF-1.7 bytes"), res.PDF)
	assert.Empty(t, res.FileURL)
}

func TestGeneratePDF_RawBinaryWithoutDisposition(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF"))
	})

	res, err := client.GeneratePDF(context.Background(), &types.ResumeDraft{PDFName: "jane"})
	require.NoError(t, err)
	assert.Equal(t, "jane.pdf", res.FileName, "falls back to the draft's pdf name")
}

func TestGeneratePDF_BadEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"failed status", `{"status": "error", "data": {}}`},
		{"missing fileUrl", `{"status": "success", "data": {"fileName": "jane.pdf"}}`},
		{"not json", `<html>gateway timeout</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.GeneratePDF(context.Background(), &types.ResumeDraft{})
			var ee *EnvelopeError
			require.True(t, errors.As(err, &ee))
		})
	}
}

func TestAnalyze(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/recommendation/analyze", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"atsScore": 82, "overallReview": "Solid resume.", "sectionImprovements": {"summary": "Lead with impact."}}}`))
	})

	analysis, err := client.Analyze(context.Background(), &types.ResumeDraft{})
	require.NoError(t, err)
	assert.Equal(t, 82, analysis.ATSScore)
	assert.Equal(t, "Solid resume.", analysis.OverallReview)
	assert.Equal(t, "Lead with impact.", analysis.SectionImprovements["summary"])
}

func TestAnalyze_ScoreOutOfRange(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"atsScore": 140}}`))
	})

	_, err := client.Analyze(context.Background(), &types.ResumeDraft{})
	var ee *EnvelopeError
	require.True(t, errors.As(err, &ee))
}
