package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateParsedResume_Valid(t *testing.T) {
	raw := []byte(`{
		"personal": {"name": "Jane Doe", "email": "jane@example.com"},
		"summary": "Backend engineer.",
		"skills": ["Go", "PostgreSQL"],
		"education": [{"institution": "IIT Bombay", "degree": "B.Tech", "graduationYear": "Jun - 2016"}],
		"workExperience": [{
			"company": "Acme",
			"position": "Engineer",
			"periodFrom": "2020-01",
			"periodTo": "Present",
			"responsibilities": ["Built the billing service"]
		}]
	}`)

	assert.NoError(t, ValidateParsedResume(raw))
}

func TestValidateParsedResume_SparseButValid(t *testing.T) {
	// Most sections are optional; only the personal block must exist.
	assert.NoError(t, ValidateParsedResume([]byte(`{"personal": {}}`)))
}

func TestValidateParsedResume_MissingPersonal(t *testing.T) {
	err := ValidateParsedResume([]byte(`{"summary": "no personal block"}`))
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.NotEmpty(t, ve.Errors)
}

func TestValidateParsedResume_WrongTypes(t *testing.T) {
	err := ValidateParsedResume([]byte(`{"personal": {}, "skills": "Go, PostgreSQL"}`))
	require.Error(t, err)
}

func TestValidateParsedResume_UnknownEnvelope(t *testing.T) {
	// Alternative backend envelopes are rejected, not probed.
	err := ValidateParsedResume([]byte(`{"data": {"personal": {}}}`))
	require.Error(t, err)
}
