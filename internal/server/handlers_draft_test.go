package server

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-studio/internal/draft"
	"github.com/jonathan/resume-studio/internal/validation"
)

func TestNewSessionResponse(t *testing.T) {
	st := &draft.State{Step: 2, SourcePDF: "jane.pdf"}

	resp := newSessionResponse(st)
	assert.Equal(t, 2, resp.Step)
	assert.Equal(t, validation.StepOrder[2], resp.StepName)
	assert.Equal(t, "jane.pdf", resp.Source)
	assert.Len(t, resp.Progress, len(validation.StepOrder))
}

func TestNewSessionResponseClampsTamperedStep(t *testing.T) {
	// The step index comes from a redis blob; out-of-range values must be
	// clamped, never indexed.
	tests := []struct {
		name string
		step int
		want int
	}{
		{"negative", -3, 0},
		{"past last step", 99, len(validation.StepOrder) - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := newSessionResponse(&draft.State{Step: tt.step})
			assert.Equal(t, tt.want, resp.Step)
			assert.Equal(t, validation.StepOrder[tt.want], resp.StepName)
		})
	}
}
