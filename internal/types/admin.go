package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Activity is a single entry in the user activity log.
type Activity struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UserEmail string    `json:"user_email,omitempty"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Activity actions recorded by the service.
const (
	ActivityLogin    = "login"
	ActivityUpload   = "upload"
	ActivityGenerate = "generate"
	ActivityAnalyze  = "analyze"
	ActivityRename   = "rename"
	ActivityDelete   = "delete"
)

// Settings holds the global settings editable from the admin console.
type Settings struct {
	SiteName          string `json:"site_name" validate:"required,min=1"`
	MaxUploadMB       int    `json:"max_upload_mb" validate:"required,min=1,max=50"`
	AllowRegistration bool   `json:"allow_registration"`
	MaintenanceMode   bool   `json:"maintenance_mode"`
}

// DefaultSettings returns the settings used before an admin edits anything.
func DefaultSettings() Settings {
	return Settings{
		SiteName:          "Resume Studio",
		MaxUploadMB:       5,
		AllowRegistration: true,
	}
}

// Stats is the admin dashboard counters block.
type Stats struct {
	TotalUsers       int `json:"total_users"`
	VerifiedUsers    int `json:"verified_users"`
	TotalResumes     int `json:"total_resumes"`
	GeneratedResumes int `json:"generated_resumes"`
	ActivitiesToday  int `json:"activities_today"`
}

// InviteUserRequest creates a pre-verified account from the admin console.
type InviteUserRequest struct {
	Name  string `json:"name" validate:"required,min=1"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=user admin"`
}

// Validate validates the Settings payload using the validator.
func (s *Settings) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

// Validate validates the InviteUserRequest using the validator.
func (r *InviteUserRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
