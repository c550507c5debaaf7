package handler

import (
	"time"

	"outrexo/internal/personalize"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// SignupRequest registers a credentials user
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is a credentials login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SessionResponse carries the session token after signup/login/callback
type SessionResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

// TemplateRequest creates or updates a template
type TemplateRequest struct {
	Name    string `json:"name" binding:"required"`
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

// CreateCampaignRequest launches the wizard's draft
type CreateCampaignRequest struct {
	Name       string                `json:"name" binding:"required"`
	TemplateID uint                  `json:"template_id" binding:"required"`
	Contacts   []personalize.Contact `json:"contacts" binding:"required"`
}

// StartRunRequest begins the send loop for a campaign. Template id and
// contacts are wizard state and travel with the request.
type StartRunRequest struct {
	TemplateID uint                  `json:"template_id" binding:"required"`
	Contacts   []personalize.Contact `json:"contacts" binding:"required"`
}

// SendEmailRequest is one per-recipient send attempt
type SendEmailRequest struct {
	To         string `json:"to" binding:"required,email"`
	Subject    string `json:"subject" binding:"required"`
	HTMLBody   string `json:"html_body" binding:"required"`
	CampaignID uint   `json:"campaign_id" binding:"required"`
	LogID      uint   `json:"log_id" binding:"required"`
}

// SendEmailResponse reports the channel that carried the message
type SendEmailResponse struct {
	Success bool   `json:"success"`
	Method  string `json:"method"`
}

// SMTPSettingsRequest verifies and stores SMTP credentials
type SMTPSettingsRequest struct {
	Host     string `json:"host" binding:"required"`
	Port     int    `json:"port" binding:"required"`
	User     string `json:"user" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SMTPSettingsResponse is the stored configuration minus the secret
type SMTPSettingsResponse struct {
	Host       string `json:"host"`
	Port       int    `json:"port"`
	User       string `json:"user"`
	Secure     bool   `json:"secure"`
	Configured bool   `json:"configured"`
}

// GenerateCopyRequest asks the LLM for email body copy
type GenerateCopyRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	Tone   string `json:"tone"`
}

// GenerateCopyResponse carries the generated HTML
type GenerateCopyResponse struct {
	Content string `json:"content"`
}

// ImportContactsResponse returns the parsed upload
type ImportContactsResponse struct {
	Contacts []personalize.Contact `json:"contacts"`
	Skipped  []string              `json:"skipped,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Database  string            `json:"database"`
	Details   map[string]string `json:"details,omitempty"`
}
