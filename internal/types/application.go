// Package types provides type definitions for the data exchanged by the HireFlow API.
package types

import (
	"github.com/go-playground/validator/v10"
)

// Variant selects which prompt and email template a request uses.
type Variant string

const (
	// VariantGeneric embeds the applicant's own free-text skills.
	VariantGeneric Variant = "generic"
	// VariantProfile embeds the fixed skills list and portfolio links.
	VariantProfile Variant = "profile"
)

// ParseVariant converts a raw string into a Variant.
// An empty string yields VariantGeneric.
func ParseVariant(s string) (Variant, bool) {
	switch Variant(s) {
	case "", VariantGeneric:
		return VariantGeneric, true
	case VariantProfile:
		return VariantProfile, true
	default:
		return "", false
	}
}

// ApplicantProfile holds the sender's credentials, personal data and professional profile.
// It is built per request and never stored.
type ApplicantProfile struct {
	SenderEmail     string `form:"senderEmail" validate:"omitempty,email"`
	Credential      string `form:"credential" validate:"max=256"`
	FullName        string `form:"fullName" validate:"max=200"`
	Phone           string `form:"phone" validate:"max=50"`
	Location        string `form:"location" validate:"max=200"`
	EducationLevel  string `form:"educationLevel" validate:"max=200"`
	Workstation     string `form:"workstation" validate:"max=200"`
	JobInfo         string `form:"jobInfo" validate:"max=4000"`
	ExperienceLevel string `form:"experienceLevel" validate:"max=100"`
	LinkedinURL     string `form:"linkedinUrl" validate:"omitempty,url"`
}

// ApplicationTarget is the company an application is sent to.
// It is either typed by the user or filled from a CompanySuggestion.
type ApplicationTarget struct {
	RecipientEmail      string `form:"recipientEmail" validate:"required,email"`
	CompanyName         string `form:"companyName" validate:"max=200"`
	PersonalizedMessage string `form:"personalizedMessage" validate:"max=4000"`
}

// Attachment is a file attached to an outgoing email. Content is fully buffered.
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// SendEmailRequest is the decoded multipart send-email form.
type SendEmailRequest struct {
	Profile ApplicantProfile
	Target  ApplicationTarget
	Variant string
	Resume  *Attachment
}

// Validate validates the profile and target fields.
func (r *SendEmailRequest) Validate(v *validator.Validate) error {
	if err := v.Struct(r.Target); err != nil {
		return err
	}
	return v.Struct(r.Profile)
}

// Simulated reports whether the request lacks the credentials needed to reach a mail relay.
func (r *SendEmailRequest) Simulated() bool {
	return r.Profile.SenderEmail == "" || r.Profile.Credential == ""
}

// SendEmailResponse is the JSON response of the send-email endpoint.
type SendEmailResponse struct {
	OK        bool   `json:"ok"`
	MessageID string `json:"messageId,omitempty"`
	Simulated bool   `json:"simulated,omitempty"`
	Message   string `json:"message,omitempty"`
}
