package types

// CompanySuggestion is one suggested target company.
type CompanySuggestion struct {
	CompanyName  string `json:"companyName"`
	ContactEmail string `json:"contactEmail"`
	Paragraph    string `json:"paragraph"`
}

// Complete reports whether every field is non-empty.
func (s CompanySuggestion) Complete() bool {
	return s.CompanyName != "" && s.ContactEmail != "" && s.Paragraph != ""
}

// SuggestCompanyRequest is the JSON body of the suggest-company endpoint.
// SMTPKey is the field name used by the original web form and is read as Credential when Credential is empty.
type SuggestCompanyRequest struct {
	Workstation     string `json:"workstation" validate:"max=200"`
	JobInfo         string `json:"jobInfo" validate:"max=4000"`
	ExperienceLevel string `json:"experienceLevel" validate:"max=100"`
	Location        string `json:"location" validate:"max=200"`
	EducationLevel  string `json:"educationLevel" validate:"max=200"`
	Credential      string `json:"credential,omitempty" validate:"max=256"`
	SMTPKey         string `json:"smtpKey,omitempty" validate:"max=256"`
	Variant         string `json:"variant,omitempty" validate:"omitempty,oneof=generic profile"`
}

// EffectiveCredential returns Credential, falling back to SMTPKey.
func (r *SuggestCompanyRequest) EffectiveCredential() string {
	if r.Credential != "" {
		return r.Credential
	}
	return r.SMTPKey
}

// SuggestCompanyResponse is the JSON response of the suggest-company endpoint.
type SuggestCompanyResponse struct {
	OK bool `json:"ok"`
	CompanySuggestion
	Fallback bool `json:"fallback"`
}

// ErrorResponse is the JSON envelope for every failed request.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}
