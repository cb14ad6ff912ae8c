package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/jonathan/hireflow/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailData holds the values substituted into the application email.
// Every value is HTML-escaped on render.
type EmailData struct {
	Company         string
	Message         string
	FullName        string
	Workstation     string
	SenderEmail     string
	Location        string
	Phone           string
	LinkedinURL     string
	JobInfo         string
	EducationLevel  string
	ExperienceLevel string
}

// DataFromRequest maps a send-email request onto template values.
func DataFromRequest(req *types.SendEmailRequest) EmailData {
	return EmailData{
		Company:         req.Target.CompanyName,
		Message:         req.Target.PersonalizedMessage,
		FullName:        req.Profile.FullName,
		Workstation:     req.Profile.Workstation,
		SenderEmail:     req.Profile.SenderEmail,
		Location:        req.Profile.Location,
		Phone:           req.Profile.Phone,
		LinkedinURL:     req.Profile.LinkedinURL,
		JobInfo:         req.Profile.JobInfo,
		EducationLevel:  req.Profile.EducationLevel,
		ExperienceLevel: req.Profile.ExperienceLevel,
	}
}

// Renderer renders the application email for each variant.
// Templates are parsed once; Render is safe for concurrent use.
type Renderer struct {
	templates map[types.Variant]*template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[types.Variant]*template.Template)}
	for _, v := range []types.Variant{types.VariantGeneric, types.VariantProfile} {
		t, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+string(v)+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s email template: %w", v, err)
		}
		r.templates[v] = t
	}
	return r, nil
}

// Render produces the HTML body for variant.
func (r *Renderer) Render(variant types.Variant, data EmailData) (string, error) {
	t, ok := r.templates[variant]
	if !ok {
		return "", fmt.Errorf("unknown email variant %q", variant)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		return "", fmt.Errorf("render %s email: %w", variant, err)
	}
	return buf.String(), nil
}

// Subject returns the subject line of an application email.
func Subject(workstation, experienceLevel, company string) string {
	return fmt.Sprintf("Candidatura %s %s – %s", workstation, experienceLevel, company)
}
