package types

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in   string
		want Variant
		ok   bool
	}{
		{"", VariantGeneric, true},
		{"generic", VariantGeneric, true},
		{"profile", VariantProfile, true},
		{"PROFILE", "", false},
		{"dani", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseVariant(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func validSendRequest() SendEmailRequest {
	return SendEmailRequest{
		Profile: ApplicantProfile{
			SenderEmail:     "ana@example.com",
			Credential:      "app-password",
			FullName:        "Ana Pérez",
			Location:        "Bilbao",
			Workstation:     "Desarrollo web",
			ExperienceLevel: "junior",
			LinkedinURL:     "https://linkedin.com/in/ana",
		},
		Target: ApplicationTarget{
			RecipientEmail: "rrhh@acme.com",
			CompanyName:    "Acme",
		},
	}
}

func TestSendEmailRequest_Validate(t *testing.T) {
	v := validator.New()

	req := validSendRequest()
	require.NoError(t, req.Validate(v))

	req.Target.RecipientEmail = ""
	assert.Error(t, req.Validate(v))

	req = validSendRequest()
	req.Target.RecipientEmail = "not-an-email"
	assert.Error(t, req.Validate(v))

	req = validSendRequest()
	req.Profile.SenderEmail = ""
	assert.NoError(t, req.Validate(v), "empty sender email is allowed and leads to a simulated send")

	req = validSendRequest()
	req.Profile.LinkedinURL = "linkedin"
	assert.Error(t, req.Validate(v))
}

func TestSendEmailRequest_Simulated(t *testing.T) {
	req := validSendRequest()
	assert.False(t, req.Simulated())

	req.Profile.Credential = ""
	assert.True(t, req.Simulated())

	req = validSendRequest()
	req.Profile.SenderEmail = ""
	assert.True(t, req.Simulated())
}

func TestSuggestCompanyRequest_EffectiveCredential(t *testing.T) {
	req := SuggestCompanyRequest{SMTPKey: "legacy"}
	assert.Equal(t, "legacy", req.EffectiveCredential())

	req.Credential = "current"
	assert.Equal(t, "current", req.EffectiveCredential())
}

func TestCompanySuggestion_Complete(t *testing.T) {
	s := CompanySuggestion{CompanyName: "Acme", ContactEmail: "a@acme.com", Paragraph: "Hola"}
	assert.True(t, s.Complete())

	s.Paragraph = ""
	assert.False(t, s.Complete())
}
