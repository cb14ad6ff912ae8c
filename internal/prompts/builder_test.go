package prompts

import (
	"testing"

	"github.com/jonathan/hireflow/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInput() SuggestionInput {
	return SuggestionInput{
		Workstation:     "Ciberseguridad",
		JobInfo:         "Python, redes, pentesting con Burp Suite",
		ExperienceLevel: "junior",
		Location:        "Bilbao",
		EducationLevel:  "Grado Superior",
	}
}

func TestBuildSuggestionPrompt_Generic(t *testing.T) {
	prompt, err := BuildSuggestionPrompt(sampleInput(), types.VariantGeneric)
	require.NoError(t, err)

	assert.Contains(t, prompt, "perfil junior de Ciberseguridad con base en Bilbao")
	assert.Contains(t, prompt, "Grado Superior en Ciberseguridad")
	assert.Contains(t, prompt, "Python, redes, pentesting con Burp Suite")
	assert.Contains(t, prompt, "Tiene oficina en Bilbao")
	assert.Contains(t, prompt, "Se dedica a Ciberseguridad.")
	assert.Contains(t, prompt, "hazlo enfocado en Ciberseguridad")
	assert.Contains(t, prompt, "No listes varias empresas")
	assert.Contains(t, prompt, "No repitas ninguna ya sugerida")
	assert.Contains(t, prompt, "Tampoco pongas notas ni comillas")
	assert.NotContains(t, prompt, "{{.")
}

func TestBuildSuggestionPrompt_Profile(t *testing.T) {
	prompt, err := BuildSuggestionPrompt(sampleInput(), types.VariantProfile)
	require.NoError(t, err)

	assert.Contains(t, prompt, "Lenguajes: HTML5, CSS3, JavaScript")
	assert.Contains(t, prompt, "Portafolio: https://")
	assert.Contains(t, prompt, "Se dedica a Ciberseguridad, apps o soluciones digitales.")
	assert.NotContains(t, prompt, "Burp Suite", "the profile variant ignores free-text job info")
	assert.NotContains(t, prompt, "hazlo enfocado en")
	assert.NotContains(t, prompt, "{{.")
}

func TestBuildSuggestionPrompt_UnknownVariant(t *testing.T) {
	_, err := BuildSuggestionPrompt(sampleInput(), types.Variant("other"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown prompt variant")
}

func TestBuildSuggestionPrompt_Pure(t *testing.T) {
	a, err := BuildSuggestionPrompt(sampleInput(), types.VariantGeneric)
	require.NoError(t, err)
	b, err := BuildSuggestionPrompt(sampleInput(), types.VariantGeneric)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
