package prompts

import (
	"fmt"

	"github.com/jonathan/hireflow/internal/types"
)

const suggestionFile = "suggestion.json"

// SuggestionInput is the subset of the applicant profile that goes into the suggestion prompt.
type SuggestionInput struct {
	Workstation     string
	JobInfo         string
	ExperienceLevel string
	Location        string
	EducationLevel  string
}

// BuildSuggestionPrompt renders the instruction asking the model for exactly one new company.
// VariantGeneric embeds in.JobInfo; VariantProfile ignores it and embeds the fixed skills list.
func BuildSuggestionPrompt(in SuggestionInput, variant types.Variant) (string, error) {
	data := map[string]string{
		"Workstation":     in.Workstation,
		"ExperienceLevel": in.ExperienceLevel,
		"Location":        in.Location,
		"EducationLevel":  in.EducationLevel,
	}

	switch variant {
	case types.VariantGeneric:
		note, err := Get(suggestionFile, "generic-example-note")
		if err != nil {
			return "", err
		}
		data["JobInfo"] = in.JobInfo
		data["Field"] = in.Workstation
		data["ExampleNote"] = Format(note, map[string]string{"Workstation": in.Workstation})
	case types.VariantProfile:
		skills, err := Get(suggestionFile, "profile-skills")
		if err != nil {
			return "", err
		}
		suffix, err := Get(suggestionFile, "profile-field-suffix")
		if err != nil {
			return "", err
		}
		data["ProfileSkills"] = skills
		data["Field"] = in.Workstation + suffix
		data["ExampleNote"] = ""
	default:
		return "", fmt.Errorf("unknown prompt variant %q", variant)
	}

	tmpl, err := Get(suggestionFile, string(variant))
	if err != nil {
		return "", err
	}
	return Format(tmpl, data), nil
}
