package main

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/hireflow/internal/observability"
	"github.com/jonathan/hireflow/internal/prompts"
	"github.com/jonathan/hireflow/internal/types"
	"github.com/spf13/cobra"
)

var (
	suggestWorkstation     string
	suggestJobInfo         string
	suggestExperienceLevel string
	suggestLocation        string
	suggestEducationLevel  string
	suggestVariant         string
	suggestModel           string
	suggestJSON            bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest one company to apply to",
	Long: `Ask the configured language model for one company matching the given profile.
Without an inference token, or when the model answer is unusable, a company from the fallback pool is printed instead.`,
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().StringVar(&suggestWorkstation, "workstation", "", "Desired position")
	suggestCmd.Flags().StringVar(&suggestJobInfo, "job-info", "", "Free-text skills (generic variant)")
	suggestCmd.Flags().StringVar(&suggestExperienceLevel, "experience-level", "", "Experience level")
	suggestCmd.Flags().StringVar(&suggestLocation, "location", "", "Preferred location")
	suggestCmd.Flags().StringVar(&suggestEducationLevel, "education-level", "", "Education level")
	suggestCmd.Flags().StringVar(&suggestVariant, "variant", "generic", "Prompt variant (generic, profile)")
	suggestCmd.Flags().StringVar(&suggestModel, "model", "", "Model override (default: inference.model)")
	suggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "Print the suggestion as JSON")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, _ []string) error {
	variant, ok := types.ParseVariant(suggestVariant)
	if !ok {
		return fmt.Errorf("unknown variant %q", suggestVariant)
	}

	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := commandContext(cmd)
	svc, cleanup, err := newSuggestionService(ctx, cfg, suggestModel, log)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := svc.Suggest(ctx, prompts.SuggestionInput{
		Workstation:     suggestWorkstation,
		JobInfo:         suggestJobInfo,
		ExperienceLevel: suggestExperienceLevel,
		Location:        suggestLocation,
		EducationLevel:  suggestEducationLevel,
	}, variant)
	if err != nil {
		return err
	}

	if suggestJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(types.SuggestCompanyResponse{
			OK:                true,
			CompanySuggestion: res.Suggestion,
			Fallback:          res.Fallback,
		})
	}

	source := "live"
	if res.Fallback {
		source = fmt.Sprintf("fallback (%s)", res.Reason)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintSuggestion(res.Suggestion, source)
	return nil
}
