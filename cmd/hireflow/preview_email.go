package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jonathan/hireflow/internal/mailer"
	"github.com/jonathan/hireflow/internal/types"
	"github.com/spf13/cobra"
)

var (
	previewVariant string
	previewOut     string
	previewData    mailer.EmailData
)

var previewEmailCmd = &cobra.Command{
	Use:   "preview-email",
	Short: "Render an application email without sending it",
	Long:  `Render the HTML body of an application email for the given variant and print it, or write it to --out.`,
	RunE:  runPreviewEmail,
}

func init() {
	f := previewEmailCmd.Flags()
	f.StringVar(&previewVariant, "variant", "generic", "Email variant (generic, profile)")
	f.StringVarP(&previewOut, "out", "o", "", "Output HTML file (default: stdout)")
	f.StringVar(&previewData.Company, "company", "", "Company name")
	f.StringVar(&previewData.Message, "message", "", "Personalized paragraph")
	f.StringVar(&previewData.FullName, "full-name", "", "Applicant full name")
	f.StringVar(&previewData.Workstation, "workstation", "", "Desired position")
	f.StringVar(&previewData.SenderEmail, "sender-email", "", "Applicant email")
	f.StringVar(&previewData.Location, "location", "", "Applicant location")
	f.StringVar(&previewData.Phone, "phone", "", "Applicant phone")
	f.StringVar(&previewData.LinkedinURL, "linkedin-url", "", "LinkedIn profile URL")
	f.StringVar(&previewData.JobInfo, "job-info", "", "Free-text skills (generic variant)")
	f.StringVar(&previewData.EducationLevel, "education-level", "", "Education level")
	f.StringVar(&previewData.ExperienceLevel, "experience-level", "", "Experience level")
	rootCmd.AddCommand(previewEmailCmd)
}

func runPreviewEmail(cmd *cobra.Command, _ []string) error {
	variant, ok := types.ParseVariant(previewVariant)
	if !ok {
		return fmt.Errorf("unknown variant %q", previewVariant)
	}

	renderer, err := mailer.NewRenderer()
	if err != nil {
		return err
	}
	html, err := renderer.Render(variant, previewData)
	if err != nil {
		return err
	}

	if previewOut == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), html)
		return err
	}
	if err := os.WriteFile(previewOut, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", previewOut, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Subject: %s\nWrote %s\n",
		mailer.Subject(previewData.Workstation, previewData.ExperienceLevel, previewData.Company), previewOut)
	return nil
}
