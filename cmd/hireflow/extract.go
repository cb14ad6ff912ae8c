package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/hireflow/internal/observability"
	"github.com/jonathan/hireflow/internal/suggestion"
	"github.com/spf13/cobra"
)

var (
	extractFile string
	extractJSON bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a company suggestion from raw model output",
	Long: `Run the suggestion extractor over a raw completion read from --file or stdin.
The command fails when the company name, email or paragraph cannot be recovered.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "File with the raw completion (default: stdin)")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Print the extracted fields as JSON")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	var (
		raw []byte
		err error
	)
	if extractFile != "" {
		raw, err = os.ReadFile(extractFile)
	} else {
		raw, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("failed to read completion: %w", err)
	}

	s, extractErr := suggestion.Extract(string(raw))

	if extractJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return err
		}
	} else {
		observability.NewPrinter(cmd.OutOrStdout()).PrintExtraction(s, extractErr)
	}
	return extractErr
}
