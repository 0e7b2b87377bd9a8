package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pkgsmith-labs/pkgsmith/internal/project"
)

var validateProjectDir string

func init() {
	validateCmd.Flags().StringVarP(&validateProjectDir, "project-dir", "C", ".", "Directory containing "+project.ManifestName)
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the project manifest against its schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(validateProjectDir, project.ManifestName)

		result, err := project.ValidateFile(path)
		if err != nil {
			return err
		}

		p := message.NewPrinter(language.English)
		if result.Valid {
			p.Fprintf(cmd.OutOrStdout(), "✓ %s is valid\n", path)
			return nil
		}

		p.Fprintf(cmd.OutOrStdout(), "✗ %s has %d issues:\n%s\n", path, len(result.Issues), result.Summary())
		return fmt.Errorf("manifest validation failed")
	},
}
