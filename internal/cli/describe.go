package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkgsmith-labs/pkgsmith/internal/version"
)

var describeJSON bool

func init() {
	describeCmd.Flags().BoolVar(&describeJSON, "json", false, "Print resolved version as JSON")
	rootCmd.AddCommand(describeCmd)
}

var describeCmd = &cobra.Command{
	Use:   "describe [dir]",
	Short: "Resolve the project version from git history",
	Long: `Resolve the project version from the nearest annotated tag of the form
v<major>.<minor>.<patch>-<tweak>-<hash>[-dirty]. A non-matching tag or a
failing git query is a fatal error.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		info, err := version.Resolve(dir)
		if err != nil {
			return err
		}

		if describeJSON {
			out, err := json.MarshalIndent(map[string]interface{}{
				"version": info.String(),
				"major":   info.Major,
				"minor":   info.Minor,
				"patch":   info.Patch,
				"tweak":   info.Tweak,
				"commit":  info.Hash,
				"dirty":   info.Dirty,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		fmt.Printf("%s (commit %s", info.String(), info.Hash)
		if info.Dirty {
			fmt.Print(", dirty")
		}
		fmt.Println(")")
		return nil
	},
}
