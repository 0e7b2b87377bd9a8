package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pkgsmith-labs/pkgsmith/internal/project"
	"github.com/pkgsmith-labs/pkgsmith/internal/registry"
)

var targetsProjectDir string

func init() {
	targetsCmd.Flags().StringVarP(&targetsProjectDir, "project-dir", "C", ".", "Directory containing "+project.ManifestName)
	rootCmd.AddCommand(targetsCmd)
}

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the targets a project declares",
	RunE: func(cmd *cobra.Command, args []string) error {
		manifest, err := project.Load(targetsProjectDir)
		if err != nil {
			return err
		}

		// Register without artifacts to compute aliases and header
		// roots the same way assembly does.
		ctx := registry.NewContext(manifest.Name, manifest.Namespace)
		if err := ctx.Init(); err != nil {
			return err
		}
		for _, spec := range manifest.Targets {
			kind, err := registry.ParseKind(spec.Kind)
			if err != nil {
				return fmt.Errorf("target %q: %w", spec.Name, err)
			}
			if _, err := ctx.Register(spec.Name, kind, spec.SourceRoot, ""); err != nil {
				return err
			}
		}

		targets, err := ctx.Targets()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tKIND\tALIAS\tHEADERS")
		for _, rec := range targets {
			headers := ""
			if len(rec.HeaderRoots) > 0 {
				headers = rec.HeaderRoots[0]
				if len(rec.HeaderRoots) > 1 {
					headers = fmt.Sprintf("%s (+%d)", headers, len(rec.HeaderRoots)-1)
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rec.Name, rec.Kind, rec.Alias, headers)
		}
		return w.Flush()
	},
}
