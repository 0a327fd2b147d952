package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/snapline/pkg/scene"
	"github.com/matzehuels/snapline/pkg/spacing"
)

// maxParallelAnalyses bounds how many scenes are read and analyzed at once.
const maxParallelAnalyses = 8

// analyzeCommand creates the analyze command for spacing consistency.
func (c *CLI) analyzeCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze <scene.json>...",
		Short: "Report spacing patterns and inconsistencies",
		Long: `Analyze groups components into rows and columns, reports bands with
consistent spacing, and flags gaps that deviate from their band's mean
together with a suggested position that fixes them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			prog := newProgress(c.Logger)

			logger := loggerFromContext(cmd.Context())
			results := make([]spacing.Analysis, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(maxParallelAnalyses)
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					sc, err := scene.ImportJSON(path)
					if err != nil {
						return err
					}
					// managers cache per-call state, so each scene gets its own
					a := spacing.NewManager(cfg.Spacing).Analyze(sc)
					results[i] = a
					logger.Debug("analyzed scene", "path", path, "components", sc.Len())
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if asJSON {
				if len(args) == 1 {
					return writeJSON(cmd.OutOrStdout(), results[0])
				}
				out := make(map[string]spacing.Analysis, len(args))
				for i, path := range args {
					out[path] = results[i]
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}

			for i, path := range args {
				printAnalysis(path, results[i])
			}
			prog.done("Analyzed scenes", "count", len(args))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the analysis as JSON")
	return cmd
}

func printAnalysis(path string, a spacing.Analysis) {
	fmt.Println(StyleTitle.Render(path))
	if len(a.Patterns) == 0 && len(a.Inconsistencies) == 0 {
		printInfo("No rows or columns found")
		return
	}

	for _, p := range a.Patterns {
		printSuccess("%s band %s: %s average, consistency %.2f", p.Kind, formatIDs(p.Components), formatPx(p.AverageSpacing), p.Consistency)
	}
	if len(a.Inconsistencies) == 0 {
		printSuccess("Spacing is consistent")
		return
	}

	rows := make([][]string, len(a.Inconsistencies))
	for i, inc := range a.Inconsistencies {
		rows[i] = []string{inc.Kind.String(), formatIDs(inc.Components[:]), formatPx(inc.Actual), formatPx(inc.Expected), fmt.Sprintf("%.2f", inc.Severity)}
	}
	printTable([]string{"Axis", "Between", "Actual", "Expected", "Severity"}, rows)
	for _, s := range a.Suggestions {
		printDetail("move %d to %s (confidence %.2f)", s.Component, formatPos(s.SuggestedPosition), s.Confidence)
	}
}
