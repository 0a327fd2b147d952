package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/snapline/pkg/errors"
	"github.com/matzehuels/snapline/pkg/learning"
)

// learnCommand creates the learning profile management command.
func (c *CLI) learnCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Manage the learning profile",
		Long: `The learning profile records how suggestions were received and adapts
guide sensitivity, tolerances and recommended spacings. Profiles live in
the store configured under [store] and are selected with --profile.`,
	}

	cmd.AddCommand(c.learnStatsCommand())
	cmd.AddCommand(c.learnRecordCommand())
	cmd.AddCommand(c.learnRecommendCommand())
	cmd.AddCommand(c.learnExportCommand())
	cmd.AddCommand(c.learnImportCommand())
	cmd.AddCommand(c.learnResetCommand())

	return cmd
}

// learnStatsCommand creates the "learn stats" subcommand.
func (c *CLI) learnStatsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show learning statistics and preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			stats := ws.engine.Statistics().Statistics
			prefs := ws.engine.Preferences()
			patterns := ws.engine.Patterns()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"statistics":  stats,
					"preferences": prefs,
					"patterns":    patterns,
				})
			}

			fmt.Println(StyleTitle.Render("Profile " + ws.name))
			printKeyValue("Activations", fmt.Sprintf("%d", stats.TotalActivations))
			printKeyValue("Acceptance rate", fmt.Sprintf("%.0f%%", stats.AcceptanceRate*100))
			printKeyValue("Rejection rate", fmt.Sprintf("%.0f%%", stats.RejectionRate*100))
			printKeyValue("Spacings", joinPx(prefs.Spacings))
			printKeyValue("Workflows", fmt.Sprintf("%d", stats.WorkflowPatterns))

			if len(prefs.GuideTypeScores) > 0 {
				rows := make([][]string, 0, len(learning.GuideTypes))
				for _, gt := range learning.GuideTypes {
					score, ok := prefs.GuideTypeScores[gt]
					if !ok {
						continue
					}
					tol := "-"
					if v, ok := prefs.Tolerances[gt]; ok {
						tol = formatPx(v)
					}
					rows = append(rows, []string{gt.String(), fmt.Sprintf("%.3f", score), tol})
				}
				printTable([]string{"Guide type", "Score", "Tolerance"}, rows)
			}

			for _, w := range patterns.Usage.Windows {
				printDetail("productive %02d:00-%02d:59, acceptance %.0f%%", w.StartHour, w.EndHour, w.AcceptanceRate*100)
			}
			if stats.TotalActivations == 0 {
				printNextStep("Train the profile", appName+" review <scene.json>")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print statistics, preferences and patterns as JSON")
	return cmd
}

// learnRecordCommand creates the "learn record" subcommand.
func (c *CLI) learnRecordCommand() *cobra.Command {
	var (
		guide, action string
		components    int
		spacing       float64
		durationMs    int64
		types         string
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record one response to a suggestion",
		Example: `  snapline learn record --guide spacing_guide --action accepted --components 3 --spacing 16
  snapline learn record --guide magnetism_zone --action rejected`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gt, err := learning.ParseGuideType(guide)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "--guide")
			}
			act, err := learning.ParseUserAction(action)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "--action")
			}

			ws, err := c.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			a := learning.Activation{
				GuideType: gt,
				Action:    act,
				Context: learning.Context{
					ComponentCount:   components,
					ActionDurationMs: durationMs,
					Spacing:          spacing,
				},
			}
			if types != "" {
				a.Context.ComponentTypes = strings.Split(types, ",")
			}
			updated := ws.engine.RecordActivation(cmd.Context(), a)
			if err := ws.save(cmd.Context()); err != nil {
				return err
			}

			printSuccess("Recorded %s %s", gt, act)
			if updated {
				printDetail("preferences updated")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&guide, "guide", "", "alignment_guide, spacing_guide, magnetism_zone or grid_snap (required)")
	cmd.Flags().StringVar(&action, "action", "", "accepted, modified, ignored or rejected (required)")
	cmd.Flags().IntVar(&components, "components", 0, "number of components on the canvas")
	cmd.Flags().Float64Var(&spacing, "spacing", 0, "accepted spacing in px")
	cmd.Flags().Int64Var(&durationMs, "duration", 0, "time the user took, in milliseconds")
	cmd.Flags().StringVar(&types, "types", "", "comma-separated component types involved")
	cmd.MarkFlagRequired("guide")
	cmd.MarkFlagRequired("action")
	return cmd
}

// learnRecommendCommand creates the "learn recommend" subcommand.
func (c *CLI) learnRecommendCommand() *cobra.Command {
	var (
		components int
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Show learned sensitivities and spacings for a canvas size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			rec := ws.engine.Recommendations(learning.Context{ComponentCount: components})
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			printKeyValue("Spacings", joinPx(rec.Spacings))
			for _, gt := range learning.GuideTypes {
				printKeyValue(gt.String(), fmt.Sprintf("%.3f", rec.Sensitivity[gt]))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&components, "components", 0, "number of components on the canvas")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the recommendations as JSON")
	return cmd
}

// learnExportCommand creates the "learn export" subcommand.
func (c *CLI) learnExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the learning profile as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			data, err := ws.engine.ExportLearningData()
			if err != nil {
				return err
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return errors.Wrap(errors.ErrCodeStorage, err, "write %s", output)
			}
			printSuccess("Exported %d activations", ws.engine.Statistics().TotalActivations)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

// learnImportCommand creates the "learn import" subcommand.
func (c *CLI) learnImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the learning profile with exported data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			ws, err := c.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			if err := ws.engine.ImportLearningData(cmd.Context(), data); err != nil {
				return err
			}
			if err := ws.save(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Imported %d activations into %s", ws.engine.Statistics().TotalActivations, ws.name)
			return nil
		},
	}
}

// learnResetCommand creates the "learn reset" subcommand.
func (c *CLI) learnResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard everything the profile has learned",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			ws.engine.ResetLearning()
			if err := ws.save(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Reset profile %s", ws.name)
			return nil
		},
	}
}

// readInput reads a file, or r when path is "-".
func readInput(r io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, nil
}

// joinPx renders values as "8px, 16px".
func joinPx(values []float64) string {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	parts := make([]string, len(sorted))
	for i, v := range sorted {
		parts[i] = formatPx(v)
	}
	return strings.Join(parts, ", ")
}
