package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/snapline/pkg/align"
	"github.com/matzehuels/snapline/pkg/assist"
	"github.com/matzehuels/snapline/pkg/errors"
	"github.com/matzehuels/snapline/pkg/geometry"
	"github.com/matzehuels/snapline/pkg/scene"
)

// selectionOpts holds the flags shared by distribute and arrange.
type selectionOpts struct {
	ids    string
	output string
	json   bool
}

func (o *selectionOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.ids, "ids", "", "comma-separated component ids (required)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "write the scene with the proposed positions applied to this file")
	cmd.Flags().BoolVar(&o.json, "json", false, "print the result as JSON")
	cmd.MarkFlagRequired("ids")
}

// distributeCommand creates the distribute command.
func (c *CLI) distributeCommand() *cobra.Command {
	var opts selectionOpts

	cmd := &cobra.Command{
		Use:   "distribute <scene.json>",
		Short: "Propose positions that space a selection evenly",
		Long: `Distribute spaces three or more components evenly along the axis they
spread over most, keeping the first and last in place.`,
		Example: `  snapline distribute layout.json --ids 1,2,3
  snapline distribute layout.json --ids 1,2,3 -o spaced.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, ids, err := loadSelection(args[0], opts.ids)
			if err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			guides, positions := assist.New(cfg.Engine(), assist.WithLogger(c.Logger)).Distribute(sc, ids)

			if opts.json {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"guides": guides, "positions": positions})
			}
			if len(guides) == 0 {
				printWarning("Need at least 3 components to distribute")
				return nil
			}
			printSuccess("Uniform gap %s", StyleHighlight.Render(formatPx(guides[0].Suggested)))
			for _, g := range guides {
				printDetail("%s: %s %s %s", formatIDs(g.Components[:]), formatPx(g.Actual), iconArrow, formatPx(g.Suggested))
			}
			printPositions(sc, positions)
			return applyPositions(sc, positions, opts.output)
		},
	}

	opts.register(cmd)
	return cmd
}

// arrangeCommand creates the arrange command.
func (c *CLI) arrangeCommand() *cobra.Command {
	var (
		opts selectionOpts
		op   string
	)

	cmd := &cobra.Command{
		Use:   "arrange <scene.json>",
		Short: "Propose positions that align a selection",
		Long: `Arrange aligns the selected components by their left, right or top edges,
their bottom edges, or their shared horizontal or vertical center.`,
		Example: `  snapline arrange layout.json --ids 1,2 --op left
  snapline arrange layout.json --ids 1,2,3 --op center-v -o aligned.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			operation, err := align.ParseOperation(op)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "--op")
			}
			sc, ids, err := loadSelection(args[0], opts.ids)
			if err != nil {
				return err
			}
			positions := align.Arrange(sc, ids, operation)

			if opts.json {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"positions": positions})
			}
			if len(positions) == 0 {
				printWarning("None of the selected components are in the scene")
				return nil
			}
			printSuccess("Align %s", StyleHighlight.Render(operation.String()))
			printPositions(sc, positions)
			return applyPositions(sc, positions, opts.output)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&op, "op", "left", "left, right, center-h, top, bottom or center-v")
	return cmd
}

func loadSelection(path, idList string) (*scene.Scene, []geometry.ComponentID, error) {
	ids, err := parseIDs(idList)
	if err != nil {
		return nil, nil, err
	}
	sc, err := scene.ImportJSON(path)
	if err != nil {
		return nil, nil, err
	}
	return sc, ids, nil
}

func printPositions(sc *scene.Scene, positions map[geometry.ComponentID]geometry.Position) {
	ids := make([]geometry.ComponentID, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		from := sc.Positions()[id]
		printDetail("%d: %s %s %s", id, formatPos(from), iconArrow, formatPos(positions[id]))
	}
}

// applyPositions writes sc with positions applied when output is set.
func applyPositions(sc *scene.Scene, positions map[geometry.ComponentID]geometry.Position, output string) error {
	if output == "" {
		return nil
	}
	moved, err := sc.Move(positions)
	if err != nil {
		return err
	}
	if err := scene.ExportJSON(moved, output); err != nil {
		return err
	}
	printFile(output)
	return nil
}
