package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/snapline/pkg/assist"
	"github.com/matzehuels/snapline/pkg/geometry"
	"github.com/matzehuels/snapline/pkg/scene"
)

// evaluateOpts holds the flags of the evaluate command.
type evaluateOpts struct {
	x, y          float64
	drag          uint64
	width, height float64
	selection     string
	json          bool
}

// evaluateCommand creates the evaluate command for one drag frame.
func (c *CLI) evaluateCommand() *cobra.Command {
	var opts evaluateOpts

	cmd := &cobra.Command{
		Use:   "evaluate <scene.json>",
		Short: "Evaluate guides, snapping and spacing for a drag position",
		Long: `Evaluate computes what the engine would show while a component is dragged
to (x, y): active alignment guides, the magnetic snap target, spacing hints
and the resolved snap position. The learning profile adapts the result.`,
		Example: `  snapline evaluate layout.json --drag 2 --x 52 --y 0
  snapline evaluate layout.json --x 120 --y 40 --width 80 --height 24 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scene.ImportJSON(args[0])
			if err != nil {
				return err
			}
			req, err := opts.request()
			if err != nil {
				return err
			}

			ws, err := c.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			res := ws.engine.Evaluate(cmd.Context(), sc, req)
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			printEvaluation(req, res)
			return nil
		},
	}

	cmd.Flags().Float64Var(&opts.x, "x", 0, "proposed left edge of the dragged component")
	cmd.Flags().Float64Var(&opts.y, "y", 0, "proposed top edge of the dragged component")
	cmd.Flags().Uint64Var(&opts.drag, "drag", 0, "id of the component being dragged")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "width of the dragged component (default: from the scene)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "height of the dragged component (default: from the scene)")
	cmd.Flags().StringVar(&opts.selection, "select", "", "comma-separated selected ids (3+ adds distribution guides)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.MarkFlagRequired("x")
	cmd.MarkFlagRequired("y")

	return cmd
}

func (o evaluateOpts) request() (assist.Request, error) {
	req := assist.Request{
		Point: geometry.Pt(o.x, o.y),
		Size:  geometry.Size{W: o.width, H: o.height},
	}
	if o.drag != 0 {
		id := geometry.ComponentID(o.drag)
		req.Dragging = &id
	}
	sel, err := parseIDs(o.selection)
	if err != nil {
		return assist.Request{}, err
	}
	req.Selection = sel
	return req, nil
}

func printEvaluation(req assist.Request, res assist.Result) {
	if res.SnapPosition != nil {
		printSuccess("Snap %s %s %s", formatPos(req.Point), iconArrow, StyleHighlight.Render(formatPos(*res.SnapPosition)))
	} else {
		printInfo("No snap at %s", formatPos(req.Point))
	}
	if res.Snap != nil {
		printDetail("magnet: %s zone, strength %.2f, target %s", res.Snap.Zone.Kind, res.MagnetismStrength, formatPos(res.Snap.Target))
	}

	if len(res.ActiveGuides) > 0 {
		rows := make([][]string, len(res.ActiveGuides))
		for i, g := range res.ActiveGuides {
			rows[i] = []string{g.Direction.String(), formatPx(g.Position), g.Kind.String(), fmt.Sprintf("%.2f", g.Strength), formatIDs(g.Sources)}
		}
		printTable([]string{"Guide", "Position", "Kind", "Strength", "Sources"}, rows)
	}

	if len(res.SpacingSuggestions) > 0 {
		rows := make([][]string, len(res.SpacingSuggestions))
		for i, g := range res.SpacingSuggestions {
			rows[i] = []string{g.Kind.String(), formatIDs(g.Components[:]), formatPx(g.Actual), formatPx(g.Suggested), fmt.Sprintf("%.2f", g.Confidence)}
		}
		printTable([]string{"Spacing", "Between", "Actual", "Suggested", "Confidence"}, rows)
	}

	for _, g := range res.Distribution {
		printDetail("distribute %s: %s %s %s", formatIDs(g.Components[:]), formatPx(g.Actual), iconArrow, formatPx(g.Suggested))
	}
}
