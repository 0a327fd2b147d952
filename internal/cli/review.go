package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/snapline/pkg/errors"
	"github.com/matzehuels/snapline/pkg/learning"
	"github.com/matzehuels/snapline/pkg/scene"
)

// reviewCommand creates the interactive spacing review command.
func (c *CLI) reviewCommand() *cobra.Command {
	var output, answers string

	cmd := &cobra.Command{
		Use:   "review <scene.json>",
		Short: "Review spacing suggestions and train the learning profile",
		Long: `Review walks through every spacing inconsistency in a scene. Each
decision is recorded in the learning profile as a spacing guide
activation; accepted fixes are applied when --output is set.

--answers replays a key sequence instead of opening the interactive view,
one key per inconsistency: a accept, m modified, i ignore, r reject.`,
		Example: `  snapline review layout.json
  snapline review layout.json --output fixed.json
  snapline review layout.json --answers aari`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scene.ImportJSON(args[0])
			if err != nil {
				return err
			}

			ws, err := c.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			items := reviewItems(ws.engine.Analyze(sc))
			if len(items) == 0 {
				printSuccess("Spacing is consistent, nothing to review")
				return nil
			}

			model := NewReviewModel(items, nil)
			if answers != "" {
				model, err = replayAnswers(model, answers)
			} else {
				model, err = runReview(cmd.Context(), model)
			}
			if err != nil {
				return err
			}

			return c.applyReview(cmd.Context(), ws, sc, model, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the scene with accepted fixes applied")
	cmd.Flags().StringVar(&answers, "answers", "", "decide non-interactively from a key sequence")
	return cmd
}

// runReview runs the interactive view until every item is decided or the
// user quits.
func runReview(ctx context.Context, model ReviewModel) (ReviewModel, error) {
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return model, errors.Wrap(errors.ErrCodeInternal, err, "review")
	}
	return final.(ReviewModel), nil
}

// replayAnswers feeds keys to the model as if typed.
func replayAnswers(model ReviewModel, answers string) (ReviewModel, error) {
	for _, r := range strings.ReplaceAll(answers, ",", "") {
		key := string(r)
		if _, ok := reviewKeys[key]; !ok && key != "q" {
			return model, errors.New(errors.ErrCodeInvalidInput, "unknown answer %q, want one of a, m, i, r, q", key)
		}
		next, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		model = next.(ReviewModel)
		if model.Quit || model.Done() {
			break
		}
	}
	return model, nil
}

// applyReview records the decisions, saves the profile and writes the fixed
// scene.
func (c *CLI) applyReview(ctx context.Context, ws *workspace, sc *scene.Scene, model ReviewModel, output string) error {
	if len(model.Decisions) == 0 {
		printInfo("No decisions recorded")
		return nil
	}

	base := learning.Context{ComponentCount: sc.Len(), CanvasSize: sc.CanvasSize()}
	updated := false
	counts := make(map[learning.UserAction]int)
	for _, d := range model.Decisions {
		inc := d.Item.Inconsistency
		if ws.engine.RecordActivation(ctx, d.activation(base, sc.Types(inc.Components[:]...))) {
			updated = true
		}
		counts[d.Action]++
	}
	if err := ws.save(ctx); err != nil {
		return err
	}

	printSuccess("Recorded %d decision(s) in profile %s", len(model.Decisions), ws.name)
	printDetail("%d accepted, %d modified, %d ignored, %d rejected",
		counts[learning.Accepted], counts[learning.Modified], counts[learning.Ignored], counts[learning.Rejected])
	if updated {
		printDetail("preferences updated")
	}
	if model.Quit {
		printInfo("Stopped after %d of %d", len(model.Decisions), len(model.Items))
	}

	moves := acceptedMoves(model.Decisions)
	if len(moves) == 0 {
		return nil
	}
	if output == "" {
		printNextStep(fmt.Sprintf("Apply %d accepted fix(es)", len(moves)), appName+" review <scene.json> --output fixed.json")
		return nil
	}
	return applyPositions(sc, moves, output)
}
