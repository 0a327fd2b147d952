package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/snapline/pkg/geometry"
	"github.com/matzehuels/snapline/pkg/learning"
	"github.com/matzehuels/snapline/pkg/spacing"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Review Items
// =============================================================================

// reviewItem is one spacing inconsistency shown to the user, with the move
// that fixes it when the analysis proposed one.
type reviewItem struct {
	Inconsistency spacing.Inconsistency
	Suggestion    *spacing.Suggestion
}

// reviewItems pairs each inconsistency with the suggestion that moves its
// second component, consuming suggestions in order.
func reviewItems(a spacing.Analysis) []reviewItem {
	used := make([]bool, len(a.Suggestions))
	items := make([]reviewItem, 0, len(a.Inconsistencies))
	for _, inc := range a.Inconsistencies {
		item := reviewItem{Inconsistency: inc}
		for j := range a.Suggestions {
			if !used[j] && a.Suggestions[j].Component == inc.Components[1] {
				used[j] = true
				s := a.Suggestions[j]
				item.Suggestion = &s
				break
			}
		}
		items = append(items, item)
	}
	return items
}

// reviewDecision is the user's response to one item.
type reviewDecision struct {
	Item     reviewItem
	Action   learning.UserAction
	Duration time.Duration
}

// reviewKeys maps keys to the action they record.
var reviewKeys = map[string]learning.UserAction{
	"a": learning.Accepted,
	"m": learning.Modified,
	"i": learning.Ignored,
	"r": learning.Rejected,
}

// =============================================================================
// ReviewModel - Interactive spacing review
// =============================================================================

// ReviewModel is the bubbletea model that steps through spacing
// inconsistencies and collects a decision for each.
type ReviewModel struct {
	Items     []reviewItem
	Cursor    int
	Decisions []reviewDecision
	Quit      bool

	now   func() time.Time
	shown time.Time
}

// NewReviewModel creates a review model over items.
func NewReviewModel(items []reviewItem, now func() time.Time) ReviewModel {
	if now == nil {
		now = time.Now
	}
	return ReviewModel{Items: items, now: now, shown: now()}
}

// Done reports whether every item has a decision.
func (m ReviewModel) Done() bool {
	return m.Cursor >= len(m.Items)
}

func (m ReviewModel) Init() tea.Cmd {
	if m.Done() {
		return tea.Quit
	}
	return nil
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.Done() {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.Quit = true
		return m, tea.Quit
	}

	action, ok := reviewKeys[key.String()]
	if !ok {
		return m, nil
	}
	now := m.now()
	m.Decisions = append(m.Decisions, reviewDecision{
		Item:     m.Items[m.Cursor],
		Action:   action,
		Duration: now.Sub(m.shown),
	})
	m.Cursor++
	m.shown = now
	if m.Done() {
		return m, tea.Quit
	}
	return m, nil
}

func (m ReviewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Review Spacing"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("a accept  m modified  i ignore  r reject  q quit"))
	b.WriteString("\n\n")

	if m.Done() {
		b.WriteString(StyleSuccess.Render(fmt.Sprintf("Reviewed %d gap(s)", len(m.Decisions))))
		b.WriteString("\n")
		return b.String()
	}

	rows := make([][]string, len(m.Items))
	for i, item := range m.Items {
		inc := item.Inconsistency
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		fix := "-"
		if item.Suggestion != nil {
			fix = fmt.Sprintf("move %d to %s", item.Suggestion.Component, formatPos(item.Suggestion.SuggestedPosition))
		}
		decision := ""
		if i < len(m.Decisions) {
			decision = m.Decisions[i].Action.String()
		}
		rows[i] = []string{cursor, inc.Kind.String(), formatIDs(inc.Components[:]), formatPx(inc.Actual), formatPx(inc.Expected), fix, decision}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Axis", "Between", "Actual", "Expected", "Fix", "Decision").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleTableHeader
			case row == m.Cursor:
				return listSelectedStyle
			case row < m.Cursor:
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Items))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// activation converts a decision into a learning activation for a scene with
// the given context.
func (d reviewDecision) activation(base learning.Context, types []string) learning.Activation {
	ctx := base
	ctx.ActionDurationMs = d.Duration.Milliseconds()
	ctx.ComponentTypes = types
	if d.Action == learning.Accepted || d.Action == learning.Modified {
		ctx.Spacing = d.Item.Inconsistency.Expected
	}
	return learning.Activation{
		GuideType: learning.SpacingGuide,
		Action:    d.Action,
		Context:   ctx,
	}
}

// acceptedMoves collects the suggested positions of accepted decisions.
func acceptedMoves(decisions []reviewDecision) map[geometry.ComponentID]geometry.Position {
	moves := make(map[geometry.ComponentID]geometry.Position)
	for _, d := range decisions {
		if d.Action == learning.Accepted && d.Item.Suggestion != nil {
			moves[d.Item.Suggestion.Component] = d.Item.Suggestion.SuggestedPosition
		}
	}
	return moves
}
