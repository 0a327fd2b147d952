package assist

import (
	"context"

	"github.com/matzehuels/snapline/pkg/learning"
	"github.com/matzehuels/snapline/pkg/observability"
)

// RecordActivation logs the user's response to a shown suggestion. It
// reports whether learned preferences were recomputed.
func (e *Engine) RecordActivation(ctx context.Context, a learning.Activation) bool {
	updated := e.learner.Record(a)
	if updated {
		observability.Engine().OnPreferencesUpdated(ctx, e.learner.Len())
	}
	return updated
}

// UpdatePreferences recomputes learned preferences from the current history.
func (e *Engine) UpdatePreferences(ctx context.Context) {
	e.learner.UpdatePreferences()
	observability.Engine().OnPreferencesUpdated(ctx, e.learner.Len())
}

// Recommendations are the learned hints for one editing context.
type Recommendations struct {
	Sensitivity map[learning.GuideType]float64 `json:"sensitivity"`
	Spacings    []float64                      `json:"spacings"`
}

// Recommendations returns per guide type sensitivities and the recommended
// spacings for c.
func (e *Engine) Recommendations(c learning.Context) Recommendations {
	r := Recommendations{
		Sensitivity: make(map[learning.GuideType]float64, len(learning.GuideTypes)),
		Spacings:    e.learner.SpacingRecommendations(c),
	}
	for _, gt := range learning.GuideTypes {
		r.Sensitivity[gt] = e.learner.GuideSensitivity(gt, c)
	}
	return r
}

// GuideSensitivity returns the learned sensitivity for gt in c.
func (e *Engine) GuideSensitivity(gt learning.GuideType, c learning.Context) float64 {
	return e.learner.GuideSensitivity(gt, c)
}

// SpacingRecommendations returns the recommended spacings for c.
func (e *Engine) SpacingRecommendations(c learning.Context) []float64 {
	return e.learner.SpacingRecommendations(c)
}

// Preferences returns a copy of the learned preferences.
func (e *Engine) Preferences() learning.Preferences { return e.learner.Preferences() }

// Patterns returns a copy of the derived behavior patterns.
func (e *Engine) Patterns() learning.Patterns { return e.learner.Patterns() }

// ExportLearningData serializes the learning state.
func (e *Engine) ExportLearningData() ([]byte, error) { return e.learner.Export() }

// ImportLearningData replaces the learning state with data. On error the
// state is unchanged.
func (e *Engine) ImportLearningData(ctx context.Context, data []byte) error {
	err := e.learner.Import(data)
	if err != nil {
		e.logger.Warn("learning data rejected", "err", err)
	}
	observability.Engine().OnImport(ctx, e.learner.Len(), err)
	return err
}

// ResetLearning discards all learned state.
func (e *Engine) ResetLearning() { e.learner.Reset() }
