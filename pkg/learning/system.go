package learning

import (
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Config controls how the system learns.
type Config struct {
	Enabled        bool    `toml:"enabled" json:"enabled"`
	Capacity       int     `toml:"capacity" json:"capacity"`               // ring buffer size
	LearningRate   float64 `toml:"learning_rate" json:"learning_rate"`     // weight of new evidence, (0,1]
	MinActivations int     `toml:"min_activations" json:"min_activations"` // history length before preferences update
	Decay          float64 `toml:"decay" json:"decay"`                     // applied to every score on update, (0,1]
	BaseTolerance  float64 `toml:"base_tolerance" json:"base_tolerance"`   // px
}

// DefaultConfig returns the standard learning settings.
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		Capacity:       10000,
		LearningRate:   0.1,
		MinActivations: 10,
		Decay:          0.95,
		BaseTolerance:  5,
	}
}

func (c Config) sanitize() Config {
	def := DefaultConfig()
	if c.Capacity < 1 {
		c.Capacity = def.Capacity
	}
	if !(c.LearningRate > 0 && c.LearningRate <= 1) {
		c.LearningRate = def.LearningRate
	}
	if c.MinActivations < 0 {
		c.MinActivations = def.MinActivations
	}
	if !(c.Decay > 0 && c.Decay <= 1) {
		c.Decay = def.Decay
	}
	if !(c.BaseTolerance > 0) || c.BaseTolerance > 1e6 {
		c.BaseTolerance = def.BaseTolerance
	}
	return c
}

// Option configures a System.
type Option func(*System)

// WithLogger sets the logger. A nil logger keeps the default.
func WithLogger(l *log.Logger) Option {
	return func(s *System) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used to stamp activations.
func WithClock(now func() time.Time) Option {
	return func(s *System) {
		if now != nil {
			s.now = now
		}
	}
}

// System records activations and derives preferences from them.
type System struct {
	cfg      Config
	history  *ring[Activation]
	prefs    Preferences
	patterns Patterns
	logger   *log.Logger
	now      func() time.Time
}

// NewSystem creates an empty system. Out-of-range settings fall back to the
// defaults.
func NewSystem(cfg Config, opts ...Option) *System {
	cfg = cfg.sanitize()
	s := &System{
		cfg:      cfg,
		history:  newRing[Activation](cfg.Capacity),
		prefs:    DefaultPreferences(),
		patterns: analyzePatterns(nil),
		logger:   log.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the system's settings.
func (s *System) Config() Config { return s.cfg }

// SetEnabled turns preference updates on or off. Activations are recorded
// either way.
func (s *System) SetEnabled(v bool) { s.cfg.Enabled = v }

// Record appends a to the history, assigning an id and timestamp when they
// are unset. Activations with an unknown guide type or action are dropped.
// It reports whether preferences were recomputed.
func (s *System) Record(a Activation) bool {
	if !validActivation(a) {
		s.logger.Debug("dropping invalid activation", "guide_type", int(a.GuideType), "action", int(a.Action))
		return false
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = s.now()
	}
	a.Timestamp = a.Timestamp.UTC()
	a.Context.ComponentTypes = append([]string(nil), a.Context.ComponentTypes...)

	if s.history.push(a) {
		s.logger.Debug("activation history full, evicted oldest", "capacity", s.history.cap())
	}
	if !s.cfg.Enabled || s.history.len() < s.cfg.MinActivations {
		return false
	}
	s.UpdatePreferences()
	return true
}

func validActivation(a Activation) bool {
	return a.GuideType >= 0 && int(a.GuideType) < len(guideTypeNames) &&
		a.Action >= 0 && int(a.Action) < len(actionNames)
}

// UpdatePreferences recomputes preferences and patterns from the current
// history.
func (s *System) UpdatePreferences() {
	history := s.history.slice()
	updateGuideTypeScores(&s.prefs, history, s.cfg)
	updateSpacings(&s.prefs, history)
	updateTolerances(&s.prefs, history, s.cfg)
	updateContextual(&s.prefs, history)
	s.patterns = analyzePatterns(history)
	s.logger.Debug("preferences updated",
		"activations", len(history),
		"guide_types", len(s.prefs.GuideTypeScores),
		"spacings", len(s.prefs.Spacings))
}

// GuideSensitivity recommends how strongly to apply guides of type gt in
// ctx: the learned type score (0.5 when unknown) times the contextual
// sensitivity of ctx's bucket (1 when unknown), clamped to [0.1, 2].
func (s *System) GuideSensitivity(gt GuideType, ctx Context) float64 {
	base, ok := s.prefs.GuideTypeScores[gt]
	if !ok {
		base = neutralScore
	}
	contextual := 1.0
	if cp, ok := s.prefs.Contextual[BucketFor(ctx.ComponentCount)]; ok {
		contextual = cp.Sensitivity
	}
	return clamp(base*contextual, 0.1, 2)
}

// SpacingRecommendations returns the preferred spacings plus the typical
// spacing for ctx's component count, sorted and deduplicated.
func (s *System) SpacingRecommendations(ctx Context) []float64 {
	out := append([]float64(nil), s.prefs.Spacings...)
	out = append(out, BucketFor(ctx.ComponentCount).anchorSpacing())
	sort.Float64s(out)
	n := 0
	for i, v := range out {
		if i == 0 || v != out[n-1] {
			out[n] = v
			n++
		}
	}
	return out[:n]
}

// Tolerance returns the learned tolerance for gt in px.
func (s *System) Tolerance(gt GuideType) (float64, bool) {
	v, ok := s.prefs.Tolerances[gt]
	return v, ok
}

// ToleranceFactor is the learned tolerance for gt relative to the base
// tolerance, 1 when nothing was learned.
func (s *System) ToleranceFactor(gt GuideType) float64 {
	v, ok := s.prefs.Tolerances[gt]
	if !ok {
		return 1
	}
	return v / s.cfg.BaseTolerance
}

// Preferences returns a copy of the learned preferences.
func (s *System) Preferences() Preferences { return s.prefs.clone() }

// Patterns returns a copy of the derived behavior patterns.
func (s *System) Patterns() Patterns { return s.patterns.clone() }

// History returns the recorded activations, oldest first.
func (s *System) History() []Activation { return s.history.slice() }

// Len returns the number of recorded activations.
func (s *System) Len() int { return s.history.len() }

// Statistics summarizes the learning state.
type Statistics struct {
	TotalActivations  int     `json:"total_activations"`
	AcceptanceRate    float64 `json:"acceptance_rate"`
	RejectionRate     float64 `json:"rejection_rate"`
	LearnedGuideTypes int     `json:"learned_guide_types"`
	LearnedSpacings   int     `json:"learned_spacings"`
	WorkflowPatterns  int     `json:"workflow_patterns"`
}

// Statistics returns counts and rates over the current history.
func (s *System) Statistics() Statistics {
	st := Statistics{
		TotalActivations:  s.history.len(),
		LearnedGuideTypes: len(s.prefs.GuideTypeScores),
		LearnedSpacings:   len(s.prefs.Spacings),
		WorkflowPatterns:  len(s.patterns.Workflows),
	}
	if st.TotalActivations == 0 {
		return st
	}
	var accepted, rejected int
	s.history.each(func(_ int, a Activation) {
		switch a.Action {
		case Accepted:
			accepted++
		case Rejected:
			rejected++
		}
	})
	st.AcceptanceRate = float64(accepted) / float64(st.TotalActivations)
	st.RejectionRate = float64(rejected) / float64(st.TotalActivations)
	return st
}

// Reset clears the history and returns preferences to their defaults.
func (s *System) Reset() {
	s.history = newRing[Activation](s.cfg.Capacity)
	s.prefs = DefaultPreferences()
	s.patterns = analyzePatterns(nil)
	s.logger.Debug("learning state reset")
}
