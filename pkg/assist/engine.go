package assist

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/snapline/pkg/align"
	"github.com/matzehuels/snapline/pkg/geometry"
	"github.com/matzehuels/snapline/pkg/learning"
	"github.com/matzehuels/snapline/pkg/magnet"
	"github.com/matzehuels/snapline/pkg/observability"
	"github.com/matzehuels/snapline/pkg/spacing"
)

const (
	// magnetOverride is the magnet strength above which a snap wins outright.
	magnetOverride = 0.5
	// guideOverride is the guide strength above which a guide fixes its axis.
	guideOverride = 0.7
	// neutralSensitivity is the learned sensitivity of a fresh system.
	neutralSensitivity = 0.5
)

// Config bundles the settings of every manager.
type Config struct {
	Alignment align.Config    `toml:"alignment" json:"alignment"`
	Magnetism magnet.Config   `toml:"magnetism" json:"magnetism"`
	Spacing   spacing.Config  `toml:"spacing" json:"spacing"`
	Learning  learning.Config `toml:"learning" json:"learning"`

	// Adaptive applies learned sensitivity and tolerance to evaluations.
	Adaptive bool `toml:"adaptive" json:"adaptive"`
}

// DefaultConfig returns the standard engine settings.
func DefaultConfig() Config {
	return Config{
		Alignment: align.DefaultConfig(),
		Magnetism: magnet.DefaultConfig(),
		Spacing:   spacing.DefaultConfig(),
		Learning:  learning.DefaultConfig(),
		Adaptive:  true,
	}
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	logger *log.Logger
	clock  func() time.Time
}

// WithLogger sets the logger used by the engine and its learner.
func WithLogger(l *log.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// WithClock overrides the time source used to stamp activations.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) { o.clock = now }
}

// Engine is the layout assistance coordinator.
type Engine struct {
	cfg     Config
	align   *align.Manager
	magnet  *magnet.Manager
	spacing *spacing.Manager
	learner *learning.System
	logger  *log.Logger

	// spacingTolerance is the configured tolerance before learned scaling.
	spacingTolerance float64
}

// New creates an engine from cfg.
func New(cfg Config, opts ...Option) *Engine {
	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Default()
	}

	e := &Engine{
		cfg:     cfg,
		align:   align.NewManager(cfg.Alignment),
		magnet:  magnet.NewManager(cfg.Magnetism),
		spacing: spacing.NewManager(cfg.Spacing),
		learner: learning.NewSystem(cfg.Learning, learning.WithLogger(o.logger), learning.WithClock(o.clock)),
		logger:  o.logger,
	}
	e.spacingTolerance = e.spacing.Config().Tolerance
	e.syncConfig()
	return e
}

// syncConfig refreshes cfg from the sanitized manager settings.
func (e *Engine) syncConfig() {
	e.cfg.Alignment = e.align.Config()
	e.cfg.Magnetism = e.magnet.Config()
	e.cfg.Spacing = e.spacing.Config()
	e.cfg.Spacing.Tolerance = e.spacingTolerance
	e.cfg.Learning = e.learner.Config()
}

// Config returns the engine's current settings.
func (e *Engine) Config() Config { return e.cfg }

// Request is the input of one evaluation.
type Request struct {
	// Dragging identifies the component being moved. It is excluded from
	// guide and zone generation.
	Dragging *geometry.ComponentID `json:"dragging,omitempty"`
	// Size of the dragged component. When zero and Dragging is set, the
	// size is read from the geometry.
	Size geometry.Size `json:"size"`
	// Point is the dragged component's proposed top-left corner.
	Point geometry.Position `json:"point"`
	// Selection holds the currently selected components.
	Selection []geometry.ComponentID `json:"selection,omitempty"`
}

// Result is the outcome of one evaluation.
type Result struct {
	// SnapPosition is where the dragged component should go, or nil to keep
	// the raw point.
	SnapPosition       *geometry.Position `json:"snap_position,omitempty"`
	ActiveGuides       []align.Guide      `json:"active_guides"`
	SpacingSuggestions []spacing.Guide    `json:"spacing_suggestions"`
	// MagnetismStrength is the winning zone's influence, 0 when no zone
	// contains the point.
	MagnetismStrength float64         `json:"magnetism_strength"`
	Snap              *magnet.Snap    `json:"snap,omitempty"`
	Distribution      []spacing.Guide `json:"distribution,omitempty"`
}

// Evaluate computes guides, snapping and spacing suggestions for one frame.
// It never fails; degenerate input yields an empty result.
func (e *Engine) Evaluate(ctx context.Context, idx geometry.Index, req Request) Result {
	start := time.Now()
	res := Result{ActiveGuides: []align.Guide{}, SpacingSuggestions: []spacing.Guide{}}

	size := req.Size
	if size == (geometry.Size{}) && req.Dragging != nil {
		if r, ok := geometry.Lookup(idx, *req.Dragging); ok {
			size = r.Size
		}
	}

	e.align.Generate(idx, req.Dragging)
	if active := e.align.ActiveGuides(req.Point, e.align.Config().Threshold); len(active) > 0 {
		res.ActiveGuides = active
	}

	lctx := learning.Context{ComponentCount: len(geometry.Entries(idx))}
	if c, ok := geometry.CanvasSize(idx); ok {
		lctx.CanvasSize = c
	}
	scale := 1.0
	if e.cfg.Adaptive {
		scale = e.learner.GuideSensitivity(learning.MagnetismZone, lctx) / neutralSensitivity
		e.spacing.SetTolerance(e.spacingTolerance * e.learner.ToleranceFactor(learning.SpacingGuide))
	}
	snap, snapped := e.magnet.ComputeSnapScaled(idx, req.Dragging, size, req.Point, scale)
	if snapped {
		res.Snap = &snap
		res.MagnetismStrength = snap.Strength
	}

	if req.Point.IsFinite() && size.IsValid() {
		if s := e.spacing.SuggestRect(idx, req.Dragging, geometry.RectOf(req.Point, size)); len(s) > 0 {
			res.SpacingSuggestions = s
		}
	}
	if len(req.Selection) >= 3 {
		res.Distribution = e.spacing.DistributeEvenly(idx, req.Selection)
	}

	res.SnapPosition = resolve(req.Point, snap, snapped, res.ActiveGuides)

	d := time.Since(start)
	e.logger.Debug("evaluated frame",
		"guides", len(res.ActiveGuides),
		"spacing", len(res.SpacingSuggestions),
		"magnetism", res.MagnetismStrength,
		"snapped", res.SnapPosition != nil,
		"took", d)
	observability.Engine().OnEvaluate(ctx, len(res.ActiveGuides), res.SnapPosition != nil, d)
	return res
}

// resolve applies the conflict rules: a strong magnet wins outright,
// otherwise the strongest qualifying guide fixes each axis independently.
// active must be sorted strongest first.
func resolve(p geometry.Position, snap magnet.Snap, snapped bool, active []align.Guide) *geometry.Position {
	if snapped && snap.Strength > magnetOverride {
		t := snap.Target
		return &t
	}
	if !p.IsFinite() {
		return nil
	}
	out, fixedX, fixedY := p, false, false
	for _, g := range active {
		if g.Strength <= guideOverride {
			break
		}
		switch {
		case g.Direction == align.Vertical && !fixedX:
			out.X, fixedX = g.Position, true
		case g.Direction == align.Horizontal && !fixedY:
			out.Y, fixedY = g.Position, true
		}
	}
	if !fixedX && !fixedY {
		return nil
	}
	return &out
}

// Settings are the tuning knobs a host exposes to users.
type Settings struct {
	GuidesEnabled      bool    `json:"guides_enabled"`
	MagnetismEnabled   bool    `json:"magnetism_enabled"`
	MagnetismStrength  float64 `json:"magnetism_strength"`
	AlignmentThreshold float64 `json:"alignment_threshold"`
}

// Settings returns the current tuning knobs.
func (e *Engine) Settings() Settings {
	return Settings{
		GuidesEnabled:      e.cfg.Alignment.Enabled,
		MagnetismEnabled:   e.cfg.Magnetism.Enabled,
		MagnetismStrength:  e.cfg.Magnetism.Strength,
		AlignmentThreshold: e.cfg.Alignment.Threshold,
	}
}

// Configure applies s. Guides toggle both alignment and spacing guides. The
// magnet strength is clamped to [0,2] and a negative threshold to zero.
func (e *Engine) Configure(s Settings) {
	e.align.SetEnabled(s.GuidesEnabled)
	e.spacing.SetEnabled(s.GuidesEnabled)
	e.magnet.SetEnabled(s.MagnetismEnabled)
	e.magnet.SetStrength(s.MagnetismStrength)
	e.align.SetThreshold(s.AlignmentThreshold)
	e.syncConfig()
	e.logger.Debug("settings changed",
		"guides", s.GuidesEnabled,
		"magnetism", s.MagnetismEnabled,
		"strength", e.cfg.Magnetism.Strength,
		"threshold", e.cfg.Alignment.Threshold)
}

// Analyze reports spacing patterns and inconsistencies across idx.
func (e *Engine) Analyze(idx geometry.Index) spacing.Analysis {
	return e.spacing.Analyze(idx)
}

// Distribute returns the even-distribution guides for ids and the positions
// that realise them.
func (e *Engine) Distribute(idx geometry.Index, ids []geometry.ComponentID) ([]spacing.Guide, map[geometry.ComponentID]geometry.Position) {
	return e.spacing.DistributeEvenly(idx, ids), e.spacing.DistributionTargets(idx, ids)
}

// Arrange proposes positions aligning ids according to op.
func (e *Engine) Arrange(idx geometry.Index, ids []geometry.ComponentID, op align.Operation) map[geometry.ComponentID]geometry.Position {
	return align.Arrange(idx, ids, op)
}

// Guides returns the guides of the last evaluation with their active flags.
func (e *Engine) Guides() []align.Guide { return e.align.Guides() }

// Zones returns the magnet zones for dragging a component of the given size
// near p.
func (e *Engine) Zones(idx geometry.Index, dragging *geometry.ComponentID, size geometry.Size, p geometry.Position) []magnet.Zone {
	return e.magnet.Zones(idx, dragging, size, p)
}

// Statistics summarizes learning plus the guides and zones of the last
// evaluation.
type Statistics struct {
	learning.Statistics
	Guides align.Statistics  `json:"guides"`
	Zones  magnet.Statistics `json:"zones"`
}

// Statistics returns the current statistics.
func (e *Engine) Statistics() Statistics {
	return Statistics{
		Statistics: e.learner.Statistics(),
		Guides:     e.align.Statistics(),
		Zones:      e.magnet.Statistics(),
	}
}
