package learning

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/google/uuid"

	"github.com/matzehuels/snapline/pkg/errors"
)

// FormatVersion is the version written by Export.
const FormatVersion = 1

type document struct {
	Version           int          `json:"version"`
	ActivationHistory []Activation `json:"activation_history"`
	Preferences       Preferences  `json:"preferences"`
	Patterns          Patterns     `json:"patterns"`
}

// Export serializes the history, preferences and patterns as indented JSON.
func (s *System) Export() ([]byte, error) {
	doc := document{
		Version:           FormatVersion,
		ActivationHistory: s.history.slice(),
		Preferences:       s.prefs,
		Patterns:          s.patterns,
	}
	if doc.ActivationHistory == nil {
		doc.ActivationHistory = []Activation{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode learning data")
	}
	return data, nil
}

// Import replaces the learning state with an exported document. The state is
// left untouched when data cannot be decoded or fails validation. Only the
// newest entries that fit the capacity are kept, and patterns are rederived
// from the imported history.
func (s *System) Import(data []byte) error {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return errors.Wrap(errors.ErrCodeDecode, err, "decode learning data")
	}
	if dec.More() {
		return errors.New(errors.ErrCodeDecode, "decode learning data: trailing content")
	}
	if err := validateDocument(&doc); err != nil {
		return err
	}

	history := doc.ActivationHistory
	if len(history) > s.cfg.Capacity {
		history = history[len(history)-s.cfg.Capacity:]
	}
	r := newRing[Activation](s.cfg.Capacity)
	for _, a := range history {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		a.Timestamp = a.Timestamp.UTC()
		r.push(a)
	}

	s.history = r
	s.prefs = doc.Preferences.clone()
	s.patterns = analyzePatterns(r.slice())
	s.logger.Info("imported learning data", "activations", r.len(), "dropped", len(doc.ActivationHistory)-r.len())
	return nil
}

func validateDocument(doc *document) error {
	if doc.Version != FormatVersion {
		return errors.New(errors.ErrCodeDecode, "unsupported learning data version %d", doc.Version)
	}
	for i, a := range doc.ActivationHistory {
		if !validActivation(a) {
			return errors.New(errors.ErrCodeDecode, "activation %d: invalid guide type or action", i)
		}
		if a.Context.ComponentCount < 0 || !finite(a.Context.ZoomLevel) || !finite(a.Context.Spacing) {
			return errors.New(errors.ErrCodeDecode, "activation %d: invalid context", i)
		}
	}

	p := &doc.Preferences
	if p.GuideTypeScores == nil {
		p.GuideTypeScores = make(map[GuideType]float64)
	}
	if p.Tolerances == nil {
		p.Tolerances = make(map[GuideType]float64)
	}
	if p.Contextual == nil {
		p.Contextual = make(map[Bucket]ContextPreference)
	}
	if p.Spacings == nil {
		p.Spacings = append([]float64(nil), DefaultSpacings...)
	}
	for gt, v := range p.GuideTypeScores {
		if !finite(v) || v < 0 || v > 1 {
			return errors.New(errors.ErrCodeDecode, "score for %s out of range: %v", gt, v)
		}
	}
	for gt, v := range p.Tolerances {
		if !finite(v) || v <= 0 {
			return errors.New(errors.ErrCodeDecode, "tolerance for %s must be positive: %v", gt, v)
		}
	}
	if len(p.Spacings) > maxPreferredSpacings {
		return errors.New(errors.ErrCodeDecode, "too many preferred spacings: %d", len(p.Spacings))
	}
	for _, v := range p.Spacings {
		if !finite(v) || v <= 0 {
			return errors.New(errors.ErrCodeDecode, "preferred spacing must be positive: %v", v)
		}
	}
	for b, cp := range p.Contextual {
		if !finite(cp.Sensitivity) || cp.Sensitivity < 0 || cp.Sensitivity > 2 {
			return errors.New(errors.ErrCodeDecode, "sensitivity for bucket %s out of range: %v", b, cp.Sensitivity)
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
