package learning

import (
	"math"
	"sort"
)

const (
	// maxPreferredSpacings caps Preferences.Spacings.
	maxPreferredSpacings = 10
	// spacingBucket is the rounding step for accepted spacings.
	spacingBucket = 4.0
	// minBucketSamples is the number of activations a bucket needs before
	// contextual preferences are derived for it.
	minBucketSamples = 5
	// neutralScore is the prior for guide types without history.
	neutralScore = 0.5
)

// DefaultSpacings are the preferred spacings of a fresh system.
var DefaultSpacings = []float64{8, 16, 24, 32}

// ContextPreference is what was learned for one component-count bucket.
type ContextPreference struct {
	Sensitivity    float64     `json:"sensitivity"`
	PreferredTypes []GuideType `json:"preferred_types"`
	Samples        int         `json:"samples"`
}

// Preferences is the learned model. It is recomputed from the activation
// history, never appended to.
type Preferences struct {
	GuideTypeScores map[GuideType]float64        `json:"guide_type_scores"`
	Spacings        []float64                    `json:"spacings"`
	Tolerances      map[GuideType]float64        `json:"tolerances"`
	Contextual      map[Bucket]ContextPreference `json:"contextual"`
}

// DefaultPreferences returns the preferences of a system with no history.
func DefaultPreferences() Preferences {
	return Preferences{
		GuideTypeScores: make(map[GuideType]float64),
		Spacings:        append([]float64(nil), DefaultSpacings...),
		Tolerances:      make(map[GuideType]float64),
		Contextual:      make(map[Bucket]ContextPreference),
	}
}

// clone returns a deep copy.
func (p Preferences) clone() Preferences {
	out := Preferences{
		GuideTypeScores: make(map[GuideType]float64, len(p.GuideTypeScores)),
		Spacings:        append([]float64(nil), p.Spacings...),
		Tolerances:      make(map[GuideType]float64, len(p.Tolerances)),
		Contextual:      make(map[Bucket]ContextPreference, len(p.Contextual)),
	}
	for k, v := range p.GuideTypeScores {
		out.GuideTypeScores[k] = v
	}
	for k, v := range p.Tolerances {
		out.Tolerances[k] = v
	}
	for k, v := range p.Contextual {
		v.PreferredTypes = append([]GuideType(nil), v.PreferredTypes...)
		out.Contextual[k] = v
	}
	return out
}

// typeTally accumulates per guide type counts.
type typeTally struct {
	total    int
	accepted int
	score    float64
}

func tallyByType(history []Activation) map[GuideType]*typeTally {
	out := make(map[GuideType]*typeTally)
	for _, a := range history {
		t := out[a.GuideType]
		if t == nil {
			t = &typeTally{}
			out[a.GuideType] = t
		}
		t.total++
		t.score += a.Action.Score()
		if a.Action == Accepted {
			t.accepted++
		}
	}
	return out
}

// updateGuideTypeScores blends each observed type's mean event score into
// its prior with the learning rate, then decays every score.
func updateGuideTypeScores(p *Preferences, history []Activation, cfg Config) {
	tallies := tallyByType(history)
	for _, gt := range GuideTypes {
		t, ok := tallies[gt]
		if !ok {
			continue
		}
		rate := t.score / float64(t.total)
		cur, ok := p.GuideTypeScores[gt]
		if !ok {
			cur = neutralScore
		}
		p.GuideTypeScores[gt] = cur*(1-cfg.LearningRate) + rate*cfg.LearningRate
	}
	for gt, s := range p.GuideTypeScores {
		p.GuideTypeScores[gt] = clamp(s*cfg.Decay, 0, 1)
	}
}

// acceptedSpacing returns the spacing an accepted spacing activation stands
// for, rounded to the bucket step.
func acceptedSpacing(a Activation) float64 {
	s := a.Context.Spacing
	if !(s > 0) || math.IsInf(s, 0) {
		s = BucketFor(a.Context.ComponentCount).anchorSpacing()
	}
	return math.Round(s/spacingBucket) * spacingBucket
}

// spacingCounts returns accepted spacing buckets with their counts, most
// frequent first and ascending spacing on ties.
func spacingCounts(history []Activation) []SpacingFrequency {
	counts := make(map[float64]int)
	for _, a := range history {
		if a.GuideType != SpacingGuide || a.Action != Accepted {
			continue
		}
		if s := acceptedSpacing(a); s > 0 {
			counts[s]++
		}
	}
	out := make([]SpacingFrequency, 0, len(counts))
	for s, n := range counts {
		out = append(out, SpacingFrequency{Spacing: s, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Spacing < out[j].Spacing
	})
	return out
}

// updateSpacings keeps the previous list when nothing has been accepted yet.
func updateSpacings(p *Preferences, history []Activation) {
	counts := spacingCounts(history)
	if len(counts) == 0 {
		return
	}
	if len(counts) > maxPreferredSpacings {
		counts = counts[:maxPreferredSpacings]
	}
	spacings := make([]float64, len(counts))
	for i, c := range counts {
		spacings[i] = c.Spacing
	}
	p.Spacings = spacings
}

// updateTolerances sets base*clamp(2-acceptance, 0.5, 2) for every observed
// guide type.
func updateTolerances(p *Preferences, history []Activation, cfg Config) {
	for gt, t := range tallyByType(history) {
		rate := float64(t.accepted) / float64(t.total)
		p.Tolerances[gt] = cfg.BaseTolerance * clamp(2-rate, 0.5, 2)
	}
}

// updateContextual derives per bucket sensitivity and preferred types from
// buckets with enough samples. A type is preferred when the summed event
// score of its activations in the bucket exceeds 0.5. Activations on an
// empty canvas belong to no bucket.
func updateContextual(p *Preferences, history []Activation) {
	byBucket := make(map[Bucket][]Activation)
	for _, a := range history {
		if a.Context.ComponentCount < 1 {
			continue
		}
		b := BucketFor(a.Context.ComponentCount)
		byBucket[b] = append(byBucket[b], a)
	}
	for _, b := range Buckets {
		acts := byBucket[b]
		if len(acts) < minBucketSamples {
			continue
		}
		tallies := tallyByType(acts)
		var accepted int
		var preferred []GuideType
		for _, gt := range GuideTypes {
			t, ok := tallies[gt]
			if !ok {
				continue
			}
			accepted += t.accepted
			if t.score > 0.5 {
				preferred = append(preferred, gt)
			}
		}
		p.Contextual[b] = ContextPreference{
			Sensitivity:    clamp(float64(accepted)/float64(len(acts)), 0.1, 1),
			PreferredTypes: preferred,
			Samples:        len(acts),
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
