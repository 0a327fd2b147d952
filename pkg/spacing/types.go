package spacing

import (
	"fmt"

	"github.com/matzehuels/snapline/pkg/geometry"
)

// Axis is the direction along which a gap is measured.
type Axis int

const (
	// Horizontal gaps separate components side by side.
	Horizontal Axis = iota
	// Vertical gaps separate stacked components.
	Vertical
)

var axisNames = [...]string{"horizontal", "vertical"}

func (a Axis) String() string {
	if int(a) < len(axisNames) {
		return axisNames[a]
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Axis) UnmarshalText(b []byte) error {
	for i, name := range axisNames {
		if string(b) == name {
			*a = Axis(i)
			return nil
		}
	}
	return fmt.Errorf("unknown axis %q", b)
}

// Guide is a measured gap between two components together with the
// spacing the engine suggests for it.
type Guide struct {
	Start      geometry.Position       `json:"start"`
	End        geometry.Position       `json:"end"`
	Suggested  float64                 `json:"suggested_distance"`
	Actual     float64                 `json:"actual_distance"`
	Components [2]geometry.ComponentID `json:"components"`
	Kind       Axis                    `json:"kind"`
	Confidence float64                 `json:"confidence"`
}

// Pattern is a row or column whose gaps are consistent.
type Pattern struct {
	Components     []geometry.ComponentID `json:"components"`
	AverageSpacing float64                `json:"average_spacing"`
	Kind           Axis                   `json:"kind"`
	Consistency    float64                `json:"consistency"`
}

// Inconsistency is a gap that deviates from its band's mean by more than the
// tolerance.
type Inconsistency struct {
	Components [2]geometry.ComponentID `json:"components"`
	Expected   float64                 `json:"expected_spacing"`
	Actual     float64                 `json:"actual_spacing"`
	Kind       Axis                    `json:"kind"`
	Severity   float64                 `json:"severity"`
}

// Improvement names the kind of fix a suggestion proposes.
type Improvement string

const ConsistentSpacing Improvement = "consistent_spacing"

// Suggestion proposes moving one component so that a gap matches its
// band's mean.
type Suggestion struct {
	Component         geometry.ComponentID `json:"component"`
	SuggestedPosition geometry.Position    `json:"suggested_position"`
	Improvement       Improvement          `json:"improvement"`
	Confidence        float64              `json:"confidence"`
}

// Analysis is the result of [Manager.Analyze].
type Analysis struct {
	Patterns        []Pattern       `json:"patterns"`
	Inconsistencies []Inconsistency `json:"inconsistencies"`
	Suggestions     []Suggestion    `json:"suggestions"`
}
