package learning

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/snapline/pkg/geometry"
)

// GuideType is the kind of assistance an activation refers to.
type GuideType int

const (
	AlignmentGuide GuideType = iota
	SpacingGuide
	MagnetismZone
	GridSnap
)

// GuideTypes lists every guide type in canonical order.
var GuideTypes = []GuideType{AlignmentGuide, SpacingGuide, MagnetismZone, GridSnap}

var guideTypeNames = [...]string{"alignment_guide", "spacing_guide", "magnetism_zone", "grid_snap"}

func (t GuideType) String() string {
	if t >= 0 && int(t) < len(guideTypeNames) {
		return guideTypeNames[t]
	}
	return fmt.Sprintf("GuideType(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t GuideType) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(guideTypeNames) {
		return nil, fmt.Errorf("invalid guide type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *GuideType) UnmarshalText(b []byte) error {
	v, err := ParseGuideType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseGuideType converts a name such as "spacing_guide" to a GuideType.
func ParseGuideType(s string) (GuideType, error) {
	for i, name := range guideTypeNames {
		if s == name {
			return GuideType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown guide type %q", s)
}

// UserAction is how the user responded to a shown suggestion.
type UserAction int

const (
	Accepted UserAction = iota
	Ignored
	Rejected
	Modified
)

var actionNames = [...]string{"accepted", "ignored", "rejected", "modified"}

func (a UserAction) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("UserAction(%d)", int(a))
}

// MarshalText implements encoding.TextMarshaler.
func (a UserAction) MarshalText() ([]byte, error) {
	if a < 0 || int(a) >= len(actionNames) {
		return nil, fmt.Errorf("invalid user action %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *UserAction) UnmarshalText(b []byte) error {
	v, err := ParseUserAction(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseUserAction converts a name such as "accepted" to a UserAction.
func ParseUserAction(s string) (UserAction, error) {
	for i, name := range actionNames {
		if s == name {
			return UserAction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown user action %q", s)
}

// Score is the credit an action gives the guide that prompted it.
func (a UserAction) Score() float64 {
	switch a {
	case Accepted:
		return 1.0
	case Modified:
		return 0.7
	case Ignored:
		return 0.1
	default:
		return 0
	}
}

// Context describes the editing situation an activation happened in.
type Context struct {
	ComponentCount   int           `json:"component_count"`
	CanvasSize       geometry.Size `json:"canvas_size"`
	ZoomLevel        float64       `json:"zoom_level"`
	ActionDurationMs int64         `json:"action_duration_ms"`
	ComponentTypes   []string      `json:"component_types,omitempty"`
	// Spacing is the gap in px the user accepted, when known. Zero falls
	// back to a typical spacing for the component count.
	Spacing float64 `json:"spacing,omitempty"`
}

// Activation is one recorded instance of assistance being shown plus the
// user's response.
type Activation struct {
	ID        uuid.UUID  `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	GuideType GuideType  `json:"guide_type"`
	Action    UserAction `json:"user_action"`
	Context   Context    `json:"context"`
}

// Bucket is a component-count range used to segment preferences.
type Bucket int

const (
	BucketSmall  Bucket = iota // 1-3 components
	BucketMedium               // 4-8
	BucketLarge                // 9-15
	BucketHuge                 // 16+
)

// Buckets lists every bucket in ascending order.
var Buckets = []Bucket{BucketSmall, BucketMedium, BucketLarge, BucketHuge}

var bucketNames = [...]string{"1-3", "4-8", "9-15", "16+"}

// BucketFor returns the bucket used to look up preferences for a component
// count. Counts below 1 look up the smallest bucket, but activations with
// such counts are never aggregated into one.
func BucketFor(count int) Bucket {
	switch {
	case count <= 3:
		return BucketSmall
	case count <= 8:
		return BucketMedium
	case count <= 15:
		return BucketLarge
	default:
		return BucketHuge
	}
}

func (b Bucket) String() string {
	if b >= 0 && int(b) < len(bucketNames) {
		return bucketNames[b]
	}
	return fmt.Sprintf("Bucket(%d)", int(b))
}

// MarshalText implements encoding.TextMarshaler.
func (b Bucket) MarshalText() ([]byte, error) {
	if b < 0 || int(b) >= len(bucketNames) {
		return nil, fmt.Errorf("invalid bucket %d", int(b))
	}
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Bucket) UnmarshalText(text []byte) error {
	for i, name := range bucketNames {
		if string(text) == name {
			*b = Bucket(i)
			return nil
		}
	}
	return fmt.Errorf("unknown bucket %q", text)
}

// anchorSpacing is the typical spacing for a bucket.
func (b Bucket) anchorSpacing() float64 {
	switch b {
	case BucketSmall:
		return 16
	case BucketMedium:
		return 24
	default:
		return 32
	}
}
