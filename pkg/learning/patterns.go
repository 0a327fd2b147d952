package learning

import (
	"sort"

	"github.com/montanaflynn/stats"
)

const (
	// workflowLength is the n-gram size of guide-type sequences.
	workflowLength = 5
	// minWorkflowCount is how often a sequence must occur to be reported.
	minWorkflowCount = 2
	// minHourSamples is the number of activations an hour needs to take part
	// in productivity windows.
	minHourSamples = 3
	// productivityLift is how far above the average acceptance rate an hour
	// must be to count as productive.
	productivityLift = 1.2
)

// SpacingFrequency is an accepted spacing bucket.
type SpacingFrequency struct {
	Spacing   float64 `json:"spacing"`
	Count     int     `json:"count"`
	Frequency float64 `json:"frequency"` // share of all accepted spacings
}

// Workflow is a recurring sequence of guide types.
type Workflow struct {
	Sequence          []GuideType `json:"sequence"`
	Count             int         `json:"count"`
	Frequency         float64     `json:"frequency"`    // share of all observed sequences
	SuccessRate       float64     `json:"success_rate"` // accepted or modified share within occurrences
	AverageDurationMs float64     `json:"average_duration_ms"`
}

// ProductivityWindow is a run of consecutive hours with above-average
// acceptance.
type ProductivityWindow struct {
	StartHour         int     `json:"start_hour"`
	EndHour           int     `json:"end_hour"`
	AcceptanceRate    float64 `json:"acceptance_rate"`
	AverageDurationMs float64 `json:"average_duration_ms"`
}

// Usage summarizes when assistance is used.
type Usage struct {
	Hourly  map[int]float64      `json:"hourly"` // UTC hour -> share of activations
	Windows []ProductivityWindow `json:"productivity_windows"`
}

// Arrangement summarizes the layouts assistance is used in.
type Arrangement struct {
	Layouts        map[string]float64 `json:"layouts"`         // layout size -> share
	ComponentTypes map[string]float64 `json:"component_types"` // type name -> share
}

// Patterns are behavior summaries derived from the activation history.
type Patterns struct {
	CommonSpacings []SpacingFrequency `json:"common_spacings"`
	Workflows      []Workflow         `json:"workflows"`
	Usage          Usage              `json:"usage"`
	Arrangement    Arrangement        `json:"arrangement"`
}

func (p Patterns) clone() Patterns {
	out := Patterns{
		CommonSpacings: append([]SpacingFrequency(nil), p.CommonSpacings...),
		Usage: Usage{
			Hourly:  make(map[int]float64, len(p.Usage.Hourly)),
			Windows: append([]ProductivityWindow(nil), p.Usage.Windows...),
		},
		Arrangement: Arrangement{
			Layouts:        make(map[string]float64, len(p.Arrangement.Layouts)),
			ComponentTypes: make(map[string]float64, len(p.Arrangement.ComponentTypes)),
		},
	}
	for _, w := range p.Workflows {
		w.Sequence = append([]GuideType(nil), w.Sequence...)
		out.Workflows = append(out.Workflows, w)
	}
	for k, v := range p.Usage.Hourly {
		out.Usage.Hourly[k] = v
	}
	for k, v := range p.Arrangement.Layouts {
		out.Arrangement.Layouts[k] = v
	}
	for k, v := range p.Arrangement.ComponentTypes {
		out.Arrangement.ComponentTypes[k] = v
	}
	return out
}

func analyzePatterns(history []Activation) Patterns {
	return Patterns{
		CommonSpacings: commonSpacings(history),
		Workflows:      workflows(history),
		Usage:          usage(history),
		Arrangement:    arrangement(history),
	}
}

func commonSpacings(history []Activation) []SpacingFrequency {
	counts := spacingCounts(history)
	var total int
	for _, c := range counts {
		total += c.Count
	}
	for i := range counts {
		counts[i].Frequency = float64(counts[i].Count) / float64(total)
	}
	return counts
}

type sequence [workflowLength]GuideType

type sequenceTally struct {
	count     int
	successes int
	durations []float64
}

func workflows(history []Activation) []Workflow {
	if len(history) < workflowLength {
		return nil
	}
	tallies := make(map[sequence]*sequenceTally)
	windows := len(history) - workflowLength + 1
	for i := 0; i < windows; i++ {
		var seq sequence
		var dur float64
		var ok int
		for j := 0; j < workflowLength; j++ {
			a := history[i+j]
			seq[j] = a.GuideType
			dur += float64(a.Context.ActionDurationMs)
			if a.Action == Accepted || a.Action == Modified {
				ok++
			}
		}
		t := tallies[seq]
		if t == nil {
			t = &sequenceTally{}
			tallies[seq] = t
		}
		t.count++
		t.successes += ok
		t.durations = append(t.durations, dur)
	}

	var out []Workflow
	for seq, t := range tallies {
		if t.count < minWorkflowCount {
			continue
		}
		mean, _ := stats.Mean(t.durations)
		out = append(out, Workflow{
			Sequence:          append([]GuideType(nil), seq[:]...),
			Count:             t.count,
			Frequency:         float64(t.count) / float64(windows),
			SuccessRate:       float64(t.successes) / float64(t.count*workflowLength),
			AverageDurationMs: mean,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return lessSequence(out[i].Sequence, out[j].Sequence)
	})
	return out
}

func lessSequence(a, b []GuideType) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

type hourTally struct {
	total     int
	accepted  int
	durations []float64
}

func usage(history []Activation) Usage {
	u := Usage{Hourly: make(map[int]float64)}
	if len(history) == 0 {
		return u
	}
	var hours [24]hourTally
	for _, a := range history {
		h := &hours[a.Timestamp.UTC().Hour()]
		h.total++
		if a.Action == Accepted {
			h.accepted++
		}
		h.durations = append(h.durations, float64(a.Context.ActionDurationMs))
	}
	for hour, h := range hours {
		if h.total > 0 {
			u.Hourly[hour] = float64(h.total) / float64(len(history))
		}
	}

	var rates []float64
	for _, h := range hours {
		if h.total >= minHourSamples {
			rates = append(rates, float64(h.accepted)/float64(h.total))
		}
	}
	avg, err := stats.Mean(rates)
	if err != nil {
		return u
	}

	var cur *ProductivityWindow
	var curRates, curDurations []float64
	closeWindow := func() {
		if cur == nil {
			return
		}
		cur.AcceptanceRate, _ = stats.Mean(curRates)
		cur.AverageDurationMs, _ = stats.Mean(curDurations)
		u.Windows = append(u.Windows, *cur)
		cur, curRates, curDurations = nil, nil, nil
	}
	for hour, h := range hours {
		if h.total < minHourSamples {
			closeWindow()
			continue
		}
		rate := float64(h.accepted) / float64(h.total)
		if rate <= avg*productivityLift {
			closeWindow()
			continue
		}
		if cur == nil {
			cur = &ProductivityWindow{StartHour: hour}
		}
		cur.EndHour = hour
		curRates = append(curRates, rate)
		curDurations = append(curDurations, h.durations...)
	}
	closeWindow()
	return u
}

// layoutSize names the layout size class for a component count.
func layoutSize(count int) string {
	switch {
	case count <= 2:
		return "simple"
	case count <= 5:
		return "medium"
	case count <= 10:
		return "complex"
	default:
		return "large"
	}
}

func arrangement(history []Activation) Arrangement {
	a := Arrangement{Layouts: make(map[string]float64), ComponentTypes: make(map[string]float64)}
	if len(history) == 0 {
		return a
	}
	var typeTotal int
	for _, act := range history {
		a.Layouts[layoutSize(act.Context.ComponentCount)]++
		for _, t := range act.Context.ComponentTypes {
			a.ComponentTypes[t]++
			typeTotal++
		}
	}
	for k, v := range a.Layouts {
		a.Layouts[k] = v / float64(len(history))
	}
	for k, v := range a.ComponentTypes {
		a.ComponentTypes[k] = v / float64(typeTotal)
	}
	return a
}
