package attribution

import "math"

// ModelKind selects one of the five attribution models. The set is closed:
// adding a model means extending the switch in Credits, not registering a
// plugin.
type ModelKind string

const (
	ModelFirstTouch    ModelKind = "first_touch"
	ModelLastTouch     ModelKind = "last_touch"
	ModelLinear        ModelKind = "linear"
	ModelTimeDecay     ModelKind = "time_decay"
	ModelPositionBased ModelKind = "position_based"
)

const (
	// DefaultHalfLifeDays is the time-decay half-life applied when the
	// caller does not supply one.
	DefaultHalfLifeDays = 7.0

	// DefaultFirstTouchWeight and DefaultLastTouchWeight are the
	// position-based endpoint weights applied when the caller does not
	// supply them.
	DefaultFirstTouchWeight = 0.4
	DefaultLastTouchWeight  = 0.4
)

// ModelSpec is an attribution model selection plus its parameters. Zero
// parameter values are replaced by the model defaults during Normalize.
type ModelSpec struct {
	Kind             ModelKind
	HalfLifeDays     float64
	FirstTouchWeight float64
	LastTouchWeight  float64

	// positionWeightsSet distinguishes explicit zero weights from unset
	// ones. Constructed via WithPositionWeights.
	positionWeightsSet bool
}

// NewModelSpec returns a spec for kind with default parameters.
func NewModelSpec(kind ModelKind) ModelSpec {
	return ModelSpec{Kind: kind}.Normalize()
}

// WithHalfLife returns a copy of the spec with the time-decay half-life set.
func (m ModelSpec) WithHalfLife(days float64) ModelSpec {
	m.HalfLifeDays = days
	return m
}

// WithPositionWeights returns a copy of the spec with explicit position-based
// endpoint weights.
func (m ModelSpec) WithPositionWeights(first, last float64) ModelSpec {
	m.FirstTouchWeight = first
	m.LastTouchWeight = last
	m.positionWeightsSet = true
	return m
}

// Normalize fills unset parameters with the documented defaults.
func (m ModelSpec) Normalize() ModelSpec {
	if m.HalfLifeDays == 0 {
		m.HalfLifeDays = DefaultHalfLifeDays
	}
	if !m.positionWeightsSet && m.FirstTouchWeight == 0 && m.LastTouchWeight == 0 {
		m.FirstTouchWeight = DefaultFirstTouchWeight
		m.LastTouchWeight = DefaultLastTouchWeight
	}
	return m
}

// Validate checks the spec before any journey is processed.
func (m ModelSpec) Validate() error {
	switch m.Kind {
	case ModelFirstTouch, ModelLastTouch, ModelLinear:
	case ModelTimeDecay:
		if m.HalfLifeDays <= 0 {
			return &InvalidParameterError{Parameter: "half_life_days", Reason: "must be greater than zero"}
		}
	case ModelPositionBased:
		if m.FirstTouchWeight < 0 || m.FirstTouchWeight > 1 {
			return &InvalidParameterError{Parameter: "first_touch_weight", Reason: "must be in [0, 1]"}
		}
		if m.LastTouchWeight < 0 || m.LastTouchWeight > 1 {
			return &InvalidParameterError{Parameter: "last_touch_weight", Reason: "must be in [0, 1]"}
		}
		if m.FirstTouchWeight+m.LastTouchWeight > 1 {
			return &InvalidParameterError{Parameter: "first_touch_weight", Reason: "first and last touch weights must not sum above 1.0"}
		}
		if m.FirstTouchWeight+m.LastTouchWeight == 0 {
			return &InvalidParameterError{Parameter: "first_touch_weight", Reason: "first and last touch weights must not both be zero"}
		}
	default:
		return &InvalidParameterError{Parameter: "model", Reason: "unknown attribution model " + string(m.Kind)}
	}
	return nil
}

// Credits computes the per-channel credit split for one journey. Credits over
// the journey's distinct channels sum to 1.0; a single-touchpoint journey
// yields 1.0 for its channel. The journey must be non-empty (resolver
// invariant).
func (m ModelSpec) Credits(journey Journey) map[string]float64 {
	switch m.Kind {
	case ModelFirstTouch:
		return firstTouchCredits(journey)
	case ModelLastTouch:
		return lastTouchCredits(journey)
	case ModelLinear:
		return linearCredits(journey)
	case ModelTimeDecay:
		return timeDecayCredits(journey, m.HalfLifeDays)
	case ModelPositionBased:
		return positionBasedCredits(journey, m.FirstTouchWeight, m.LastTouchWeight)
	}
	return nil
}

func firstTouchCredits(journey Journey) map[string]float64 {
	return map[string]float64{journey.Touchpoints[0].Channel: 1.0}
}

func lastTouchCredits(journey Journey) map[string]float64 {
	last := journey.Touchpoints[len(journey.Touchpoints)-1]
	return map[string]float64{last.Channel: 1.0}
}

func linearCredits(journey Journey) map[string]float64 {
	credits := make(map[string]float64, len(journey.Touchpoints))
	share := 1.0 / float64(len(journey.Touchpoints))
	for _, tp := range journey.Touchpoints {
		credits[tp.Channel] += share
	}
	return credits
}

// timeDecayCredits weights each touchpoint by 2^(-ageDays/halfLife) relative
// to the journey's terminal touchpoint, then normalizes. The terminal
// touchpoint always carries the largest individual weight.
func timeDecayCredits(journey Journey, halfLifeDays float64) map[string]float64 {
	terminal := journey.Touchpoints[len(journey.Touchpoints)-1].Timestamp

	weights := make([]float64, len(journey.Touchpoints))
	total := 0.0
	for i, tp := range journey.Touchpoints {
		ageDays := terminal.Sub(tp.Timestamp).Hours() / 24
		if ageDays < 0 {
			ageDays = 0
		}
		w := math.Exp2(-ageDays / halfLifeDays)
		weights[i] = w
		total += w
	}

	credits := make(map[string]float64)
	for i, tp := range journey.Touchpoints {
		credits[tp.Channel] += weights[i] / total
	}
	return credits
}

// positionBasedCredits assigns wFirst to the first touchpoint, wLast to the
// last, and splits the remainder across strictly-middle touchpoints. With no
// middle touchpoints the endpoint weights are renormalized proportionally so
// credits still sum to 1.0.
func positionBasedCredits(journey Journey, wFirst, wLast float64) map[string]float64 {
	credits := make(map[string]float64)
	n := len(journey.Touchpoints)

	switch {
	case n == 1:
		credits[journey.Touchpoints[0].Channel] = 1.0
	case n == 2:
		scale := wFirst + wLast
		credits[journey.Touchpoints[0].Channel] += wFirst / scale
		credits[journey.Touchpoints[1].Channel] += wLast / scale
	default:
		credits[journey.Touchpoints[0].Channel] += wFirst
		credits[journey.Touchpoints[n-1].Channel] += wLast
		middle := (1.0 - wFirst - wLast) / float64(n-2)
		for _, tp := range journey.Touchpoints[1 : n-1] {
			credits[tp.Channel] += middle
		}
	}
	return credits
}
