package attribution

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}

func testJourney(t *testing.T, touches ...Touchpoint) Journey {
	t.Helper()
	journey, ok := buildJourney("test", touches, 365)
	require.True(t, ok)
	return journey
}

func touch(t *testing.T, ts, channel string, eventType EventType) Touchpoint {
	t.Helper()
	return Touchpoint{Timestamp: mustTime(t, ts), Channel: channel, EventType: eventType}
}

func allModelSpecs() []ModelSpec {
	return []ModelSpec{
		NewModelSpec(ModelFirstTouch),
		NewModelSpec(ModelLastTouch),
		NewModelSpec(ModelLinear),
		NewModelSpec(ModelTimeDecay),
		NewModelSpec(ModelPositionBased),
	}
}

func TestCredits_SumToOne(t *testing.T) {
	journey := testJourney(t,
		touch(t, "2025-06-01T10:00:00Z", "paid_search", EventClick),
		touch(t, "2025-06-03T10:00:00Z", "email", EventClick),
		touch(t, "2025-06-05T10:00:00Z", "social", EventImpression),
		touch(t, "2025-06-08T10:00:00Z", "email", EventClick),
		touch(t, "2025-06-10T10:00:00Z", "direct", EventConversion),
	)

	for _, spec := range allModelSpecs() {
		credits := spec.Credits(journey)
		sum := 0.0
		for _, credit := range credits {
			sum += credit
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "model %s", spec.Kind)
	}
}

func TestCredits_SingleTouchpoint(t *testing.T) {
	journey := testJourney(t, touch(t, "2025-06-01T10:00:00Z", "email", EventConversion))

	for _, spec := range allModelSpecs() {
		credits := spec.Credits(journey)
		require.Len(t, credits, 1, "model %s", spec.Kind)
		assert.InDelta(t, 1.0, credits["email"], 1e-9, "model %s", spec.Kind)
	}
}

func TestFirstTouch_AllCreditToFirstChannel(t *testing.T) {
	journey := testJourney(t,
		touch(t, "2025-06-01T10:00:00Z", "social", EventImpression),
		touch(t, "2025-06-02T10:00:00Z", "email", EventConversion),
	)

	credits := NewModelSpec(ModelFirstTouch).Credits(journey)

	assert.InDelta(t, 1.0, credits["social"], 1e-9)
	assert.Zero(t, credits["email"])
}

func TestLastTouch_AllCreditToLastChannel(t *testing.T) {
	journey := testJourney(t,
		touch(t, "2025-06-01T10:00:00Z", "social", EventImpression),
		touch(t, "2025-06-02T10:00:00Z", "email", EventConversion),
	)

	credits := NewModelSpec(ModelLastTouch).Credits(journey)

	assert.InDelta(t, 1.0, credits["email"], 1e-9)
	assert.Zero(t, credits["social"])
}

func TestLinear_CreditProportionalToOccurrences(t *testing.T) {
	journey := testJourney(t,
		touch(t, "2025-06-01T10:00:00Z", "email", EventClick),
		touch(t, "2025-06-02T10:00:00Z", "social", EventImpression),
		touch(t, "2025-06-03T10:00:00Z", "email", EventClick),
		touch(t, "2025-06-04T10:00:00Z", "direct", EventConversion),
	)

	credits := NewModelSpec(ModelLinear).Credits(journey)

	assert.InDelta(t, 0.5, credits["email"], 1e-9)
	assert.InDelta(t, 0.25, credits["social"], 1e-9)
	assert.InDelta(t, 0.25, credits["direct"], 1e-9)
}

func TestTimeDecay_TerminalChannelDominates(t *testing.T) {
	journey := testJourney(t,
		touch(t, "2025-06-01T10:00:00Z", "social", EventImpression),
		touch(t, "2025-06-05T10:00:00Z", "email", EventClick),
		touch(t, "2025-06-10T10:00:00Z", "direct", EventConversion),
	)

	for _, halfLife := range []float64{0.5, 7, 30} {
		spec := NewModelSpec(ModelTimeDecay).WithHalfLife(halfLife)
		credits := spec.Credits(journey)
		assert.GreaterOrEqual(t, credits["direct"], credits["email"], "half-life %v", halfLife)
		assert.GreaterOrEqual(t, credits["email"], credits["social"], "half-life %v", halfLife)
	}
}

func TestTimeDecay_HalfLifeMath(t *testing.T) {
	// One half-life apart: raw weights 0.5 and 1.0.
	journey := testJourney(t,
		touch(t, "2025-06-01T10:00:00Z", "social", EventClick),
		touch(t, "2025-06-08T10:00:00Z", "direct", EventConversion),
	)

	credits := NewModelSpec(ModelTimeDecay).WithHalfLife(7).Credits(journey)

	assert.InDelta(t, 1.0/3.0, credits["social"], 1e-9)
	assert.InDelta(t, 2.0/3.0, credits["direct"], 1e-9)
}

func TestPositionBased_DefaultWeightsFourTouchpoints(t *testing.T) {
	journey := testJourney(t,
		touch(t, "2025-06-01T10:00:00Z", "social", EventImpression),
		touch(t, "2025-06-02T10:00:00Z", "email", EventClick),
		touch(t, "2025-06-03T10:00:00Z", "paid_search", EventClick),
		touch(t, "2025-06-04T10:00:00Z", "direct", EventConversion),
	)

	credits := NewModelSpec(ModelPositionBased).Credits(journey)

	assert.InDelta(t, 0.4, credits["social"], 1e-9)
	assert.InDelta(t, 0.1, credits["email"], 1e-9)
	assert.InDelta(t, 0.1, credits["paid_search"], 1e-9)
	assert.InDelta(t, 0.4, credits["direct"], 1e-9)
}

func TestPositionBased_TwoTouchpointsRenormalized(t *testing.T) {
	journey := testJourney(t,
		touch(t, "2025-06-01T10:00:00Z", "social", EventClick),
		touch(t, "2025-06-02T10:00:00Z", "direct", EventConversion),
	)

	// Endpoint weights are rescaled proportionally when there is no middle
	// touchpoint to hold the remainder.
	credits := NewModelSpec(ModelPositionBased).WithPositionWeights(0.5, 0.3).Credits(journey)
	assert.InDelta(t, 0.625, credits["social"], 1e-9)
	assert.InDelta(t, 0.375, credits["direct"], 1e-9)

	defaults := NewModelSpec(ModelPositionBased).Credits(journey)
	assert.InDelta(t, 0.5, defaults["social"], 1e-9)
	assert.InDelta(t, 0.5, defaults["direct"], 1e-9)
}

func TestModelSpec_ValidateRejectsBadParameters(t *testing.T) {
	cases := []struct {
		name string
		spec ModelSpec
	}{
		{"non-positive half-life", NewModelSpec(ModelTimeDecay).WithHalfLife(-1)},
		{"first weight above one", NewModelSpec(ModelPositionBased).WithPositionWeights(1.2, 0.1)},
		{"negative last weight", NewModelSpec(ModelPositionBased).WithPositionWeights(0.4, -0.1)},
		{"weights sum above one", NewModelSpec(ModelPositionBased).WithPositionWeights(0.7, 0.6)},
		{"both weights zero", NewModelSpec(ModelPositionBased).WithPositionWeights(0, 0)},
		{"unknown model", ModelSpec{Kind: "median_touch"}.Normalize()},
	}

	for _, tc := range cases {
		err := tc.spec.Validate()
		require.Error(t, err, tc.name)
		var invalid *InvalidParameterError
		assert.True(t, errors.As(err, &invalid), tc.name)
	}
}

func TestNewModelSpec_AppliesDefaults(t *testing.T) {
	decay := NewModelSpec(ModelTimeDecay)
	assert.Equal(t, DefaultHalfLifeDays, decay.HalfLifeDays)
	assert.NoError(t, decay.Validate())

	position := NewModelSpec(ModelPositionBased)
	assert.Equal(t, DefaultFirstTouchWeight, position.FirstTouchWeight)
	assert.Equal(t, DefaultLastTouchWeight, position.LastTouchWeight)
	assert.NoError(t, position.Validate())
}
