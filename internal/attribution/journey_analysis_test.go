package attribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeJourneys_Empty(t *testing.T) {
	assert.Nil(t, AnalyzeJourneys(nil))
}

func TestAnalyzeJourneys_LengthDistribution(t *testing.T) {
	journeyOfLength := func(n int) Journey {
		touches := make([]Touchpoint, n)
		for i := range touches {
			touches[i] = Touchpoint{Timestamp: mustTime(t, "2025-06-01T10:00:00Z"), Channel: "email"}
		}
		return Journey{Touchpoints: touches}
	}

	analysis := AnalyzeJourneys([]Journey{
		journeyOfLength(1), journeyOfLength(1),
		journeyOfLength(2),
		journeyOfLength(4),
		journeyOfLength(7),
		journeyOfLength(12),
	})

	require.NotNil(t, analysis)
	assert.Equal(t, 2, analysis.LengthDistribution["1_touchpoint"])
	assert.Equal(t, 1, analysis.LengthDistribution["2_touchpoints"])
	assert.Equal(t, 1, analysis.LengthDistribution["3_5_touchpoints"])
	assert.Equal(t, 1, analysis.LengthDistribution["6_10_touchpoints"])
	assert.Equal(t, 1, analysis.LengthDistribution["11_plus_touchpoints"])
	assert.InDelta(t, 27.0/6.0, analysis.AverageLength, 1e-9)
	assert.InDelta(t, 3.0, analysis.MedianLength, 1e-9)
}

func TestAnalyzeJourneys_TopConversionPaths(t *testing.T) {
	path := func(converted bool, channels ...string) Journey {
		touches := make([]Touchpoint, len(channels))
		for i, channel := range channels {
			eventType := EventClick
			if converted && i == len(channels)-1 {
				eventType = EventConversion
			}
			touches[i] = Touchpoint{
				Timestamp: mustTime(t, "2025-06-01T10:00:00Z"),
				Channel:   channel,
				EventType: eventType,
			}
		}
		return Journey{Touchpoints: touches, Converted: converted}
	}

	analysis := AnalyzeJourneys([]Journey{
		path(true, "social", "email", "direct"),
		path(true, "social", "email", "direct"),
		path(true, "paid_search", "direct"),
		path(false, "social", "social", "social"),
	})

	require.NotNil(t, analysis)
	require.Len(t, analysis.TopConversionPaths, 2)
	assert.Equal(t, "social -> email -> direct", analysis.TopConversionPaths[0].Path)
	assert.Equal(t, 2, analysis.TopConversionPaths[0].Count)
	assert.Equal(t, "paid_search -> direct", analysis.TopConversionPaths[1].Path)
}

func TestAnalyzeJourneys_TimeToConversion(t *testing.T) {
	journey := Journey{
		Converted: true,
		Touchpoints: []Touchpoint{
			{Timestamp: mustTime(t, "2025-06-01T10:00:00Z"), Channel: "social", EventType: EventClick},
			{Timestamp: mustTime(t, "2025-06-02T10:00:00Z"), Channel: "direct", EventType: EventConversion},
		},
	}

	analysis := AnalyzeJourneys([]Journey{journey})

	require.NotNil(t, analysis)
	require.NotNil(t, analysis.TimeToConversion)
	assert.InDelta(t, 24.0, analysis.TimeToConversion.AverageHours, 1e-9)
	assert.InDelta(t, 24.0, analysis.TimeToConversion.MedianHours, 1e-9)

	noConversions := AnalyzeJourneys([]Journey{{Touchpoints: journey.Touchpoints[:1]}})
	require.NotNil(t, noConversions)
	assert.Nil(t, noConversions.TimeToConversion)
}

func TestGenerateInsights_TopChannelAndCompleteness(t *testing.T) {
	result := &Result{
		ChannelAttribution: map[string]ChannelAttribution{
			"email":  {Credit: 0.6, Confidence: 0.8},
			"social": {Credit: 0.4, Confidence: 0.7},
		},
		Metadata: Metadata{DataQuality: DataQuality{Completeness: 0.5, Consistency: 1, Freshness: 1}},
	}

	insights := GenerateInsights(result)

	require.Len(t, insights, 2)
	assert.Equal(t, "performance", insights[0].Type)
	assert.Contains(t, insights[0].Description, "email")
	assert.Equal(t, "data_quality", insights[1].Type)
	assert.InDelta(t, 0.5, insights[1].ImpactScore, 1e-9)
}

func TestGenerateInsights_EmptyResult(t *testing.T) {
	result := &Result{
		ChannelAttribution: map[string]ChannelAttribution{},
		Metadata:           Metadata{DataQuality: DataQuality{Completeness: 1}},
	}

	assert.Empty(t, GenerateInsights(result))
}
