package attribution

import "fmt"

// Insight is a human-readable observation derived from a finished result.
type Insight struct {
	Type           string  `json:"insight_type"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	ImpactScore    float64 `json:"impact_score"`
	Recommendation string  `json:"recommendation,omitempty"`
}

// GenerateInsights derives business insights from an attribution result:
// the top performing channel and, when relevant, a data-completeness notice.
func GenerateInsights(result *Result) []Insight {
	var insights []Insight

	if channel, attribution, ok := topChannel(result.ChannelAttribution); ok {
		insights = append(insights, Insight{
			Type:  "performance",
			Title: "Top Performing Channel",
			Description: fmt.Sprintf("%s is your top performing channel with %.1f%% attribution credit.",
				channel, attribution.Credit*100),
			ImpactScore:    attribution.Confidence,
			Recommendation: fmt.Sprintf("Consider increasing investment in %s to maximize ROI.", channel),
		})
	}

	if completeness := result.Metadata.DataQuality.Completeness; completeness < 0.8 {
		insights = append(insights, Insight{
			Type:  "data_quality",
			Title: "Data Completeness Issue",
			Description: fmt.Sprintf("Data completeness is %.1f%%, below the recommended 80%%.",
				completeness*100),
			ImpactScore:    1.0 - completeness,
			Recommendation: "Improve data collection processes to capture more complete customer journey data.",
		})
	}

	return insights
}

// topChannel picks the highest-credit channel, breaking ties by name so the
// choice is deterministic.
func topChannel(attributions map[string]ChannelAttribution) (string, ChannelAttribution, bool) {
	var (
		best     string
		bestAttr ChannelAttribution
		found    bool
	)
	for channel, attr := range attributions {
		if !found || attr.Credit > bestAttr.Credit || (attr.Credit == bestAttr.Credit && channel < best) {
			best, bestAttr, found = channel, attr, true
		}
	}
	return best, bestAttr, found
}
