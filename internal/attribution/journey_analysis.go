package attribution

import (
	"sort"
	"strings"
)

// PathStat is one observed conversion path with its frequency.
type PathStat struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// TimeToConversion summarizes how long converting journeys took from first
// touch to conversion.
type TimeToConversion struct {
	AverageHours float64 `json:"average_hours"`
	MedianHours  float64 `json:"median_hours"`
}

// JourneyAnalysis is the reporting extension attached to a result: length
// distribution, top conversion paths and time-to-conversion stats.
type JourneyAnalysis struct {
	AverageLength      float64           `json:"average_length"`
	MedianLength       float64           `json:"median_length"`
	LengthDistribution map[string]int    `json:"length_distribution"`
	TopConversionPaths []PathStat        `json:"top_conversion_paths"`
	TimeToConversion   *TimeToConversion `json:"time_to_conversion,omitempty"`
}

const topPathLimit = 5

// AnalyzeJourneys derives journey statistics from one resolved journey set.
// Returns nil when there are no journeys to analyze.
func AnalyzeJourneys(journeys []Journey) *JourneyAnalysis {
	if len(journeys) == 0 {
		return nil
	}

	lengths := make([]int, len(journeys))
	distribution := map[string]int{
		"1_touchpoint":        0,
		"2_touchpoints":       0,
		"3_5_touchpoints":     0,
		"6_10_touchpoints":    0,
		"11_plus_touchpoints": 0,
	}
	totalLength := 0
	for i, journey := range journeys {
		n := len(journey.Touchpoints)
		lengths[i] = n
		totalLength += n
		switch {
		case n == 1:
			distribution["1_touchpoint"]++
		case n == 2:
			distribution["2_touchpoints"]++
		case n <= 5:
			distribution["3_5_touchpoints"]++
		case n <= 10:
			distribution["6_10_touchpoints"]++
		default:
			distribution["11_plus_touchpoints"]++
		}
	}

	sort.Ints(lengths)

	return &JourneyAnalysis{
		AverageLength:      float64(totalLength) / float64(len(journeys)),
		MedianLength:       medianOfSortedInts(lengths),
		LengthDistribution: distribution,
		TopConversionPaths: topConversionPaths(journeys),
		TimeToConversion:   timeToConversion(journeys),
	}
}

func topConversionPaths(journeys []Journey) []PathStat {
	counts := make(map[string]int)
	for _, journey := range journeys {
		if !journey.Converted {
			continue
		}
		channels := make([]string, len(journey.Touchpoints))
		for i, tp := range journey.Touchpoints {
			channels[i] = tp.Channel
		}
		counts[strings.Join(channels, " -> ")]++
	}

	paths := make([]PathStat, 0, len(counts))
	for path, count := range counts {
		paths = append(paths, PathStat{Path: path, Count: count})
	}
	sort.Slice(paths, func(i, j int) bool {
		if paths[i].Count != paths[j].Count {
			return paths[i].Count > paths[j].Count
		}
		return paths[i].Path < paths[j].Path
	})
	if len(paths) > topPathLimit {
		paths = paths[:topPathLimit]
	}
	return paths
}

// timeToConversion measures first touch to the conversion anchor of each
// converting journey. Returns nil when nothing converted.
func timeToConversion(journeys []Journey) *TimeToConversion {
	var hours []float64
	for _, journey := range journeys {
		if !journey.Converted {
			continue
		}
		anchorIdx := len(journey.Touchpoints) - 1
		for i := anchorIdx; i >= 0; i-- {
			if journey.Touchpoints[i].EventType.IsConversion() {
				anchorIdx = i
				break
			}
		}
		elapsed := journey.Touchpoints[anchorIdx].Timestamp.Sub(journey.Touchpoints[0].Timestamp)
		hours = append(hours, elapsed.Hours())
	}
	if len(hours) == 0 {
		return nil
	}

	sort.Float64s(hours)
	total := 0.0
	for _, h := range hours {
		total += h
	}
	return &TimeToConversion{
		AverageHours: total / float64(len(hours)),
		MedianHours:  medianOfSortedFloats(hours),
	}
}

func medianOfSortedInts(sorted []int) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}

func medianOfSortedFloats(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
