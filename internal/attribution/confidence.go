package attribution

import "math"

// Confidence is advisory, never a validity gate: a score below the caller's
// threshold surfaces as a warning, not an error.
//
// The overall score is a fixed-weight average of four signals.
const (
	confidenceWeightDataQuality = 0.35
	confidenceWeightIdentity    = 0.30
	confidenceWeightModelFit    = 0.20
	confidenceWeightSampleSize  = 0.15

	// sampleSizeThreshold is the journey count at which the sample-size
	// factor saturates at 1.0.
	sampleSizeThreshold = 100

	// channelSampleThreshold is the per-channel journey count at which the
	// channel-level discount disappears.
	channelSampleThreshold = 10
)

// overallConfidence combines data quality, identity resolution confidence,
// model fit and a log-scaled sample-size factor.
func overallConfidence(quality DataQuality, identityConfidence, modelFit float64, journeyCount int) float64 {
	return clamp01(confidenceWeightDataQuality*quality.Overall() +
		confidenceWeightIdentity*identityConfidence +
		confidenceWeightModelFit*modelFit +
		confidenceWeightSampleSize*sampleSizeFactor(journeyCount, sampleSizeThreshold))
}

// sampleSizeFactor grows as min(1, log(n+1)/log(threshold+1)): small datasets
// cap confidence, and the factor saturates at the threshold.
func sampleSizeFactor(n, threshold int) float64 {
	if n <= 0 {
		return 0
	}
	factor := math.Log(float64(n)+1) / math.Log(float64(threshold)+1)
	return math.Min(1, factor)
}

// modelFitScore is a heuristic per-model certainty adjustment. First-touch,
// last-touch and linear make no parametric assumption, so their fit is fixed
// high. Time-decay and position-based parameters are unobservable when most
// journeys have a single touchpoint, so their fit shrinks with the share of
// length-1 journeys.
func modelFitScore(spec ModelSpec, journeys []Journey) float64 {
	switch spec.Kind {
	case ModelTimeDecay, ModelPositionBased:
		if len(journeys) == 0 {
			return 0.85
		}
		singles := 0
		for _, j := range journeys {
			if len(j.Touchpoints) == 1 {
				singles++
			}
		}
		singleShare := float64(singles) / float64(len(journeys))
		return 0.85 * (1 - 0.4*singleShare)
	default:
		return 0.9
	}
}

// channelConfidence discounts the overall score for channels backed by few
// journeys, with the same log scaling as the dataset-level factor.
func channelConfidence(overall float64, journeysWithChannel int) float64 {
	return clamp01(overall * sampleSizeFactor(journeysWithChannel, channelSampleThreshold))
}
