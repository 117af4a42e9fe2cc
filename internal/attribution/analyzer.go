package attribution

import (
	"fmt"
	"runtime"
	"sync"
	"time"
)

const (
	// DefaultAttributionWindowDays is the look-back window applied when the
	// caller does not supply one.
	DefaultAttributionWindowDays = 30

	// DefaultConfidenceThreshold is the advisory confidence floor below
	// which a warning is attached to the result.
	DefaultConfidenceThreshold = 0.7

	// DefaultFreshnessHorizonDays is the age at which data freshness
	// reaches zero.
	DefaultFreshnessHorizonDays = 90

	maxAttributionWindowDays = 365
)

// Options configures one analysis run. Zero values fall back to the
// documented defaults.
type Options struct {
	Model                 ModelSpec
	LinkingMethod         LinkingMethod
	AttributionWindowDays int
	ConfidenceThreshold   float64
	FreshnessHorizonDays  float64

	// Now anchors the freshness computation; the zero value means the wall
	// clock. Tests pin it for reproducible results.
	Now time.Time

	// Workers bounds the per-journey model evaluation fan-out. Zero means
	// GOMAXPROCS.
	Workers int
}

func (o Options) normalize() Options {
	o.Model = o.Model.Normalize()
	if o.LinkingMethod == "" {
		o.LinkingMethod = LinkAuto
	}
	if o.AttributionWindowDays == 0 {
		o.AttributionWindowDays = DefaultAttributionWindowDays
	}
	if o.ConfidenceThreshold == 0 {
		o.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if o.FreshnessHorizonDays == 0 {
		o.FreshnessHorizonDays = DefaultFreshnessHorizonDays
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

func (o Options) validate() error {
	if err := o.Model.Validate(); err != nil {
		return err
	}
	if o.AttributionWindowDays < 1 || o.AttributionWindowDays > maxAttributionWindowDays {
		return &InvalidParameterError{
			Parameter: "attribution_window_days",
			Reason:    fmt.Sprintf("must be in [1, %d]", maxAttributionWindowDays),
		}
	}
	if o.ConfidenceThreshold < 0 || o.ConfidenceThreshold > 1 {
		return &InvalidParameterError{Parameter: "confidence_threshold", Reason: "must be in [0, 1]"}
	}
	return nil
}

// ChannelAttribution is the aggregated credit for one channel across the
// whole dataset.
type ChannelAttribution struct {
	Credit      float64 `json:"credit"`
	Conversions int     `json:"conversions"`
	Revenue     float64 `json:"revenue"`
	Confidence  float64 `json:"confidence"`
}

// Summary covers all resolved journeys, converting or not.
type Summary struct {
	TotalConversions      int     `json:"total_conversions"`
	TotalRevenue          float64 `json:"total_revenue"`
	AverageJourneyLength  float64 `json:"average_journey_length"`
	UniqueCustomers       int     `json:"unique_customers"`
	AttributionWindowDays int     `json:"attribution_window_days"`
}

// Metadata describes how the result was produced and how much to trust it.
type Metadata struct {
	LinkingMethod   LinkingMethod `json:"linking_method"`
	ModelUsed       ModelKind     `json:"model_used"`
	ConfidenceScore float64       `json:"confidence_score"`
	DataQuality     DataQuality   `json:"data_quality"`
	Warnings        []string      `json:"warnings"`
}

// Result is the complete output of one analysis. It is either fully
// populated or not returned at all.
type Result struct {
	ChannelAttribution map[string]ChannelAttribution `json:"channel_attribution"`
	Summary            Summary                       `json:"summary"`
	JourneyAnalysis    *JourneyAnalysis              `json:"journey_analysis,omitempty"`
	Metadata           Metadata                      `json:"metadata"`
}

// Analyze runs the full pipeline over one table: sanitize, resolve
// identities, evaluate the selected model per converting journey, aggregate
// per-channel credit/conversions/revenue and attach confidence metadata.
//
// A dataset with zero converting journeys is a valid outcome: the result
// carries an empty channel map, not an error. Each call is pure with respect
// to process state; concurrent calls are safe.
func Analyze(table Table, opts Options) (*Result, error) {
	opts = opts.normalize()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(table.Records) == 0 {
		return nil, &InsufficientDataError{Reason: "input table is empty"}
	}

	var warnings []string

	clean := sanitizeTable(table)
	if clean.Dropped > 0 {
		warnings = append(warnings, fmt.Sprintf("%d malformed records were dropped", clean.Dropped))
	}
	if len(clean.Touchpoints) == 0 {
		return nil, &InsufficientDataError{Reason: "no valid touchpoint records after validation"}
	}

	resolution, err := ResolveIdentities(clean.Touchpoints, opts.LinkingMethod, opts.AttributionWindowDays)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, resolution.Warnings...)

	converting := make([]Journey, 0, len(resolution.Journeys))
	for _, journey := range resolution.Journeys {
		if journey.Converted {
			converting = append(converting, journey)
		}
	}

	quality := assessDataQuality(table, clean, opts.Now, opts.FreshnessHorizonDays)
	fit := modelFitScore(opts.Model, resolution.Journeys)
	confidence := overallConfidence(quality, resolution.Confidence, fit, len(resolution.Journeys))
	if confidence < opts.ConfidenceThreshold {
		warnings = append(warnings, fmt.Sprintf(
			"confidence score %.2f is below the %.2f threshold; treat results as indicative", confidence, opts.ConfidenceThreshold))
	}
	if len(converting) == 0 {
		warnings = append(warnings, "no converting journeys found; channel attribution is empty")
	}

	attributions := aggregateChannels(converting, opts, confidence)

	result := &Result{
		ChannelAttribution: attributions,
		Summary:            buildSummary(resolution.Journeys, converting, opts.AttributionWindowDays),
		JourneyAnalysis:    AnalyzeJourneys(resolution.Journeys),
		Metadata: Metadata{
			LinkingMethod:   resolution.Method,
			ModelUsed:       opts.Model.Kind,
			ConfidenceScore: confidence,
			DataQuality:     quality,
			Warnings:        warnings,
		},
	}
	return result, nil
}

// aggregateChannels evaluates the model per journey, fanning the evaluations
// out across a bounded worker pool, then folds per-channel totals in journey
// order so the accumulation is deterministic.
func aggregateChannels(converting []Journey, opts Options, confidence float64) map[string]ChannelAttribution {
	if len(converting) == 0 {
		return map[string]ChannelAttribution{}
	}

	perJourney := make([]map[string]float64, len(converting))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(converting) {
		workers = len(converting)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			for i := start; i < len(converting); i += workers {
				perJourney[i] = opts.Model.Credits(converting[i])
			}
		}(w)
	}
	wg.Wait()

	type accumulator struct {
		credit      float64
		revenue     float64
		conversions int
	}
	totals := make(map[string]*accumulator)
	appearances := make(map[string]int)

	for i, journey := range converting {
		for channel, credit := range perJourney[i] {
			acc, ok := totals[channel]
			if !ok {
				acc = &accumulator{}
				totals[channel] = acc
			}
			acc.credit += credit
			acc.revenue += credit * journey.TotalRevenue
			if credit > 0 {
				acc.conversions++
			}
		}
		for _, channel := range journey.Channels() {
			appearances[channel]++
		}
	}

	attributions := make(map[string]ChannelAttribution, len(totals))
	journeyCount := float64(len(converting))
	for channel, acc := range totals {
		attributions[channel] = ChannelAttribution{
			Credit:      acc.credit / journeyCount,
			Conversions: acc.conversions,
			Revenue:     acc.revenue,
			Confidence:  channelConfidence(confidence, appearances[channel]),
		}
	}
	return attributions
}

func buildSummary(all, converting []Journey, windowDays int) Summary {
	summary := Summary{
		TotalConversions:      len(converting),
		UniqueCustomers:       len(all),
		AttributionWindowDays: windowDays,
	}
	for _, journey := range converting {
		summary.TotalRevenue += journey.TotalRevenue
	}
	if len(all) > 0 {
		touchpoints := 0
		for _, journey := range all {
			touchpoints += len(journey.Touchpoints)
		}
		summary.AverageJourneyLength = float64(touchpoints) / float64(len(all))
	}
	return summary
}
