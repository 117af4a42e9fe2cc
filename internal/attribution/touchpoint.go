// Package attribution implements the multi-touch attribution pipeline:
// identity resolution, the attribution model set, confidence scoring and
// the aggregating Analyze entry point.
package attribution

import "time"

// EventType classifies a marketing interaction event.
type EventType string

const (
	EventImpression EventType = "impression"
	EventClick      EventType = "click"
	EventConversion EventType = "conversion"
	EventPurchase   EventType = "purchase"
	EventSignup     EventType = "signup"
)

// IsConversion reports whether the event type terminates a journey.
// Both conversion and purchase events count as conversions.
func (e EventType) IsConversion() bool {
	return e == EventConversion || e == EventPurchase
}

// eventTypeAliases maps common upstream spellings onto the canonical types.
var eventTypeAliases = map[string]EventType{
	"impression": EventImpression,
	"view":       EventImpression,
	"visit":      EventImpression,
	"pageview":   EventImpression,
	"click":      EventClick,
	"ctr":        EventClick,
	"conversion": EventConversion,
	"convert":    EventConversion,
	"sale":       EventConversion,
	"purchase":   EventPurchase,
	"buy":        EventPurchase,
	"signup":     EventSignup,
	"register":   EventSignup,
	"subscribe":  EventSignup,
}

// Record is one raw touchpoint row as delivered by the ingestion layer.
// All fields hold the coerced string form of the source cell; absent cells
// are empty strings. Validation and typing happen in the core so that one
// malformed row never aborts an entire analysis.
type Record struct {
	Timestamp  string
	Channel    string
	EventType  string
	CustomerID string
	SessionID  string
	Email      string
	Revenue    string
}

// Table is the validated input to an analysis: an ordered collection of
// touchpoint records, preserving source row order.
type Table struct {
	Records []Record
}

// Touchpoint is one parsed marketing interaction event. Immutable once
// constructed.
type Touchpoint struct {
	Timestamp  time.Time
	Channel    string
	EventType  EventType
	CustomerID string
	SessionID  string
	Email      string
	Revenue    float64
}

// Journey is an ordered sequence of touchpoints resolved to one identity.
// Touchpoints are sorted ascending by timestamp; rows with identical
// timestamps keep their input relative order. A journey is never empty.
type Journey struct {
	IdentityKey  string
	Touchpoints  []Touchpoint
	Converted    bool
	TotalRevenue float64
}

// Channels returns the distinct channels in the journey, in first-appearance
// order.
func (j Journey) Channels() []string {
	seen := make(map[string]bool, len(j.Touchpoints))
	var channels []string
	for _, tp := range j.Touchpoints {
		if !seen[tp.Channel] {
			seen[tp.Channel] = true
			channels = append(channels, tp.Channel)
		}
	}
	return channels
}

// timestampLayouts are the accepted timestamp formats, tried in order.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	if unix, ok := parseUnixSeconds(value); ok {
		return unix, true
	}
	return time.Time{}, false
}

// parseUnixSeconds accepts epoch-second timestamps, a common export format
// for JSON and Parquet sources.
func parseUnixSeconds(value string) (time.Time, bool) {
	if len(value) < 9 || len(value) > 11 {
		return time.Time{}, false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return time.Time{}, false
		}
	}
	var seconds int64
	for _, r := range value {
		seconds = seconds*10 + int64(r-'0')
	}
	return time.Unix(seconds, 0).UTC(), true
}
