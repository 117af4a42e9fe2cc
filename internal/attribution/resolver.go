package attribution

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// LinkingMethod selects how raw touchpoints are grouped into journeys.
type LinkingMethod string

const (
	LinkAuto         LinkingMethod = "auto"
	LinkCustomerID   LinkingMethod = "customer_id"
	LinkSessionEmail LinkingMethod = "session_email"
	LinkEmailOnly    LinkingMethod = "email_only"
	LinkAggregate    LinkingMethod = "aggregate"
)

// aggregateConfidenceCeiling caps the resolution confidence of the aggregate
// method: its journeys are statistical, not individual.
const aggregateConfidenceCeiling = 0.6

// Resolution is the outcome of one identity resolution run.
type Resolution struct {
	Journeys   []Journey
	Confidence float64
	Method     LinkingMethod
	Warnings   []string
}

// ResolveIdentities partitions touchpoints into journeys using the given
// linking method (or the best available one for LinkAuto), filters each
// journey to the attribution window and sorts it by timestamp. Resolving the
// same input twice yields the same partition in the same order.
func ResolveIdentities(touchpoints []Touchpoint, method LinkingMethod, windowDays int) (*Resolution, error) {
	if len(touchpoints) == 0 {
		return nil, &InsufficientDataError{Reason: "no touchpoints to resolve"}
	}

	if method == LinkAuto || method == "" {
		method = selectLinkingMethod(touchpoints)
	}

	var (
		keys       []string
		groups     map[string][]Touchpoint
		confidence float64
		warnings   []string
	)

	switch method {
	case LinkCustomerID:
		keys, groups, confidence, warnings = groupByCustomerID(touchpoints)
	case LinkSessionEmail:
		keys, groups, confidence, warnings = groupBySessionEmail(touchpoints)
	case LinkEmailOnly:
		keys, groups, confidence, warnings = groupByEmail(touchpoints)
	case LinkAggregate:
		keys, groups, confidence = groupAggregate(touchpoints)
		warnings = append(warnings,
			"aggregate linking in effect: journeys are statistical groupings, not individual customers")
	default:
		return nil, &InvalidParameterError{Parameter: "linking_method", Reason: "unknown linking method " + string(method)}
	}

	journeys := make([]Journey, 0, len(keys))
	for _, key := range keys {
		if journey, ok := buildJourney(key, groups[key], windowDays); ok {
			journeys = append(journeys, journey)
		}
	}

	if method == LinkAggregate && confidence > aggregateConfidenceCeiling {
		confidence = aggregateConfidenceCeiling
	}

	return &Resolution{
		Journeys:   journeys,
		Confidence: clamp01(confidence),
		Method:     method,
		Warnings:   warnings,
	}, nil
}

// selectLinkingMethod picks the strongest available identity key, in priority
// order: customer_id coverage above 80%, session+email presence, email
// coverage above 60%, then the aggregate fallback.
func selectLinkingMethod(touchpoints []Touchpoint) LinkingMethod {
	customerCoverage := coverage(touchpoints, func(tp Touchpoint) bool { return tp.CustomerID != "" })
	sessionCoverage := coverage(touchpoints, func(tp Touchpoint) bool { return tp.SessionID != "" })
	emailCoverage := coverage(touchpoints, func(tp Touchpoint) bool { return tp.Email != "" })

	switch {
	case customerCoverage > 0.8:
		return LinkCustomerID
	case sessionCoverage > 0 && emailCoverage > 0:
		return LinkSessionEmail
	case emailCoverage > 0.6:
		return LinkEmailOnly
	default:
		return LinkAggregate
	}
}

func coverage(touchpoints []Touchpoint, present func(Touchpoint) bool) float64 {
	count := 0
	for _, tp := range touchpoints {
		if present(tp) {
			count++
		}
	}
	return float64(count) / float64(len(touchpoints))
}

// groupByCustomerID groups touchpoints by exact customer_id. Rows without a
// customer_id are dropped rather than kept as singleton journeys: unlinkable
// rows would dilute attribution with noise.
func groupByCustomerID(touchpoints []Touchpoint) ([]string, map[string][]Touchpoint, float64, []string) {
	keys, groups := newGrouping()
	dropped := 0

	for _, tp := range touchpoints {
		if tp.CustomerID == "" {
			dropped++
			continue
		}
		addToGroup(&keys, groups, tp.CustomerID, tp)
	}

	var warnings []string
	if dropped > 0 {
		warnings = append(warnings, fmt.Sprintf("%d touchpoints without customer_id were dropped", dropped))
	}

	confidence := 1.0 - float64(dropped)/float64(len(touchpoints))
	return keys, groups, confidence, warnings
}

// groupBySessionEmail groups by session_id, stitching sessionless touchpoints
// into the first session that carries the same normalized email. Touchpoints
// with neither key are dropped.
func groupBySessionEmail(touchpoints []Touchpoint) ([]string, map[string][]Touchpoint, float64, []string) {
	keys, groups := newGrouping()
	emailToSession := make(map[string]string)

	for _, tp := range touchpoints {
		if tp.SessionID == "" {
			continue
		}
		email := normalizeEmail(tp.Email)
		if email != "" {
			if _, ok := emailToSession[email]; !ok {
				emailToSession[email] = "session:" + tp.SessionID
			}
		}
	}

	dropped := 0
	for _, tp := range touchpoints {
		email := normalizeEmail(tp.Email)
		var key string
		switch {
		case tp.SessionID != "":
			key = "session:" + tp.SessionID
		case email != "":
			if sessionKey, ok := emailToSession[email]; ok {
				key = sessionKey
			} else {
				key = "email:" + email
			}
		default:
			dropped++
			continue
		}
		addToGroup(&keys, groups, key, tp)
	}

	var warnings []string
	if dropped > 0 {
		warnings = append(warnings, fmt.Sprintf("%d touchpoints without session_id or email were dropped", dropped))
	}

	sessionCoverage := coverage(touchpoints, func(tp Touchpoint) bool { return tp.SessionID != "" })
	emailCoverage := coverage(touchpoints, func(tp Touchpoint) bool { return tp.Email != "" })
	confidence := 0.6*sessionCoverage + 0.4*emailCoverage
	return keys, groups, confidence, warnings
}

// groupByEmail groups by normalized email, then merges groups whose keys are
// within edit distance one of an earlier key. Fuzzy merges lower confidence
// in proportion to the rows they affected.
func groupByEmail(touchpoints []Touchpoint) ([]string, map[string][]Touchpoint, float64, []string) {
	keys, groups := newGrouping()
	dropped := 0

	for _, tp := range touchpoints {
		email := normalizeEmail(tp.Email)
		if email == "" {
			dropped++
			continue
		}
		addToGroup(&keys, groups, email, tp)
	}

	var canonical []string
	fuzzyRows := 0
	for _, key := range keys {
		merged := false
		for _, canon := range canonical {
			if withinEditDistanceOne(key, canon) {
				groups[canon] = append(groups[canon], groups[key]...)
				fuzzyRows += len(groups[key])
				delete(groups, key)
				merged = true
				break
			}
		}
		if !merged {
			canonical = append(canonical, key)
		}
	}

	var warnings []string
	if dropped > 0 {
		warnings = append(warnings, fmt.Sprintf("%d touchpoints without email were dropped", dropped))
	}

	grouped := len(touchpoints) - dropped
	emailCoverage := float64(grouped) / float64(len(touchpoints))
	fuzzyShare := 0.0
	if grouped > 0 {
		fuzzyShare = float64(fuzzyRows) / float64(grouped)
	}
	confidence := emailCoverage * (1 - 0.5*fuzzyShare)
	return canonical, groups, confidence, warnings
}

// groupAggregate buckets touchpoints into synthetic per-day journeys when no
// individual identifier is reliable.
func groupAggregate(touchpoints []Touchpoint) ([]string, map[string][]Touchpoint, float64) {
	keys, groups := newGrouping()
	for _, tp := range touchpoints {
		key := "aggregate:" + tp.Timestamp.UTC().Format("2006-01-02")
		addToGroup(&keys, groups, key, tp)
	}
	return keys, groups, 0.5
}

// buildJourney sorts one group, anchors it on its conversion touchpoint (or
// the most recent touchpoint if none converted) and keeps only touchpoints
// within the attribution window before the anchor. Returns false when the
// filtered journey is empty.
func buildJourney(key string, touchpoints []Touchpoint, windowDays int) (Journey, bool) {
	if len(touchpoints) == 0 {
		return Journey{}, false
	}

	sorted := make([]Touchpoint, len(touchpoints))
	copy(sorted, touchpoints)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	anchorIdx := len(sorted) - 1
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].EventType.IsConversion() {
			anchorIdx = i
			break
		}
	}
	anchor := sorted[anchorIdx].Timestamp
	window := time.Duration(windowDays) * 24 * time.Hour

	filtered := sorted[:0:0]
	for _, tp := range sorted[:anchorIdx+1] {
		if anchor.Sub(tp.Timestamp) <= window {
			filtered = append(filtered, tp)
		}
	}
	if len(filtered) == 0 {
		return Journey{}, false
	}

	journey := Journey{IdentityKey: key, Touchpoints: filtered}
	for _, tp := range filtered {
		if tp.EventType.IsConversion() {
			journey.Converted = true
		}
		journey.TotalRevenue += tp.Revenue
	}
	return journey, true
}

func newGrouping() ([]string, map[string][]Touchpoint) {
	return nil, make(map[string][]Touchpoint)
}

func addToGroup(keys *[]string, groups map[string][]Touchpoint, key string, tp Touchpoint) {
	if _, ok := groups[key]; !ok {
		*keys = append(*keys, key)
	}
	groups[key] = append(groups[key], tp)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// withinEditDistanceOne reports whether two keys differ by at most one edit.
// Very short keys never fuzzy-match: single-character typo matching on them
// collapses unrelated addresses.
func withinEditDistanceOne(a, b string) bool {
	if len(a) < 5 || len(b) < 5 {
		return a == b
	}
	switch {
	case len(a) == len(b):
		diffs := 0
		for i := range a {
			if a[i] != b[i] {
				diffs++
				if diffs > 1 {
					return false
				}
			}
		}
		return true
	case abs(len(a)-len(b)) == 1:
		longer, shorter := a, b
		if len(b) > len(a) {
			longer, shorter = b, a
		}
		i, j, edits := 0, 0, 0
		for i < len(longer) && j < len(shorter) {
			if longer[i] != shorter[j] {
				edits++
				if edits > 1 {
					return false
				}
				i++
				continue
			}
			i++
			j++
		}
		return true
	default:
		return false
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
