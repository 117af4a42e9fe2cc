package attribution

import (
	"strconv"
	"strings"
	"time"
)

// DataQuality is the per-analysis data quality breakdown. All values are in
// [0, 1].
type DataQuality struct {
	Completeness float64 `json:"completeness"`
	Consistency  float64 `json:"consistency"`
	Freshness    float64 `json:"freshness"`
}

// Overall folds the breakdown into a single score.
func (q DataQuality) Overall() float64 {
	return 0.4*q.Completeness + 0.3*q.Consistency + 0.3*q.Freshness
}

// sanitizeResult carries the typed touchpoints plus the counts needed for
// warnings and the consistency metric.
type sanitizeResult struct {
	Touchpoints []Touchpoint
	Dropped     int
	Repaired    int
}

// sanitizeTable types each record, dropping malformed rows (unparseable
// timestamp, empty channel, negative or unparseable revenue) instead of
// aborting. Unknown event types are coerced to impression and counted as
// repairs. Input row order is preserved.
func sanitizeTable(table Table) sanitizeResult {
	result := sanitizeResult{Touchpoints: make([]Touchpoint, 0, len(table.Records))}

	for _, record := range table.Records {
		ts, ok := parseTimestamp(strings.TrimSpace(record.Timestamp))
		if !ok {
			result.Dropped++
			continue
		}

		channel := strings.TrimSpace(record.Channel)
		if channel == "" {
			result.Dropped++
			continue
		}

		revenue := 0.0
		if raw := strings.TrimSpace(record.Revenue); raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil || parsed < 0 {
				result.Dropped++
				continue
			}
			revenue = parsed
		}

		eventType, known := eventTypeAliases[strings.ToLower(strings.TrimSpace(record.EventType))]
		if !known {
			eventType = EventImpression
			result.Repaired++
		}

		result.Touchpoints = append(result.Touchpoints, Touchpoint{
			Timestamp:  ts,
			Channel:    channel,
			EventType:  eventType,
			CustomerID: strings.TrimSpace(record.CustomerID),
			SessionID:  strings.TrimSpace(record.SessionID),
			Email:      strings.TrimSpace(record.Email),
			Revenue:    revenue,
		})
	}

	return result
}

// assessDataQuality computes the completeness/consistency/freshness breakdown
// over the whole input table. Freshness is measured against the supplied
// clock so results stay reproducible in tests.
func assessDataQuality(table Table, clean sanitizeResult, now time.Time, horizonDays float64) DataQuality {
	total := len(table.Records)
	if total == 0 {
		return DataQuality{}
	}

	return DataQuality{
		Completeness: completenessScore(table),
		Consistency:  float64(total-clean.Dropped-clean.Repaired) / float64(total),
		Freshness:    freshnessScore(clean.Touchpoints, now, horizonDays),
	}
}

// fieldWeight reflects how much a missing value hurts an analysis: required
// fields count double the optional identity and revenue fields.
var fieldWeights = []struct {
	weight float64
	value  func(Record) string
}{
	{1.0, func(r Record) string { return r.Timestamp }},
	{1.0, func(r Record) string { return r.Channel }},
	{1.0, func(r Record) string { return r.EventType }},
	{0.5, func(r Record) string { return r.CustomerID }},
	{0.5, func(r Record) string { return r.SessionID }},
	{0.5, func(r Record) string { return r.Email }},
	{0.5, func(r Record) string { return r.Revenue }},
}

func completenessScore(table Table) float64 {
	total := float64(len(table.Records))
	weightSum, score := 0.0, 0.0
	for _, field := range fieldWeights {
		nonEmpty := 0
		for _, record := range table.Records {
			if strings.TrimSpace(field.value(record)) != "" {
				nonEmpty++
			}
		}
		score += field.weight * float64(nonEmpty) / total
		weightSum += field.weight
	}
	return score / weightSum
}

// freshnessScore is 1.0 when the most recent touchpoint is within one day of
// now and decays linearly to zero at the horizon.
func freshnessScore(touchpoints []Touchpoint, now time.Time, horizonDays float64) float64 {
	if len(touchpoints) == 0 {
		return 0
	}

	latest := touchpoints[0].Timestamp
	for _, tp := range touchpoints[1:] {
		if tp.Timestamp.After(latest) {
			latest = tp.Timestamp
		}
	}

	ageDays := now.Sub(latest).Hours() / 24
	if ageDays <= 1 {
		return 1.0
	}
	if horizonDays <= 1 {
		return 0
	}
	return clamp01(1 - (ageDays-1)/(horizonDays-1))
}
