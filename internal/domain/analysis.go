package domain

import "time"

// AnalysisRecord represents a completed attribution analysis stored in
// ClickHouse. One row is written per analysis run; the full per-channel
// result stays in the API response, the record keeps the headline numbers
// for auditing and trend queries.
type AnalysisRecord struct {
	AnalysisID       string    `ch:"analysis_id" json:"analysis_id"`
	Model            string    `ch:"model" json:"model"`
	LinkingMethod    string    `ch:"linking_method" json:"linking_method"`
	RowCount         int64     `ch:"row_count" json:"row_count"`
	JourneyCount     int64     `ch:"journey_count" json:"journey_count"`
	TotalConversions int64     `ch:"total_conversions" json:"total_conversions"`
	TotalRevenue     float64   `ch:"total_revenue" json:"total_revenue"`
	ConfidenceScore  float64   `ch:"confidence_score" json:"confidence_score"`
	Warnings         []string  `ch:"warnings" json:"warnings"`
	ProcessedAt      time.Time `ch:"processed_at" json:"processed_at"`
	Version          uint64    `ch:"version" json:"version"`
}
