package dto

import (
	"github.com/attrio/attribution-service/internal/attribution"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"model_type is required"`
}

// AnalyzeResponse represents a completed attribution analysis
type AnalyzeResponse struct {
	AnalysisID         string                                    `json:"analysis_id" example:"9f6f2c1e-8d5b-4a70-9c3f-1f2a3b4c5d6e"`
	ChannelAttribution map[string]attribution.ChannelAttribution `json:"channel_attribution"`
	Summary            attribution.Summary                       `json:"summary"`
	JourneyAnalysis    *attribution.JourneyAnalysis              `json:"journey_analysis,omitempty"`
	Insights           []attribution.Insight                     `json:"insights,omitempty"`
	Metadata           attribution.Metadata                      `json:"metadata"`
	ProcessingTimeMs   int64                                     `json:"processing_time_ms" example:"142"`
}

// AnalysisHistoryEntry represents one stored analysis in the history listing
type AnalysisHistoryEntry struct {
	AnalysisID       string  `json:"analysis_id" example:"9f6f2c1e-8d5b-4a70-9c3f-1f2a3b4c5d6e"`
	Model            string  `json:"model" example:"linear"`
	LinkingMethod    string  `json:"linking_method" example:"customer_id"`
	RowCount         int64   `json:"row_count" example:"15000"`
	JourneyCount     int64   `json:"journey_count" example:"1200"`
	TotalConversions int64   `json:"total_conversions" example:"340"`
	TotalRevenue     float64 `json:"total_revenue" example:"48250.75"`
	ConfidenceScore  float64 `json:"confidence_score" example:"0.82"`
	ProcessedAt      string  `json:"processed_at" example:"2025-06-10T12:00:00Z"`
}

// ListAnalysesResponse represents the analysis history response
type ListAnalysesResponse struct {
	Analyses []AnalysisHistoryEntry `json:"analyses"`
	Count    int                    `json:"count" example:"20"`
}
