package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/attrio/attribution-service/internal/attribution"
	"github.com/attrio/attribution-service/internal/domain"
	"github.com/attrio/attribution-service/internal/dto"
	"github.com/attrio/attribution-service/internal/ingest"
	"github.com/attrio/attribution-service/internal/queue"
	"github.com/attrio/attribution-service/internal/repository"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// AttributionService represents the attribution analysis service
type AttributionService struct {
	publisher  queue.AnalysisPublisher
	repository repository.AnalysisRepository
	workers    int
	log        *zap.Logger
}

// NewAttributionService creates a new attribution service
func NewAttributionService(publisher queue.AnalysisPublisher, repo repository.AnalysisRepository, workers int, log *zap.Logger) *AttributionService {
	return &AttributionService{
		publisher:  publisher,
		repository: repo,
		workers:    workers,
		log:        log,
	}
}

// modelSpecFromRequest builds the model selection from request parameters.
// Unset numeric parameters fall back to the model defaults.
func modelSpecFromRequest(req *dto.AnalyzeRequest) attribution.ModelSpec {
	spec := attribution.NewModelSpec(attribution.ModelKind(req.ModelType))
	if req.HalfLifeDays != 0 {
		spec = spec.WithHalfLife(req.HalfLifeDays)
	}
	if req.FirstTouchWeight != 0 || req.LastTouchWeight != 0 {
		spec = spec.WithPositionWeights(req.FirstTouchWeight, req.LastTouchWeight)
	}
	return spec
}

// AnalyzeUpload runs a full attribution analysis over an uploaded touchpoint
// file and records the run in the analysis history queue. A history publish
// failure is logged but does not fail the analysis.
func (s *AttributionService) AnalyzeUpload(filename string, data []byte, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error) {
	ctx := context.Background()
	start := time.Now()

	table, err := ingest.Parse(data, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to parse uploaded file: %w", err)
	}

	result, err := attribution.Analyze(table, attribution.Options{
		Model:                 modelSpecFromRequest(req),
		LinkingMethod:         attribution.LinkingMethod(req.LinkingMethod),
		AttributionWindowDays: req.AttributionWindowDays,
		ConfidenceThreshold:   req.ConfidenceThreshold,
		Workers:               s.workers,
	})
	if err != nil {
		return nil, err
	}

	insights := attribution.GenerateInsights(result)

	record := &domain.AnalysisRecord{
		AnalysisID:       uuid.NewString(),
		Model:            string(result.Metadata.ModelUsed),
		LinkingMethod:    string(result.Metadata.LinkingMethod),
		RowCount:         int64(len(table.Records)),
		JourneyCount:     int64(result.Summary.UniqueCustomers),
		TotalConversions: int64(result.Summary.TotalConversions),
		TotalRevenue:     result.Summary.TotalRevenue,
		ConfidenceScore:  result.Metadata.ConfidenceScore,
		Warnings:         result.Metadata.Warnings,
		ProcessedAt:      time.Now().UTC(),
	}

	if s.publisher != nil {
		if err := s.publisher.PublishAnalysis(ctx, record); err != nil {
			s.log.Warn("Failed to publish analysis record",
				zap.String("analysis_id", record.AnalysisID),
				zap.Error(err))
		}
	}

	s.log.Info("Analysis completed",
		zap.String("analysis_id", record.AnalysisID),
		zap.String("model", record.Model),
		zap.String("linking_method", record.LinkingMethod),
		zap.Int64("row_count", record.RowCount),
		zap.Int64("conversions", record.TotalConversions),
		zap.Float64("confidence", record.ConfidenceScore))

	return &dto.AnalyzeResponse{
		AnalysisID:         record.AnalysisID,
		ChannelAttribution: result.ChannelAttribution,
		Summary:            result.Summary,
		JourneyAnalysis:    result.JourneyAnalysis,
		Insights:           insights,
		Metadata:           result.Metadata,
		ProcessingTimeMs:   time.Since(start).Milliseconds(),
	}, nil
}

// ListAnalyses returns the most recent analysis runs from the history store
func (s *AttributionService) ListAnalyses(req *dto.ListAnalysesRequest) (*dto.ListAnalysesResponse, error) {
	ctx := context.Background()

	limit := req.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		return nil, fmt.Errorf("limit too large: %d (max %d)", limit, maxHistoryLimit)
	}

	records, err := s.repository.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses from repository: %w", err)
	}

	response := &dto.ListAnalysesResponse{
		Analyses: make([]dto.AnalysisHistoryEntry, 0, len(records)),
	}
	for _, record := range records {
		response.Analyses = append(response.Analyses, dto.AnalysisHistoryEntry{
			AnalysisID:       record.AnalysisID,
			Model:            record.Model,
			LinkingMethod:    record.LinkingMethod,
			RowCount:         record.RowCount,
			JourneyCount:     record.JourneyCount,
			TotalConversions: record.TotalConversions,
			TotalRevenue:     record.TotalRevenue,
			ConfidenceScore:  record.ConfidenceScore,
			ProcessedAt:      record.ProcessedAt.UTC().Format(time.RFC3339),
		})
	}
	response.Count = len(response.Analyses)

	return response, nil
}
