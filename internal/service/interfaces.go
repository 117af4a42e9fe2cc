package service

import (
	"github.com/attrio/attribution-service/internal/dto"
)

// AttributionServicer defines the interface for attribution service operations
type AttributionServicer interface {
	AnalyzeUpload(filename string, data []byte, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error)
	ListAnalyses(req *dto.ListAnalysesRequest) (*dto.ListAnalysesResponse, error)
}
