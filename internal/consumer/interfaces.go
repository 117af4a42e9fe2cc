package consumer

import (
	"github.com/attrio/attribution-service/internal/domain"
)

// MessageParser defines the interface for parsing raw message bytes into
// analysis records
type MessageParser interface {
	Parse(body []byte) (*domain.AnalysisRecord, error)
}
