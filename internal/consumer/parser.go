package consumer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/attrio/attribution-service/internal/domain"
)

// JSONRecordParser implements MessageParser for JSON-formatted analysis
// record messages
type JSONRecordParser struct{}

// NewJSONRecordParser creates a new JSON record parser
func NewJSONRecordParser() *JSONRecordParser {
	return &JSONRecordParser{}
}

// Parse parses a JSON message body into an AnalysisRecord
func (p *JSONRecordParser) Parse(body []byte) (*domain.AnalysisRecord, error) {
	var record domain.AnalysisRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message body: %w", err)
	}

	if record.AnalysisID == "" {
		return nil, fmt.Errorf("message is missing analysis_id")
	}
	if record.Model == "" {
		return nil, fmt.Errorf("message is missing model")
	}

	if record.ProcessedAt.IsZero() {
		record.ProcessedAt = time.Now().UTC()
	}
	if record.Version == 0 {
		record.Version = uint64(time.Now().UnixNano())
	}
	if record.Warnings == nil {
		record.Warnings = []string{}
	}

	return &record, nil
}
