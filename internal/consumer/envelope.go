package consumer

import (
	"context"

	"github.com/attrio/attribution-service/internal/domain"
)

// Envelope wraps an analysis record with acknowledgment callbacks
type Envelope struct {
	Record *domain.AnalysisRecord
	ack    func(context.Context) error
	nack   func(context.Context) error
}

// NewEnvelope creates a new message envelope
func NewEnvelope(record *domain.AnalysisRecord, ack, nack func(context.Context) error) *Envelope {
	return &Envelope{
		Record: record,
		ack:    ack,
		nack:   nack,
	}
}

// Ack acknowledges successful processing
func (e *Envelope) Ack(ctx context.Context) error {
	if e.ack != nil {
		return e.ack(ctx)
	}
	return nil
}

// Nack negatively acknowledges processing
func (e *Envelope) Nack(ctx context.Context) error {
	if e.nack != nil {
		return e.nack(ctx)
	}
	return nil
}
