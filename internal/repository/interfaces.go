package repository

import (
	"context"

	"github.com/attrio/attribution-service/internal/domain"
)

// AnalysisRepository defines the interface for analysis history storage
type AnalysisRepository interface {
	// InsertBatch inserts a batch of analysis records into the storage
	InsertBatch(ctx context.Context, records []*domain.AnalysisRecord) (int, error)

	// InitSchema initializes the database schema (creates tables if they don't exist)
	InitSchema(ctx context.Context) error

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the repository and releases resources
	Close() error

	// ListRecent returns the most recent analysis records, newest first
	ListRecent(ctx context.Context, limit int) ([]*domain.AnalysisRecord, error)
}
