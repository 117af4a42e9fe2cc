package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/attrio/attribution-service/internal/domain"
)

// Repository implements AnalysisRepository for ClickHouse
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new ClickHouse repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// InitSchema initializes the ClickHouse schema with ReplacingMergeTree engine
func (r *Repository) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS analysis_history (
		analysis_id String,
		model LowCardinality(String),
		linking_method LowCardinality(String),
		row_count Int64,
		journey_count Int64,
		total_conversions Int64,
		total_revenue Float64,
		confidence_score Float64,
		warnings Array(String),
		processed_at DateTime64(3) DEFAULT now64(3),
		version UInt64
	) ENGINE = ReplacingMergeTree(version)
	PRIMARY KEY (analysis_id)
	ORDER BY (analysis_id, processed_at)
	PARTITION BY toYYYYMM(processed_at)
	SETTINGS index_granularity = 8192
	`

	if err := r.client.Conn().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create analysis_history table: %w", err)
	}

	r.log.Info("ClickHouse schema initialized successfully")
	return nil
}

// InsertBatch inserts a batch of analysis records into ClickHouse
func (r *Repository) InsertBatch(ctx context.Context, records []*domain.AnalysisRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	batch, err := r.client.Conn().PrepareBatch(ctx, "INSERT INTO analysis_history")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare batch: %w", err)
	}

	insertedCount := 0
	for _, record := range records {
		if record.Version == 0 {
			record.Version = uint64(time.Now().UnixNano())
		}

		warnings := record.Warnings
		if warnings == nil {
			warnings = []string{}
		}

		err := batch.Append(
			record.AnalysisID,
			record.Model,
			record.LinkingMethod,
			record.RowCount,
			record.JourneyCount,
			record.TotalConversions,
			record.TotalRevenue,
			record.ConfidenceScore,
			warnings,
			record.ProcessedAt,
			record.Version,
		)

		if err != nil {
			return 0, fmt.Errorf("failed to append record to batch: %w", err)
		}
		insertedCount++
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send batch: %w", err)
	}

	return insertedCount, nil
}

// Ping checks if the ClickHouse connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (r *Repository) Close() error {
	return r.client.Close()
}

// ListRecent returns the most recent analysis records, newest first
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]*domain.AnalysisRecord, error) {
	query := `
		SELECT
			analysis_id,
			model,
			linking_method,
			row_count,
			journey_count,
			total_conversions,
			total_revenue,
			confidence_score,
			warnings,
			processed_at,
			version
		FROM analysis_history FINAL
		ORDER BY processed_at DESC
		LIMIT ?
	`

	rows, err := r.client.Conn().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis history: %w", err)
	}
	defer func(rows driver.Rows) {
		err := rows.Close()
		if err != nil {
			r.log.Error("Failed to close analysis history rows", zap.Error(err))
		}
	}(rows)

	var records []*domain.AnalysisRecord
	for rows.Next() {
		var record domain.AnalysisRecord
		if err := rows.Scan(
			&record.AnalysisID,
			&record.Model,
			&record.LinkingMethod,
			&record.RowCount,
			&record.JourneyCount,
			&record.TotalConversions,
			&record.TotalRevenue,
			&record.ConfidenceScore,
			&record.Warnings,
			&record.ProcessedAt,
			&record.Version,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis history row: %w", err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis history rows: %w", err)
	}

	return records, nil
}
