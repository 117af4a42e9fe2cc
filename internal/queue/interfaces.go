package queue

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/attrio/attribution-service/internal/domain"
)

// AnalysisPublisher defines the interface for publishing finished analysis
// records to a queue
type AnalysisPublisher interface {
	PublishAnalysis(ctx context.Context, record *domain.AnalysisRecord) error
}

// QueueConsumer defines the interface for consuming messages from a queue
type QueueConsumer interface {
	ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error)
	QueueURL() string
}
