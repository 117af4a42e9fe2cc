package consumer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/attrio/attribution-service/internal/domain"
)

// MockMessageParser is a mock implementation of MessageParser
type MockMessageParser struct {
	mock.Mock
}

func (m *MockMessageParser) Parse(body []byte) (*domain.AnalysisRecord, error) {
	args := m.Called(body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisRecord), args.Error(1)
}

func TestParserStage_Start_Success(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	mockParser := new(MockMessageParser)
	log := zap.NewNop()

	parserStage := NewParserStage(mockConsumer, mockParser, log)

	mockConsumer.On("QueueURL").Return("https://sqs.eu-central-1.amazonaws.com/123/analysis-history")
	mockConsumer.On("DeleteMessage", mock.Anything, mock.AnythingOfType("*sqs.DeleteMessageInput")).
		Return(&sqs.DeleteMessageOutput{}, nil).Maybe()

	message := types.Message{
		MessageId:     aws.String("msg-1"),
		Body:          aws.String(`{"analysis_id": "a1"}`),
		ReceiptHandle: aws.String("receipt-1"),
	}

	record := &domain.AnalysisRecord{
		AnalysisID:      "a1",
		Model:           "linear",
		LinkingMethod:   "customer_id",
		ConfidenceScore: 0.8,
	}

	mockParser.On("Parse", []byte(`{"analysis_id": "a1"}`)).Return(record, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan types.Message, 1)
	out := make(chan *Envelope, 1)

	go parserStage.Start(ctx, in, out)

	// Send message
	in <- message
	close(in)

	// Receive envelope
	envelope := <-out

	assert.NotNil(t, envelope)
	assert.Equal(t, "a1", envelope.Record.AnalysisID)
	assert.Equal(t, "linear", envelope.Record.Model)

	mockParser.AssertExpectations(t)
}

func TestParserStage_Start_MalformedMessage(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	mockParser := new(MockMessageParser)
	log := zap.NewNop()

	parserStage := NewParserStage(mockConsumer, mockParser, log)

	mockConsumer.On("QueueURL").Return("https://sqs.eu-central-1.amazonaws.com/123/analysis-history")
	mockConsumer.On("DeleteMessage", mock.Anything, mock.AnythingOfType("*sqs.DeleteMessageInput")).
		Return(&sqs.DeleteMessageOutput{}, nil)

	message := types.Message{
		MessageId:     aws.String("msg-1"),
		Body:          aws.String(`{invalid json}`),
		ReceiptHandle: aws.String("receipt-1"),
	}

	parseErr := errors.New("invalid JSON format")
	mockParser.On("Parse", []byte(`{invalid json}`)).Return(nil, parseErr)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	in := make(chan types.Message, 1)
	out := make(chan *Envelope, 1)

	go parserStage.Start(ctx, in, out)

	// Send malformed message
	in <- message

	// Wait for processing before closing input
	time.Sleep(20 * time.Millisecond)
	close(in)

	// Wait for output channel to close (which happens when input closes)
	timeout := time.After(100 * time.Millisecond)
	envelopeReceived := false

	for {
		select {
		case envelope, ok := <-out:
			if !ok {
				// Channel closed, exit loop
				goto done
			}
			if envelope != nil {
				envelopeReceived = true
				t.Fatalf("Expected no envelope for malformed message, but got: %v", envelope)
			}
		case <-timeout:
			goto done
		}
	}

done:
	assert.False(t, envelopeReceived, "Should not receive any envelope for malformed message")
	mockParser.AssertExpectations(t)
	mockConsumer.AssertCalled(t, "DeleteMessage", mock.Anything, mock.AnythingOfType("*sqs.DeleteMessageInput"))
}

func TestParserStage_Start_ContextCancellation(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	mockParser := new(MockMessageParser)
	log := zap.NewNop()

	parserStage := NewParserStage(mockConsumer, mockParser, log)

	ctx, cancel := context.WithCancel(context.Background())

	in := make(chan types.Message)
	out := make(chan *Envelope, 1)

	// Cancel immediately
	cancel()

	parserStage.Start(ctx, in, out)

	// Output channel should be closed
	_, ok := <-out
	assert.False(t, ok, "Output channel should be closed after context cancellation")
}

func TestParserStage_Start_MultipleMessages(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	mockParser := new(MockMessageParser)
	log := zap.NewNop()

	parserStage := NewParserStage(mockConsumer, mockParser, log)

	mockConsumer.On("QueueURL").Return("https://sqs.eu-central-1.amazonaws.com/123/analysis-history")
	mockConsumer.On("DeleteMessage", mock.Anything, mock.AnythingOfType("*sqs.DeleteMessageInput")).
		Return(&sqs.DeleteMessageOutput{}, nil).Maybe()

	messages := []types.Message{
		{
			MessageId:     aws.String("msg-1"),
			Body:          aws.String(`{"analysis_id": "a1"}`),
			ReceiptHandle: aws.String("receipt-1"),
		},
		{
			MessageId:     aws.String("msg-2"),
			Body:          aws.String(`{invalid}`),
			ReceiptHandle: aws.String("receipt-2"),
		},
		{
			MessageId:     aws.String("msg-3"),
			Body:          aws.String(`{"analysis_id": "a3"}`),
			ReceiptHandle: aws.String("receipt-3"),
		},
	}

	record1 := &domain.AnalysisRecord{AnalysisID: "a1", Model: "linear"}
	record3 := &domain.AnalysisRecord{AnalysisID: "a3", Model: "time_decay"}

	mockParser.On("Parse", []byte(`{"analysis_id": "a1"}`)).Return(record1, nil)
	mockParser.On("Parse", []byte(`{invalid}`)).Return(nil, errors.New("parse error"))
	mockParser.On("Parse", []byte(`{"analysis_id": "a3"}`)).Return(record3, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan types.Message, 3)
	out := make(chan *Envelope, 3)

	go parserStage.Start(ctx, in, out)

	// Send messages
	for _, msg := range messages {
		in <- msg
	}
	close(in)

	// Collect envelopes
	var envelopes []*Envelope
	timeout := time.After(100 * time.Millisecond)
	done := false

	for !done {
		select {
		case envelope, ok := <-out:
			if !ok {
				done = true
				break
			}
			envelopes = append(envelopes, envelope)
		case <-timeout:
			done = true
		}
	}

	// Should receive 2 valid envelopes (msg-1 and msg-3), msg-2 should be deleted
	assert.Len(t, envelopes, 2)
	assert.Equal(t, "a1", envelopes[0].Record.AnalysisID)
	assert.Equal(t, "a3", envelopes[1].Record.AnalysisID)

	mockParser.AssertExpectations(t)
	mockConsumer.AssertNumberOfCalls(t, "DeleteMessage", 1) // Only for malformed message
}
