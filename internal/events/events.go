// Package events publishes analysis-completed notifications to a message
// transport so downstream consumers can react to new evaluations.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hydroeval/hydroeval/internal/analytics"
)

// TypeAnalysisCompleted is the type of events emitted after a successful analysis
const TypeAnalysisCompleted = "analysis.completed"

// Publisher publishes messages to a transport
type Publisher interface {
	// Publish publishes a message to a subject/topic/stream
	Publish(ctx context.Context, subject string, data []byte) error

	// PublishBatch publishes multiple messages and returns how many succeeded
	PublishBatch(ctx context.Context, messages []Message) (int, error)

	// Close closes the connection
	Close() error
}

// Message represents a message for batch publishing
type Message struct {
	Subject string
	Data    []byte
}

// AnalysisCompleted is the payload of an analysis.completed event
type AnalysisCompleted struct {
	ID        string             `json:"id"`
	Type      string             `json:"type"`
	Timestamp time.Time          `json:"timestamp"`
	Source    string             `json:"source"`
	Name      string             `json:"name"`
	NPoints   int                `json:"n_points"`
	Metrics   analytics.FloatMap `json:"metrics"`
}

// NewAnalysisCompleted builds an event with a fresh ID
func NewAnalysisCompleted(source, name string, nPoints int, metrics map[string]float64) AnalysisCompleted {
	return AnalysisCompleted{
		ID:        uuid.New().String(),
		Type:      TypeAnalysisCompleted,
		Timestamp: time.Now().UTC(),
		Source:    source,
		Name:      name,
		NPoints:   nPoints,
		Metrics:   metrics,
	}
}

// Emitter encodes events and sends them to a fixed subject
type Emitter struct {
	publisher Publisher
	subject   string
}

// NewEmitter creates an emitter
func NewEmitter(publisher Publisher, subject string) *Emitter {
	return &Emitter{publisher: publisher, subject: subject}
}

// Emit publishes one event
func (e *Emitter) Emit(ctx context.Context, evt AnalysisCompleted) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return e.publisher.Publish(ctx, e.subject, data)
}

// EmitBatch publishes several events in one round trip where the transport allows it
func (e *Emitter) EmitBatch(ctx context.Context, evts []AnalysisCompleted) (int, error) {
	messages := make([]Message, 0, len(evts))
	for _, evt := range evts {
		data, err := json.Marshal(evt)
		if err != nil {
			return 0, fmt.Errorf("failed to encode event: %w", err)
		}
		messages = append(messages, Message{Subject: e.subject, Data: data})
	}
	return e.publisher.PublishBatch(ctx, messages)
}

// Close closes the underlying publisher
func (e *Emitter) Close() error {
	return e.publisher.Close()
}

// nopPublisher drops everything
type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, []byte) error { return nil }

func (nopPublisher) PublishBatch(_ context.Context, messages []Message) (int, error) {
	return len(messages), nil
}

func (nopPublisher) Close() error { return nil }
