package events

import (
	"context"
	"fmt"
	"sync"
)

const memoryBufferSize = 10000

// MemoryPublisher keeps messages in buffered in-process channels.
// Useful for testing and development without external dependencies.
type MemoryPublisher struct {
	channels map[string]chan []byte
	mu       sync.Mutex
}

// NewMemoryPublisher creates an in-memory publisher
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{channels: make(map[string]chan []byte)}
}

func (p *MemoryPublisher) channel(subject string) chan []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ch, exists := p.channels[subject]; exists {
		return ch
	}
	ch := make(chan []byte, memoryBufferSize)
	p.channels[subject] = ch
	return ch
}

// Publish buffers a copy of data under subject
func (p *MemoryPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	select {
	case p.channel(subject) <- dataCopy:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("channel full for subject: %s", subject)
	}
}

// PublishBatch publishes messages one by one
func (p *MemoryPublisher) PublishBatch(ctx context.Context, messages []Message) (int, error) {
	successCount := 0
	for _, msg := range messages {
		if err := p.Publish(ctx, msg.Subject, msg.Data); err != nil {
			continue
		}
		successCount++
	}
	return successCount, nil
}

// Receive blocks until a message for subject is available or ctx is done
func (p *MemoryPublisher) Receive(ctx context.Context, subject string) ([]byte, error) {
	select {
	case data := <-p.channel(subject):
		return data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Pending returns the number of buffered messages for subject
func (p *MemoryPublisher) Pending(subject string) int {
	return len(p.channel(subject))
}

// Close is a no-op; buffered messages remain readable
func (p *MemoryPublisher) Close() error {
	return nil
}
