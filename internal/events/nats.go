package events

import (
	"context"
	"fmt"

	"github.com/hydroeval/hydroeval/internal/utils"
	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes to core NATS subjects
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to a NATS server
func NewNATSPublisher(url, username, password string) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("hydroeval"),
		nats.Timeout(utils.ConnectTimeout),
	}
	if username != "" {
		opts = append(opts, nats.UserInfo(username, password))
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

// Publish publishes a message and waits for the server to receive it
func (p *NATSPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}
	if err := p.flush(ctx); err != nil {
		return fmt.Errorf("failed to flush subject %s: %w", subject, err)
	}
	return nil
}

// PublishBatch queues all messages and flushes once
func (p *NATSPublisher) PublishBatch(ctx context.Context, messages []Message) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	queued := 0
	for _, msg := range messages {
		if err := p.conn.Publish(msg.Subject, msg.Data); err != nil {
			continue
		}
		queued++
	}

	if err := p.flush(ctx); err != nil {
		return 0, fmt.Errorf("failed to flush batch publish: %w", err)
	}
	return queued, nil
}

// flush waits for the server to acknowledge buffered publishes. FlushWithContext
// rejects contexts without a deadline, so those fall back to a fixed timeout.
func (p *NATSPublisher) flush(ctx context.Context) error {
	if _, ok := ctx.Deadline(); ok {
		return p.conn.FlushWithContext(ctx)
	}
	return p.conn.FlushTimeout(utils.ConnectTimeout)
}

// Conn returns the underlying NATS connection
func (p *NATSPublisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
