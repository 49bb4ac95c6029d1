package events

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/hydroeval/hydroeval/internal/config"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestNATS starts an embedded NATS server on a random port
func setupTestNATS(t *testing.T) string {
	t.Helper()

	ns, err := server.NewServer(&server.Options{
		Host: "127.0.0.1",
		Port: -1,
	})
	require.NoError(t, err)

	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("NATS server not ready")
	}

	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return ns.ClientURL()
}

func TestNewAnalysisCompleted(t *testing.T) {
	evt := NewAnalysisCompleted("single", "run-1", 5, map[string]float64{"RMSE": 0.2, "PERS": math.NaN()})

	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, TypeAnalysisCompleted, evt.Type)
	assert.False(t, evt.Timestamp.IsZero())

	data, err := json.Marshal(evt)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"PERS":"NaN"`)
	assert.Contains(t, string(data), `"type":"analysis.completed"`)
}

func TestMemoryEmitter(t *testing.T) {
	pub := NewMemoryPublisher()
	emitter := NewEmitter(pub, "hydroeval.analysis.completed")
	defer func() { _ = emitter.Close() }()
	ctx := context.Background()

	require.NoError(t, emitter.Emit(ctx, NewAnalysisCompleted("single", "a", 3, nil)))

	n, err := emitter.EmitBatch(ctx, []AnalysisCompleted{
		NewAnalysisCompleted("batch", "b", 4, nil),
		NewAnalysisCompleted("batch", "c", 5, nil),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, pub.Pending("hydroeval.analysis.completed"))

	data, err := pub.Receive(ctx, "hydroeval.analysis.completed")
	require.NoError(t, err)

	var got AnalysisCompleted
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "a", got.Name)
	assert.Equal(t, 3, got.NPoints)
}

func TestMemoryPublisher_ReceiveCancelled(t *testing.T) {
	pub := NewMemoryPublisher()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := pub.Receive(ctx, "empty")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNATSPublisher(t *testing.T) {
	url := setupTestNATS(t)

	sub, err := nats.Connect(url)
	require.NoError(t, err)
	defer sub.Close()

	msgs := make(chan *nats.Msg, 10)
	s, err := sub.ChanSubscribe("hydroeval.test", msgs)
	require.NoError(t, err)
	defer func() { _ = s.Unsubscribe() }()
	require.NoError(t, sub.Flush())

	pub, err := NewNATSPublisher(url, "", "")
	require.NoError(t, err)
	defer func() { _ = pub.Close() }()

	require.NoError(t, pub.Publish(context.Background(), "hydroeval.test", []byte("one")))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	n, err := pub.PublishBatch(ctx, []Message{
		{Subject: "hydroeval.test", Data: []byte("two")},
		{Subject: "hydroeval.test", Data: []byte("three")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var received []string
	for i := 0; i < 3; i++ {
		select {
		case msg := <-msgs:
			received = append(received, string(msg.Data))
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for message %d", i)
		}
	}
	assert.Equal(t, []string{"one", "two", "three"}, received)
}

func TestNATSPublisher_Unreachable(t *testing.T) {
	_, err := NewNATSPublisher("nats://127.0.0.1:1", "", "")
	assert.Error(t, err)
}

func TestKafkaPublisher_Config(t *testing.T) {
	_, err := NewKafkaPublisher(KafkaConfig{})
	assert.Error(t, err)

	pub, err := NewKafkaPublisher(KafkaConfig{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)
	assert.Equal(t, 3, pub.config.MaxAttempts)
	assert.Equal(t, 10*time.Millisecond, pub.config.BatchTimeout)

	n, err := pub.PublishBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, pub.Close())
}

func TestNewPublisher(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.EventsConfig
		want    interface{}
		wantErr bool
	}{
		{name: "none", cfg: config.EventsConfig{Type: "none"}, want: nopPublisher{}},
		{name: "empty", cfg: config.EventsConfig{}, want: nopPublisher{}},
		{name: "memory", cfg: config.EventsConfig{Type: "memory"}, want: &MemoryPublisher{}},
		{name: "kafka", cfg: config.EventsConfig{Type: "kafka", KafkaBrokers: []string{"localhost:9092"}}, want: &KafkaPublisher{}},
		{name: "unknown", cfg: config.EventsConfig{Type: "amqp"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub, err := NewPublisher(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, pub)
			_ = pub.Close()
		})
	}
}

func TestNATSFromConfig(t *testing.T) {
	url := setupTestNATS(t)

	emitter, err := NewEmitterFromConfig(config.EventsConfig{Type: "nats", URL: url, Subject: "hydroeval.x"})
	require.NoError(t, err)
	defer func() { _ = emitter.Close() }()

	assert.NoError(t, emitter.Emit(context.Background(), NewAnalysisCompleted("single", "n", 2, nil)))
}
