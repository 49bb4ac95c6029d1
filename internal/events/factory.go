package events

import (
	"fmt"
	"strings"

	"github.com/hydroeval/hydroeval/internal/config"
	"github.com/hydroeval/hydroeval/internal/utils"
)

// NewPublisher creates a Publisher based on configuration.
// Type "none" (or empty) returns a publisher that drops everything.
func NewPublisher(cfg config.EventsConfig) (Publisher, error) {
	switch utils.EventsType(strings.ToLower(cfg.Type)) {
	case "", utils.EventsTypeNone:
		return nopPublisher{}, nil

	case utils.EventsTypeMemory:
		return NewMemoryPublisher(), nil

	case utils.EventsTypeNATS:
		return NewNATSPublisher(cfg.URL, cfg.Username, cfg.Password)

	case utils.EventsTypeRedis:
		return NewRedisPublisher(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.Password,
			DB:       cfg.RedisDB,
		})

	case utils.EventsTypeKafka:
		return NewKafkaPublisher(KafkaConfig{Brokers: cfg.KafkaBrokers})

	default:
		return nil, fmt.Errorf("unsupported events type: %s (supported: none, memory, nats, redis, kafka)", cfg.Type)
	}
}

// NewEmitterFromConfig creates a publisher and binds it to the configured subject
func NewEmitterFromConfig(cfg config.EventsConfig) (*Emitter, error) {
	publisher, err := NewPublisher(cfg)
	if err != nil {
		return nil, err
	}
	return NewEmitter(publisher, cfg.Subject), nil
}
