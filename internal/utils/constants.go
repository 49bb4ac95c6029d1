package utils

import "time"

// =============================================================================
// Timeout Constants
// =============================================================================

const (
	// DefaultRequestTimeout bounds a single HTTP request
	DefaultRequestTimeout = 30 * time.Second

	// ConnectTimeout bounds the initial ping to an external backend
	ConnectTimeout = 5 * time.Second

	// ShutdownTimeout bounds graceful shutdown of the HTTP server and jobs
	ShutdownTimeout = 10 * time.Second

	// SinkTimeout bounds history and event writes done after a computation
	SinkTimeout = 5 * time.Second
)

// =============================================================================
// Limits
// =============================================================================

const (
	// DefaultHistoryLimit is the number of history records returned by default
	DefaultHistoryLimit = 50

	// MaxHistoryLimit caps a single history query
	MaxHistoryLimit = 1000

	// StatsWindow is the window used for "recent" analysis counts
	StatsWindow = 24 * time.Hour

	// DefaultMaxRetries is the default number of publish attempts
	DefaultMaxRetries = 3

	// DefaultBatchTimeout is the producer flush interval for kafka
	DefaultBatchTimeout = 10 * time.Millisecond
)

// =============================================================================
// Backend Types
// =============================================================================

// CacheType represents the result cache backend
type CacheType string

const (
	CacheTypeNone   CacheType = "none"
	CacheTypeMemory CacheType = "memory"
	CacheTypeRedis  CacheType = "redis"
)

// EventsType represents the analysis event transport
type EventsType string

const (
	// EventsTypeNone disables event publishing
	EventsTypeNone EventsType = "none"

	// EventsTypeMemory keeps events in process (for testing)
	EventsTypeMemory EventsType = "memory"

	// EventsTypeNATS publishes to a NATS subject
	EventsTypeNATS EventsType = "nats"

	// EventsTypeRedis appends to a Redis stream
	EventsTypeRedis EventsType = "redis"

	// EventsTypeKafka writes to a Kafka topic
	EventsTypeKafka EventsType = "kafka"
)

// ArchiveType represents the export archive backend
type ArchiveType string

const (
	ArchiveTypeNone  ArchiveType = "none"
	ArchiveTypeLocal ArchiveType = "local"
	ArchiveTypeS3    ArchiveType = "s3"
)
