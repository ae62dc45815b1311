package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "confstay"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// A lock only covers one storage transaction, so the TTL is a crash
	// backstop, not the expected hold time.
	DefaultRoomLockTTL        = 10 * time.Second
	DefaultRoomLockRetries    = 20
	DefaultRoomLockRetryDelay = 25 * time.Millisecond

	DefaultEventsEnabled = false
	DefaultEventsTopic   = "bookings.events"
)
