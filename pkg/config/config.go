package config

import (
	"fmt"
	"time"

	"confstay/pkg/client"
	"confstay/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Advisory room-lock tuning for the booking allocator.
	RoomLockTTL        time.Duration
	RoomLockRetries    int
	RoomLockRetryDelay time.Duration

	// Booking event publishing. When disabled the allocator runs with a
	// no-op publisher.
	EventsEnabled bool
	EventsTopic   string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		RoomLockTTL:        getEnvDuration(EnvRoomLockTTL, DefaultRoomLockTTL),
		RoomLockRetries:    getEnvNum(EnvRoomLockRetries, DefaultRoomLockRetries),
		RoomLockRetryDelay: getEnvDuration(EnvRoomLockRetryDelay, DefaultRoomLockRetryDelay),

		EventsEnabled: getEnvBool(EnvEventsEnabled, DefaultEventsEnabled),
		EventsTopic:   getEnvStr(EnvEventsTopic, DefaultEventsTopic),
	}

	cfg.Log = logger.New(logger.Config{
		Level:   getEnvStr(EnvLogLevel, DefaultLogLevel),
		Format:  getEnvStr(EnvLogFormat, DefaultLogFormat),
		Service: serviceName,
	})
	cfg.Client = client.NewClient()

	return cfg
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("mongo URI must not be empty")
	}
	if c.MongoDatabaseName == "" {
		return fmt.Errorf("mongo database name must not be empty")
	}
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.RoomLockTTL <= 0 {
		return fmt.Errorf("room lock TTL must be positive, got %s", c.RoomLockTTL)
	}
	if c.RoomLockRetries < 0 {
		return fmt.Errorf("room lock retries must not be negative, got %d", c.RoomLockRetries)
	}
	if c.EventsEnabled && c.EventsTopic == "" {
		return fmt.Errorf("events topic must not be empty when event publishing is enabled")
	}
	return nil
}

func (c *Config) LogConfiguration() {
	c.Log.Info("Configuration loaded",
		"mongo_database", c.MongoDatabaseName,
		"port", c.Port,
		"request_timeout", c.RequestTimeout,
		"room_lock_ttl", c.RoomLockTTL,
		"room_lock_retries", c.RoomLockRetries,
		"events_enabled", c.EventsEnabled,
		"events_topic", c.EventsTopic,
	)
}
