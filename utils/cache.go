package utils

import (
	"context"
	"log"
	"time"

	"instaquote/config"

	"github.com/go-redis/redis/v8"
)

var (
	// SessionClient stores wizard sessions.
	SessionClient *redis.Client
	// QueueClient shares the asynq database and is only pinged for health.
	QueueClient *redis.Client
)

func newClient(db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
}

func ping(client *redis.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err()
}

// InitSessionCache initializes the Redis client for session storage.
func InitSessionCache() error {
	SessionClient = newClient(config.AppConfig.RedisSessionDB)
	if err := ping(SessionClient); err != nil {
		log.Printf("Failed to connect to Redis (Session): %v", err)
		return err
	}
	return nil
}

// GetSessionClient returns the session client, creating it on first use.
func GetSessionClient() *redis.Client {
	if SessionClient == nil {
		_ = InitSessionCache()
	}
	return SessionClient
}

// GetQueueClient returns the client for the queue database.
func GetQueueClient() *redis.Client {
	if QueueClient == nil {
		QueueClient = newClient(config.AppConfig.RedisQueueDB)
	}
	return QueueClient
}
