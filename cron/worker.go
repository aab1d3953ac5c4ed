package cron

import (
	"context"
	"fmt"
	"time"

	"instaquote/config"
	"instaquote/services/notification"
	"instaquote/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt is the asynq connection for the mail queue database.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitCustomerEmailWorker starts the queued confirmation worker in the
// background. The caller owns shutdown through the returned server.
func InitCustomerEmailWorker(ctx context.Context, retrier *notification.Retrier, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeCustomerEmail, HandleCustomerEmailTask(retrier, logger))

	go monitorRedisConnection(ctx, logger)

	// Start async worker with retry logic
	go func() {
		logger.Info("customer email worker starting")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Error("customer email worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err),
			)
			if attempts == maxAttempts {
				logger.Error("customer email worker gave up; confirmations stay queued")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempts*2) * time.Second):
			}
		}
	}()
	return srv
}

// HandleCustomerEmailTask delivers one queued confirmation with the mail
// retry policy. Permanent failures are not retried by the queue.
func HandleCustomerEmailTask(retrier *notification.Retrier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := notification.ParseCustomerEmailTask(task)
		if err != nil {
			logger.Error("invalid customer email payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		if err := retrier.Send(ctx, p.Message, p.Meta); err != nil {
			if !notification.Retryable(err) {
				return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
			}
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings the queue database to surface outages at runtime.
func monitorRedisConnection(ctx context.Context, logger *zap.Logger) {
	client := utils.GetQueueClient()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("queue redis connection lost", zap.Error(err))
			}
		}
	}
}
