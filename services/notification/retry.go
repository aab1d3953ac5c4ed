package notification

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultRetryDelays are the waits before the second and third attempts.
var DefaultRetryDelays = []time.Duration{300 * time.Millisecond, 900 * time.Millisecond}

// Retrier sends with a bounded number of retries on transient failures.
type Retrier struct {
	mailer Mailer
	delays []time.Duration
	logger *zap.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewRetrier(mailer Mailer, logger *zap.Logger) *Retrier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retrier{
		mailer: mailer,
		delays: DefaultRetryDelays,
		logger: logger,
		sleep:  sleepContext,
	}
}

// WithDelays replaces the retry schedule; attempts are len(delays)+1.
func (r *Retrier) WithDelays(delays []time.Duration) *Retrier {
	r.delays = delays
	return r
}

// WithSleep replaces the wait between attempts.
func (r *Retrier) WithSleep(sleep func(ctx context.Context, d time.Duration) error) *Retrier {
	r.sleep = sleep
	return r
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Send delivers msg, retrying transient failures. The last error is returned
// once attempts run out or a permanent failure occurs.
func (r *Retrier) Send(ctx context.Context, msg Message, meta Meta) error {
	var lastErr error
	for attempt := 0; attempt <= len(r.delays); attempt++ {
		if attempt > 0 {
			if err := r.sleep(ctx, r.delays[attempt-1]); err != nil {
				return err
			}
		}

		receipt, err := r.mailer.Send(ctx, msg)
		if err == nil {
			r.logger.Info("quote_email_sent",
				zap.String("tenant", meta.Tenant),
				zap.String("host", meta.Host),
				zap.String("ip", meta.IP),
				zap.String("recipientType", meta.RecipientType),
				zap.Int("attempt", attempt+1),
				zap.Int("statusCode", receipt.StatusCode),
				zap.String("messageId", receipt.MessageID),
			)
			return nil
		}

		lastErr = err
		retryable := Retryable(err)
		r.logger.Error("quote_email_failed",
			zap.String("tenant", meta.Tenant),
			zap.String("host", meta.Host),
			zap.String("ip", meta.IP),
			zap.String("recipientType", meta.RecipientType),
			zap.Int("attempt", attempt+1),
			zap.Int("statusCode", statusOf(err)),
			zap.Bool("transient", retryable),
			zap.Error(err),
		)
		if !retryable {
			break
		}
	}
	return lastErr
}
