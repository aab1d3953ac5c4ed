package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// TypeCustomerEmail is the asynq task carrying a customer confirmation.
const TypeCustomerEmail = "quote:customer_email"

// Dispatcher delivers customer confirmations, which never block a submission.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg Message, meta Meta) error
}

// InlineDispatcher sends within the request using the retry policy.
type InlineDispatcher struct {
	retrier *Retrier
}

func NewInlineDispatcher(r *Retrier) *InlineDispatcher {
	return &InlineDispatcher{retrier: r}
}

func (d *InlineDispatcher) Dispatch(ctx context.Context, msg Message, meta Meta) error {
	return d.retrier.Send(ctx, msg, meta)
}

// CustomerEmailPayload is the JSON body of a TypeCustomerEmail task.
type CustomerEmailPayload struct {
	Message Message `json:"message"`
	Meta    Meta    `json:"meta"`
}

// NewCustomerEmailTask builds the queued form of a confirmation.
func NewCustomerEmailTask(msg Message, meta Meta) (*asynq.Task, error) {
	b, err := json.Marshal(CustomerEmailPayload{Message: msg, Meta: meta})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCustomerEmail, b, asynq.MaxRetry(3), asynq.Timeout(30*time.Second)), nil
}

// ParseCustomerEmailTask decodes a queued confirmation.
func ParseCustomerEmailTask(t *asynq.Task) (CustomerEmailPayload, error) {
	var p CustomerEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("decode %s payload: %w", TypeCustomerEmail, err)
	}
	return p, nil
}

// Enqueuer is the part of asynq.Client the queue dispatcher needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueDispatcher hands confirmations to the background worker.
type QueueDispatcher struct {
	client Enqueuer
}

func NewQueueDispatcher(client Enqueuer) *QueueDispatcher {
	return &QueueDispatcher{client: client}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, msg Message, meta Meta) error {
	task, err := NewCustomerEmailTask(msg, meta)
	if err != nil {
		return err
	}
	if _, err := d.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue customer email: %w", err)
	}
	return nil
}
