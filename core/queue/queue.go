package queue

import (
	"context"
	"encoding/json"

	"community-calendar/core/config"
	"community-calendar/core/logger"

	"github.com/hibiken/asynq"
)

// Task type names shared between the enqueue side and the worker.
const (
	TypeSubmissionEmail = "submission:email"
)

// SubmissionEmailPayload carries a guest event submission to the mail worker.
type SubmissionEmailPayload struct {
	EventName        string `json:"event_name"`
	SubmitterName    string `json:"submitter_name"`
	SubmitterEmail   string `json:"submitter_email,omitempty"`
	EventLink        string `json:"event_link,omitempty"`
	EventDescription string `json:"event_description"`
}

// Client wraps the asynq producer.
type Client struct {
	inner *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		inner: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// RedisOpt builds the connection options the worker side shares with the
// producer.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func (c *Client) EnqueueSubmissionEmail(ctx context.Context, payload SubmissionEmailPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeSubmissionEmail, data)
	info, err := c.inner.EnqueueContext(ctx, task, asynq.MaxRetry(5))
	if err != nil {
		logger.Error("Queue:EnqueueSubmissionEmail", "error", err)
		return err
	}

	logger.Info("Queue:EnqueueSubmissionEmail", "task_id", info.ID, "queue", info.Queue)
	return nil
}

func (c *Client) Close() error {
	return c.inner.Close()
}
