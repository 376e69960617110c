package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"roadsaver_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const (
	historyMaxRetry = 5
	pruneUniqueFor  = time.Minute
)

type Client struct {
	client *asynq.Client
	queue  string
}

// HistoryQueue hands history writes to the worker.
type HistoryQueue interface {
	EnqueueCompletion(ctx context.Context, payload CompletionPayload) error
	EnqueueDecline(ctx context.Context, payload DeclinePayload) error
	EnqueuePrune(ctx context.Context) error
}

var _ HistoryQueue = (*Client)(nil)

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueCompletion queues the history rows of a finished request. A
// request is only queued once.
func (c *Client) EnqueueCompletion(ctx context.Context, payload CompletionPayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewHistoryCompletionTask(payload)
	if err != nil {
		return err
	}

	return c.enqueue(ctx, task,
		asynq.TaskID(TaskHistoryCompletion+":"+payload.RequestID.String()),
		asynq.MaxRetry(historyMaxRetry),
	)
}

// EnqueueDecline queues a declined-employee history row.
func (c *Client) EnqueueDecline(ctx context.Context, payload DeclinePayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewHistoryDeclineTask(payload)
	if err != nil {
		return err
	}

	return c.enqueue(ctx, task,
		asynq.TaskID(TaskHistoryDecline+":"+payload.RequestID.String()+":"+payload.EmployeeName),
		asynq.MaxRetry(historyMaxRetry),
	)
}

// EnqueuePrune queues a history prune; duplicates within a minute collapse.
func (c *Client) EnqueuePrune(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.enqueue(ctx, NewHistoryPruneTask(), asynq.Unique(pruneUniqueFor))
}

func (c *Client) enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) error {
	opts = append(opts, asynq.Queue(c.queue))
	_, err := c.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	return err
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueueName(); queue != "" {
		return queue
	}
	return "default"
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
