package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/launchbase/readiness-api/internal/config"
	"github.com/launchbase/readiness-api/internal/logger"
)

// AssessmentJob is the queue payload: one assessment request for one
// venture.
type AssessmentJob struct {
	VentureID string `json:"venture_id"`
}

// Queue is a durable at-least-once job channel on a redis list.
// Delivery order is FIFO; consumers are not assumed idempotent, which
// is visible in the append-only agent_runs and recommendations tables.
type Queue struct {
	rdb       *goredis.Client
	key       string
	log       *logger.Logger
	popWait   time.Duration
	baseDelay time.Duration
	maxDelay  time.Duration
}

func New(log *logger.Logger) (*Queue, error) {
	redisConfig := config.LoadRedisConfig()
	if redisConfig.Addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        redisConfig.Addr,
		Password:    redisConfig.Password,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Queue{
		rdb:       rdb,
		key:       redisConfig.QueueKey,
		log:       log.With("component", "AssessmentQueue"),
		popWait:   5 * time.Second,
		baseDelay: time.Second,
		maxDelay:  30 * time.Second,
	}, nil
}

func (q *Queue) Enqueue(ctx context.Context, job AssessmentJob) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if err := q.rdb.LPush(ctx, q.key, raw).Err(); err != nil {
		return fmt.Errorf("enqueue assessment job: %w", err)
	}
	return nil
}

// Consume blocks on the queue until ctx is canceled. Transient redis
// failures back off exponentially up to maxDelay and never kill the
// loop. A job whose handler fails is pushed to the dead-letter list
// rather than retried in place.
func (q *Queue) Consume(ctx context.Context, handler func(context.Context, AssessmentJob) error) {
	delay := q.baseDelay

	for {
		select {
		case <-ctx.Done():
			q.log.Info("Queue consumer stopped")
			return
		default:
		}

		res, err := q.rdb.BRPop(ctx, q.popWait, q.key).Result()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				delay = q.baseDelay
				continue
			}
			if ctx.Err() != nil {
				return
			}
			q.log.Warn("Queue connection error, backing off", "error", err, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return
			}
			delay = nextDelay(delay, q.maxDelay)
			continue
		}
		delay = q.baseDelay

		raw := res[1]
		job, err := decodeJob(raw)
		if err != nil {
			q.log.Error("Discarding malformed job payload", "payload", raw, "error", err)
			q.deadLetter(ctx, raw)
			continue
		}

		if err := handler(ctx, job); err != nil {
			q.log.Error("Job handling failed", "venture_id", job.VentureID, "error", err)
			q.deadLetter(ctx, raw)
		}
	}
}

// deadLetter parks a failed payload on <key>:dead for manual recovery.
func (q *Queue) deadLetter(ctx context.Context, raw string) {
	if err := q.rdb.LPush(ctx, q.key+":dead", raw).Err(); err != nil {
		q.log.Error("Dead-letter push failed", "error", err)
	}
}

func (q *Queue) Close() error {
	return q.rdb.Close()
}

// decodeJob validates a raw queue payload. Anything it rejects goes to
// the dead-letter list instead of the handler.
func decodeJob(raw string) (AssessmentJob, error) {
	var job AssessmentJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return AssessmentJob{}, fmt.Errorf("decode job payload: %w", err)
	}
	if job.VentureID == "" {
		return AssessmentJob{}, errors.New("job payload missing venture_id")
	}
	return job, nil
}

func nextDelay(current, max time.Duration) time.Duration {
	next := current * 2
	if next > max {
		return max
	}
	return next
}
