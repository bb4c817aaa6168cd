package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"social-publisher/internal/domain/dto"
	"social-publisher/internal/domain/repositories"
	consts "social-publisher/pkg/constants"

	"github.com/go-redis/redis/v8"
)

// redisClient is the subset of *redis.Client the queue uses.
type redisClient interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisQueue is a FIFO list of publish jobs: LPUSH on enqueue, BRPOP on
// dequeue. Results live under their own keys with a TTL.
type RedisQueue struct {
	rdb       redisClient
	queueKey  string
	resultTTL time.Duration
}

func NewRedisQueue(rdb *redis.Client, resultTTL time.Duration) *RedisQueue {
	return newRedisQueue(rdb, resultTTL)
}

func newRedisQueue(rdb redisClient, resultTTL time.Duration) *RedisQueue {
	return &RedisQueue{
		rdb:       rdb,
		queueKey:  consts.PublishQueue,
		resultTTL: resultTTL,
	}
}

func (q *RedisQueue) Enqueue(ctx context.Context, job dto.PublishJob) error {
	payload, err := SerializeJob(job)
	if err != nil {
		return err
	}
	if err := q.rdb.LPush(ctx, q.queueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to push job %s: %w", job.JobID, err)
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*dto.PublishJob, error) {
	val, err := q.rdb.BRPop(ctx, timeout, q.queueKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("BRPop failed: %w", err)
	}
	// BRPOP answers [key, value].
	if len(val) != 2 {
		return nil, fmt.Errorf("unexpected BRPop reply of %d elements", len(val))
	}
	return DeserializeJob(val[1])
}

func (q *RedisQueue) SaveResult(ctx context.Context, result dto.PublishJobResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to serialize job result: %w", err)
	}
	if err := q.rdb.Set(ctx, resultKey(result.JobID), payload, q.resultTTL).Err(); err != nil {
		return fmt.Errorf("failed to save result of job %s: %w", result.JobID, err)
	}
	return nil
}

func (q *RedisQueue) Result(ctx context.Context, jobID string) (*dto.PublishJobResult, error) {
	val, err := q.rdb.Get(ctx, resultKey(jobID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read result of job %s: %w", jobID, err)
	}
	return deserializeResult(val)
}

func resultKey(jobID string) string {
	return consts.PublishResultPrefix + jobID
}

var _ repositories.JobQueue = (*RedisQueue)(nil)
