package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"marketplace/pkg/logger"
)

const emailQueueKey = "email:queue"

type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// EmailQueueRepository — очередь исходящих писем в Redis.
// Постановка в очередь best-effort: ошибка логируется и не влияет
// на основную операцию.
type EmailQueueRepository interface {
	Enqueue(ctx context.Context, job *EmailJob) error
	// Dequeue блокируется до появления задания или истечения timeout.
	// Возвращает nil, nil по таймауту.
	Dequeue(ctx context.Context, timeout time.Duration) (*EmailJob, error)
}

type emailQueueRepository struct {
	redis *redis.Client
	log   logger.Logger
}

func NewEmailQueueRepository(redis *redis.Client, log logger.Logger) EmailQueueRepository {
	return &emailQueueRepository{redis: redis, log: log}
}

func (r *emailQueueRepository) Enqueue(ctx context.Context, job *EmailJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}

	if err := r.redis.LPush(ctx, emailQueueKey, payload).Err(); err != nil {
		r.log.Error("Failed to enqueue email job", "error", err, "to", job.To)
		return err
	}
	return nil
}

func (r *emailQueueRepository) Dequeue(ctx context.Context, timeout time.Duration) (*EmailJob, error) {
	res, err := r.redis.BRPop(ctx, timeout, emailQueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	// BRPop возвращает пару [key, value]
	job := &EmailJob{}
	if err := json.Unmarshal([]byte(res[1]), job); err != nil {
		r.log.Error("Failed to decode email job", "error", err)
		return nil, err
	}
	return job, nil
}
