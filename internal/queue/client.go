// Package queue is the Redis task queue connecting the API's bulk
// upload endpoint to the background worker.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// QueueName is the Redis list holding pending validation tasks.
const QueueName = "mailspectre:tasks"

// Task is one address to validate as part of a bulk job.
type Task struct {
	JobID string `json:"job_id"`
	Email string `json:"email"`
}

var Client *redis.Client

// Init connects to Redis and pings it to ensure it's alive.
func Init(addr string) error {
	Client = redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Enqueue pushes one task onto the queue.
func Enqueue(ctx context.Context, task Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshaling task: %w", err)
	}
	if err := Client.RPush(ctx, QueueName, payload).Err(); err != nil {
		return fmt.Errorf("queueing task: %w", err)
	}
	return nil
}
