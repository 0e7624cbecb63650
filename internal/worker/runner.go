// Package worker consumes bulk validation tasks from the Redis queue,
// runs them through the engine and persists results to Postgres.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"mailspectre/internal/models"
	"mailspectre/internal/queue"
	"mailspectre/internal/store"
	"mailspectre/internal/validator"
)

// Start launches the worker loop. It blocks forever, waiting for tasks.
func Start(engine *validator.Engine) {
	log.Println("👷 Worker started. Waiting for tasks...")
	ctx := context.Background()

	for {
		// Blocking pop: waits until a task arrives.
		popped, err := queue.Client.BLPop(ctx, 0*time.Second, queue.QueueName).Result()
		if err != nil {
			log.Printf("❌ Redis error: %v", err)
			time.Sleep(1 * time.Second)
			continue
		}

		rawJSON := popped[1]
		var task queue.Task
		if err := json.Unmarshal([]byte(rawJSON), &task); err != nil {
			log.Printf("❌ Malformed task: %s", rawJSON)
			continue
		}

		// Bound each validation so one unresponsive domain can't stall
		// the queue.
		valCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		result := engine.Validate(valCtx, task.Email)
		cancel()

		if err := saveResult(ctx, task, result); err != nil {
			log.Printf("❌ Failed to persist result for %s: %v", task.Email, err)
			continue
		}
		log.Printf("✅ Processed: %s (valid=%t, score=%.2f)", result.Email, result.Valid, result.Score)
	}
}

// saveResult writes the validation outcome and bumps the job's progress
// counter in one transaction, flipping the job to completed when the
// last address lands.
func saveResult(ctx context.Context, task queue.Task, result models.ValidationResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	tx, err := store.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO results (job_id, email, valid, score, data)
		VALUES ($1, $2, $3, $4, $5)
	`, task.JobID, result.Email, result.Valid, result.Score, resultJSON)
	if err != nil {
		return fmt.Errorf("inserting result: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE jobs
		SET processed_count = processed_count + 1,
		    status = CASE
		        WHEN processed_count + 1 >= total_count THEN 'completed'
		        ELSE status
		    END,
		    completed_at = CASE
		        WHEN processed_count + 1 >= total_count THEN NOW()
		        ELSE completed_at
		    END
		WHERE id = $1
	`, task.JobID)
	if err != nil {
		return fmt.Errorf("updating job progress: %w", err)
	}

	return tx.Commit(ctx)
}
